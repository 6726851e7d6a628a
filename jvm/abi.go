package jvm

import "strings"

// Naming conventions the generated binaries agree on. Changing any of
// these breaks separately compiled callers.
const (
	// ConstructorName is the binary name of every constructor.
	ConstructorName = "<init>"

	// ImplSuffix is appended to an interface's internal name to form
	// the holder class that carries its default method bodies.
	ImplSuffix = "$Impl"

	// DefaultParamsSuffix is appended to a method name to form the
	// overload that accepts default-argument bitmasks.
	DefaultParamsSuffix = "$default"
)

// ImplHolder returns the default-implementation holder type for an
// interface type.
func ImplHolder(iface Type) Type {
	return ObjectType(iface.InternalName() + ImplSuffix)
}

var refCellNames = map[Sort]string{
	SortBoolean: "tove/runtime/ref/BooleanRef",
	SortChar:    "tove/runtime/ref/CharRef",
	SortByte:    "tove/runtime/ref/ByteRef",
	SortShort:   "tove/runtime/ref/ShortRef",
	SortInt:     "tove/runtime/ref/IntRef",
	SortFloat:   "tove/runtime/ref/FloatRef",
	SortLong:    "tove/runtime/ref/LongRef",
	SortDouble:  "tove/runtime/ref/DoubleRef",
}

// RefCellType returns the heap cell type used to share a mutable
// captured variable of the given erased type across closure bodies.
func RefCellType(t Type) Type {
	if name, ok := refCellNames[t.Sort()]; ok {
		return ObjectType(name)
	}
	return ObjectType("tove/runtime/ref/ObjectRef")
}

// PackageFacade returns the internal name of the facade class holding
// top-level declarations of a package, e.g. "tove/text" ->
// "tove/text/TextPackage".
func PackageFacade(path string) string {
	if path == "" {
		return "DefaultPackage"
	}
	last := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		last = path[i+1:]
	}
	return path + "/" + upperFirst(last) + "Package"
}

// PackagePart returns the internal name of the per-file part class a
// top-level declaration compiles into when the call site lives in the
// same module. file is the source file basename without extension.
func PackagePart(path, file string) string {
	return PackageFacade(path) + "$" + sanitizeIdent(file)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

func sanitizeIdent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
