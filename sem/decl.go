package sem

// Decl is a declaration that can contain callables: a package scope, a
// script scope, a class, or (for local functions) another function.
type Decl interface {
	isDecl()
}

func (*Package) isDecl()  {}
func (*Script) isDecl()   {}
func (*Class) isDecl()    {}
func (*Function) isDecl() {}

// Package is the top-level scope of a source package.
type Package struct {
	// Path is the internal package path, slash separated ("" for the
	// default package).
	Path string
}

// Script is the scope of a script block. Scripts compile to a
// generated class supplied by upstream analysis.
type Script struct {
	Name string

	// Class is the generated class the script compiles into.
	Class *Class

	// Params are the script's own value parameters.
	Params []*ValueParam
}

// Visibility of a declaration.
type Visibility uint8

const (
	Public Visibility = iota
	Internal
	Protected
	Private
)

// ValueParam is a declared value parameter.
type ValueParam struct {
	Name string
	Type *Type

	// HasDefault marks parameters with a default argument; they are
	// tracked by the default-overload bitmask.
	HasDefault bool
}

// Accessor carries the property information of a compiler-generated
// property accessor function.
type Accessor struct {
	PropertyName string
	Getter       bool

	// TypeParams are the property's formal type parameters; accessors
	// write these instead of their own (they have none).
	TypeParams []*TypeParam
}

// Function is a resolved callable: a function, a constructor, or a
// property accessor. Read-only input owned by the upstream resolver.
type Function struct {
	Name string

	// PlatformName is an explicit binary-name override from
	// annotation, "" when absent. It wins over every mangling rule.
	PlatformName string

	// Container is the enclosing declaration: a *Class for members
	// and constructors, *Package or *Script for top-level callables,
	// or a *Function for local functions.
	Container Decl

	IsConstructor bool

	TypeParams []*TypeParam
	Params     []*ValueParam
	ReturnType *Type

	// Receiver is the extension receiver type, nil if none.
	Receiver *Type

	Visibility Visibility

	// Overridden lists the immediately overridden declarations, in
	// the order the resolver stored them. The first entry is the
	// deterministic tie-break when walking to the base declaration.
	Overridden []*Function

	// FakeOverride marks members present in a class only through
	// inheritance, without a declaration of their own.
	FakeOverride bool

	// Accessor is non-nil for property accessors.
	Accessor *Accessor

	// SyntheticAccessor marks compiler-synthesized visibility-bridge
	// accessors, which dispatch statically.
	SyntheticAccessor bool

	// Anonymous marks lambda literals.
	Anonymous bool

	// ClosureClass is the generated class of a local or anonymous
	// function, supplied by upstream closure analysis.
	ClosureClass *Class

	// SourceFile is the basename (without extension) of the file
	// declaring a top-level callable; it selects the package part
	// class for same-module calls.
	SourceFile string
}

// IsLocalNamed reports whether f is a named function declared inside
// another function. Such functions compile to their own closure class
// and dispatch virtually through its conventional entry point.
func (f *Function) IsLocalNamed() bool {
	if f.Anonymous || f.Name == "" {
		return false
	}
	_, ok := f.Container.(*Function)
	return ok
}

// HasDefaults reports whether any value parameter declares a default
// argument, requiring the $default overload.
func (f *Function) HasDefaults() bool {
	for _, p := range f.Params {
		if p.HasDefault {
			return true
		}
	}
	return false
}
