package jvm

import "strings"

// ParamKind tags why a parameter exists in a generated method
// signature. The emission layer uses the kinds to locate synthetic
// parameters without relying on names, which the binary does not keep.
type ParamKind uint8

const (
	ParamValue ParamKind = iota
	ParamThis
	ParamReceiver
	ParamOuter
	ParamEnumName
	ParamEnumOrdinal
	ParamCapturedLocal
	ParamSuperCallArg
	ParamDefaultMask
)

var paramKindNames = [...]string{
	ParamValue:         "value",
	ParamThis:          "this",
	ParamReceiver:      "receiver",
	ParamOuter:         "outer",
	ParamEnumName:      "enum-name",
	ParamEnumOrdinal:   "enum-ordinal",
	ParamCapturedLocal: "captured-local",
	ParamSuperCallArg:  "super-call-arg",
	ParamDefaultMask:   "default-mask",
}

func (k ParamKind) String() string {
	if int(k) < len(paramKindNames) {
		return paramKindNames[k]
	}
	return "unknown"
}

// MethodParam is one parameter of a generated method signature.
type MethodParam struct {
	Kind ParamKind
	Type Type
}

// MethodSignature is the complete binary signature of one generated
// method: mangled name, ordered parameters, return type, and the
// generic signature string ("" when the method needs none).
type MethodSignature struct {
	Name    string
	Params  []MethodParam
	Ret     Type
	Generic string
}

// Descriptor returns the erased method descriptor,
// "(<params>)<return>".
func (s MethodSignature) Descriptor() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range s.Params {
		b.WriteString(p.Type.Descriptor())
	}
	b.WriteByte(')')
	b.WriteString(s.Ret.Descriptor())
	return b.String()
}

// ValueParameters returns only the declared-value parameters, in
// order.
func (s MethodSignature) ValueParameters() []MethodParam {
	var out []MethodParam
	for _, p := range s.Params {
		if p.Kind == ParamValue {
			out = append(out, p)
		}
	}
	return out
}

// Wildcard is the use-site projection marker in a generic signature.
type Wildcard uint8

const (
	WildcardInvariant Wildcard = iota // no marker
	WildcardExtends                   // '+'
	WildcardSuper                     // '-'
)

// SignatureVisitor is the capability the type mapper drives while
// erasing a type or assembling a method. Implementations may build an
// erased descriptor, a generic signature, or both; the mapper never
// inspects their state. Calls arrive in strict document order:
// formal type parameters, then parameters, then the return type.
type SignatureVisitor interface {
	WriteFormalTypeParameter(name string)
	WriteClassBound()
	WriteClassBoundEnd()
	WriteInterfaceBound()
	WriteInterfaceBoundEnd()

	WriteParametersStart()
	WriteParameterType(kind ParamKind)
	WriteParameterTypeEnd()
	WriteReturnType()
	WriteReturnTypeEnd()

	WriteType(t Type)
	WriteArrayType()
	WriteArrayEnd()
	WriteClassBegin(t Type)
	WriteTypeArgument(w Wildcard)
	WriteTypeArgumentEnd()
	WriteClassEnd()
	WriteTypeVariable(name string, erased Type)
}

// WriterMode selects what a SignatureWriter assembles.
type WriterMode uint8

const (
	// MethodMode assembles a full method signature.
	MethodMode WriterMode = iota
	// TypeMode assembles a single type signature (field signatures).
	TypeMode
)

// SignatureWriter is the standard SignatureVisitor: it accumulates the
// erased parameter/return types and, in parallel, the generic
// signature string. One writer serves exactly one Make* call and is
// not reused.
type SignatureWriter struct {
	mode WriterMode

	gen         strings.Builder
	formalsOpen bool
	hasGenerics bool

	// class-type nesting for '<'/'>' placement
	classArgs []bool
	// generic type-argument depth; erased collection ignores
	// everything below the top level
	argDepth int

	params  []MethodParam
	curKind ParamKind
	ret     Type

	slot      Type
	slotSet   bool
	arrayDims int
}

// NewSignatureWriter returns a writer for the given mode.
func NewSignatureWriter(mode WriterMode) *SignatureWriter {
	return &SignatureWriter{mode: mode}
}

func (w *SignatureWriter) closeFormals() {
	if w.formalsOpen {
		w.gen.WriteByte('>')
		w.formalsOpen = false
	}
}

func (w *SignatureWriter) resetSlot() {
	w.slot = Type{}
	w.slotSet = false
	w.arrayDims = 0
}

func (w *SignatureWriter) recordErased(t Type) {
	if w.argDepth > 0 || w.slotSet {
		return
	}
	for i := 0; i < w.arrayDims; i++ {
		t = ArrayOf(t)
	}
	w.slot = t
	w.slotSet = true
}

func (w *SignatureWriter) WriteFormalTypeParameter(name string) {
	if !w.formalsOpen {
		w.gen.WriteByte('<')
		w.formalsOpen = true
	}
	w.gen.WriteString(name)
	w.hasGenerics = true
}

func (w *SignatureWriter) WriteClassBound()        { w.gen.WriteByte(':') }
func (w *SignatureWriter) WriteClassBoundEnd()     {}
func (w *SignatureWriter) WriteInterfaceBound()    { w.gen.WriteByte(':') }
func (w *SignatureWriter) WriteInterfaceBoundEnd() {}

func (w *SignatureWriter) WriteParametersStart() {
	w.closeFormals()
	if w.mode == MethodMode {
		w.gen.WriteByte('(')
	}
}

func (w *SignatureWriter) WriteParameterType(kind ParamKind) {
	w.curKind = kind
	w.resetSlot()
}

func (w *SignatureWriter) WriteParameterTypeEnd() {
	w.params = append(w.params, MethodParam{Kind: w.curKind, Type: w.slot})
}

func (w *SignatureWriter) WriteReturnType() {
	if w.mode == MethodMode {
		w.gen.WriteByte(')')
	}
	w.resetSlot()
}

func (w *SignatureWriter) WriteReturnTypeEnd() {
	w.ret = w.slot
}

func (w *SignatureWriter) WriteType(t Type) {
	w.gen.WriteString(t.Descriptor())
	w.recordErased(t)
}

func (w *SignatureWriter) WriteArrayType() {
	w.gen.WriteByte('[')
	if w.argDepth == 0 {
		w.arrayDims++
	}
}

func (w *SignatureWriter) WriteArrayEnd() {}

func (w *SignatureWriter) WriteClassBegin(t Type) {
	w.gen.WriteByte('L')
	w.gen.WriteString(t.InternalName())
	w.recordErased(t)
	w.classArgs = append(w.classArgs, false)
}

func (w *SignatureWriter) WriteTypeArgument(wc Wildcard) {
	if n := len(w.classArgs); n > 0 && !w.classArgs[n-1] {
		w.gen.WriteByte('<')
		w.classArgs[n-1] = true
	}
	switch wc {
	case WildcardExtends:
		w.gen.WriteByte('+')
	case WildcardSuper:
		w.gen.WriteByte('-')
	}
	w.argDepth++
	w.hasGenerics = true
}

func (w *SignatureWriter) WriteTypeArgumentEnd() {
	w.argDepth--
}

func (w *SignatureWriter) WriteClassEnd() {
	n := len(w.classArgs)
	if w.classArgs[n-1] {
		w.gen.WriteByte('>')
	}
	w.classArgs = w.classArgs[:n-1]
	w.gen.WriteByte(';')
}

func (w *SignatureWriter) WriteTypeVariable(name string, erased Type) {
	w.gen.WriteByte('T')
	w.gen.WriteString(name)
	w.gen.WriteByte(';')
	w.hasGenerics = true
	w.recordErased(erased)
}

// MakeMethod assembles the method signature under the given binary
// name. The generic string is attached only when the signature
// actually carries generic information.
func (w *SignatureWriter) MakeMethod(name string) MethodSignature {
	sig := MethodSignature{Name: name, Params: w.params, Ret: w.ret}
	if w.hasGenerics {
		sig.Generic = w.gen.String()
	}
	return sig
}

// MakeTypeSignature returns the generic signature of a single type, or
// "" when the type carries no generic information and needs none.
func (w *SignatureWriter) MakeTypeSignature() string {
	if !w.hasGenerics {
		return ""
	}
	return w.gen.String()
}
