package mapper

import (
	"github.com/tovelang/tove/jvm"
	"github.com/tovelang/tove/sem"
)

// OwnerKind selects which owner a signature is synthesized for.
type OwnerKind uint8

const (
	// OwnerImplementation is the normal case: the member's own class.
	OwnerImplementation OwnerKind = iota
	// OwnerImplHolder synthesizes for the interface
	// default-implementation holder: the body becomes a static method
	// with an explicit this parameter.
	OwnerImplHolder
)

// MapSignature synthesizes the binary signature of a callable for its
// own implementation owner.
func (m *Mapper) MapSignature(f *sem.Function) (jvm.MethodSignature, error) {
	return m.MapSignatureAs(f, OwnerImplementation)
}

// MapSignatureAs synthesizes the full binary signature: formal type
// parameters, the fixed-order parameter list including synthetic
// parameters, the return type, and the mangled name.
func (m *Mapper) MapSignatureAs(f *sem.Function, kind OwnerKind) (jvm.MethodSignature, error) {
	sw := jvm.NewSignatureWriter(jvm.MethodMode)

	if f.IsConstructor {
		sw.WriteParametersStart()
		if err := m.writeConstructorParams(f, sw); err != nil {
			return jvm.MethodSignature{}, err
		}
		for _, p := range f.Params {
			if err := m.writeParameter(sw, p.Type); err != nil {
				return jvm.MethodSignature{}, err
			}
		}
		writeVoidReturn(sw)
		return sw.MakeMethod(jvm.ConstructorName), nil
	}

	typeParams := f.TypeParams
	if f.Accessor != nil {
		typeParams = f.Accessor.TypeParams
	}
	if err := m.writeFormalTypeParameters(typeParams, sw); err != nil {
		return jvm.MethodSignature{}, err
	}

	sw.WriteParametersStart()
	if err := m.writeThisIfNeeded(f, kind, sw); err != nil {
		return jvm.MethodSignature{}, err
	}
	if f.Receiver != nil {
		sw.WriteParameterType(jvm.ParamReceiver)
		if _, err := m.mapType(f.Receiver, sw, ModeValue, sem.Invariant, false); err != nil {
			return jvm.MethodSignature{}, err
		}
		sw.WriteParameterTypeEnd()
	}
	for _, p := range f.Params {
		if err := m.writeParameter(sw, p.Type); err != nil {
			return jvm.MethodSignature{}, err
		}
	}

	sw.WriteReturnType()
	if m.forceBoxedReturnType(f) {
		// ModeTypeParameter boxes the primitive for us.
		if _, err := m.mapType(f.ReturnType, sw, ModeTypeParameter, sem.Invariant, false); err != nil {
			return jvm.MethodSignature{}, err
		}
	} else if _, err := m.MapReturnType(f, sw); err != nil {
		return jvm.MethodSignature{}, err
	}
	sw.WriteReturnTypeEnd()

	return sw.MakeMethod(m.functionName(f)), nil
}

// MapDefaultMethod synthesizes the $default overload of a function
// with default-valued parameters: the original signature plus one
// trailing int bitmask per 32 value parameters, and a leading
// dispatch-owner receiver unless the method is already static.
func (m *Mapper) MapDefaultMethod(f *sem.Function, kind OwnerKind, insideModule bool) (jvm.MethodSignature, error) {
	sig, err := m.MapSignatureAs(f, kind)
	if err != nil {
		return jvm.MethodSignature{}, err
	}
	owner, err := m.MapOwner(f, insideModule)
	if err != nil {
		return jvm.MethodSignature{}, err
	}

	isConstructor := sig.Name == jvm.ConstructorName

	params := make([]jvm.MethodParam, 0, len(sig.Params)+2)
	if !m.staticDispatch(f, kind) && !isConstructor {
		params = append(params, jvm.MethodParam{Kind: jvm.ParamThis, Type: owner})
	}
	params = append(params, sig.Params...)

	masks := (len(f.Params) + 31) / 32
	if masks == 0 {
		masks = 1
	}
	for i := 0; i < masks; i++ {
		params = append(params, jvm.MethodParam{Kind: jvm.ParamDefaultMask, Type: jvm.IntType})
	}

	name := jvm.ConstructorName
	if !isConstructor {
		name = sig.Name + jvm.DefaultParamsSuffix
	}
	return jvm.MethodSignature{Name: name, Params: params, Ret: sig.Ret}, nil
}

// staticDispatch reports whether the generated method is already
// static, in which case the $default overload needs no extra receiver.
func (m *Mapper) staticDispatch(f *sem.Function, kind OwnerKind) bool {
	if kind == OwnerImplHolder || f.SyntheticAccessor {
		return true
	}
	switch f.Container.(type) {
	case *sem.Package, *sem.Script:
		return !f.IsLocalNamed()
	}
	return false
}

// MapScriptSignature synthesizes the constructor of a script class:
// one parameter per imported script's class, then the script's own
// value parameters.
func (m *Mapper) MapScriptSignature(script *sem.Script, imported []*sem.Script) (jvm.MethodSignature, error) {
	sw := jvm.NewSignatureWriter(jvm.MethodMode)
	sw.WriteParametersStart()

	for _, imp := range imported {
		if imp.Class == nil {
			return jvm.MethodSignature{}, inconsistentf("imported script %s has no generated class", imp.Name)
		}
		sw.WriteParameterType(jvm.ParamValue)
		if _, err := m.mapType(imp.Class.DefaultType(), sw, ModeValue, sem.Invariant, false); err != nil {
			return jvm.MethodSignature{}, err
		}
		sw.WriteParameterTypeEnd()
	}
	for _, p := range script.Params {
		if err := m.writeParameter(sw, p.Type); err != nil {
			return jvm.MethodSignature{}, err
		}
	}

	writeVoidReturn(sw)
	return sw.MakeMethod(jvm.ConstructorName), nil
}

func (m *Mapper) writeParameter(sw jvm.SignatureVisitor, t *sem.Type) error {
	sw.WriteParameterType(jvm.ParamValue)
	if _, err := m.mapType(t, sw, ModeValue, sem.Invariant, false); err != nil {
		return err
	}
	sw.WriteParameterTypeEnd()
	return nil
}

func writeVoidReturn(sw jvm.SignatureVisitor) {
	sw.WriteReturnType()
	sw.WriteType(jvm.VoidType)
	sw.WriteReturnTypeEnd()
}

// writeThisIfNeeded prepends the implicit receiver parameter: the
// interface type when synthesizing for a default-implementation
// holder, or the owning class when the callable is a synthesized
// accessor for an instance member.
func (m *Mapper) writeThisIfNeeded(f *sem.Function, kind OwnerKind, sw jvm.SignatureVisitor) error {
	if kind == OwnerImplHolder {
		cls, ok := f.Container.(*sem.Class)
		if !ok {
			return unsupportedf("default-implementation owner for non-member %s", f.Name)
		}
		t, err := m.MapClass(cls)
		if err != nil {
			return err
		}
		sw.WriteParameterType(jvm.ParamThis)
		sw.WriteType(t)
		sw.WriteParameterTypeEnd()
		return nil
	}

	if f.SyntheticAccessor {
		if cls, ok := f.Container.(*sem.Class); ok {
			sw.WriteParameterType(jvm.ParamThis)
			if _, err := m.mapType(cls.DefaultType(), sw, ModeValue, sem.Invariant, false); err != nil {
				return err
			}
			sw.WriteParameterTypeEnd()
		}
	}
	return nil
}

func (m *Mapper) writeFormalTypeParameters(params []*sem.TypeParam, sw jvm.SignatureVisitor) error {
	for _, p := range params {
		if err := m.writeFormalTypeParameter(p, sw); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mapper) writeFormalTypeParameter(param *sem.TypeParam, sw jvm.SignatureVisitor) error {
	if param.Special {
		// Unrepresentable compiler-synthesized name. Partial analysis
		// recovers by omitting the parameter; full codegen must not.
		if m.lenient {
			return nil
		}
		return inconsistentf("type parameter without representable name in strict mode")
	}

	sw.WriteFormalTypeParameter(param.Name)

	sw.WriteClassBound()
	for _, bound := range param.UpperBounds {
		if cls, ok := bound.Classifier.(*sem.Class); ok && !cls.IsInterface() {
			if _, err := m.mapType(bound, sw, ModeTypeParameter, sem.Invariant, false); err != nil {
				return err
			}
			break
		}
	}
	sw.WriteClassBoundEnd()

	for _, bound := range param.UpperBounds {
		switch cl := bound.Classifier.(type) {
		case *sem.Class:
			if !cl.IsInterface() {
				continue
			}
		case *sem.TypeParam:
			// type-parameter bounds are written as interface bounds
		default:
			return unsupportedf("unknown classifier in upper bound of %s", param.Name)
		}
		sw.WriteInterfaceBound()
		if _, err := m.mapType(bound, sw, ModeTypeParameter, sem.Invariant, false); err != nil {
			return err
		}
		sw.WriteInterfaceBoundEnd()
	}
	return nil
}

// forceBoxedReturnType reports whether the generated method must widen
// a primitive return type to its boxed form: required whenever any
// transitively overridden declaration returns a non-primitive, since
// the verifier rejects narrowing a return type across an override.
func (m *Mapper) forceBoxedReturnType(f *sem.Function) bool {
	if !m.isPrimitiveValue(f.ReturnType) {
		return false
	}
	for _, o := range allOverridden(f) {
		if !m.isPrimitiveValue(o.ReturnType) {
			return true
		}
	}
	return false
}

// isPrimitiveValue reports whether a type erases to a raw primitive in
// value position. Nullable builtins box, so they report false.
func (m *Mapper) isPrimitiveValue(t *sem.Type) bool {
	if t == nil {
		return false
	}
	cls, ok := t.Classifier.(*sem.Class)
	if !ok {
		return false
	}
	known, hit := m.known.Lookup(cls.Name, t.Nullable)
	return hit && known.Sort() != jvm.SortVoid && known.IsPrimitive()
}

// allOverridden collects every declaration f transitively overrides.
// The visited set keeps diamond hierarchies (and malformed cycles)
// from looping.
func allOverridden(f *sem.Function) []*sem.Function {
	var out []*sem.Function
	seen := map[*sem.Function]bool{f: true}
	stack := append([]*sem.Function(nil), f.Overridden...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		stack = append(stack, cur.Overridden...)
	}
	return out
}

// functionName mangles the binary method name. An explicit platform
// name wins unconditionally; accessors use the get/set prefix scheme
// (except annotation members, which keep the property name); local and
// anonymous functions compile to the conventional closure entry point.
func (m *Mapper) functionName(f *sem.Function) string {
	if f.PlatformName != "" {
		return f.PlatformName
	}
	if f.Accessor != nil {
		if cls, ok := f.Container.(*sem.Class); ok && cls.Kind == sem.KindAnnotation {
			return f.Accessor.PropertyName
		}
		if f.Accessor.Getter {
			return getterName(f.Accessor.PropertyName)
		}
		return setterName(f.Accessor.PropertyName)
	}
	if f.IsLocalNamed() || f.Anonymous {
		return "invoke"
	}
	return f.Name
}

func getterName(property string) string { return "get" + capitalize(property) }
func setterName(property string) string { return "set" + capitalize(property) }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
