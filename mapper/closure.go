package mapper

import (
	"github.com/tovelang/tove/jvm"
	"github.com/tovelang/tove/sem"
)

// writeConstructorParams prepends the synthetic parameters that thread
// captured state through a constructor. The order is a strict ABI
// contract matched positionally by the expression-generation side:
// outer instance, captured extension receiver, enum name and ordinal,
// captured variables in capture order, forwarded super-call arguments.
func (m *Mapper) writeConstructorParams(ctor *sem.Function, sv jvm.SignatureVisitor) error {
	cls, ok := ctor.Container.(*sem.Class)
	if !ok {
		return unsupportedf("constructor of %s outside a class", ctor.Name)
	}
	closure := cls.Closure

	if closure != nil && closure.CaptureThis != nil {
		sv.WriteParameterType(jvm.ParamOuter)
		if _, err := m.mapType(closure.CaptureThis.DefaultType(), sv, ModeValue, sem.Invariant, false); err != nil {
			return err
		}
		sv.WriteParameterTypeEnd()
	}

	if closure != nil && closure.CaptureReceiver != nil {
		sv.WriteParameterType(jvm.ParamReceiver)
		if _, err := m.mapType(closure.CaptureReceiver, sv, ModeValue, sem.Invariant, false); err != nil {
			return err
		}
		sv.WriteParameterTypeEnd()
	}

	if cls.IsEnumLike() {
		sv.WriteParameterType(jvm.ParamEnumName)
		sv.WriteType(jvm.StringClass)
		sv.WriteParameterTypeEnd()
		sv.WriteParameterType(jvm.ParamEnumOrdinal)
		sv.WriteType(jvm.IntType)
		sv.WriteParameterTypeEnd()
	}

	if closure == nil {
		return nil
	}

	for _, capture := range closure.Captures {
		t, err := m.capturedParamType(capture)
		if err != nil {
			return err
		}
		sv.WriteParameterType(jvm.ParamCapturedLocal)
		sv.WriteType(t)
		sv.WriteParameterTypeEnd()
	}

	// Anonymous classes forward the already-evaluated super-call
	// arguments positionally so call sites never re-evaluate
	// side-effecting expressions.
	if closure.SuperCall != nil && cls.Anonymous {
		superSig, err := m.MapSignature(closure.SuperCall)
		if err != nil {
			return err
		}
		for _, p := range superSig.ValueParameters() {
			sv.WriteParameterType(jvm.ParamSuperCallArg)
			sv.WriteType(p.Type)
			sv.WriteParameterTypeEnd()
		}
	}
	return nil
}

// capturedParamType is the constructor parameter type of one captured
// entity: the closure's own class for captured local functions, the
// shared heap cell for variables mutated inside nested closures, the
// plain mapped type otherwise.
func (m *Mapper) capturedParamType(c sem.Capture) (jvm.Type, error) {
	switch {
	case c.LocalFun != nil:
		return m.closureClassType(c.LocalFun)
	case c.Variable != nil:
		if t, shared, err := m.SharedVarType(c.Variable); err != nil {
			return jvm.Type{}, err
		} else if shared {
			return t, nil
		}
		return m.MapType(c.Variable.Type)
	default:
		return jvm.Type{}, inconsistentf("capture record with no variable and no local function")
	}
}

// SharedVarType returns the heap cell type a captured variable lives
// in, and whether the variable needs one. The emission layer uses the
// same answer when loading and storing the capture.
func (m *Mapper) SharedVarType(v *sem.Variable) (jvm.Type, bool, error) {
	if !v.SharedInClosure {
		return jvm.Type{}, false, nil
	}
	mapped, err := m.MapType(v.Type)
	if err != nil {
		return jvm.Type{}, false, err
	}
	return jvm.RefCellType(mapped), true, nil
}
