package mapper

import (
	"github.com/tovelang/tove/jvm"
	"github.com/tovelang/tove/sem"
)

// InvokeKind is the dispatch opcode family a call site must use.
type InvokeKind uint8

const (
	InvokeVirtual InvokeKind = iota
	InvokeStatic
	InvokeInterface
	InvokeSpecial
)

var invokeKindNames = [...]string{
	InvokeVirtual:   "invokevirtual",
	InvokeStatic:    "invokestatic",
	InvokeInterface: "invokeinterface",
	InvokeSpecial:   "invokespecial",
}

func (k InvokeKind) String() string {
	if int(k) < len(invokeKindNames) {
		return invokeKindNames[k]
	}
	return "unknown"
}

// CallContext carries the call-site facts the resolver needs beyond
// the callee itself.
type CallContext struct {
	// InsideModule reports whether the call site is compiled in the
	// same module as the callee, selecting the package part class
	// over the facade for top-level callees.
	InsideModule bool
}

// CallableMethod is the complete call-site mapping handed to the
// instruction emitter: owner, the two auxiliary owners for
// default-implementation bridging and default-parameter overloads, the
// signature, the dispatch kind, and the optional receiver/callee
// types. Created fresh per call site and never mutated afterwards.
type CallableMethod struct {
	Owner jvm.Type

	// OwnerForDefaultImpl hosts the method body when the callee is an
	// interface default method.
	OwnerForDefaultImpl jvm.Type

	// OwnerForDefaultParam hosts the $default overload.
	OwnerForDefaultParam jvm.Type

	Sig    jvm.MethodSignature
	Invoke InvokeKind

	// ThisType is the receiver class, nil for static and constructor
	// dispatch.
	ThisType *jvm.Type

	// ReceiverType is the extension receiver, nil if the callee has
	// none.
	ReceiverType *jvm.Type

	// CalleeType is set only for local named closures: the closure
	// object the emitter loads before invoking.
	CalleeType *jvm.Type
}

// MapToCallableMethod resolves how a call site invokes f: which owner
// class, which dispatch kind, and which auxiliary owners. superCall
// marks explicit super-qualified calls.
func (m *Mapper) MapToCallableMethod(f *sem.Function, superCall bool, ctx CallContext) (*CallableMethod, error) {
	fn, err := unwrapFakeOverride(f)
	if err != nil {
		return nil, err
	}

	var (
		sig        jvm.MethodSignature
		owner      jvm.Type
		ownerImpl  jvm.Type
		ownerParam jvm.Type
		invoke     InvokeKind
		thisType   *jvm.Type
	)

	if cls, isMember := f.Container.(*sem.Class); isMember && !f.IsConstructor {
		declFn, err := m.findAnyDeclaration(fn)
		if err != nil {
			return nil, err
		}
		declOwner, ok := declFn.Container.(*sem.Class)
		if !ok {
			return nil, unsupportedf("declaration of member %s is not class-contained", fn.Name)
		}

		currentIsInterface := cls.IsInterface()
		originalIsInterface := declOwner.IsInterface()
		isInterface := currentIsInterface && originalIsInterface

		// Both auxiliary owners come from the base declaration's
		// class so default-overload resolution is stable across the
		// whole override chain.
		base, err := m.findBaseDeclaration(fn)
		if err != nil {
			return nil, err
		}
		baseOwner, ok := base.Container.(*sem.Class)
		if !ok {
			return nil, unsupportedf("base declaration of %s is not class-contained", fn.Name)
		}
		ownerParam, err = m.MapClass(baseOwner)
		if err != nil {
			return nil, err
		}
		ownerImpl = ownerParam
		if baseOwner.IsInterface() {
			ownerImpl = jvm.ImplHolder(ownerParam)
		}

		if isInterface && superCall {
			// Interfaces cannot carry instance default bodies under
			// this erasure strategy; redirect to the holder class.
			invoke = InvokeStatic
			sig, err = m.MapSignatureAs(fn, OwnerImplHolder)
			if err != nil {
				return nil, err
			}
			holder, err := m.MapImplHolder(cls)
			if err != nil {
				return nil, err
			}
			owner = holder
			tc, err := m.MapClass(cls)
			if err != nil {
				return nil, err
			}
			thisType = &tc
		} else {
			switch {
			case fn.SyntheticAccessor:
				invoke = InvokeStatic
			case isInterface:
				invoke = InvokeInterface
			case superCall || fn.Visibility == sem.Private:
				invoke = InvokeSpecial
			default:
				invoke = InvokeVirtual
			}

			sig, err = m.MapSignatureAs(fn, OwnerImplementation)
			if err != nil {
				return nil, err
			}

			receiverCls := cls
			if currentIsInterface && !originalIsInterface {
				receiverCls = declOwner
			}
			owner, err = m.MapClass(receiverCls)
			if err != nil {
				return nil, err
			}
			oc := owner
			thisType = &oc
		}
	} else {
		sig, err = m.MapSignatureAs(fn, OwnerImplementation)
		if err != nil {
			return nil, err
		}
		owner, err = m.MapOwner(fn, ctx.InsideModule)
		if err != nil {
			return nil, err
		}
		ownerParam = owner
		ownerImpl = owner

		switch f.Container.(type) {
		case *sem.Class:
			// Constructors only: members were handled above.
			invoke = InvokeSpecial
		case *sem.Package, *sem.Script:
			if f.IsConstructor {
				invoke = InvokeSpecial
			} else {
				invoke = InvokeStatic
			}
		case *sem.Function:
			// Local closure: virtual dispatch against its own class.
			oc := owner
			invoke = InvokeVirtual
			thisType = &oc
		default:
			return nil, unsupportedf("unknown container for %s", fn.Name)
		}
	}

	var calleeType *jvm.Type
	if fn.IsLocalNamed() {
		oc := owner
		calleeType = &oc
	}

	var receiverType *jvm.Type
	if fn.Receiver != nil {
		rt, err := m.MapType(fn.Receiver)
		if err != nil {
			return nil, err
		}
		receiverType = &rt
	}

	return &CallableMethod{
		Owner:                owner,
		OwnerForDefaultImpl:  ownerImpl,
		OwnerForDefaultParam: ownerParam,
		Sig:                  sig,
		Invoke:               invoke,
		ThisType:             thisType,
		ReceiverType:         receiverType,
		CalleeType:           calleeType,
	}, nil
}

// MapConstructorCall maps a constructor invocation. The owner must
// erase to an object type; anything else is a broken upstream graph.
func (m *Mapper) MapConstructorCall(ctor *sem.Function) (*CallableMethod, error) {
	if !ctor.IsConstructor {
		return nil, unsupportedf("%s is not a constructor", ctor.Name)
	}
	cls, ok := ctor.Container.(*sem.Class)
	if !ok {
		return nil, unsupportedf("constructor outside a class")
	}
	sig, err := m.MapSignature(ctor)
	if err != nil {
		return nil, err
	}
	owner, err := m.MapClass(cls)
	if err != nil {
		return nil, err
	}
	if owner.Sort() != jvm.SortObject {
		return nil, inconsistentf("constructor owner %s must map to an object type, got %s", cls.Name, owner)
	}
	return &CallableMethod{
		Owner:                owner,
		OwnerForDefaultImpl:  owner,
		OwnerForDefaultParam: owner,
		Sig:                  sig,
		Invoke:               InvokeSpecial,
	}, nil
}

// unwrapFakeOverride walks from an inherited member to the declaration
// it is inherited from.
func unwrapFakeOverride(f *sem.Function) (*sem.Function, error) {
	seen := make(map[*sem.Function]bool)
	for f.FakeOverride && len(f.Overridden) > 0 {
		if seen[f] {
			return nil, inconsistentf("cycle in override graph at %s", f.Name)
		}
		seen[f] = true
		f = f.Overridden[0]
	}
	return f, nil
}

// findAnyDeclaration returns f itself when it is a real declaration,
// otherwise the root of its override chain.
func (m *Mapper) findAnyDeclaration(f *sem.Function) (*sem.Function, error) {
	if !f.FakeOverride {
		return f, nil
	}
	return m.findBaseDeclaration(f)
}

// findBaseDeclaration walks the override chain to its root. When a
// member overrides several declarations the first stored one wins;
// the upstream resolver is responsible for having disambiguated the
// set. The override graph is acyclic by upstream invariant, but a
// cycle here would loop forever, so it is detected and reported.
func (m *Mapper) findBaseDeclaration(f *sem.Function) (*sem.Function, error) {
	seen := make(map[*sem.Function]bool)
	for len(f.Overridden) > 0 {
		if seen[f] {
			return nil, inconsistentf("cycle in override graph at %s", f.Name)
		}
		seen[f] = true
		f = f.Overridden[0]
	}
	return f, nil
}
