package mapper

import (
	"github.com/tovelang/tove/jvm"
	"github.com/tovelang/tove/sem"
)

// Mode selects how a type erases.
type Mode uint8

const (
	// ModeImpl maps a classifier to the type that declares it:
	// tove/Int stays the raw known representation. Used when compiling
	// the builtins themselves.
	ModeImpl Mode = iota
	// ModeValue maps a type as a value: tove/Int becomes the primitive
	// I when non-nullable.
	ModeValue
	// ModeTypeParameter maps a type in a generic-argument position:
	// primitives always box.
	ModeTypeParameter
	// ModeSuperType is ModeTypeParameter with projections forbidden in
	// the immediate arguments, for supertype lists.
	ModeSuperType
)

// ErrorClassName is the sentinel object type substituted for erroneous
// types under lenient analysis.
const ErrorClassName = "error/NonExistentClass"

// Mapper maps resolved types and callables to their binary form. The
// two inputs — the known-type table and the strict/lenient flag — are
// frozen at construction; every call is a pure computation over them
// and the graph reachable from its arguments.
type Mapper struct {
	known   *jvm.KnownTypes
	lenient bool

	// commonSupertype is the supertype-lattice operation used to
	// collapse intersection classifiers. Supplied by the resolver.
	commonSupertype func([]*sem.Type) *sem.Type
}

// New returns a Mapper over the given known-type table. A nil table
// uses the built-in defaults. lenient selects the partial-analysis
// mode in which erroneous types degrade to a sentinel instead of
// failing.
func New(known *jvm.KnownTypes, lenient bool, commonSupertype func([]*sem.Type) *sem.Type) *Mapper {
	if known == nil {
		known = jvm.DefaultKnownTypes()
	}
	return &Mapper{known: known, lenient: lenient, commonSupertype: commonSupertype}
}

// MapType erases a type as a value (ModeValue) without driving a
// signature visitor.
func (m *Mapper) MapType(t *sem.Type) (jvm.Type, error) {
	return m.mapType(t, nil, ModeValue, sem.Invariant, false)
}

// MapTypeAs erases a type under an explicit mode, optionally driving a
// signature visitor through the parallel generic-signature stream.
// used is the variance of the surrounding position (covariant for
// return-type-like positions).
func (m *Mapper) MapTypeAs(t *sem.Type, sv jvm.SignatureVisitor, mode Mode, used sem.Variance) (jvm.Type, error) {
	return m.mapType(t, sv, mode, used, false)
}

// MapClass returns the canonical object type of a classifier.
func (m *Mapper) MapClass(c *sem.Class) (jvm.Type, error) {
	return m.mapType(c.DefaultType(), nil, ModeImpl, sem.Invariant, false)
}

// MapSupertype erases a type for a supertype list: projections in the
// immediate arguments are forced invariant.
func (m *Mapper) MapSupertype(t *sem.Type, sv jvm.SignatureVisitor) (jvm.Type, error) {
	return m.mapType(t, sv, ModeSuperType, sem.Invariant, false)
}

// MapImplHolder returns the default-implementation holder type of an
// interface.
func (m *Mapper) MapImplHolder(c *sem.Class) (jvm.Type, error) {
	t, err := m.MapClass(c)
	if err != nil {
		return jvm.Type{}, err
	}
	return jvm.ImplHolder(t), nil
}

// MapFieldSignature returns the generic signature string for a
// property backing field, or "" when the field needs none.
func (m *Mapper) MapFieldSignature(t *sem.Type) (string, error) {
	sw := jvm.NewSignatureWriter(jvm.TypeMode)
	if _, err := m.mapType(t, sw, ModeValue, sem.Invariant, false); err != nil {
		return "", err
	}
	return sw.MakeTypeSignature(), nil
}

func (m *Mapper) mapType(t *sem.Type, sv jvm.SignatureVisitor, mode Mode, used sem.Variance, arrayParameter bool) (jvm.Type, error) {
	if t == nil {
		return jvm.Type{}, &UnmappableTypeError{Reason: "nil type"}
	}

	projectionsAllowed := mode != ModeSuperType

	if cls, ok := t.Classifier.(*sem.Class); ok {
		if known, hit := m.known.Lookup(cls.Name, t.Nullable); hit {
			switch mode {
			case ModeValue, ModeImpl:
				return m.mapKnownType(t, known, sv, used, false, true)
			default:
				return m.mapKnownType(t, jvm.Boxed(known), sv, used, arrayParameter, projectionsAllowed)
			}
		}
	}

	if inter, ok := t.Classifier.(*sem.Intersection); ok {
		if m.commonSupertype == nil {
			return jvm.Type{}, inconsistentf("intersection type with no supertype lattice configured")
		}
		collapsed := m.commonSupertype(inter.Members)
		if collapsed == nil {
			return jvm.Type{}, &UnmappableTypeError{Type: t, Reason: "intersection has no common supertype"}
		}
		return m.mapType(collapsed, sv, mode, used, arrayParameter)
	}

	if t.Classifier == nil {
		return jvm.Type{}, &UnmappableTypeError{Type: t, Reason: "no classifier for type constructor"}
	}

	if t.Erroneous {
		if !m.lenient {
			return jvm.Type{}, inconsistentf("erroneous type reached codegen in strict mode")
		}
		sentinel := jvm.ObjectType(ErrorClassName)
		if sv != nil {
			sv.WriteType(sentinel)
		}
		return sentinel, nil
	}

	switch cl := t.Classifier.(type) {
	case *sem.Class:
		if cl.Name == jvm.ArrayClassName {
			return m.mapArrayType(t, sv, mode)
		}
		asm := jvm.ObjectType(cl.Name)
		if err := m.writeGenericType(sv, asm, t, used, projectionsAllowed); err != nil {
			return jvm.Type{}, err
		}
		return asm, nil

	case *sem.TypeParam:
		if len(cl.UpperBounds) == 0 {
			return jvm.Type{}, inconsistentf("type parameter %s has no upper bounds", cl.Name)
		}
		erased, err := m.mapType(cl.UpperBounds[0], nil, mode, sem.Invariant, false)
		if err != nil {
			return jvm.Type{}, err
		}
		if sv != nil {
			sv.WriteTypeVariable(cl.Name, erased)
		}
		return erased, nil

	default:
		return jvm.Type{}, &UnmappableTypeError{Type: t, Reason: "unknown classifier kind"}
	}
}

func (m *Mapper) mapArrayType(t *sem.Type, sv jvm.SignatureVisitor, mode Mode) (jvm.Type, error) {
	if len(t.Args) != 1 {
		return jvm.Type{}, &UnmappableTypeError{Type: t, Reason: "arrays must have exactly one type argument"}
	}
	elem := t.Args[0]

	if sv != nil {
		sv.WriteArrayType()
		if _, err := m.mapType(elem.Type, sv, ModeTypeParameter, elem.Variance, true); err != nil {
			return jvm.Type{}, err
		}
		sv.WriteArrayEnd()
	}

	// The generic Array class carries object elements only; primitive
	// element arrays are separate builtins routed through the
	// known-type table.
	erasedElem, err := m.mapType(elem.Type, nil, mode, sem.Invariant, false)
	if err != nil {
		return jvm.Type{}, err
	}
	return jvm.ArrayOf(jvm.Boxed(erasedElem)), nil
}

// mapKnownType emits the signature fragment for a type with a fixed
// target representation and returns it. A known type used as an
// in-projected array element widens to Object.
func (m *Mapper) mapKnownType(t *sem.Type, asm jvm.Type, sv jvm.SignatureVisitor, used sem.Variance, arrayParameter, allowProjections bool) (jvm.Type, error) {
	if sv != nil {
		if len(t.Args) == 0 {
			if arrayParameter && used == sem.Contravariant {
				asm = jvm.ObjectClass
			}
			sv.WriteType(asm)
		} else if err := m.writeGenericType(sv, asm, t, used, allowProjections); err != nil {
			return jvm.Type{}, err
		}
	}
	return asm, nil
}

// writeGenericType emits a class-type signature fragment: the class
// itself plus one projected argument per formal parameter, each mapped
// in ModeTypeParameter.
func (m *Mapper) writeGenericType(sv jvm.SignatureVisitor, asm jvm.Type, t *sem.Type, used sem.Variance, projectionsAllowed bool) error {
	if sv == nil {
		return nil
	}
	sv.WriteClassBegin(asm)

	cls, ok := t.Classifier.(*sem.Class)
	if ok {
		for _, param := range cls.TypeParams {
			if param.Index >= len(t.Args) {
				return inconsistentf("type %s misses argument for parameter %s", cls.Name, param.Name)
			}
			arg := t.Args[param.Index]

			projection := sem.Invariant
			if projectionsAllowed {
				projection = effectiveVariance(param.Variance, arg.Variance, used)
			}
			sv.WriteTypeArgument(wildcardFor(projection))
			if _, err := m.mapType(arg.Type, sv, ModeTypeParameter, sem.Invariant, false); err != nil {
				return err
			}
			sv.WriteTypeArgumentEnd()
		}
	}
	sv.WriteClassEnd()
	return nil
}

// effectiveVariance reconciles declared parameter variance with the
// use-site projection. In a covariant (return-like) position the
// projection wins outright: the signature grammar rejects wildcards in
// return types, so any asymmetry resolves toward the projection.
// Opposed in/out pairs cannot be expressed at all and degrade to a
// covariant wildcard over the bound.
func effectiveVariance(parameter, projection, used sem.Variance) sem.Variance {
	if used == sem.Covariant {
		return projection
	}
	if parameter == sem.Invariant {
		return projection
	}
	if projection == sem.Invariant {
		return parameter
	}
	if parameter == projection {
		return parameter
	}
	// In<out X> and Out<in X> both collapse.
	return sem.Covariant
}

func wildcardFor(v sem.Variance) jvm.Wildcard {
	switch v {
	case sem.Covariant:
		return jvm.WildcardExtends
	case sem.Contravariant:
		return jvm.WildcardSuper
	default:
		return jvm.WildcardInvariant
	}
}

// unitClassName is the no-value return type; functions of this type
// compile to void methods.
const unitClassName = "tove/Unit"

func isUnitType(t *sem.Type) bool {
	cls, ok := t.Classifier.(*sem.Class)
	return ok && cls.Name == unitClassName && !t.Nullable
}

// MapReturnType erases a callable's return type. The unit type maps to
// void except for property getters, which never return void even when
// the logical type is unit.
func (m *Mapper) MapReturnType(f *sem.Function, sv jvm.SignatureVisitor) (jvm.Type, error) {
	rt := f.ReturnType
	if rt == nil {
		return jvm.Type{}, inconsistentf("function %s has no return type", f.Name)
	}
	isGetter := f.Accessor != nil && f.Accessor.Getter
	if isUnitType(rt) && !isGetter {
		if sv != nil {
			sv.WriteType(jvm.VoidType)
		}
		return jvm.VoidType, nil
	}
	return m.mapType(rt, sv, ModeValue, sem.Covariant, false)
}

// MapOwner returns the type owning a non-class-contained callable: the
// closure class for local named functions, the package part or facade
// class for top-level functions, the script class for script members,
// or the containing class.
func (m *Mapper) MapOwner(f *sem.Function, insideModule bool) (jvm.Type, error) {
	if f.IsLocalNamed() {
		return m.closureClassType(f)
	}

	switch c := f.Container.(type) {
	case *sem.Package:
		if insideModule && f.SourceFile != "" {
			return jvm.ObjectType(jvm.PackagePart(c.Path, f.SourceFile)), nil
		}
		return jvm.ObjectType(jvm.PackageFacade(c.Path)), nil
	case *sem.Class:
		return m.MapClass(c)
	case *sem.Script:
		if c.Class == nil {
			return jvm.Type{}, inconsistentf("script %s has no generated class", c.Name)
		}
		return m.MapClass(c.Class)
	default:
		return jvm.Type{}, unsupportedf("don't know how to map owner for %s", f.Name)
	}
}

func (m *Mapper) closureClassType(f *sem.Function) (jvm.Type, error) {
	if f.ClosureClass == nil {
		return jvm.Type{}, inconsistentf("local function %s has no generated closure class", f.Name)
	}
	return m.MapClass(f.ClosureClass)
}
