// Package sem holds the resolved declaration and type graph produced
// by upstream semantic analysis. The backend consumes it read-only;
// nothing here is mutated after resolution completes, which is what
// makes unsynchronized concurrent mapping safe.
package sem

// Variance of a type-parameter declaration or a use-site projection.
type Variance uint8

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	default:
		return ""
	}
}

// Classifier is what a type refers to. The set of variants is closed:
// *Class, *TypeParam and *Intersection. Every consumer switches
// exhaustively and treats anything else as an internal error.
type Classifier interface {
	isClassifier()
}

// ClassKind distinguishes the flavors of class-like declarations.
type ClassKind uint8

const (
	KindClass ClassKind = iota
	KindInterface
	KindEnum
	KindEnumEntry
	KindAnnotation
)

// Class is a class or interface declaration.
type Class struct {
	// Name is the internal qualified name, slash separated,
	// e.g. "tove/collections/List".
	Name       string
	Kind       ClassKind
	TypeParams []*TypeParam

	// Container is the declaration this class is nested in, nil for
	// top-level classes.
	Container Decl

	// Anonymous marks object literals and local classes.
	Anonymous bool

	// Closure is the capture record computed by upstream closure
	// analysis, nil when the class captures nothing and is not an
	// enum. Ordered; the order is part of the constructor ABI.
	Closure *Closure
}

func (*Class) isClassifier() {}

// IsInterface reports whether the class compiles to an interface.
// Annotation classes do: the target ABI represents them as interfaces.
func (c *Class) IsInterface() bool {
	return c.Kind == KindInterface || c.Kind == KindAnnotation
}

// IsEnumLike reports whether constructors of this class take the
// implicit enum name/ordinal parameters.
func (c *Class) IsEnumLike() bool {
	return c.Kind == KindEnum || c.Kind == KindEnumEntry
}

// DefaultType returns the type "this class with its own parameters as
// invariant arguments", the type of `this` inside the class body.
func (c *Class) DefaultType() *Type {
	args := make([]Projection, len(c.TypeParams))
	for i, p := range c.TypeParams {
		args[i] = Projection{Type: &Type{Classifier: p}}
	}
	return &Type{Classifier: c, Args: args}
}

// TypeParam is a formal type parameter of a class or callable.
type TypeParam struct {
	Name string

	// Special marks compiler-synthesized parameters whose names are
	// not representable in a binary signature.
	Special bool

	Variance Variance
	Index    int

	// UpperBounds is non-empty; the first bound is the primary bound
	// used when erasing a reference to this parameter.
	UpperBounds []*Type
}

func (*TypeParam) isClassifier() {}

// Intersection is the synthetic classifier of a type intersecting
// several constituents. It never survives to a descriptor: the mapper
// collapses it to the common supertype first.
type Intersection struct {
	Members []*Type
}

func (*Intersection) isClassifier() {}

// Type is a node in the resolved type graph.
type Type struct {
	// Classifier is nil only for unresolvable types, which are
	// upstream bugs by the time they reach the backend.
	Classifier Classifier

	Nullable bool

	// Args are the use-site type arguments, one per formal parameter
	// of the classifier, in declaration order.
	Args []Projection

	// Erroneous tags types produced from unresolved or broken code.
	// They reach the backend only in lenient analysis modes.
	Erroneous bool
}

// Projection is a use-site type argument with its variance tag.
type Projection struct {
	Variance Variance
	Type     *Type
}
