package sem

// Variable is a local variable visible to closure-capture analysis.
type Variable struct {
	Name string
	Type *Type

	// SharedInClosure marks variables mutated from inside a nested
	// closure. They live in a heap cell shared between the frames.
	SharedInClosure bool
}

// Capture is one captured outer entity: either a local variable or a
// local named function. Exactly one field is set.
type Capture struct {
	Variable *Variable
	LocalFun *Function
}

// Closure is the capture record upstream analysis attaches to a class
// that needs state threaded through its constructor. The field and
// slice order here is load-bearing: it fixes the synthetic parameter
// order of the generated constructor.
type Closure struct {
	// CaptureThis is the enclosing class whose instance is captured,
	// nil if none.
	CaptureThis *Class

	// CaptureReceiver is the captured extension receiver type, nil if
	// none.
	CaptureReceiver *Type

	// Captures are the captured outer variables and local functions,
	// in the resolver's canonical iteration order.
	Captures []Capture

	// SuperCall is the resolved super-constructor call of an
	// anonymous class, nil otherwise. Its value parameters are
	// forwarded through the synthetic constructor.
	SuperCall *Function
}
