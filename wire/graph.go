// Package wire defines the CBOR interchange form of a resolved
// declaration graph. The backend tools load these fixtures to map
// declarations outside the full compiler pipeline; integration tests
// use the same format. Records are flat and reference each other by
// integer id (0 means absent), so arbitrary type and override graphs
// round-trip without cycles in the encoding.
package wire

// DeclKind tags a DeclRef.
type DeclKind uint8

const (
	DeclNone     DeclKind = 0
	DeclPackage  DeclKind = 1
	DeclScript   DeclKind = 2
	DeclClass    DeclKind = 3
	DeclFunction DeclKind = 4
)

// DeclRef points at a container declaration.
type DeclRef struct {
	Kind DeclKind `cbor:"1,keyasint,omitempty"`
	ID   uint32   `cbor:"2,keyasint,omitempty"`
}

// ClassifierKind tags what a Type record refers to.
type ClassifierKind uint8

const (
	ClassifierNone         ClassifierKind = 0
	ClassifierClass        ClassifierKind = 1
	ClassifierTypeParam    ClassifierKind = 2
	ClassifierIntersection ClassifierKind = 3
)

// Graph is a complete serialized declaration graph.
type Graph struct {
	Packages   []Package   `cbor:"1,keyasint,omitempty"`
	Scripts    []Script    `cbor:"2,keyasint,omitempty"`
	Classes    []Class     `cbor:"3,keyasint,omitempty"`
	TypeParams []TypeParam `cbor:"4,keyasint,omitempty"`
	Types      []Type      `cbor:"5,keyasint,omitempty"`
	Functions  []Function  `cbor:"6,keyasint,omitempty"`
	Closures   []Closure   `cbor:"7,keyasint,omitempty"`
}

// Package is a package scope record.
type Package struct {
	ID   uint32 `cbor:"1,keyasint"`
	Path string `cbor:"2,keyasint,omitempty"`
}

// Script is a script scope record.
type Script struct {
	ID     uint32  `cbor:"1,keyasint"`
	Name   string  `cbor:"2,keyasint"`
	Class  uint32  `cbor:"3,keyasint,omitempty"`
	Params []Param `cbor:"4,keyasint,omitempty"`
}

// Class is a class or interface record.
type Class struct {
	ID         uint32   `cbor:"1,keyasint"`
	Name       string   `cbor:"2,keyasint"`
	Kind       uint8    `cbor:"3,keyasint,omitempty"`
	TypeParams []uint32 `cbor:"4,keyasint,omitempty"`
	Container  DeclRef  `cbor:"5,keyasint,omitempty"`
	Anonymous  bool     `cbor:"6,keyasint,omitempty"`
	Closure    uint32   `cbor:"7,keyasint,omitempty"`
}

// TypeParam is a formal type parameter record.
type TypeParam struct {
	ID       uint32   `cbor:"1,keyasint"`
	Name     string   `cbor:"2,keyasint"`
	Special  bool     `cbor:"3,keyasint,omitempty"`
	Variance uint8    `cbor:"4,keyasint,omitempty"`
	Index    uint32   `cbor:"5,keyasint,omitempty"`
	Bounds   []uint32 `cbor:"6,keyasint,omitempty"`
}

// Projection is a use-site type argument.
type Projection struct {
	Variance uint8  `cbor:"1,keyasint,omitempty"`
	Type     uint32 `cbor:"2,keyasint"`
}

// Type is a type node record.
type Type struct {
	ID         uint32         `cbor:"1,keyasint"`
	Classifier ClassifierKind `cbor:"2,keyasint,omitempty"`
	Ref        uint32         `cbor:"3,keyasint,omitempty"`
	Members    []uint32       `cbor:"4,keyasint,omitempty"`
	Nullable   bool           `cbor:"5,keyasint,omitempty"`
	Erroneous  bool           `cbor:"6,keyasint,omitempty"`
	Args       []Projection   `cbor:"7,keyasint,omitempty"`
}

// Param is a declared value parameter.
type Param struct {
	Name       string `cbor:"1,keyasint"`
	Type       uint32 `cbor:"2,keyasint"`
	HasDefault bool   `cbor:"3,keyasint,omitempty"`
}

// Accessor is the property info of an accessor function.
type Accessor struct {
	Property   string   `cbor:"1,keyasint"`
	Getter     bool     `cbor:"2,keyasint,omitempty"`
	TypeParams []uint32 `cbor:"3,keyasint,omitempty"`
}

// Function is a callable record.
type Function struct {
	ID                uint32    `cbor:"1,keyasint"`
	Name              string    `cbor:"2,keyasint,omitempty"`
	PlatformName      string    `cbor:"3,keyasint,omitempty"`
	Container         DeclRef   `cbor:"4,keyasint"`
	Constructor       bool      `cbor:"5,keyasint,omitempty"`
	TypeParams        []uint32  `cbor:"6,keyasint,omitempty"`
	Params            []Param   `cbor:"7,keyasint,omitempty"`
	ReturnType        uint32    `cbor:"8,keyasint,omitempty"`
	Receiver          uint32    `cbor:"9,keyasint,omitempty"`
	Visibility        uint8     `cbor:"10,keyasint,omitempty"`
	Overridden        []uint32  `cbor:"11,keyasint,omitempty"`
	FakeOverride      bool      `cbor:"12,keyasint,omitempty"`
	Accessor          *Accessor `cbor:"13,keyasint,omitempty"`
	SyntheticAccessor bool      `cbor:"14,keyasint,omitempty"`
	Anonymous         bool      `cbor:"15,keyasint,omitempty"`
	ClosureClass      uint32    `cbor:"16,keyasint,omitempty"`
	SourceFile        string    `cbor:"17,keyasint,omitempty"`
}

// Capture is one captured entity: a variable (inline) or a local
// function (by id).
type Capture struct {
	VarName   string `cbor:"1,keyasint,omitempty"`
	VarType   uint32 `cbor:"2,keyasint,omitempty"`
	VarShared bool   `cbor:"3,keyasint,omitempty"`
	LocalFun  uint32 `cbor:"4,keyasint,omitempty"`
}

// Closure is a capture record attached to a class.
type Closure struct {
	ID              uint32    `cbor:"1,keyasint"`
	CaptureThis     uint32    `cbor:"2,keyasint,omitempty"`
	CaptureReceiver uint32    `cbor:"3,keyasint,omitempty"`
	Captures        []Capture `cbor:"4,keyasint,omitempty"`
	SuperCall       uint32    `cbor:"5,keyasint,omitempty"`
}
