// Package jvm models the target ABI: erased types, descriptor strings,
// generic signatures and the naming conventions of generated classes.
package jvm

import (
	"fmt"
	"strings"
)

// Sort classifies a Type: one of the primitive sorts, Object or Array.
type Sort uint8

const (
	SortVoid Sort = iota
	SortBoolean
	SortChar
	SortByte
	SortShort
	SortInt
	SortFloat
	SortLong
	SortDouble
	SortObject
	SortArray
)

// Type is an erased target type. The zero value is the void type.
type Type struct {
	sort Sort
	name string // internal name, object sort only
	elem *Type  // element type, array sort only
}

var (
	VoidType    = Type{sort: SortVoid}
	BooleanType = Type{sort: SortBoolean}
	CharType    = Type{sort: SortChar}
	ByteType    = Type{sort: SortByte}
	ShortType   = Type{sort: SortShort}
	IntType     = Type{sort: SortInt}
	FloatType   = Type{sort: SortFloat}
	LongType    = Type{sort: SortLong}
	DoubleType  = Type{sort: SortDouble}

	ObjectClass = ObjectType("java/lang/Object")
	StringClass = ObjectType("java/lang/String")
)

// ObjectType returns the object type with the given internal name
// (slash-separated, e.g. "java/lang/Object").
func ObjectType(internalName string) Type {
	return Type{sort: SortObject, name: internalName}
}

// ArrayOf returns the array type with the given element type.
func ArrayOf(elem Type) Type {
	e := elem
	return Type{sort: SortArray, elem: &e}
}

func (t Type) Sort() Sort { return t.sort }

// InternalName returns the internal name of an object type, or "" for
// any other sort.
func (t Type) InternalName() string { return t.name }

// Elem returns the element type of an array type.
func (t Type) Elem() Type {
	if t.elem == nil {
		return Type{}
	}
	return *t.elem
}

var primitiveCodes = [...]byte{
	SortVoid:    'V',
	SortBoolean: 'Z',
	SortChar:    'C',
	SortByte:    'B',
	SortShort:   'S',
	SortInt:     'I',
	SortFloat:   'F',
	SortLong:    'J',
	SortDouble:  'D',
}

// Descriptor returns the erased type descriptor: a single primitive
// code, "L<name>;" for objects, or "[" followed by the element
// descriptor for arrays.
func (t Type) Descriptor() string {
	switch t.sort {
	case SortObject:
		return "L" + t.name + ";"
	case SortArray:
		return "[" + t.Elem().Descriptor()
	default:
		return string(primitiveCodes[t.sort])
	}
}

func (t Type) String() string { return t.Descriptor() }

// Equal reports whether two types have the same erased form.
func (t Type) Equal(o Type) bool {
	if t.sort != o.sort || t.name != o.name {
		return false
	}
	if t.sort == SortArray {
		return t.Elem().Equal(o.Elem())
	}
	return true
}

// IsPrimitive reports whether t is a primitive (non-object, non-array)
// type. Void counts as primitive.
func (t Type) IsPrimitive() bool {
	return t.sort < SortObject
}

var boxedNames = map[Sort]string{
	SortBoolean: "java/lang/Boolean",
	SortChar:    "java/lang/Character",
	SortByte:    "java/lang/Byte",
	SortShort:   "java/lang/Short",
	SortInt:     "java/lang/Integer",
	SortFloat:   "java/lang/Float",
	SortLong:    "java/lang/Long",
	SortDouble:  "java/lang/Double",
}

// Boxed returns the boxed object form of a primitive type. Object and
// array types (and void) are returned unchanged.
func Boxed(t Type) Type {
	if name, ok := boxedNames[t.sort]; ok {
		return ObjectType(name)
	}
	return t
}

// ParseType parses a single erased type descriptor. Used by the wire
// and cache layers to round-trip types; the mapper itself never parses.
func ParseType(desc string) (Type, error) {
	t, rest, err := parseType(desc)
	if err != nil {
		return Type{}, err
	}
	if rest != "" {
		return Type{}, fmt.Errorf("jvm: trailing characters in descriptor %q", desc)
	}
	return t, nil
}

func parseType(desc string) (Type, string, error) {
	if desc == "" {
		return Type{}, "", fmt.Errorf("jvm: empty type descriptor")
	}
	switch desc[0] {
	case 'V':
		return VoidType, desc[1:], nil
	case 'Z':
		return BooleanType, desc[1:], nil
	case 'C':
		return CharType, desc[1:], nil
	case 'B':
		return ByteType, desc[1:], nil
	case 'S':
		return ShortType, desc[1:], nil
	case 'I':
		return IntType, desc[1:], nil
	case 'F':
		return FloatType, desc[1:], nil
	case 'J':
		return LongType, desc[1:], nil
	case 'D':
		return DoubleType, desc[1:], nil
	case 'L':
		end := strings.IndexByte(desc, ';')
		if end < 0 {
			return Type{}, "", fmt.Errorf("jvm: unterminated object descriptor %q", desc)
		}
		return ObjectType(desc[1:end]), desc[end+1:], nil
	case '[':
		elem, rest, err := parseType(desc[1:])
		if err != nil {
			return Type{}, "", err
		}
		return ArrayOf(elem), rest, nil
	default:
		return Type{}, "", fmt.Errorf("jvm: unknown descriptor character %q", desc[0])
	}
}
