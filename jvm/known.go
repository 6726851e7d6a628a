package jvm

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ArrayClassName is the qualified name of the built-in array class.
// Arrays take the erased-array path in the mapper instead of the
// known-type table.
const ArrayClassName = "tove/Array"

type knownKey struct {
	name     string
	nullable bool
}

// KnownTypes is the fixed table mapping built-in classifier names to
// their target representation. It is frozen after construction and
// safe for concurrent lookup.
type KnownTypes struct {
	m map[knownKey]Type
}

// Lookup returns the target representation for a qualified classifier
// name under the given nullability, and whether one exists.
func (k *KnownTypes) Lookup(qualifiedName string, nullable bool) (Type, bool) {
	t, ok := k.m[knownKey{qualifiedName, nullable}]
	return t, ok
}

func (k *KnownTypes) put(name string, notNull, null Type) {
	k.m[knownKey{name, false}] = notNull
	k.m[knownKey{name, true}] = null
}

// DefaultKnownTypes returns the built-in table for the Tove standard
// library. Primitive-eligible builtins map to the raw primitive when
// non-nullable and to the boxed wrapper when nullable.
func DefaultKnownTypes() *KnownTypes {
	k := &KnownTypes{m: make(map[knownKey]Type)}

	k.put("tove/Boolean", BooleanType, Boxed(BooleanType))
	k.put("tove/Char", CharType, Boxed(CharType))
	k.put("tove/Byte", ByteType, Boxed(ByteType))
	k.put("tove/Short", ShortType, Boxed(ShortType))
	k.put("tove/Int", IntType, Boxed(IntType))
	k.put("tove/Float", FloatType, Boxed(FloatType))
	k.put("tove/Long", LongType, Boxed(LongType))
	k.put("tove/Double", DoubleType, Boxed(DoubleType))

	k.put("tove/Any", ObjectClass, ObjectClass)
	k.put("tove/String", StringClass, StringClass)
	k.put("tove/CharSequence", ObjectType("java/lang/CharSequence"), ObjectType("java/lang/CharSequence"))
	k.put("tove/Number", ObjectType("java/lang/Number"), ObjectType("java/lang/Number"))
	k.put("tove/Throwable", ObjectType("java/lang/Throwable"), ObjectType("java/lang/Throwable"))
	k.put("tove/Comparable", ObjectType("java/lang/Comparable"), ObjectType("java/lang/Comparable"))
	unit := ObjectType("tove/runtime/Unit")
	k.put("tove/Unit", unit, unit)
	nothing := ObjectType("tove/runtime/Nothing")
	k.put("tove/Nothing", nothing, nothing)

	// Primitive-element arrays are their own builtins; the generic
	// tove/Array class always boxes its element.
	k.put("tove/BooleanArray", ArrayOf(BooleanType), ArrayOf(BooleanType))
	k.put("tove/CharArray", ArrayOf(CharType), ArrayOf(CharType))
	k.put("tove/ByteArray", ArrayOf(ByteType), ArrayOf(ByteType))
	k.put("tove/ShortArray", ArrayOf(ShortType), ArrayOf(ShortType))
	k.put("tove/IntArray", ArrayOf(IntType), ArrayOf(IntType))
	k.put("tove/FloatArray", ArrayOf(FloatType), ArrayOf(FloatType))
	k.put("tove/LongArray", ArrayOf(LongType), ArrayOf(LongType))
	k.put("tove/DoubleArray", ArrayOf(DoubleType), ArrayOf(DoubleType))

	return k
}

// knownTypesFile mirrors the [[type]] tables of a known-types TOML
// override file.
type knownTypesFile struct {
	Types []knownTypeEntry `toml:"type"`
}

type knownTypeEntry struct {
	Name               string `toml:"name"`
	Descriptor         string `toml:"descriptor"`
	NullableDescriptor string `toml:"nullable-descriptor"`
}

// LoadKnownTypes reads type overrides from a TOML file and layers them
// over the built-in defaults. Entries without a nullable-descriptor
// use the boxed form of the descriptor for the nullable slot.
func LoadKnownTypes(path string) (*KnownTypes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var f knownTypesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	k := DefaultKnownTypes()
	for _, e := range f.Types {
		if e.Name == "" || e.Descriptor == "" {
			return nil, fmt.Errorf("%s: type entry needs both name and descriptor", path)
		}
		notNull, err := ParseType(e.Descriptor)
		if err != nil {
			return nil, fmt.Errorf("%s: type %s: %w", path, e.Name, err)
		}
		null := Boxed(notNull)
		if e.NullableDescriptor != "" {
			null, err = ParseType(e.NullableDescriptor)
			if err != nil {
				return nil, fmt.Errorf("%s: type %s: %w", path, e.Name, err)
			}
		}
		k.put(e.Name, notNull, null)
	}
	return k, nil
}
