package jvm

import "testing"

func TestType_Descriptor(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{VoidType, "V"},
		{BooleanType, "Z"},
		{CharType, "C"},
		{ByteType, "B"},
		{ShortType, "S"},
		{IntType, "I"},
		{FloatType, "F"},
		{LongType, "J"},
		{DoubleType, "D"},
		{ObjectClass, "Ljava/lang/Object;"},
		{ObjectType("tove/Box"), "Ltove/Box;"},
		{ArrayOf(IntType), "[I"},
		{ArrayOf(StringClass), "[Ljava/lang/String;"},
		{ArrayOf(ArrayOf(DoubleType)), "[[D"},
	}
	for _, tt := range tests {
		if got := tt.typ.Descriptor(); got != tt.want {
			t.Errorf("Descriptor: got %q, want %q", got, tt.want)
		}
	}
}

func TestType_ZeroValueIsVoid(t *testing.T) {
	var zero Type
	if !zero.Equal(VoidType) {
		t.Errorf("zero Type: got %v, want V", zero)
	}
}

func TestBoxed(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{BooleanType, "Ljava/lang/Boolean;"},
		{CharType, "Ljava/lang/Character;"},
		{IntType, "Ljava/lang/Integer;"},
		{LongType, "Ljava/lang/Long;"},
		{DoubleType, "Ljava/lang/Double;"},
		// non-primitives pass through
		{StringClass, "Ljava/lang/String;"},
		{ArrayOf(IntType), "[I"},
		{VoidType, "V"},
	}
	for _, tt := range tests {
		if got := Boxed(tt.typ).Descriptor(); got != tt.want {
			t.Errorf("Boxed(%v): got %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestType_Equal(t *testing.T) {
	if !ObjectType("a/B").Equal(ObjectType("a/B")) {
		t.Error("identical object types not equal")
	}
	if ObjectType("a/B").Equal(ObjectType("a/C")) {
		t.Error("distinct object types equal")
	}
	if !ArrayOf(ArrayOf(IntType)).Equal(ArrayOf(ArrayOf(IntType))) {
		t.Error("identical array types not equal")
	}
	if ArrayOf(IntType).Equal(ArrayOf(LongType)) {
		t.Error("distinct array types equal")
	}
	if IntType.Equal(ObjectClass) {
		t.Error("primitive equal to object")
	}
}

func TestParseType(t *testing.T) {
	for _, desc := range []string{
		"V", "Z", "I", "D",
		"Ljava/lang/Object;",
		"[I",
		"[[Ljava/lang/String;",
	} {
		typ, err := ParseType(desc)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", desc, err)
		}
		if got := typ.Descriptor(); got != desc {
			t.Errorf("round trip: got %q, want %q", got, desc)
		}
	}
}

func TestParseType_Errors(t *testing.T) {
	for _, desc := range []string{
		"",
		"Ljava/lang/Object", // missing ';'
		"X",
		"[",
		"II", // trailing characters
	} {
		if _, err := ParseType(desc); err == nil {
			t.Errorf("ParseType(%q): expected error, got nil", desc)
		}
	}
}
