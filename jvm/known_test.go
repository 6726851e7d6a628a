package jvm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultKnownTypes(t *testing.T) {
	k := DefaultKnownTypes()

	tests := []struct {
		name     string
		nullable bool
		want     string
	}{
		{"tove/Int", false, "I"},
		{"tove/Int", true, "Ljava/lang/Integer;"},
		{"tove/Boolean", false, "Z"},
		{"tove/Boolean", true, "Ljava/lang/Boolean;"},
		{"tove/Any", false, "Ljava/lang/Object;"},
		{"tove/Any", true, "Ljava/lang/Object;"},
		{"tove/String", false, "Ljava/lang/String;"},
		{"tove/Unit", false, "Ltove/runtime/Unit;"},
		{"tove/IntArray", false, "[I"},
		{"tove/IntArray", true, "[I"},
		{"tove/DoubleArray", false, "[D"},
	}
	for _, tt := range tests {
		typ, ok := k.Lookup(tt.name, tt.nullable)
		if !ok {
			t.Errorf("Lookup(%q, %v): not found", tt.name, tt.nullable)
			continue
		}
		if got := typ.Descriptor(); got != tt.want {
			t.Errorf("Lookup(%q, %v): got %q, want %q", tt.name, tt.nullable, got, tt.want)
		}
	}

	if _, ok := k.Lookup("demo/UserClass", false); ok {
		t.Error("Lookup found a non-builtin class")
	}
	if _, ok := k.Lookup(ArrayClassName, false); ok {
		t.Error("generic array class must not be in the known table")
	}
}

func writeKnownTypesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "known-types.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadKnownTypes(t *testing.T) {
	path := writeKnownTypesFile(t, `
[[type]]
name = "demo/Handle"
descriptor = "J"

[[type]]
name = "demo/Blob"
descriptor = "[B"
nullable-descriptor = "Ldemo/BoxedBlob;"
`)

	k, err := LoadKnownTypes(path)
	if err != nil {
		t.Fatalf("LoadKnownTypes: %v", err)
	}

	typ, ok := k.Lookup("demo/Handle", false)
	if !ok || typ.Descriptor() != "J" {
		t.Errorf("demo/Handle: got %v, %v", typ, ok)
	}
	// no nullable-descriptor: boxed form of the descriptor
	typ, ok = k.Lookup("demo/Handle", true)
	if !ok || typ.Descriptor() != "Ljava/lang/Long;" {
		t.Errorf("demo/Handle nullable: got %v, %v", typ, ok)
	}
	typ, ok = k.Lookup("demo/Blob", true)
	if !ok || typ.Descriptor() != "Ldemo/BoxedBlob;" {
		t.Errorf("demo/Blob nullable: got %v, %v", typ, ok)
	}

	// defaults remain available underneath the overrides
	if _, ok := k.Lookup("tove/Int", false); !ok {
		t.Error("builtin lost after override load")
	}
}

func TestLoadKnownTypes_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing descriptor", "[[type]]\nname = \"demo/X\"\n"},
		{"bad descriptor", "[[type]]\nname = \"demo/X\"\ndescriptor = \"Q\"\n"},
		{"bad toml", "[[type]\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeKnownTypesFile(t, tc.content)
			if _, err := LoadKnownTypes(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	if _, err := LoadKnownTypes(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
