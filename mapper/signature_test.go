package mapper

import (
	"testing"

	"github.com/tovelang/tove/jvm"
	"github.com/tovelang/tove/sem"
)

func TestMapSignature_Plain(t *testing.T) {
	m := newStrict()
	cls := &sem.Class{Name: "demo/Calc"}

	f := member(cls, "add", tInt())
	f.Params = []*sem.ValueParam{param("a", tInt()), param("b", tInt())}

	sig, err := m.MapSignature(f)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	if sig.Name != "add" {
		t.Errorf("Name: got %q", sig.Name)
	}
	if got, want := sig.Descriptor(), "(II)I"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
	if sig.Generic != "" {
		t.Errorf("Generic: got %q, want empty", sig.Generic)
	}
}

func TestMapSignature_UnitReturnsVoid(t *testing.T) {
	m := newStrict()
	f := member(&sem.Class{Name: "demo/C"}, "run", tUnit())

	sig, err := m.MapSignature(f)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	if got, want := sig.Descriptor(), "()V"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
}

func TestMapSignature_Receiver(t *testing.T) {
	m := newStrict()
	pkg := &sem.Package{Path: "demo"}

	f := topLevel(pkg, "reversed", tString())
	f.Receiver = tString()

	sig, err := m.MapSignature(f)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	if got, want := sig.Descriptor(), "(Ljava/lang/String;)Ljava/lang/String;"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
	if len(sig.Params) != 1 || sig.Params[0].Kind != jvm.ParamReceiver {
		t.Errorf("receiver param kind: got %+v", sig.Params)
	}
}

func TestMapSignature_GenericFunction(t *testing.T) {
	m := newStrict()
	cls := &sem.Class{Name: "demo/Util"}

	p := &sem.TypeParam{Name: "T", UpperBounds: []*sem.Type{tAny()}}
	f := member(cls, "identity", &sem.Type{Classifier: p})
	f.TypeParams = []*sem.TypeParam{p}
	f.Params = []*sem.ValueParam{param("value", &sem.Type{Classifier: p})}

	sig, err := m.MapSignature(f)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	if got, want := sig.Descriptor(), "(Ljava/lang/Object;)Ljava/lang/Object;"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
	if got, want := sig.Generic, "<T:Ljava/lang/Object;>(TT;)TT;"; got != want {
		t.Errorf("Generic: got %q, want %q", got, want)
	}
}

func TestMapSignature_InterfaceBound(t *testing.T) {
	m := newStrict()
	cls := &sem.Class{Name: "demo/Util"}

	iface := tClass("demo/Comparable")
	iface.Classifier.(*sem.Class).Kind = sem.KindInterface
	p := &sem.TypeParam{Name: "T", UpperBounds: []*sem.Type{iface}}

	f := member(cls, "sort", tUnit())
	f.TypeParams = []*sem.TypeParam{p}
	f.Params = []*sem.ValueParam{param("value", &sem.Type{Classifier: p})}

	sig, err := m.MapSignature(f)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	// interface-only bounds leave the class bound empty
	if got, want := sig.Generic, "<T::Ldemo/Comparable;>(TT;)V"; got != want {
		t.Errorf("Generic: got %q, want %q", got, want)
	}
	if got, want := sig.Descriptor(), "(Ldemo/Comparable;)V"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
}

func TestMapSignature_ReturnPositionDropsWildcard(t *testing.T) {
	m := newStrict()
	box := genericClass("demo/Box", sem.Covariant)

	f := member(&sem.Class{Name: "demo/C"}, "box", applied(box, sem.Invariant, tString()))
	sig, err := m.MapSignature(f)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	// declared-covariant argument renders without a wildcard in the
	// return position
	if got, want := sig.Generic, "()Ldemo/Box<Ljava/lang/String;>;"; got != want {
		t.Errorf("Generic: got %q, want %q", got, want)
	}
}

func TestMapSignature_SpecialTypeParameter(t *testing.T) {
	special := &sem.TypeParam{Name: "", Special: true, UpperBounds: []*sem.Type{tAny()}}
	f := member(&sem.Class{Name: "demo/C"}, "weird", tUnit())
	f.TypeParams = []*sem.TypeParam{special}

	if _, err := newStrict().MapSignature(f); err == nil {
		t.Error("strict mode: expected error for unrepresentable type parameter")
	}

	lenient := New(nil, true, nil)
	sig, err := lenient.MapSignature(f)
	if err != nil {
		t.Fatalf("lenient MapSignature: %v", err)
	}
	if got, want := sig.Descriptor(), "()V"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
}

func TestMapSignature_ForceBoxedReturn(t *testing.T) {
	m := newStrict()
	base := &sem.Class{Name: "demo/Base"}
	sub := &sem.Class{Name: "demo/Sub"}

	super := member(base, "value", tNullable(tInt()))
	over := member(sub, "value", tInt())
	over.Overridden = []*sem.Function{super}

	sig, err := m.MapSignature(over)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	// the override narrows Int? to Int; the binary return must stay boxed
	if got, want := sig.Descriptor(), "()Ljava/lang/Integer;"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}

	// without the boxed ancestor the primitive stays raw
	plain := member(sub, "count", tInt())
	sig, err = m.MapSignature(plain)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	if got, want := sig.Descriptor(), "()I"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
}

func TestMapSignature_ForceBoxedReturnTransitive(t *testing.T) {
	m := newStrict()
	top := member(&sem.Class{Name: "demo/A"}, "value", tNullable(tInt()))
	mid := member(&sem.Class{Name: "demo/B"}, "value", tInt())
	mid.Overridden = []*sem.Function{top}
	leaf := member(&sem.Class{Name: "demo/C"}, "value", tInt())
	leaf.Overridden = []*sem.Function{mid}

	sig, err := m.MapSignature(leaf)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	if got, want := sig.Descriptor(), "()Ljava/lang/Integer;"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
}

func TestFunctionName(t *testing.T) {
	m := newStrict()
	cls := &sem.Class{Name: "demo/C"}

	platform := member(cls, "plus", tInt())
	platform.PlatformName = "sum"

	getter := member(cls, "", tInt())
	getter.Accessor = &sem.Accessor{PropertyName: "size", Getter: true}

	setter := member(cls, "", tUnit())
	setter.Accessor = &sem.Accessor{PropertyName: "size"}

	ann := &sem.Class{Name: "demo/Marker", Kind: sem.KindAnnotation}
	annMember := member(ann, "", tString())
	annMember.Accessor = &sem.Accessor{PropertyName: "value", Getter: true}

	outer := topLevel(&sem.Package{Path: "demo"}, "outer", tUnit())
	local := &sem.Function{Name: "helper", Container: outer, ReturnType: tUnit()}
	lambda := &sem.Function{Anonymous: true, Container: outer, ReturnType: tUnit()}

	tests := []struct {
		f    *sem.Function
		want string
	}{
		{platform, "sum"},
		{getter, "getSize"},
		{setter, "setSize"},
		{annMember, "value"},
		{local, "invoke"},
		{lambda, "invoke"},
		{member(cls, "run", tUnit()), "run"},
	}
	for _, tt := range tests {
		if got := m.functionName(tt.f); got != tt.want {
			t.Errorf("functionName: got %q, want %q", got, tt.want)
		}
	}
}

func TestMapSignatureAs_ImplHolderTakesExplicitThis(t *testing.T) {
	m := newStrict()
	iface := &sem.Class{Name: "demo/Drawable", Kind: sem.KindInterface}

	f := member(iface, "draw", tUnit())
	f.Params = []*sem.ValueParam{param("depth", tInt())}

	sig, err := m.MapSignatureAs(f, OwnerImplHolder)
	if err != nil {
		t.Fatalf("MapSignatureAs: %v", err)
	}
	if got, want := sig.Descriptor(), "(Ldemo/Drawable;I)V"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
	if sig.Params[0].Kind != jvm.ParamThis {
		t.Errorf("first param kind: got %v, want this", sig.Params[0].Kind)
	}
}

func TestMapSignature_SyntheticAccessorTakesThis(t *testing.T) {
	m := newStrict()
	cls := &sem.Class{Name: "demo/C"}

	f := member(cls, "access$getSecret", tInt())
	f.SyntheticAccessor = true

	sig, err := m.MapSignature(f)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	if got, want := sig.Descriptor(), "(Ldemo/C;)I"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
	if sig.Params[0].Kind != jvm.ParamThis {
		t.Errorf("first param kind: got %v, want this", sig.Params[0].Kind)
	}
}

func TestMapDefaultMethod_Instance(t *testing.T) {
	m := newStrict()
	cls := &sem.Class{Name: "demo/Greeter"}

	f := member(cls, "greet", tString())
	f.Params = []*sem.ValueParam{param("name", tString()), defaulted("greeting", tString())}

	sig, err := m.MapDefaultMethod(f, OwnerImplementation, true)
	if err != nil {
		t.Fatalf("MapDefaultMethod: %v", err)
	}
	if got, want := sig.Name, "greet$default"; got != want {
		t.Errorf("Name: got %q, want %q", got, want)
	}
	want := "(Ldemo/Greeter;Ljava/lang/String;Ljava/lang/String;I)Ljava/lang/String;"
	if got := sig.Descriptor(); got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
	kinds := []jvm.ParamKind{jvm.ParamThis, jvm.ParamValue, jvm.ParamValue, jvm.ParamDefaultMask}
	for i, p := range sig.Params {
		if p.Kind != kinds[i] {
			t.Errorf("param %d: got kind %v, want %v", i, p.Kind, kinds[i])
		}
	}
}

func TestMapDefaultMethod_TopLevelIsStatic(t *testing.T) {
	m := newStrict()
	pkg := &sem.Package{Path: "demo"}

	f := topLevel(pkg, "greet", tString())
	f.Params = []*sem.ValueParam{defaulted("greeting", tString())}

	sig, err := m.MapDefaultMethod(f, OwnerImplementation, true)
	if err != nil {
		t.Fatalf("MapDefaultMethod: %v", err)
	}
	if got, want := sig.Descriptor(), "(Ljava/lang/String;I)Ljava/lang/String;"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
	if sig.Params[0].Kind != jvm.ParamValue {
		t.Errorf("first param: got %v, want value", sig.Params[0].Kind)
	}
}

func TestMapDefaultMethod_MaskPerThirtyTwoParams(t *testing.T) {
	m := newStrict()
	pkg := &sem.Package{Path: "demo"}

	f := topLevel(pkg, "big", tUnit())
	for i := 0; i < 33; i++ {
		f.Params = append(f.Params, defaulted("p", tInt()))
	}

	sig, err := m.MapDefaultMethod(f, OwnerImplementation, true)
	if err != nil {
		t.Fatalf("MapDefaultMethod: %v", err)
	}
	masks := 0
	for _, p := range sig.Params {
		if p.Kind == jvm.ParamDefaultMask {
			masks++
		}
	}
	if masks != 2 {
		t.Errorf("masks: got %d, want 2", masks)
	}
}

func TestMapDefaultMethod_Constructor(t *testing.T) {
	m := newStrict()
	cls := &sem.Class{Name: "demo/Point"}

	ctor := &sem.Function{
		Name:          "Point",
		Container:     cls,
		IsConstructor: true,
		Params:        []*sem.ValueParam{defaulted("x", tInt()), defaulted("y", tInt())},
	}

	sig, err := m.MapDefaultMethod(ctor, OwnerImplementation, true)
	if err != nil {
		t.Fatalf("MapDefaultMethod: %v", err)
	}
	if sig.Name != jvm.ConstructorName {
		t.Errorf("Name: got %q, want %q", sig.Name, jvm.ConstructorName)
	}
	if got, want := sig.Descriptor(), "(III)V"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
}

func TestMapScriptSignature(t *testing.T) {
	m := newStrict()

	imported := &sem.Script{Name: "setup", Class: &sem.Class{Name: "demo/Setup"}}
	script := &sem.Script{
		Name:   "report",
		Class:  &sem.Class{Name: "demo/Report"},
		Params: []*sem.ValueParam{param("args", tArray(sem.Invariant, tString()))},
	}

	sig, err := m.MapScriptSignature(script, []*sem.Script{imported})
	if err != nil {
		t.Fatalf("MapScriptSignature: %v", err)
	}
	if sig.Name != jvm.ConstructorName {
		t.Errorf("Name: got %q", sig.Name)
	}
	if got, want := sig.Descriptor(), "(Ldemo/Setup;[Ljava/lang/String;)V"; got != want {
		t.Errorf("Descriptor: got %q, want %q", got, want)
	}
}

func TestMapScriptSignature_ImportMissingClass(t *testing.T) {
	m := newStrict()
	script := &sem.Script{Name: "a", Class: &sem.Class{Name: "demo/A"}}
	broken := &sem.Script{Name: "b"}

	if _, err := m.MapScriptSignature(script, []*sem.Script{broken}); err == nil {
		t.Error("expected error for imported script without a class")
	}
}

func TestMapSignature_AccessorUsesPropertyTypeParams(t *testing.T) {
	m := newStrict()
	cls := &sem.Class{Name: "demo/C"}

	p := &sem.TypeParam{Name: "T", UpperBounds: []*sem.Type{tAny()}}
	getter := member(cls, "", &sem.Type{Classifier: p})
	getter.Accessor = &sem.Accessor{PropertyName: "item", Getter: true, TypeParams: []*sem.TypeParam{p}}

	sig, err := m.MapSignature(getter)
	if err != nil {
		t.Fatalf("MapSignature: %v", err)
	}
	if sig.Name != "getItem" {
		t.Errorf("Name: got %q", sig.Name)
	}
	if got, want := sig.Generic, "<T:Ljava/lang/Object;>()TT;"; got != want {
		t.Errorf("Generic: got %q, want %q", got, want)
	}
}
