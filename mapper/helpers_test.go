package mapper

import (
	"github.com/tovelang/tove/sem"
)

// Graph-building helpers shared by the mapper tests. They construct
// the minimal resolved shapes the mapper consumes.

func newStrict() *Mapper { return New(nil, false, nil) }

func tClass(name string) *sem.Type {
	return &sem.Type{Classifier: &sem.Class{Name: name}}
}

func tInt() *sem.Type    { return tClass("tove/Int") }
func tString() *sem.Type { return tClass("tove/String") }
func tAny() *sem.Type    { return tClass("tove/Any") }
func tUnit() *sem.Type   { return tClass("tove/Unit") }

func tNullable(t *sem.Type) *sem.Type {
	c := *t
	c.Nullable = true
	return &c
}

func tArray(v sem.Variance, elem *sem.Type) *sem.Type {
	return &sem.Type{
		Classifier: &sem.Class{Name: "tove/Array"},
		Args:       []sem.Projection{{Variance: v, Type: elem}},
	}
}

// genericClass returns a class with one type parameter of the given
// declared variance, bounded by tove/Any.
func genericClass(name string, v sem.Variance) *sem.Class {
	cls := &sem.Class{Name: name}
	cls.TypeParams = []*sem.TypeParam{{
		Name:        "T",
		Variance:    v,
		UpperBounds: []*sem.Type{tAny()},
	}}
	return cls
}

func applied(cls *sem.Class, v sem.Variance, arg *sem.Type) *sem.Type {
	return &sem.Type{Classifier: cls, Args: []sem.Projection{{Variance: v, Type: arg}}}
}

func member(cls *sem.Class, name string, ret *sem.Type) *sem.Function {
	return &sem.Function{Name: name, Container: cls, ReturnType: ret}
}

func topLevel(pkg *sem.Package, name string, ret *sem.Type) *sem.Function {
	return &sem.Function{Name: name, Container: pkg, ReturnType: ret}
}

func param(name string, t *sem.Type) *sem.ValueParam {
	return &sem.ValueParam{Name: name, Type: t}
}

func defaulted(name string, t *sem.Type) *sem.ValueParam {
	return &sem.ValueParam{Name: name, Type: t, HasDefault: true}
}
