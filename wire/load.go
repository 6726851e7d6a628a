package wire

import (
	"fmt"

	"github.com/tovelang/tove/sem"
)

// Loaded is a declaration graph rebuilt from its wire form, indexed by
// the record ids of the fixture that produced it.
type Loaded struct {
	Packages  map[uint32]*sem.Package
	Scripts   map[uint32]*sem.Script
	Classes   map[uint32]*sem.Class
	Functions map[uint32]*sem.Function
	Types     map[uint32]*sem.Type
}

// Load rebuilds the in-memory sem graph from the flat wire records.
// It allocates every node first and wires references second, so
// records may refer to each other in any order, including cyclically
// (a class's function whose return type is the class, and so on).
func (g *Graph) Load() (*Loaded, error) {
	l := &Loaded{
		Packages:  make(map[uint32]*sem.Package),
		Scripts:   make(map[uint32]*sem.Script),
		Classes:   make(map[uint32]*sem.Class),
		Functions: make(map[uint32]*sem.Function),
		Types:     make(map[uint32]*sem.Type),
	}
	params := make(map[uint32]*sem.TypeParam)
	closures := make(map[uint32]*sem.Closure)

	// Pass 1: allocate.
	for _, r := range g.Packages {
		if err := checkID("package", r.ID, l.Packages); err != nil {
			return nil, err
		}
		l.Packages[r.ID] = &sem.Package{Path: r.Path}
	}
	for _, r := range g.Scripts {
		if err := checkID("script", r.ID, l.Scripts); err != nil {
			return nil, err
		}
		l.Scripts[r.ID] = &sem.Script{Name: r.Name}
	}
	for _, r := range g.Classes {
		if err := checkID("class", r.ID, l.Classes); err != nil {
			return nil, err
		}
		l.Classes[r.ID] = &sem.Class{Name: r.Name, Kind: sem.ClassKind(r.Kind), Anonymous: r.Anonymous}
	}
	for _, r := range g.TypeParams {
		if err := checkID("type parameter", r.ID, params); err != nil {
			return nil, err
		}
		params[r.ID] = &sem.TypeParam{
			Name:     r.Name,
			Special:  r.Special,
			Variance: sem.Variance(r.Variance),
			Index:    int(r.Index),
		}
	}
	for _, r := range g.Types {
		if err := checkID("type", r.ID, l.Types); err != nil {
			return nil, err
		}
		l.Types[r.ID] = &sem.Type{Nullable: r.Nullable, Erroneous: r.Erroneous}
	}
	for _, r := range g.Functions {
		if err := checkID("function", r.ID, l.Functions); err != nil {
			return nil, err
		}
		l.Functions[r.ID] = &sem.Function{
			Name:              r.Name,
			PlatformName:      r.PlatformName,
			IsConstructor:     r.Constructor,
			Visibility:        sem.Visibility(r.Visibility),
			FakeOverride:      r.FakeOverride,
			SyntheticAccessor: r.SyntheticAccessor,
			Anonymous:         r.Anonymous,
			SourceFile:        r.SourceFile,
		}
	}
	for _, r := range g.Closures {
		if err := checkID("closure", r.ID, closures); err != nil {
			return nil, err
		}
		closures[r.ID] = &sem.Closure{}
	}

	// Pass 2: wire references.
	for _, r := range g.TypeParams {
		p := params[r.ID]
		for _, b := range r.Bounds {
			t, err := l.typeByID(b)
			if err != nil {
				return nil, fmt.Errorf("wire: type parameter %s: %w", r.Name, err)
			}
			p.UpperBounds = append(p.UpperBounds, t)
		}
	}

	for _, r := range g.Types {
		t := l.Types[r.ID]
		switch r.Classifier {
		case ClassifierNone:
			// unresolved on purpose
		case ClassifierClass:
			cls, ok := l.Classes[r.Ref]
			if !ok {
				return nil, fmt.Errorf("wire: type %d: dangling class %d", r.ID, r.Ref)
			}
			t.Classifier = cls
		case ClassifierTypeParam:
			p, ok := params[r.Ref]
			if !ok {
				return nil, fmt.Errorf("wire: type %d: dangling type parameter %d", r.ID, r.Ref)
			}
			t.Classifier = p
		case ClassifierIntersection:
			inter := &sem.Intersection{}
			for _, mID := range r.Members {
				mt, err := l.typeByID(mID)
				if err != nil {
					return nil, fmt.Errorf("wire: type %d: %w", r.ID, err)
				}
				inter.Members = append(inter.Members, mt)
			}
			t.Classifier = inter
		default:
			return nil, fmt.Errorf("wire: type %d: unknown classifier kind %d", r.ID, r.Classifier)
		}
		for _, a := range r.Args {
			at, err := l.typeByID(a.Type)
			if err != nil {
				return nil, fmt.Errorf("wire: type %d: %w", r.ID, err)
			}
			t.Args = append(t.Args, sem.Projection{Variance: sem.Variance(a.Variance), Type: at})
		}
	}

	for _, r := range g.Scripts {
		s := l.Scripts[r.ID]
		if r.Class != 0 {
			cls, ok := l.Classes[r.Class]
			if !ok {
				return nil, fmt.Errorf("wire: script %s: dangling class %d", r.Name, r.Class)
			}
			s.Class = cls
		}
		ps, err := l.valueParams(r.Params)
		if err != nil {
			return nil, fmt.Errorf("wire: script %s: %w", r.Name, err)
		}
		s.Params = ps
	}

	for _, r := range g.Classes {
		cls := l.Classes[r.ID]
		for _, pID := range r.TypeParams {
			p, ok := params[pID]
			if !ok {
				return nil, fmt.Errorf("wire: class %s: dangling type parameter %d", r.Name, pID)
			}
			cls.TypeParams = append(cls.TypeParams, p)
		}
		if r.Container.Kind != DeclNone {
			d, err := l.declByRef(r.Container)
			if err != nil {
				return nil, fmt.Errorf("wire: class %s: %w", r.Name, err)
			}
			cls.Container = d
		}
		if r.Closure != 0 {
			c, ok := closures[r.Closure]
			if !ok {
				return nil, fmt.Errorf("wire: class %s: dangling closure %d", r.Name, r.Closure)
			}
			cls.Closure = c
		}
	}

	for _, r := range g.Functions {
		f := l.Functions[r.ID]
		d, err := l.declByRef(r.Container)
		if err != nil {
			return nil, fmt.Errorf("wire: function %s: %w", r.Name, err)
		}
		f.Container = d

		for _, pID := range r.TypeParams {
			p, ok := params[pID]
			if !ok {
				return nil, fmt.Errorf("wire: function %s: dangling type parameter %d", r.Name, pID)
			}
			f.TypeParams = append(f.TypeParams, p)
		}
		ps, err := l.valueParams(r.Params)
		if err != nil {
			return nil, fmt.Errorf("wire: function %s: %w", r.Name, err)
		}
		f.Params = ps

		if r.ReturnType != 0 {
			if f.ReturnType, err = l.typeByID(r.ReturnType); err != nil {
				return nil, fmt.Errorf("wire: function %s: %w", r.Name, err)
			}
		}
		if r.Receiver != 0 {
			if f.Receiver, err = l.typeByID(r.Receiver); err != nil {
				return nil, fmt.Errorf("wire: function %s: %w", r.Name, err)
			}
		}
		for _, oID := range r.Overridden {
			o, ok := l.Functions[oID]
			if !ok {
				return nil, fmt.Errorf("wire: function %s: dangling override %d", r.Name, oID)
			}
			f.Overridden = append(f.Overridden, o)
		}
		if r.Accessor != nil {
			acc := &sem.Accessor{PropertyName: r.Accessor.Property, Getter: r.Accessor.Getter}
			for _, pID := range r.Accessor.TypeParams {
				p, ok := params[pID]
				if !ok {
					return nil, fmt.Errorf("wire: function %s: dangling type parameter %d", r.Name, pID)
				}
				acc.TypeParams = append(acc.TypeParams, p)
			}
			f.Accessor = acc
		}
		if r.ClosureClass != 0 {
			cls, ok := l.Classes[r.ClosureClass]
			if !ok {
				return nil, fmt.Errorf("wire: function %s: dangling closure class %d", r.Name, r.ClosureClass)
			}
			f.ClosureClass = cls
		}
	}

	for _, r := range g.Closures {
		c := closures[r.ID]
		if r.CaptureThis != 0 {
			cls, ok := l.Classes[r.CaptureThis]
			if !ok {
				return nil, fmt.Errorf("wire: closure %d: dangling class %d", r.ID, r.CaptureThis)
			}
			c.CaptureThis = cls
		}
		if r.CaptureReceiver != 0 {
			t, err := l.typeByID(r.CaptureReceiver)
			if err != nil {
				return nil, fmt.Errorf("wire: closure %d: %w", r.ID, err)
			}
			c.CaptureReceiver = t
		}
		for _, rec := range r.Captures {
			var capture sem.Capture
			switch {
			case rec.LocalFun != 0:
				fn, ok := l.Functions[rec.LocalFun]
				if !ok {
					return nil, fmt.Errorf("wire: closure %d: dangling local function %d", r.ID, rec.LocalFun)
				}
				capture.LocalFun = fn
			default:
				t, err := l.typeByID(rec.VarType)
				if err != nil {
					return nil, fmt.Errorf("wire: closure %d: capture %s: %w", r.ID, rec.VarName, err)
				}
				capture.Variable = &sem.Variable{Name: rec.VarName, Type: t, SharedInClosure: rec.VarShared}
			}
			c.Captures = append(c.Captures, capture)
		}
		if r.SuperCall != 0 {
			fn, ok := l.Functions[r.SuperCall]
			if !ok {
				return nil, fmt.Errorf("wire: closure %d: dangling super call %d", r.ID, r.SuperCall)
			}
			c.SuperCall = fn
		}
	}

	return l, nil
}

func (l *Loaded) typeByID(id uint32) (*sem.Type, error) {
	t, ok := l.Types[id]
	if !ok {
		return nil, fmt.Errorf("dangling type %d", id)
	}
	return t, nil
}

func (l *Loaded) valueParams(recs []Param) ([]*sem.ValueParam, error) {
	var out []*sem.ValueParam
	for _, r := range recs {
		t, err := l.typeByID(r.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", r.Name, err)
		}
		out = append(out, &sem.ValueParam{Name: r.Name, Type: t, HasDefault: r.HasDefault})
	}
	return out, nil
}

func (l *Loaded) declByRef(ref DeclRef) (sem.Decl, error) {
	switch ref.Kind {
	case DeclPackage:
		if d, ok := l.Packages[ref.ID]; ok {
			return d, nil
		}
	case DeclScript:
		if d, ok := l.Scripts[ref.ID]; ok {
			return d, nil
		}
	case DeclClass:
		if d, ok := l.Classes[ref.ID]; ok {
			return d, nil
		}
	case DeclFunction:
		if d, ok := l.Functions[ref.ID]; ok {
			return d, nil
		}
	default:
		return nil, fmt.Errorf("unknown container kind %d", ref.Kind)
	}
	return nil, fmt.Errorf("dangling container %d/%d", ref.Kind, ref.ID)
}

func checkID[T any](what string, id uint32, m map[uint32]T) error {
	if id == 0 {
		return fmt.Errorf("wire: %s with reserved id 0", what)
	}
	if _, dup := m[id]; dup {
		return fmt.Errorf("wire: duplicate %s id %d", what, id)
	}
	return nil
}
