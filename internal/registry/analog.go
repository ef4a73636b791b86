package registry

import (
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// VectorQuantity returns the vector analog of q, creating it and its
// fundamental unit on first use. A new analog of a named scalar is named with
// the vector marker when that name is free. Vectors return themselves.
func (r *Registry) VectorQuantity(q Quantity) (Quantity, error) {
	if err := r.owns(q); err != nil {
		return Quantity{}, err
	}
	v, err := r.vectorQuantity(q.rec(), true)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{r: r, id: v.id}, nil
}

// DefineVectorQuantity creates the vector analog of scalar under an explicit
// name, or names an existing unnamed analog.
func (r *Registry) DefineVectorQuantity(scalar Quantity, name, symbol string) (Quantity, error) {
	if err := r.owns(scalar); err != nil {
		return Quantity{}, err
	}
	s := scalar.rec()
	if s.isVector() {
		return Quantity{}, errors.Invalidf(errors.ErrInvalidDefinition, "quantity %q is already a vector", s.label())
	}
	if s.analog == 0 {
		if err := r.validateNaming(KindQuantity, name, symbol); err != nil {
			return Quantity{}, err
		}
	}
	v, err := r.vectorQuantity(s, false)
	if err != nil {
		return Quantity{}, err
	}
	out := Quantity{r: r, id: v.id}
	return out, r.nameEntity(out.ref(), name, symbol)
}

// VectorUnit returns the vector analog of u, creating it on first use.
func (r *Registry) VectorUnit(u Unit) (Unit, error) {
	if err := r.owns(u); err != nil {
		return Unit{}, err
	}
	v, err := r.vectorUnit(u.rec(), true)
	if err != nil {
		return Unit{}, err
	}
	return Unit{r: r, id: v.id}, nil
}

// DefineVectorUnit creates the vector analog of scalar under an explicit
// name, or names an existing unnamed analog.
func (r *Registry) DefineVectorUnit(scalar Unit, name, symbol string) (Unit, error) {
	if err := r.owns(scalar); err != nil {
		return Unit{}, err
	}
	s := scalar.rec()
	if s.isVector() {
		return Unit{}, errors.Invalidf(errors.ErrInvalidDefinition, "unit %q is already a vector", s.label())
	}
	if s.analog == 0 {
		if err := r.validateNaming(KindUnit, name, symbol); err != nil {
			return Unit{}, err
		}
	}
	v, err := r.vectorUnit(s, false)
	if err != nil {
		return Unit{}, err
	}
	out := Unit{r: r, id: v.id}
	return out, r.nameEntity(out.ref(), name, symbol)
}

func vectorKind(k Kind) Kind {
	switch k {
	case KindScalarBaseQuantity:
		return KindVectorBaseQuantity
	case KindScalarBaseUnit:
		return KindVectorBaseUnit
	case KindScalarDerivedUnit:
		return KindVectorDerivedUnit
	default:
		return KindVectorDerivedQuantity
	}
}

// vectorQuantity gets or creates the vector analog of s.
func (r *Registry) vectorQuantity(s *quantityRecord, autoName bool) (*quantityRecord, error) {
	if s.isVector() {
		return s, nil
	}
	if s.analog != 0 {
		return r.quantities[s.analog], nil
	}

	comp := s.composition.VectorAnalog()
	if id, ok := r.byComposition[comp.Key()]; ok {
		return nil, errors.Invariantf(errors.ErrAnalogMismatch,
			"vector composition of %q is already held by quantity %d", s.label(), id)
	}
	v := r.newQuantity(vectorKind(s.kind), comp)
	if err := r.linkQuantities(s, v); err != nil {
		return nil, err
	}
	r.byComposition[comp.Key()] = v.id

	fu, err := r.vectorUnit(r.units[s.fundamental], true)
	if err != nil {
		return nil, err
	}
	v.fundamental = fu.id

	if autoName {
		r.propagateNames(ref{classQuantity, uint64(s.id)})
	}
	return v, nil
}

// vectorUnit gets or creates the vector analog of s. The analog shares
// multiplier and offset and measures the vector analog of s's quantity.
func (r *Registry) vectorUnit(s *unitRecord, autoName bool) (*unitRecord, error) {
	if s.isVector() {
		return s, nil
	}
	if s.analog != 0 {
		return r.units[s.analog], nil
	}

	vq, err := r.vectorQuantity(r.quantities[s.quantity], true)
	if err != nil {
		return nil, err
	}
	if s.analog != 0 {
		// Creating the vector quantity created this unit's analog as its fundamental.
		return r.units[s.analog], nil
	}

	v := r.newUnit(vectorKind(s.kind), vq.id, s.multiplier, s.offset)
	v.composition = s.composition.VectorAnalog()
	if s.prefix != 0 {
		base, err := r.vectorUnit(r.units[s.base], true)
		if err != nil {
			return nil, err
		}
		v.prefix, v.base = s.prefix, base.id
	}
	if err := r.linkUnits(s, v); err != nil {
		return nil, err
	}
	if autoName {
		r.propagateNames(ref{classUnit, uint64(s.id)})
	}
	return v, nil
}

func (r *Registry) linkQuantities(s, v *quantityRecord) error {
	switch {
	case s.analog != 0 && s.analog != v.id, v.analog != 0 && v.analog != s.id:
		return errors.Invariantf(errors.ErrAnalogMismatch, "quantity %q is already linked", s.label())
	case !v.composition.ScalarAnalog().Equal(s.composition):
		return errors.Invariantf(errors.ErrAnalogMismatch, "vector %s does not project onto %s", v.composition, s.composition)
	}
	s.analog, v.analog = v.id, s.id
	return nil
}

func (r *Registry) linkUnits(s, v *unitRecord) error {
	switch {
	case s.analog != 0 && s.analog != v.id, v.analog != 0 && v.analog != s.id:
		return errors.Invariantf(errors.ErrAnalogMismatch, "unit %q is already linked", s.label())
	case !v.composition.ScalarAnalog().Equal(s.composition):
		return errors.Invariantf(errors.ErrAnalogMismatch, "vector %s does not project onto %s", v.composition, s.composition)
	}
	s.analog, v.analog = v.id, s.id
	return nil
}

// analogOf returns the linked scalar or vector counterpart of e.
func (r *Registry) analogOf(e ref) (ref, bool) {
	switch e.class {
	case classQuantity:
		if q, ok := r.quantities[QuantityID(e.id)]; ok && q.analog != 0 {
			return ref{classQuantity, uint64(q.analog)}, true
		}
	case classUnit:
		if u, ok := r.units[UnitID(e.id)]; ok && u.analog != 0 {
			return ref{classUnit, uint64(u.analog)}, true
		}
	}
	return ref{}, false
}

func (r *Registry) isVectorRef(e ref) bool {
	switch e.class {
	case classQuantity:
		return r.quantities[QuantityID(e.id)].isVector()
	case classUnit:
		return r.units[UnitID(e.id)].isVector()
	}
	return false
}

// propagateNames copies e's names onto its unnamed analog: a scalar name gains
// the vector marker, a marked vector name loses it. Taken names are skipped.
func (r *Registry) propagateNames(e ref) {
	other, ok := r.analogOf(e)
	if !ok {
		return
	}
	rec, _, _ := r.record(e)
	orec, kind, _ := r.record(other)
	if orec.disposed {
		return
	}

	derive := vectorName
	if r.isVectorRef(e) {
		derive = scalarName
	}
	if name := derive(rec.name); orec.name == "" && name != "" && r.checkFree(kind, name) == nil {
		orec.name = name
	}
	if symbol := derive(rec.symbol); orec.symbol == "" && symbol != "" && symbol != orec.name && r.checkFree(kind, symbol) == nil {
		orec.symbol = symbol
	}
	r.register(other)
}
