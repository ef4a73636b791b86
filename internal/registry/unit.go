package registry

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RichardMelito/Convertal-sub000/internal/composition"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// DefineUnit creates a unit of from's quantity such that
// from_value = multiplier * (value + offset).
func (r *Registry) DefineUnit(name string, from Unit, multiplier, offset decimal.Decimal, opts ...DefineOption) (Unit, error) {
	o := collect(opts)
	if err := r.owns(from); err != nil {
		return Unit{}, err
	}
	f := from.rec()
	if f.isVector() {
		return Unit{}, errors.WithHint(
			errors.Invalidf(errors.ErrInvalidDefinition, "unit %q is a vector", f.label()),
			"define the scalar unit and take its VectorUnit")
	}
	if multiplier.IsZero() {
		return Unit{}, errors.Invalidf(errors.ErrInvalidDefinition, "unit %q has a zero multiplier", name)
	}
	q := r.quantities[f.quantity]
	if q == nil || q.disposed {
		return Unit{}, errors.Invalidf(errors.ErrDisposed, "quantity of unit %q", f.label())
	}
	kind := KindScalarDerivedUnit
	if q.isBase() {
		kind = KindScalarBaseUnit
	}
	if err := r.ValidateName(kind, name, false); err != nil {
		return Unit{}, err
	}
	if err := r.validateNaming(kind, name, o.symbol); err != nil {
		return Unit{}, err
	}
	u := r.newUnit(kind, q.id, f.multiplier.Mul(multiplier), Divide(f.offset, multiplier).Add(offset))
	u.from, u.localMultiplier, u.localOffset = f.id, multiplier, offset
	u.name, u.symbol = name, o.symbol
	r.register(ref{classUnit, uint64(u.id)})
	r.logger.Debug("unit defined", zap.String("unit", name), zap.String("from", f.label()))
	return Unit{r: r, id: u.id}, nil
}

// GetOrDefineUnit returns the unit called name when it measures from's
// quantity with the same effective multiplier and offset, defining it when
// absent.
func (r *Registry) GetOrDefineUnit(name string, from Unit, multiplier, offset decimal.Decimal, opts ...DefineOption) (Unit, error) {
	u, ok, err := r.TryUnit(name)
	if err != nil {
		return Unit{}, err
	}
	if !ok {
		return r.DefineUnit(name, from, multiplier, offset, opts...)
	}
	if err := r.owns(from); err != nil {
		return Unit{}, err
	}
	o := collect(opts)
	f := from.rec()
	switch {
	case u.rec().quantity != f.quantity:
		return Unit{}, errors.Invalidf(errors.ErrDefinitionMismatch, "unit %q measures %q", name, u.Quantity())
	case !u.Multiplier().Equal(f.multiplier.Mul(multiplier)),
		!multiplier.IsZero() && !u.Offset().Equal(Divide(f.offset, multiplier).Add(offset)):
		return Unit{}, errors.Invalidf(errors.ErrDefinitionMismatch, "unit %q has a different scale", name)
	case o.symbol != "" && u.Symbol() != o.symbol:
		return Unit{}, errors.Invalidf(errors.ErrDefinitionMismatch, "unit %q has symbol %q", name, u.Symbol())
	}
	return u, nil
}

// DefineUnitFromComposition creates a unit from a composition of atomic
// scalar units. Its quantity is canonicalized from the components'
// quantities and its multiplier is the product of their multipliers. An
// unnamed unit with the same composition, such as a derived quantity's
// fundamental unit, is named instead of duplicated. An empty name leaves the
// unit unnamed.
func (r *Registry) DefineUnitFromComposition(name string, comp UnitComposition, opts ...DefineOption) (Unit, error) {
	o := collect(opts)
	if comp == nil || comp.IsEmpty() {
		return Unit{}, errors.Invalidf(errors.ErrInvalidDefinition, "unit %q has an empty composition", name)
	}
	for _, t := range comp.Terms() {
		u, ok := r.units[t.Key]
		switch {
		case !ok:
			return Unit{}, errors.Invalidf(errors.ErrInvalidDefinition, "composition references unknown unit %d", t.Key)
		case u.disposed:
			return Unit{}, errors.Invalidf(errors.ErrDisposed, "unit %q", u.label())
		case !u.isAtomic():
			return Unit{}, errors.Invalidf(errors.ErrInvalidDefinition, "unit %q is not an atomic scalar unit", u.label())
		}
	}

	sc := comp.ScalarAnalog()
	qc, err := r.quantityOf(sc)
	if err != nil {
		return Unit{}, err
	}
	scalarKind := KindScalarDerivedUnit
	if isBaseComposition(qc) {
		scalarKind = KindScalarBaseUnit
	}
	kind := scalarKind
	if comp.IsVector() {
		kind = vectorKind(scalarKind)
	}
	if err := r.validateNaming(kind, name, o.symbol); err != nil {
		return Unit{}, err
	}

	multiplier, err := r.multiplierOf(sc)
	if err != nil {
		return Unit{}, err
	}
	if err := checkMultiplier(multiplier, "unit", r.formatUnit(sc)); err != nil {
		return Unit{}, err
	}
	q, err := r.canonical(qc)
	if err != nil {
		return Unit{}, err
	}

	qr := q.rec()
	s, ok := r.unnamedUnit(qr.id, sc)
	if !ok {
		s = r.newUnit(scalarKind, qr.id, multiplier, decimal.Zero)
		s.composition = sc
		r.logger.Debug("unit composed", zap.String("unit", name), zap.String("composition", r.formatUnit(sc)))
	}

	target := s
	if comp.IsVector() {
		if target, err = r.vectorUnit(s, false); err != nil {
			return Unit{}, err
		}
	}
	out := Unit{r: r, id: target.id}
	if name == "" && o.symbol == "" {
		return out, nil
	}
	return out, r.nameEntity(out.ref(), name, o.symbol)
}

// GetOrDefineUnitFromComposition returns the unit called name when it has
// composition comp, defining it when absent.
func (r *Registry) GetOrDefineUnitFromComposition(name string, comp UnitComposition, opts ...DefineOption) (Unit, error) {
	u, ok, err := r.TryUnit(name)
	if err != nil {
		return Unit{}, err
	}
	if !ok {
		return r.DefineUnitFromComposition(name, comp, opts...)
	}
	if comp == nil || !u.Composition().Equal(comp) {
		return Unit{}, errors.Invalidf(errors.ErrDefinitionMismatch, "unit %q has composition %s", name, u.FormatComposition())
	}
	if o := collect(opts); o.symbol != "" && u.Symbol() != o.symbol {
		return Unit{}, errors.Invalidf(errors.ErrDefinitionMismatch, "unit %q has symbol %q", name, u.Symbol())
	}
	return u, nil
}

// isBaseComposition reports whether c is a single base quantity to the first power.
func isBaseComposition(c QuantityComposition) bool {
	if c.IsVector() || c.Len() != 1 {
		return false
	}
	return c.Terms()[0].Exponent.Equal(one)
}

// quantityOf multiplies out the quantity compositions of a unit composition.
func (r *Registry) quantityOf(c *composition.Scalar[UnitID]) (QuantityComposition, error) {
	var acc QuantityComposition = composition.EmptyScalar[QuantityID]()
	for _, t := range c.Terms() {
		qc := r.quantities[r.units[t.Key].quantity].composition
		p, err := composition.Pow(qc, t.Exponent)
		if err != nil {
			return nil, err
		}
		if acc, err = composition.Multiply(acc, p); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// unnamedUnit finds a live unnamed scalar unit of q with composition c.
func (r *Registry) unnamedUnit(q QuantityID, c UnitComposition) (*unitRecord, bool) {
	for _, id := range slices.Sorted(maps.Keys(r.units)) {
		u := r.units[id]
		if u.disposed || u.quantity != q || u.name != "" || u.symbol != "" || u.isAtomic() {
			continue
		}
		if u.composition.Equal(c) {
			return u, true
		}
	}
	return nil, false
}

func (r *Registry) formatUnit(c UnitComposition) string {
	return composition.Format(c, func(id UnitID) string {
		return Unit{r: r, id: id}.String()
	})
}

// FormatComposition renders u's composition with unit names, e.g. "metre·second^-1".
func (u Unit) FormatComposition() string {
	if u.r == nil || u.rec().composition == nil {
		return ""
	}
	return u.r.formatUnit(u.rec().composition)
}

func (r *Registry) unitAlgebra(a, b Unit, op func(x, y UnitComposition) (UnitComposition, error)) (UnitComposition, error) {
	if err := r.ownsAll(a, b); err != nil {
		return nil, err
	}
	return op(a.rec().composition, b.rec().composition)
}

// MultiplyUnits returns the composition of a·b.
func (r *Registry) MultiplyUnits(a, b Unit) (UnitComposition, error) {
	return r.unitAlgebra(a, b, composition.Multiply[UnitID])
}

// DivideUnits returns the composition of a/b.
func (r *Registry) DivideUnits(a, b Unit) (UnitComposition, error) {
	return r.unitAlgebra(a, b, composition.Divide[UnitID])
}

// DotUnits returns the composition of the dot product of two vector units.
func (r *Registry) DotUnits(a, b Unit) (UnitComposition, error) {
	return r.unitAlgebra(a, b, composition.Dot[UnitID])
}

// CrossUnits returns the composition of the cross product of two vector units.
func (r *Registry) CrossUnits(a, b Unit) (UnitComposition, error) {
	return r.unitAlgebra(a, b, composition.Cross[UnitID])
}

// PowUnit returns the composition of u^p.
func (r *Registry) PowUnit(u Unit, p decimal.Decimal) (UnitComposition, error) {
	if err := r.owns(u); err != nil {
		return nil, err
	}
	return composition.Pow(u.rec().composition, p)
}
