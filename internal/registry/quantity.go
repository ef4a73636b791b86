package registry

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RichardMelito/Convertal-sub000/internal/composition"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// DefineOption tunes a definition.
type DefineOption func(*defineOptions)

type defineOptions struct {
	symbol     string
	unitSymbol string
	prefix     Prefix
}

// WithSymbol sets the symbol of the entity being defined.
func WithSymbol(symbol string) DefineOption {
	return func(o *defineOptions) { o.symbol = symbol }
}

// WithUnitSymbol sets the symbol of a base quantity's named unit.
func WithUnitSymbol(symbol string) DefineOption {
	return func(o *defineOptions) { o.unitSymbol = symbol }
}

// WithFundamentalPrefix makes the prefixed form of a base quantity's named
// unit its fundamental unit, the way kilogram is for gram.
func WithFundamentalPrefix(p Prefix) DefineOption {
	return func(o *defineOptions) { o.prefix = p }
}

func collect(opts []DefineOption) defineOptions {
	var o defineOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DefineBaseQuantity creates a scalar base quantity and its named unit. The
// named unit is fundamental unless WithFundamentalPrefix is given.
func (r *Registry) DefineBaseQuantity(name, unitName string, opts ...DefineOption) (Quantity, error) {
	o := collect(opts)
	if err := r.ValidateName(KindScalarBaseQuantity, name, false); err != nil {
		return Quantity{}, err
	}
	if err := r.validateNaming(KindScalarBaseQuantity, "", o.symbol); err != nil {
		return Quantity{}, err
	}
	if o.symbol == name {
		return Quantity{}, errors.Invalidf(errors.ErrDuplicateName, "symbol %q repeats the name", o.symbol)
	}
	if err := r.ValidateName(KindScalarBaseUnit, unitName, false); err != nil {
		return Quantity{}, err
	}
	if err := r.validateNaming(KindScalarBaseUnit, unitName, o.unitSymbol); err != nil {
		return Quantity{}, err
	}

	var (
		p              *prefixRecord
		prefixedName   string
		prefixedSymbol string
	)
	if !o.prefix.IsZero() {
		if err := r.owns(o.prefix); err != nil {
			return Quantity{}, err
		}
		p = o.prefix.rec()
		prefixedName = p.name + PrefixSeparator + unitName
		if err := r.checkFree(KindPrefixedUnit, prefixedName); err != nil {
			return Quantity{}, err
		}
		prefixedSymbol = r.freeSymbol(KindPrefixedUnit, p.symbol, o.unitSymbol)
	}

	multiplier := one
	if p != nil {
		multiplier = Divide(one, p.multiplier)
		if err := checkMultiplier(multiplier, "unit", unitName); err != nil {
			return Quantity{}, err
		}
	}

	q := r.newQuantity(KindScalarBaseQuantity, nil)
	q.composition = composition.ScalarOf(q.id)
	q.name, q.symbol = name, o.symbol
	r.register(ref{classQuantity, uint64(q.id)})

	u := r.newUnit(KindScalarBaseUnit, q.id, multiplier, decimal.Zero)
	u.name, u.symbol = unitName, o.unitSymbol
	r.register(ref{classUnit, uint64(u.id)})
	q.fundamental = u.id

	if p != nil {
		pu := r.newPrefixed(u, p, prefixedName, prefixedSymbol)
		pu.multiplier, pu.offset = one, decimal.Zero
		q.fundamental = pu.id
	}

	r.byComposition[q.composition.Key()] = q.id
	r.logger.Debug("base quantity defined",
		zap.String("quantity", name),
		zap.String("fundamental", r.units[q.fundamental].label()))
	return Quantity{r: r, id: q.id}, nil
}

// GetOrDefineBaseQuantity returns the base quantity called name when it
// matches the requested definition, defining it when absent.
func (r *Registry) GetOrDefineBaseQuantity(name, unitName string, opts ...DefineOption) (Quantity, error) {
	q, ok, err := r.TryQuantity(name)
	if err != nil {
		return Quantity{}, err
	}
	if !ok {
		return r.DefineBaseQuantity(name, unitName, opts...)
	}

	o := collect(opts)
	mismatch := func(what string) error {
		return errors.Invalidf(errors.ErrDefinitionMismatch, "quantity %q exists with a different %s", name, what)
	}
	if q.Kind() != KindScalarBaseQuantity {
		return Quantity{}, mismatch("kind")
	}
	if o.symbol != "" && q.Symbol() != o.symbol {
		return Quantity{}, mismatch("symbol")
	}

	named := q.FundamentalUnit()
	if !o.prefix.IsZero() {
		p, prefixed := named.Prefix()
		if !prefixed || p != o.prefix {
			return Quantity{}, mismatch("fundamental prefix")
		}
		named, _ = named.Unprefixed()
	} else if _, prefixed := named.Prefix(); prefixed {
		return Quantity{}, mismatch("fundamental prefix")
	}
	if named.Name() != unitName {
		return Quantity{}, mismatch("fundamental unit")
	}
	if o.unitSymbol != "" && named.Symbol() != o.unitSymbol {
		return Quantity{}, mismatch("unit symbol")
	}
	return q, nil
}

// QuantityFromComposition returns the one quantity with composition comp,
// creating a derived quantity and its fundamental unit on a cache miss. Keys
// must be live scalar base quantities of r.
func (r *Registry) QuantityFromComposition(comp QuantityComposition) (Quantity, error) {
	if comp == nil {
		return Quantity{}, errors.Invalidf(errors.ErrInvalidDefinition, "nil composition")
	}
	for _, t := range comp.Terms() {
		rec, ok := r.quantities[t.Key]
		switch {
		case !ok:
			return Quantity{}, errors.Invalidf(errors.ErrInvalidDefinition, "composition references unknown quantity %d", t.Key)
		case rec.disposed:
			return Quantity{}, errors.Invalidf(errors.ErrDisposed, "quantity %q", rec.label())
		case rec.kind != KindScalarBaseQuantity:
			return Quantity{}, errors.Invalidf(errors.ErrInvalidDefinition, "%s %q is not a scalar base quantity", rec.kind, rec.label())
		}
	}
	return r.canonical(comp)
}

// canonical is QuantityFromComposition without key validation.
func (r *Registry) canonical(comp QuantityComposition) (Quantity, error) {
	if id, ok := r.byComposition[comp.Key()]; ok {
		return Quantity{r: r, id: id}, nil
	}

	if comp.IsVector() {
		s, err := r.canonical(comp.ScalarAnalog())
		if err != nil {
			return Quantity{}, err
		}
		v, err := r.vectorQuantity(s.rec(), true)
		if err != nil {
			return Quantity{}, err
		}
		return Quantity{r: r, id: v.id}, nil
	}

	uc, err := composition.Map(comp, func(id QuantityID) (UnitID, error) {
		return r.quantities[id].fundamental, nil
	})
	if err != nil {
		return Quantity{}, err
	}
	multiplier, err := r.multiplierOf(uc)
	if err != nil {
		return Quantity{}, err
	}
	if err := checkMultiplier(multiplier, "fundamental unit of", r.formatQuantity(comp)); err != nil {
		return Quantity{}, err
	}

	q := r.newQuantity(KindScalarDerivedQuantity, comp)
	u := r.newUnit(KindScalarDerivedUnit, q.id, multiplier, decimal.Zero)
	u.composition = uc
	q.fundamental = u.id
	r.byComposition[comp.Key()] = q.id

	r.logger.Debug("derived quantity created", zap.String("composition", r.formatQuantity(comp)))
	return Quantity{r: r, id: q.id}, nil
}

// formatQuantity renders a quantity composition with base quantity names.
func (r *Registry) formatQuantity(c QuantityComposition) string {
	return composition.Format(c, func(id QuantityID) string {
		return Quantity{r: r, id: id}.String()
	})
}

// FormatComposition renders q's composition with base quantity names,
// e.g. "Length·Time^-2".
func (q Quantity) FormatComposition() string {
	if q.r == nil || q.rec().composition == nil {
		return ""
	}
	return q.r.formatQuantity(q.rec().composition)
}

func (q Quantity) algebra(o Quantity, op func(a, b QuantityComposition) (QuantityComposition, error)) (Quantity, error) {
	if err := q.r.ownsAll(q, o); err != nil {
		return Quantity{}, err
	}
	c, err := op(q.rec().composition, o.rec().composition)
	if err != nil {
		return Quantity{}, err
	}
	return q.r.canonical(c)
}

// Multiply returns the canonical quantity q·o.
func (q Quantity) Multiply(o Quantity) (Quantity, error) {
	return q.algebra(o, composition.Multiply[QuantityID])
}

// Divide returns the canonical quantity q/o.
func (q Quantity) Divide(o Quantity) (Quantity, error) {
	return q.algebra(o, composition.Divide[QuantityID])
}

// Dot returns the scalar quantity of the dot product of two vector quantities.
func (q Quantity) Dot(o Quantity) (Quantity, error) {
	return q.algebra(o, composition.Dot[QuantityID])
}

// Cross returns the vector quantity of the cross product of two vector quantities.
func (q Quantity) Cross(o Quantity) (Quantity, error) {
	return q.algebra(o, composition.Cross[QuantityID])
}

// Pow returns the canonical quantity q^p.
func (q Quantity) Pow(p decimal.Decimal) (Quantity, error) {
	if q.r == nil {
		return Quantity{}, errors.Invalidf(errors.ErrInvalidDefinition, "quantity is not attached to a registry")
	}
	if err := q.r.owns(q); err != nil {
		return Quantity{}, err
	}
	c, err := composition.Pow(q.rec().composition, p)
	if err != nil {
		return Quantity{}, err
	}
	return q.r.canonical(c)
}

// ownsAll checks every entity with owns.
func (r *Registry) ownsAll(es ...Entity) error {
	if r == nil {
		return errors.Invalidf(errors.ErrInvalidDefinition, "entity is not attached to a registry")
	}
	for _, e := range es {
		if err := r.owns(e); err != nil {
			return err
		}
	}
	return nil
}
