package document

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RichardMelito/Convertal-sub000/internal/composition"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

type loader struct {
	reg    *registry.Registry
	logger *zap.Logger
}

// Load defines everything doc describes in reg, in the order prefixes, base
// quantities, derived quantities, units, measurement systems. Definitions that
// already exist with the same meaning are reused, so loading a document twice
// changes nothing. Derived quantities and units may reference entries that
// appear later in their section. A failed load leaves the definitions made
// before the failure in place.
func Load(reg *registry.Registry, doc *Document) error {
	if err := CheckVersion(doc.Version); err != nil {
		return err
	}
	l := &loader{reg: reg, logger: reg.Logger().Named("document")}

	for _, p := range doc.Prefixes {
		if _, err := reg.GetOrDefinePrefix(p.Name, p.Symbol, p.Multiplier.Decimal); err != nil {
			return errors.Wrapf(err, "prefix %q", p.Name)
		}
	}
	for _, b := range doc.BaseQuantities {
		if err := l.baseQuantity(b); err != nil {
			return errors.Wrapf(err, "base quantity %q", b.Name)
		}
	}
	if err := settle(l.logger, "derived quantity", doc.DerivedQuantities, derivedLabel, l.derivedQuantity); err != nil {
		return err
	}
	if err := settle(l.logger, "unit", doc.Units, func(u UnitDoc) string { return u.Name }, l.unit); err != nil {
		return err
	}
	for _, s := range doc.Systems {
		if err := l.system(s); err != nil {
			return errors.Wrapf(err, "system %q", s.Name)
		}
	}

	l.logger.Debug("document loaded",
		zap.String("document", doc.Name),
		zap.Int("units", len(doc.Units)),
		zap.Int("systems", len(doc.Systems)))
	return nil
}

// LoadFile parses the document at path and loads it into reg.
func LoadFile(reg *registry.Registry, path string) error {
	doc, err := ParseFile(path)
	if err != nil {
		return err
	}
	return errors.Wrapf(Load(reg, doc), "document %s", path)
}

// settle defines items in passes. An item whose references are not defined
// yet is retried in the next pass; a pass that defines nothing ends the load
// with ErrUnresolvedReference.
func settle[T any](logger *zap.Logger, section string, items []T, label func(T) string, define func(T) error) error {
	pending := items
	for pass := 1; len(pending) > 0; pass++ {
		var deferred []T
		var misses []string
		for _, item := range pending {
			err := define(item)
			switch {
			case err == nil:
			case errors.IsNotFoundError(err):
				deferred = append(deferred, item)
				misses = append(misses, err.Error())
			default:
				return errors.Wrapf(err, "%s %q", section, label(item))
			}
		}
		logger.Debug("worklist pass",
			zap.String("section", section),
			zap.Int("pass", pass),
			zap.Int("defined", len(pending)-len(deferred)),
			zap.Int("deferred", len(deferred)))

		if len(deferred) == len(pending) {
			labels := make([]string, len(deferred))
			for i, item := range deferred {
				labels[i] = label(item)
			}
			return errors.WithDetail(
				errors.Invalidf(errors.ErrUnresolvedReference, "%s definitions never resolved: %s",
					section, strings.Join(labels, ", ")),
				strings.Join(misses, "\n"))
		}
		pending = deferred
	}
	return nil
}

func derivedLabel(d DerivedQuantityDoc) string {
	if d.Name != "" {
		return d.Name
	}
	keys := slices.Sorted(maps.Keys(d.Composition))
	return strings.Join(keys, "·")
}

func (l *loader) baseQuantity(b BaseQuantityDoc) error {
	opts := []registry.DefineOption{registry.WithSymbol(b.Symbol), registry.WithUnitSymbol(b.UnitSymbol)}
	if b.FundamentalPrefix != "" {
		p, err := l.reg.Prefix(b.FundamentalPrefix)
		if err != nil {
			return err
		}
		opts = append(opts, registry.WithFundamentalPrefix(p))
	}
	q, err := l.reg.GetOrDefineBaseQuantity(b.Name, b.Unit, opts...)
	if err != nil {
		return err
	}
	return l.vectorQuantity(q, b.Vector)
}

func (l *loader) derivedQuantity(d DerivedQuantityDoc) error {
	comp, err := l.quantityComposition(d.Composition)
	if err != nil {
		return err
	}
	q, err := l.reg.QuantityFromComposition(comp)
	if err != nil {
		return err
	}
	if d.Name != "" || d.Symbol != "" {
		if err := l.reg.NameQuantity(q, d.Name, d.Symbol); err != nil {
			return err
		}
	}
	if d.Unit != "" || d.UnitSymbol != "" {
		if err := l.reg.NameUnit(q.FundamentalUnit(), d.Unit, d.UnitSymbol); err != nil {
			return err
		}
	}
	return l.vectorQuantity(q, d.Vector)
}

func (l *loader) vectorQuantity(q registry.Quantity, v *VectorDoc) error {
	if v == nil || (v.Name == "" && v.Symbol == "") {
		return nil
	}
	_, err := l.reg.DefineVectorQuantity(q, v.Name, v.Symbol)
	return err
}

// quantityComposition multiplies out named quantities raised to their exponents.
func (l *loader) quantityComposition(m map[string]Number) (registry.QuantityComposition, error) {
	var acc registry.QuantityComposition = composition.EmptyScalar[registry.QuantityID]()
	for _, name := range slices.Sorted(maps.Keys(m)) {
		q, err := l.reg.Quantity(name)
		if err != nil {
			return nil, err
		}
		p, err := composition.Pow(q.Composition(), m[name].Decimal)
		if err != nil {
			return nil, err
		}
		if acc, err = composition.Multiply(acc, p); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (l *loader) unit(u UnitDoc) error {
	set := 0
	for _, ok := range []bool{u.From != "", len(u.FromComposition) > 0, len(u.Composition) > 0} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return errors.Invalidf(errors.ErrInvalidDefinition,
			"unit %q needs exactly one of from, from_composition or composition", u.Name)
	}
	if err := checkSelfReference(u); err != nil {
		return err
	}

	opts := []registry.DefineOption{registry.WithSymbol(u.Symbol)}
	var out registry.Unit
	if len(u.Composition) > 0 {
		comp, err := l.unitComposition(u.Composition)
		if err != nil {
			return err
		}
		if out, err = l.reg.GetOrDefineUnitFromComposition(u.Name, comp, opts...); err != nil {
			return err
		}
	} else {
		from, err := l.fromUnit(u)
		if err != nil {
			return err
		}
		out, err = l.reg.GetOrDefineUnit(u.Name, from,
			u.Multiplier.Or(decimal.NewFromInt(1)), u.Offset.Or(decimal.Zero), opts...)
		if err != nil {
			return err
		}
	}

	if u.Quantity != "" && out.Quantity().Name() != u.Quantity {
		return errors.Invalidf(errors.ErrInvalidQuantity,
			"unit %q measures %q, not %q", u.Name, out.Quantity(), u.Quantity)
	}
	if u.Vector != nil && (u.Vector.Name != "" || u.Vector.Symbol != "") {
		if _, err := l.reg.DefineVectorUnit(out, u.Vector.Name, u.Vector.Symbol); err != nil {
			return err
		}
	}
	return nil
}

func checkSelfReference(u UnitDoc) error {
	self := func(ref string) bool {
		return ref == u.Name || (u.Symbol != "" && ref == u.Symbol)
	}
	refs := slices.Collect(maps.Keys(u.Composition))
	refs = slices.AppendSeq(refs, maps.Keys(u.FromComposition))
	if u.From != "" {
		refs = append(refs, u.From)
	}
	for _, ref := range refs {
		if self(ref) {
			return errors.Invalidf(errors.ErrSelfReference, "unit %q is defined in terms of itself", u.Name)
		}
	}
	return nil
}

// fromUnit resolves the unit a from or from_composition definition scales.
func (l *loader) fromUnit(u UnitDoc) (registry.Unit, error) {
	if u.From != "" {
		return l.reg.ResolveUnit(u.From)
	}
	if len(u.FromComposition) == 1 {
		for name, exp := range u.FromComposition {
			if exp.Equal(decimal.NewFromInt(1)) {
				return l.reg.ResolveUnit(name)
			}
		}
	}
	comp, err := l.unitComposition(u.FromComposition)
	if err != nil {
		return registry.Unit{}, err
	}
	return l.reg.DefineUnitFromComposition("", comp)
}

// unitComposition multiplies out named units raised to their exponents. A
// composite unit contributes its own composition.
func (l *loader) unitComposition(m map[string]Number) (registry.UnitComposition, error) {
	var acc registry.UnitComposition = composition.EmptyScalar[registry.UnitID]()
	for _, name := range slices.Sorted(maps.Keys(m)) {
		u, err := l.reg.ResolveUnit(name)
		if err != nil {
			return nil, err
		}
		if u.IsVector() {
			return nil, errors.Invalidf(errors.ErrInvalidDefinition, "unit %q is a vector", name)
		}
		p, err := composition.Pow(u.Composition(), m[name].Decimal)
		if err != nil {
			return nil, err
		}
		if acc, err = composition.Multiply(acc, p); err != nil {
			return nil, err
		}
	}
	if acc.IsEmpty() {
		return nil, errors.Invalidf(errors.ErrInvalidDefinition, "composition cancels out")
	}
	return acc, nil
}

func (l *loader) system(s SystemDoc) error {
	sys, err := l.reg.GetOrDefineMeasurementSystem(s.Name)
	if err != nil {
		return err
	}
	for _, qname := range slices.Sorted(maps.Keys(s.Units)) {
		q, err := l.reg.Quantity(qname)
		if err != nil {
			return err
		}
		u, err := l.reg.ResolveUnit(s.Units[qname])
		if err != nil {
			return err
		}
		if err := l.reg.SetUnit(sys, q, u); err != nil {
			return err
		}
	}
	return nil
}
