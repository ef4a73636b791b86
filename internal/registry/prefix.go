package registry

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// DefinePrefix registers a scale factor. The multiplier must be positive.
func (r *Registry) DefinePrefix(name, symbol string, multiplier decimal.Decimal) (Prefix, error) {
	if err := r.ValidateName(KindPrefix, name, false); err != nil {
		return Prefix{}, err
	}
	if err := r.validateNaming(KindPrefix, "", symbol); err != nil {
		return Prefix{}, err
	}
	if symbol == name {
		return Prefix{}, errors.Invalidf(errors.ErrDuplicateName, "symbol %q repeats the name", symbol)
	}
	if !multiplier.IsPositive() {
		return Prefix{}, errors.Invalidf(errors.ErrInvalidDefinition, "prefix %q multiplier %s is not positive", name, multiplier)
	}

	p := &prefixRecord{id: PrefixID(r.allocID()), multiplier: multiplier}
	p.name, p.symbol = name, symbol
	r.prefixes[p.id] = p
	r.register(ref{classPrefix, uint64(p.id)})
	return Prefix{r: r, id: p.id}, nil
}

// GetOrDefinePrefix returns the prefix called name if it has the same
// multiplier and symbol, defining it when absent.
func (r *Registry) GetOrDefinePrefix(name, symbol string, multiplier decimal.Decimal) (Prefix, error) {
	p, ok, err := r.TryPrefix(name)
	if err != nil {
		return Prefix{}, err
	}
	if !ok {
		return r.DefinePrefix(name, symbol, multiplier)
	}
	if !p.Multiplier().Equal(multiplier) || (symbol != "" && p.Symbol() != symbol) {
		return Prefix{}, errors.Invalidf(errors.ErrDefinitionMismatch, "prefix %q exists as %s (%s)", name, p.Symbol(), p.Multiplier())
	}
	return p, nil
}

// PrefixedUnit returns the one unit that is u scaled by p, creating it on
// first use. Scalar prefixed units are named prefix_unit and get the joined
// symbols when free; vector prefixed units are the vector analogs of the
// scalar ones.
func (r *Registry) PrefixedUnit(u Unit, p Prefix) (Unit, error) {
	if err := r.ownsAll(u, p); err != nil {
		return Unit{}, err
	}
	rec := u.rec()
	if rec.prefix != 0 {
		return Unit{}, errors.Invalidf(errors.ErrInvalidDefinition, "unit %q is already prefixed", rec.label())
	}

	switch rec.kind {
	case KindScalarBaseUnit, KindScalarDerivedUnit:
		existing, ok, err := r.findPrefixed(rec.id, p.id)
		if err != nil || ok {
			return existing, err
		}
		pr := p.rec()
		var name string
		if rec.name != "" {
			name = pr.name + PrefixSeparator + rec.name
			if err := r.checkFree(KindPrefixedUnit, name); err != nil {
				return Unit{}, err
			}
		}
		pu := r.newPrefixed(rec, pr, name, r.freeSymbol(KindPrefixedUnit, pr.symbol, rec.symbol))
		return Unit{r: r, id: pu.id}, nil

	case KindVectorBaseUnit, KindVectorDerivedUnit:
		s, ok := u.ScalarAnalog()
		if !ok {
			return Unit{}, errors.AssertionFailedf("vector unit %q has no scalar analog", rec.label())
		}
		ps, err := r.PrefixedUnit(s, p)
		if err != nil {
			return Unit{}, err
		}
		v, err := r.vectorUnit(ps.rec(), true)
		if err != nil {
			return Unit{}, err
		}
		return Unit{r: r, id: v.id}, nil

	default:
		return Unit{}, errors.AssertionFailedf("unit %q has unexpected kind %s", rec.label(), rec.kind)
	}
}

// findPrefixed returns the live unit wrapping base with prefix.
func (r *Registry) findPrefixed(base UnitID, prefix PrefixID) (Unit, bool, error) {
	var found []UnitID
	for _, id := range slices.Sorted(maps.Keys(r.units)) {
		u := r.units[id]
		if !u.disposed && u.base == base && u.prefix == prefix {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return Unit{}, false, nil
	case 1:
		return Unit{r: r, id: found[0]}, true, nil
	default:
		return Unit{}, false, errors.Invariantf(errors.ErrAmbiguousMatch, "%d prefixed units for (%q, %q)",
			len(found), r.units[base].label(), r.prefixes[prefix].label())
	}
}

func (r *Registry) newPrefixed(u *unitRecord, p *prefixRecord, name, symbol string) *unitRecord {
	pu := r.newUnit(u.kind, u.quantity, u.multiplier.Mul(p.multiplier), Divide(u.offset, p.multiplier))
	pu.prefix, pu.base = p.id, u.id
	pu.name, pu.symbol = name, symbol
	r.register(ref{classUnit, uint64(pu.id)})
	r.logger.Debug("prefixed unit created",
		zap.String("unit", u.label()),
		zap.String("prefix", p.label()))
	return pu
}

// freeSymbol joins a prefix symbol and a unit symbol, or returns "" when
// either is missing or the result is taken.
func (r *Registry) freeSymbol(kind Kind, prefixSymbol, unitSymbol string) string {
	if prefixSymbol == "" || unitSymbol == "" {
		return ""
	}
	s := prefixSymbol + unitSymbol
	if r.checkFree(kind, s) != nil {
		return ""
	}
	return s
}
