package registry

import (
	"github.com/shopspring/decimal"
)

// PrefixProto is the serializable definition of a prefix.
type PrefixProto struct {
	Name       string
	Symbol     string
	Multiplier decimal.Decimal
}

// BaseQuantityProto is the serializable definition of a scalar base quantity
// and its vector analog's names.
type BaseQuantityProto struct {
	Name                  string
	Symbol                string
	FundamentalUnit       string
	FundamentalUnitSymbol string
	FundamentalPrefix     string
	VectorName            string
	VectorSymbol          string
}

// DerivedQuantityProto names the quantity with a given composition over base
// quantity names.
type DerivedQuantityProto struct {
	Name                  string
	Symbol                string
	Composition           map[string]decimal.Decimal
	FundamentalUnit       string
	FundamentalUnitSymbol string
	VectorName            string
	VectorSymbol          string
}

// UnitProto is the serializable definition of a scalar unit. Exactly one of
// From, FromComposition or Composition is set. Quantity, Multiplier and
// Offset describe the result and are informational.
type UnitProto struct {
	Name            string
	Symbol          string
	Quantity        string
	Multiplier      decimal.Decimal
	Offset          decimal.Decimal
	From            string
	FromComposition map[string]decimal.Decimal
	FromMultiplier  decimal.Decimal
	FromOffset      decimal.Decimal
	Composition     map[string]decimal.Decimal
	VectorName      string
	VectorSymbol    string
}

// MeasurementSystemProto maps quantity names to unit names.
type MeasurementSystemProto struct {
	Name  string
	Units map[string]string
}

// Snapshot is every named entity of a registry grouped so that each group only
// references earlier groups. Units may reference units later in their group.
type Snapshot struct {
	Prefixes          []PrefixProto
	BaseQuantities    []BaseQuantityProto
	DerivedQuantities []DerivedQuantityProto
	BaseUnits         []UnitProto
	DerivedUnits      []UnitProto
	Systems           []MeasurementSystemProto
}

// Proto returns p's definition.
func (p Prefix) Proto() PrefixProto {
	rec := p.rec()
	return PrefixProto{Name: rec.name, Symbol: rec.symbol, Multiplier: rec.multiplier}
}

func (q Quantity) vectorNames() (string, string) {
	v, ok := q.VectorAnalog()
	if !ok || v == q || v.IsDisposed() {
		return "", ""
	}
	return v.Name(), v.Symbol()
}

// BaseQuantityProto returns the definition of a scalar base quantity.
func (q Quantity) BaseQuantityProto() BaseQuantityProto {
	out := BaseQuantityProto{Name: q.Name(), Symbol: q.Symbol()}
	out.VectorName, out.VectorSymbol = q.vectorNames()

	fu := q.FundamentalUnit()
	if p, ok := fu.Prefix(); ok {
		out.FundamentalPrefix = p.Name()
		fu, _ = fu.Unprefixed()
	}
	out.FundamentalUnit, out.FundamentalUnitSymbol = fu.Name(), fu.Symbol()
	return out
}

// DerivedQuantityProto returns the naming of a scalar derived quantity.
func (q Quantity) DerivedQuantityProto() DerivedQuantityProto {
	out := DerivedQuantityProto{
		Name:        q.Name(),
		Symbol:      q.Symbol(),
		Composition: make(map[string]decimal.Decimal),
	}
	for _, t := range q.Composition().Terms() {
		out.Composition[Quantity{r: q.r, id: t.Key}.Name()] = t.Exponent
	}
	out.VectorName, out.VectorSymbol = q.vectorNames()
	fu := q.FundamentalUnit()
	out.FundamentalUnit, out.FundamentalUnitSymbol = fu.Name(), fu.Symbol()
	return out
}

func (u Unit) unitMap(c UnitComposition) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, c.Len())
	for _, t := range c.Terms() {
		out[Unit{r: u.r, id: t.Key}.String()] = t.Exponent
	}
	return out
}

// Proto returns u's definition. A unit defined from a unit that has since
// been disposed or is unnamed is expressed against its quantity's
// fundamental unit.
func (u Unit) Proto() UnitProto {
	rec := u.rec()
	out := UnitProto{
		Name:       rec.name,
		Symbol:     rec.symbol,
		Quantity:   u.Quantity().Name(),
		Multiplier: rec.multiplier,
		Offset:     rec.offset,
	}
	if v, ok := u.VectorAnalog(); ok && v != u && !v.IsDisposed() {
		out.VectorName, out.VectorSymbol = v.Name(), v.Symbol()
	}

	if from, m, o, ok := u.DefinedFrom(); ok && !from.IsDisposed() && from.Name() != "" {
		out.From, out.FromMultiplier, out.FromOffset = from.Name(), m, o
		return out
	}
	if !rec.isAtomic() {
		out.Composition = u.unitMap(rec.composition)
		return out
	}

	fu := u.Quantity().FundamentalUnit()
	out.FromMultiplier, out.FromOffset = rec.multiplier, rec.offset
	if fu.Name() != "" {
		out.From = fu.Name()
	} else {
		out.FromComposition = u.unitMap(fu.Composition())
	}
	return out
}

// Proto returns s's definition. Preferences for unnamed quantities are left out.
func (s MeasurementSystem) Proto() MeasurementSystemProto {
	out := MeasurementSystemProto{Name: s.Name(), Units: make(map[string]string)}
	for q, u := range s.Units() {
		if q.Name() == "" || q.IsDisposed() || u.IsDisposed() {
			continue
		}
		out.Units[q.Name()] = u.String()
	}
	return out
}

// Snapshot captures every named entity. Fundamental units travel with their
// quantities and prefixed units are left to be re-created on resolution.
func (r *Registry) Snapshot() Snapshot {
	var out Snapshot
	for _, p := range r.Prefixes() {
		out.Prefixes = append(out.Prefixes, p.Proto())
	}

	for _, q := range r.Quantities() {
		switch q.Kind() {
		case KindScalarBaseQuantity:
			out.BaseQuantities = append(out.BaseQuantities, q.BaseQuantityProto())
		case KindScalarDerivedQuantity:
			proto := q.DerivedQuantityProto()
			if proto.Name != "" || proto.VectorName != "" || proto.FundamentalUnit != "" {
				out.DerivedQuantities = append(out.DerivedQuantities, proto)
			}
		}
	}

	for _, u := range r.Units() {
		if u.IsVector() || u.IsFundamental() {
			continue
		}
		if _, prefixed := u.Prefix(); prefixed {
			continue
		}
		if named, ok := u.Quantity().FundamentalUnit().Unprefixed(); ok && named == u {
			continue
		}
		proto := u.Proto()
		if proto.Name == "" && proto.VectorName == "" {
			continue
		}
		if u.IsBase() {
			out.BaseUnits = append(out.BaseUnits, proto)
		} else {
			out.DerivedUnits = append(out.DerivedUnits, proto)
		}
	}

	for _, s := range r.Systems() {
		out.Systems = append(out.Systems, s.Proto())
	}
	return out
}
