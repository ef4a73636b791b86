package registry

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Prefix is a handle to a scale factor such as kilo or milli.
type Prefix struct {
	r  *Registry
	id PrefixID
}

var zeroPrefix = &prefixRecord{entity: entity{disposed: true}}

func (p Prefix) rec() *prefixRecord {
	if p.r == nil {
		return zeroPrefix
	}
	if rec, ok := p.r.prefixes[p.id]; ok {
		return rec
	}
	return zeroPrefix
}

func (p Prefix) ID() PrefixID                { return p.id }
func (p Prefix) Name() string                { return p.rec().name }
func (p Prefix) Symbol() string              { return p.rec().symbol }
func (p Prefix) Kind() Kind                  { return KindPrefix }
func (p Prefix) Registry() *Registry         { return p.r }
func (p Prefix) IsDisposed() bool            { return p.rec().disposed }
func (p Prefix) Multiplier() decimal.Decimal { return p.rec().multiplier }
func (p Prefix) IsZero() bool                { return p.r == nil }
func (p Prefix) ref() ref                    { return ref{classPrefix, uint64(p.id)} }
func (p Prefix) String() string              { return p.rec().label() }

// Quantity is a handle to a physical quantity. Two handles are equal exactly
// when they address the same quantity.
type Quantity struct {
	r  *Registry
	id QuantityID
}

var zeroQuantity = &quantityRecord{entity: entity{disposed: true}}

func (q Quantity) rec() *quantityRecord {
	if q.r == nil {
		return zeroQuantity
	}
	if rec, ok := q.r.quantities[q.id]; ok {
		return rec
	}
	return zeroQuantity
}

func (q Quantity) ID() QuantityID      { return q.id }
func (q Quantity) Name() string        { return q.rec().name }
func (q Quantity) Symbol() string      { return q.rec().symbol }
func (q Quantity) Kind() Kind          { return q.rec().kind }
func (q Quantity) Registry() *Registry { return q.r }
func (q Quantity) IsDisposed() bool    { return q.rec().disposed }
func (q Quantity) IsZero() bool        { return q.r == nil }
func (q Quantity) ref() ref            { return ref{classQuantity, uint64(q.id)} }
func (q Quantity) String() string      { return q.rec().label() }

// Composition returns the base-quantity composition. Base quantities are
// {self: 1}; vector base quantities are the vector form of their scalar's.
func (q Quantity) Composition() QuantityComposition { return q.rec().composition }

// FundamentalUnit returns the unit all other units of q are expressed against.
func (q Quantity) FundamentalUnit() Unit { return Unit{r: q.r, id: q.rec().fundamental} }

func (q Quantity) IsVector() bool { return q.rec().isVector() }

func (q Quantity) IsBase() bool  { return q.rec().isBase() }
func (q Quantity) IsEmpty() bool { return q.rec().kind == KindEmptyQuantity }

// ScalarAnalog returns the scalar counterpart of a vector quantity.
func (q Quantity) ScalarAnalog() (Quantity, bool) {
	rec := q.rec()
	if !rec.isVector() {
		return q, rec.composition != nil
	}
	return Quantity{r: q.r, id: rec.analog}, rec.analog != 0
}

// VectorAnalog returns the vector counterpart if one has been created.
func (q Quantity) VectorAnalog() (Quantity, bool) {
	rec := q.rec()
	if rec.isVector() {
		return q, true
	}
	return Quantity{r: q.r, id: rec.analog}, rec.analog != 0
}

// Units returns the live units of q in definition order.
func (q Quantity) Units() []Unit {
	if q.r == nil {
		return nil
	}
	var out []Unit
	for _, u := range q.r.Units() {
		if u.rec().quantity == q.id {
			out = append(out, u)
		}
	}
	return out
}

// Unit is a handle to a unit of measure.
type Unit struct {
	r  *Registry
	id UnitID
}

var zeroUnit = &unitRecord{entity: entity{disposed: true}}

func (u Unit) rec() *unitRecord {
	if u.r == nil {
		return zeroUnit
	}
	if rec, ok := u.r.units[u.id]; ok {
		return rec
	}
	return zeroUnit
}

func (u Unit) ID() UnitID          { return u.id }
func (u Unit) Name() string        { return u.rec().name }
func (u Unit) Symbol() string      { return u.rec().symbol }
func (u Unit) Registry() *Registry { return u.r }
func (u Unit) IsDisposed() bool    { return u.rec().disposed }
func (u Unit) IsZero() bool        { return u.r == nil }
func (u Unit) ref() ref            { return ref{classUnit, uint64(u.id)} }
func (u Unit) String() string      { return u.rec().label() }

// Kind reports KindPrefixedUnit for prefixed units and the unit's variant
// otherwise.
func (u Unit) Kind() Kind {
	rec := u.rec()
	if rec.prefix != 0 {
		return KindPrefixedUnit
	}
	return rec.kind
}

// Variant is the base/derived and scalar/vector variant of u, prefixed or not.
func (u Unit) Variant() Kind { return u.rec().kind }

// Quantity returns the quantity u measures.
func (u Unit) Quantity() Quantity { return Quantity{r: u.r, id: u.rec().quantity} }

// Multiplier is the factor in fundamental = Multiplier * (value + Offset).
func (u Unit) Multiplier() decimal.Decimal { return u.rec().multiplier }

// Offset is the shift in fundamental = Multiplier * (value + Offset).
func (u Unit) Offset() decimal.Decimal { return u.rec().offset }

// Composition returns the unit composition. Atomic units are {self: 1}.
func (u Unit) Composition() UnitComposition { return u.rec().composition }

// IsFundamental reports whether u is its quantity's fundamental unit.
func (u Unit) IsFundamental() bool {
	rec := u.rec()
	if u.r == nil {
		return false
	}
	q, ok := u.r.quantities[rec.quantity]
	return ok && q.fundamental == u.id
}

func (u Unit) IsVector() bool { return u.rec().isVector() }

func (u Unit) IsBase() bool {
	k := u.rec().kind
	return k == KindScalarBaseUnit || k == KindVectorBaseUnit
}

// IsAtomic reports whether u is not composed of other units.
func (u Unit) IsAtomic() bool {
	rec := u.rec()
	if rec.isVector() {
		s, ok := u.ScalarAnalog()
		return ok && s.rec().isAtomic()
	}
	return rec.isAtomic()
}

// Prefix returns the prefix of a prefixed unit.
func (u Unit) Prefix() (Prefix, bool) {
	rec := u.rec()
	return Prefix{r: u.r, id: rec.prefix}, rec.prefix != 0
}

// Unprefixed returns the unit a prefixed unit wraps.
func (u Unit) Unprefixed() (Unit, bool) {
	rec := u.rec()
	return Unit{r: u.r, id: rec.base}, rec.base != 0
}

// DefinedFrom returns the unit u was defined relative to, with the local
// multiplier and offset of that definition.
func (u Unit) DefinedFrom() (Unit, decimal.Decimal, decimal.Decimal, bool) {
	rec := u.rec()
	return Unit{r: u.r, id: rec.from}, rec.localMultiplier, rec.localOffset, rec.from != 0
}

// ScalarAnalog returns the scalar counterpart of a vector unit.
func (u Unit) ScalarAnalog() (Unit, bool) {
	rec := u.rec()
	if !rec.isVector() {
		return u, rec.composition != nil
	}
	return Unit{r: u.r, id: rec.analog}, rec.analog != 0
}

// VectorAnalog returns the vector counterpart if one has been created.
func (u Unit) VectorAnalog() (Unit, bool) {
	rec := u.rec()
	if rec.isVector() {
		return u, true
	}
	return Unit{r: u.r, id: rec.analog}, rec.analog != 0
}

// MeasurementSystem is a handle to a named quantity -> unit preference map.
type MeasurementSystem struct {
	r  *Registry
	id SystemID
}

var zeroSystem = &systemRecord{entity: entity{disposed: true}}

func (s MeasurementSystem) rec() *systemRecord {
	if s.r == nil {
		return zeroSystem
	}
	if rec, ok := s.r.systems[s.id]; ok {
		return rec
	}
	return zeroSystem
}

func (s MeasurementSystem) ID() SystemID        { return s.id }
func (s MeasurementSystem) Name() string        { return s.rec().name }
func (s MeasurementSystem) Symbol() string      { return s.rec().symbol }
func (s MeasurementSystem) Kind() Kind          { return KindMeasurementSystem }
func (s MeasurementSystem) Registry() *Registry { return s.r }
func (s MeasurementSystem) IsDisposed() bool    { return s.rec().disposed }
func (s MeasurementSystem) IsZero() bool        { return s.r == nil }
func (s MeasurementSystem) ref() ref            { return ref{classSystem, uint64(s.id)} }
func (s MeasurementSystem) String() string      { return s.rec().label() }

// PreferredUnit returns the unit the system uses for q.
func (s MeasurementSystem) PreferredUnit(q Quantity) (Unit, bool) {
	id, ok := s.rec().units[q.id]
	return Unit{r: s.r, id: id}, ok
}

// Quantities returns the quantities the system has a unit for, in definition order.
func (s MeasurementSystem) Quantities() []Quantity {
	ids := slices.Sorted(maps.Keys(s.rec().units))
	out := make([]Quantity, len(ids))
	for i, id := range ids {
		out[i] = Quantity{r: s.r, id: id}
	}
	return out
}
