package registry

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RichardMelito/Convertal-sub000/internal/composition"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// Registry is one independent world of quantities and units. Every factory
// operation goes through a Registry; there is no package-level instance.
type Registry struct {
	logger *zap.Logger
	nextID uint64

	prefixes   map[PrefixID]*prefixRecord
	quantities map[QuantityID]*quantityRecord
	units      map[UnitID]*unitRecord
	systems    map[SystemID]*systemRecord

	buckets map[Kind]*bucket

	// byComposition canonicalizes quantities: one live quantity per composition key.
	byComposition map[string]QuantityID

	emptyScalar QuantityID
	emptyVector QuantityID
	protected   map[ref]bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for debug tracing. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns an empty registry holding only the canonical dimensionless
// quantities and units. Buckets for prefixes, quantities, units and
// measurement systems are registered.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:        zap.NewNop(),
		prefixes:      make(map[PrefixID]*prefixRecord),
		quantities:    make(map[QuantityID]*quantityRecord),
		units:         make(map[UnitID]*unitRecord),
		systems:       make(map[SystemID]*systemRecord),
		buckets:       make(map[Kind]*bucket),
		byComposition: make(map[string]QuantityID),
		protected:     make(map[ref]bool),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, k := range []Kind{KindPrefix, KindQuantity, KindUnit, KindMeasurementSystem} {
		r.AddBucket(k)
	}
	r.initEmpty()
	return r
}

// initEmpty creates the scalar and vector dimensionless quantities and their
// fundamental units, linked as analogs.
func (r *Registry) initEmpty() {
	scalarUnit := r.newUnit(KindScalarDerivedUnit, 0, decimal.NewFromInt(1), decimal.Zero)
	scalarUnit.composition = composition.EmptyScalar[UnitID]()
	vectorUnit := r.newUnit(KindVectorDerivedUnit, 0, decimal.NewFromInt(1), decimal.Zero)
	vectorUnit.composition = composition.EmptyVector[UnitID]()

	scalar := r.newQuantity(KindEmptyQuantity, composition.EmptyScalar[QuantityID]())
	vector := r.newQuantity(KindEmptyQuantity, composition.EmptyVector[QuantityID]())

	scalar.fundamental, scalarUnit.quantity = scalarUnit.id, scalar.id
	vector.fundamental, vectorUnit.quantity = vectorUnit.id, vector.id
	scalar.analog, vector.analog = vector.id, scalar.id
	scalarUnit.analog, vectorUnit.analog = vectorUnit.id, scalarUnit.id

	r.byComposition[scalar.composition.Key()] = scalar.id
	r.byComposition[vector.composition.Key()] = vector.id

	r.emptyScalar, r.emptyVector = scalar.id, vector.id
	for _, e := range []ref{
		{classQuantity, uint64(scalar.id)},
		{classQuantity, uint64(vector.id)},
		{classUnit, uint64(scalarUnit.id)},
		{classUnit, uint64(vectorUnit.id)},
	} {
		r.protected[e] = true
	}
}

func (r *Registry) allocID() uint64 {
	r.nextID++
	return r.nextID
}

func (r *Registry) newQuantity(kind Kind, comp QuantityComposition) *quantityRecord {
	q := &quantityRecord{id: QuantityID(r.allocID()), kind: kind, composition: comp}
	r.quantities[q.id] = q
	return q
}

func (r *Registry) newUnit(kind Kind, quantity QuantityID, multiplier, offset decimal.Decimal) *unitRecord {
	u := &unitRecord{
		id:         UnitID(r.allocID()),
		kind:       kind,
		quantity:   quantity,
		multiplier: multiplier,
		offset:     offset,
	}
	u.composition = composition.ScalarOf(u.id)
	r.units[u.id] = u
	return u
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *zap.Logger { return r.logger }

// EmptyQuantity returns the canonical dimensionless scalar quantity.
func (r *Registry) EmptyQuantity() Quantity { return Quantity{r: r, id: r.emptyScalar} }

// EmptyVectorQuantity returns the canonical dimensionless vector quantity.
func (r *Registry) EmptyVectorQuantity() Quantity { return Quantity{r: r, id: r.emptyVector} }

// Prefixes returns the live prefixes in definition order.
func (r *Registry) Prefixes() []Prefix {
	var out []Prefix
	for _, id := range slices.Sorted(maps.Keys(r.prefixes)) {
		if !r.prefixes[id].disposed {
			out = append(out, Prefix{r: r, id: id})
		}
	}
	return out
}

// Quantities returns the live quantities in definition order.
func (r *Registry) Quantities() []Quantity {
	var out []Quantity
	for _, id := range slices.Sorted(maps.Keys(r.quantities)) {
		if !r.quantities[id].disposed {
			out = append(out, Quantity{r: r, id: id})
		}
	}
	return out
}

// Units returns the live units in definition order.
func (r *Registry) Units() []Unit {
	var out []Unit
	for _, id := range slices.Sorted(maps.Keys(r.units)) {
		if !r.units[id].disposed {
			out = append(out, Unit{r: r, id: id})
		}
	}
	return out
}

// Systems returns the live measurement systems in definition order.
func (r *Registry) Systems() []MeasurementSystem {
	var out []MeasurementSystem
	for _, id := range slices.Sorted(maps.Keys(r.systems)) {
		if !r.systems[id].disposed {
			out = append(out, MeasurementSystem{r: r, id: id})
		}
	}
	return out
}

// entityOf turns a ref back into a handle.
func (r *Registry) entityOf(e ref) Entity {
	switch e.class {
	case classPrefix:
		return Prefix{r: r, id: PrefixID(e.id)}
	case classQuantity:
		return Quantity{r: r, id: QuantityID(e.id)}
	case classUnit:
		return Unit{r: r, id: UnitID(e.id)}
	default:
		return MeasurementSystem{r: r, id: SystemID(e.id)}
	}
}

// record returns the naming state and kind of any entity.
func (r *Registry) record(e ref) (*entity, Kind, bool) {
	switch e.class {
	case classPrefix:
		if p, ok := r.prefixes[PrefixID(e.id)]; ok {
			return &p.entity, KindPrefix, true
		}
	case classQuantity:
		if q, ok := r.quantities[QuantityID(e.id)]; ok {
			return &q.entity, q.kind, true
		}
	case classUnit:
		if u, ok := r.units[UnitID(e.id)]; ok {
			if u.prefix != 0 {
				return &u.entity, KindPrefixedUnit, true
			}
			return &u.entity, u.kind, true
		}
	case classSystem:
		if s, ok := r.systems[SystemID(e.id)]; ok {
			return &s.entity, KindMeasurementSystem, true
		}
	}
	return nil, KindNone, false
}

// owns checks that e is a live entity of r.
func (r *Registry) owns(e Entity) error {
	if e == nil || e.Registry() == nil {
		return errors.Invalidf(errors.ErrInvalidDefinition, "entity is not attached to a registry")
	}
	if e.Registry() != r {
		return errors.Invalidf(errors.ErrInvalidDefinition, "%s %q belongs to another registry", e.Kind(), e.Name())
	}
	if e.IsDisposed() {
		return errors.Invalidf(errors.ErrDisposed, "%s %q", e.Kind(), e.Name())
	}
	return nil
}
