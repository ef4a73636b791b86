package registry

import (
	"github.com/shopspring/decimal"

	"github.com/RichardMelito/Convertal-sub000/internal/composition"
)

// VectorMarker prefixes the vector form of a scalar name or symbol.
const VectorMarker = "→"

// PrefixSeparator joins a prefix name and a unit name, e.g. "kilo_metre".
const PrefixSeparator = "_"

// QuantityID addresses a quantity record. Ids are never reused.
type QuantityID uint64

// UnitID addresses a unit record.
type UnitID uint64

// PrefixID addresses a prefix record.
type PrefixID uint64

// SystemID addresses a measurement system record.
type SystemID uint64

// QuantityComposition is a composition over scalar base quantities.
type QuantityComposition = composition.Composition[QuantityID]

// UnitComposition is a composition over atomic scalar units.
type UnitComposition = composition.Composition[UnitID]

// Kind enumerates every entity type. Kinds form a fixed hierarchy (see
// Parent) that name buckets are resolved against.
type Kind int

const (
	KindNone Kind = iota
	KindPrefix
	KindQuantity
	KindBaseQuantity
	KindScalarBaseQuantity
	KindVectorBaseQuantity
	KindDerivedQuantity
	KindScalarDerivedQuantity
	KindVectorDerivedQuantity
	KindEmptyQuantity
	KindUnit
	KindBaseUnit
	KindScalarBaseUnit
	KindVectorBaseUnit
	KindDerivedUnit
	KindScalarDerivedUnit
	KindVectorDerivedUnit
	KindPrefixedUnit
	KindMeasurementSystem
)

var kindParents = map[Kind]Kind{
	KindPrefix:                KindNone,
	KindQuantity:              KindNone,
	KindBaseQuantity:          KindQuantity,
	KindScalarBaseQuantity:    KindBaseQuantity,
	KindVectorBaseQuantity:    KindBaseQuantity,
	KindDerivedQuantity:       KindQuantity,
	KindScalarDerivedQuantity: KindDerivedQuantity,
	KindVectorDerivedQuantity: KindDerivedQuantity,
	KindEmptyQuantity:         KindDerivedQuantity,
	KindUnit:                  KindNone,
	KindBaseUnit:              KindUnit,
	KindScalarBaseUnit:        KindBaseUnit,
	KindVectorBaseUnit:        KindBaseUnit,
	KindDerivedUnit:           KindUnit,
	KindScalarDerivedUnit:     KindDerivedUnit,
	KindVectorDerivedUnit:     KindDerivedUnit,
	KindPrefixedUnit:          KindUnit,
	KindMeasurementSystem:     KindNone,
}

var kindNames = map[Kind]string{
	KindNone:                  "none",
	KindPrefix:                "prefix",
	KindQuantity:              "quantity",
	KindBaseQuantity:          "base quantity",
	KindScalarBaseQuantity:    "scalar base quantity",
	KindVectorBaseQuantity:    "vector base quantity",
	KindDerivedQuantity:       "derived quantity",
	KindScalarDerivedQuantity: "scalar derived quantity",
	KindVectorDerivedQuantity: "vector derived quantity",
	KindEmptyQuantity:         "empty quantity",
	KindUnit:                  "unit",
	KindBaseUnit:              "base unit",
	KindScalarBaseUnit:        "scalar base unit",
	KindVectorBaseUnit:        "vector base unit",
	KindDerivedUnit:           "derived unit",
	KindScalarDerivedUnit:     "scalar derived unit",
	KindVectorDerivedUnit:     "vector derived unit",
	KindPrefixedUnit:          "prefixed unit",
	KindMeasurementSystem:     "measurement system",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Parent returns the kind k specializes, KindNone for roots.
func (k Kind) Parent() Kind {
	return kindParents[k]
}

// IsA reports whether k is ancestor or k itself.
func (k Kind) IsA(ancestor Kind) bool {
	for cur := k; cur != KindNone; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// class separates the four arenas.
type class int

const (
	classPrefix class = iota + 1
	classQuantity
	classUnit
	classSystem
)

// ref addresses any entity in a registry.
type ref struct {
	class class
	id    uint64
}

// Entity is implemented by every handle type.
type Entity interface {
	Name() string
	Symbol() string
	Kind() Kind
	Registry() *Registry
	IsDisposed() bool
	ref() ref
}

// entity holds the naming state shared by every record.
type entity struct {
	name     string
	symbol   string
	disposed bool
}

// label is the best human-readable identifier of the entity.
func (e *entity) label() string {
	switch {
	case e.name != "":
		return e.name
	case e.symbol != "":
		return e.symbol
	default:
		return "<unnamed>"
	}
}

type prefixRecord struct {
	entity
	id         PrefixID
	multiplier decimal.Decimal
}

type quantityRecord struct {
	entity
	id          QuantityID
	kind        Kind
	composition QuantityComposition
	fundamental UnitID
	analog      QuantityID
}

func (q *quantityRecord) isVector() bool { return q.composition != nil && q.composition.IsVector() }

func (q *quantityRecord) isBase() bool {
	return q.kind == KindScalarBaseQuantity || q.kind == KindVectorBaseQuantity
}

type unitRecord struct {
	entity
	id          UnitID
	kind        Kind
	quantity    QuantityID
	multiplier  decimal.Decimal
	offset      decimal.Decimal
	composition UnitComposition
	analog      UnitID

	// from, localMultiplier and localOffset record a definition relative to
	// another unit of the same quantity.
	from            UnitID
	localMultiplier decimal.Decimal
	localOffset     decimal.Decimal

	// prefix and base are set on prefixed units.
	prefix PrefixID
	base   UnitID
}

func (u *unitRecord) isVector() bool { return u.composition != nil && u.composition.IsVector() }

// isAtomic reports whether the unit's composition is just itself.
func (u *unitRecord) isAtomic() bool {
	if u.composition == nil || u.isVector() || u.composition.Len() != 1 {
		return false
	}
	t := u.composition.Terms()[0]
	return t.Key == u.id && t.Exponent.Equal(decimal.NewFromInt(1))
}

type systemRecord struct {
	entity
	id    SystemID
	units map[QuantityID]UnitID
}
