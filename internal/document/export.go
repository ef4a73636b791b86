package document

import (
	"github.com/shopspring/decimal"

	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

// FromRegistry captures reg's named definitions as a document that Load
// recreates. Units known only by their vector analog's name are left out.
func FromRegistry(reg *registry.Registry) *Document {
	snap := reg.Snapshot()
	doc := &Document{Version: FormatVersion}

	for _, p := range snap.Prefixes {
		doc.Prefixes = append(doc.Prefixes, PrefixDoc{
			Name:       p.Name,
			Symbol:     p.Symbol,
			Multiplier: NewNumber(p.Multiplier),
		})
	}

	for _, q := range snap.BaseQuantities {
		doc.BaseQuantities = append(doc.BaseQuantities, BaseQuantityDoc{
			Name:              q.Name,
			Symbol:            q.Symbol,
			Unit:              q.FundamentalUnit,
			UnitSymbol:        q.FundamentalUnitSymbol,
			FundamentalPrefix: q.FundamentalPrefix,
			Vector:            vectorDoc(q.VectorName, q.VectorSymbol),
		})
	}

	for _, q := range snap.DerivedQuantities {
		doc.DerivedQuantities = append(doc.DerivedQuantities, DerivedQuantityDoc{
			Name:        q.Name,
			Symbol:      q.Symbol,
			Composition: numbers(q.Composition),
			Unit:        q.FundamentalUnit,
			UnitSymbol:  q.FundamentalUnitSymbol,
			Vector:      vectorDoc(q.VectorName, q.VectorSymbol),
		})
	}

	for _, group := range [][]registry.UnitProto{snap.BaseUnits, snap.DerivedUnits} {
		for _, u := range group {
			if u.Name == "" {
				continue
			}
			doc.Units = append(doc.Units, unitDoc(u))
		}
	}

	for _, s := range snap.Systems {
		sd := SystemDoc{Name: s.Name}
		if len(s.Units) > 0 {
			sd.Units = s.Units
		}
		doc.Systems = append(doc.Systems, sd)
	}
	return doc
}

func vectorDoc(name, symbol string) *VectorDoc {
	if name == "" && symbol == "" {
		return nil
	}
	return &VectorDoc{Name: name, Symbol: symbol}
}

func unitDoc(p registry.UnitProto) UnitDoc {
	d := UnitDoc{
		Name:     p.Name,
		Symbol:   p.Symbol,
		Quantity: p.Quantity,
		Vector:   vectorDoc(p.VectorName, p.VectorSymbol),
	}
	if len(p.Composition) > 0 {
		d.Composition = numbers(p.Composition)
		return d
	}

	d.From = p.From
	d.FromComposition = numbers(p.FromComposition)
	if !p.FromMultiplier.Equal(decimal.NewFromInt(1)) {
		m := NewNumber(p.FromMultiplier)
		d.Multiplier = &m
	}
	if !p.FromOffset.IsZero() {
		o := NewNumber(p.FromOffset)
		d.Offset = &o
	}
	return d
}
