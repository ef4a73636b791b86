// Package convert turns values between units of the same quantity. Every
// conversion goes through the quantity's fundamental unit:
//
//	fundamental = multiplier * (value + offset)
//	value       = fundamental / multiplier - offset
package convert

import (
	"github.com/shopspring/decimal"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

// ToFundamental expresses v, measured in u, in u's fundamental unit.
func ToFundamental(u registry.Unit, v decimal.Decimal) decimal.Decimal {
	if u.IsFundamental() {
		return v
	}
	return u.Multiplier().Mul(v.Add(u.Offset()))
}

// FromFundamental expresses f, measured in the fundamental unit of u's
// quantity, in u.
func FromFundamental(u registry.Unit, f decimal.Decimal) decimal.Decimal {
	if u.IsFundamental() {
		return f
	}
	return registry.Divide(f, u.Multiplier()).Sub(u.Offset())
}

// Convert expresses v, measured in from, in to. Both units must measure the
// same quantity.
func Convert(from registry.Unit, v decimal.Decimal, to registry.Unit) (decimal.Decimal, error) {
	if err := check(from, to); err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return v, nil
	}
	if from.Quantity() != to.Quantity() {
		return decimal.Zero, errors.Invalidf(errors.ErrInvalidQuantity,
			"cannot convert %s (%s) to %s (%s)", from, from.Quantity(), to, to.Quantity())
	}
	return FromFundamental(to, ToFundamental(from, v)), nil
}

// ConvertInSystem expresses v, measured in from, in the unit system prefers
// for from's quantity. It returns ErrNotFound when the system has no unit
// for that quantity.
func ConvertInSystem(from registry.Unit, v decimal.Decimal, system registry.MeasurementSystem) (decimal.Decimal, registry.Unit, error) {
	if system.IsZero() || system.IsDisposed() {
		return decimal.Zero, registry.Unit{}, errors.Invalidf(errors.ErrDisposed, "measurement system %q", system)
	}
	to, ok := system.PreferredUnit(from.Quantity())
	if !ok {
		return decimal.Zero, registry.Unit{}, errors.Wrapf(errors.ErrNotFound,
			"measurement system %q has no unit for %s", system, from.Quantity())
	}
	out, err := Convert(from, v, to)
	return out, to, err
}

func check(units ...registry.Unit) error {
	for _, u := range units {
		if u.IsZero() {
			return errors.Invalidf(errors.ErrInvalidDefinition, "unit is not attached to a registry")
		}
		if u.IsDisposed() {
			return errors.Invalidf(errors.ErrDisposed, "unit %q", u)
		}
	}
	if units[0].Registry() != units[len(units)-1].Registry() {
		return errors.Invalidf(errors.ErrInvalidQuantity, "units belong to different registries")
	}
	return nil
}
