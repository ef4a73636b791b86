package registry

import (
	"github.com/shopspring/decimal"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// Precision is the number of significant digits kept by every division.
// Fractional powers keep Precision fractional digits. Multiplications are
// exact.
const Precision int32 = 28

var one = decimal.NewFromInt(1)

// Divide returns a / b rounded to Precision digits past the quotient's
// leading digit. Quotients of magnitude one or more keep at least Precision
// fractional digits.
func Divide(a, b decimal.Decimal) decimal.Decimal {
	if a.IsZero() {
		return decimal.Zero
	}
	scale := Precision
	if s := Precision - (magnitude(a) - magnitude(b)); s > scale {
		scale = s
	}
	return a.DivRound(b, scale)
}

// magnitude is the power of ten of d's leading digit.
func magnitude(d decimal.Decimal) int32 {
	return int32(d.NumDigits()) + d.Exponent() - 1
}

// Power raises base to exp. Integral exponents are computed exactly by
// repeated squaring (negative ones through a single Divide); fractional
// exponents are rounded to Precision.
func Power(base, exp decimal.Decimal) (decimal.Decimal, error) {
	if !exp.IsInteger() {
		v, err := base.PowWithPrecision(exp, Precision)
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "raising %s to %s", base, exp)
		}
		return v, nil
	}

	n := exp.IntPart()
	negative := n < 0
	if negative {
		n = -n
	}
	if negative && base.IsZero() {
		return decimal.Zero, errors.Newf("raising zero to negative power %s", exp)
	}

	result, b := one, base
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(b)
		}
		b = b.Mul(b)
		n >>= 1
	}
	if negative {
		return Divide(one, result), nil
	}
	return result, nil
}

// checkMultiplier rejects a computed multiplier that rounded to zero.
func checkMultiplier(m decimal.Decimal, kind, name string) error {
	if m.IsZero() {
		return errors.WithHint(
			errors.Invalidf(errors.ErrInvalidDefinition, "%s %q has a zero multiplier", kind, name),
			"use a smaller prefix or exponent")
	}
	return nil
}

// multiplierOf is the product of every component's multiplier raised to
// its exponent.
func (r *Registry) multiplierOf(c UnitComposition) (decimal.Decimal, error) {
	m := one
	for _, t := range c.Terms() {
		u, ok := r.units[t.Key]
		if !ok {
			return decimal.Zero, errors.AssertionFailedf("composition references unknown unit %d", t.Key)
		}
		f, err := Power(u.multiplier, t.Exponent)
		if err != nil {
			return decimal.Zero, err
		}
		m = m.Mul(f)
	}
	return m, nil
}
