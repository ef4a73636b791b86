package composition

import (
	"github.com/shopspring/decimal"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

func flavor[K Key](c Composition[K]) string {
	switch {
	case c == nil:
		return "nil"
	case c.IsVector():
		return "vector"
	default:
		return "scalar"
	}
}

func incompatible[K Key](op string, a, b Composition[K]) error {
	return errors.Invalidf(errors.ErrIncompatibleComposition, "cannot %s %s by %s", op, flavor(a), flavor(b))
}

// Multiply dispatches on the operands' flavors. Vector times vector is
// rejected; use Dot or Cross.
func Multiply[K Key](a, b Composition[K]) (Composition[K], error) {
	switch x := a.(type) {
	case *Scalar[K]:
		switch y := b.(type) {
		case *Scalar[K]:
			return x.Multiply(y), nil
		case *Vector[K]:
			return x.MultiplyVector(y), nil
		}
	case *Vector[K]:
		if y, ok := b.(*Scalar[K]); ok {
			return x.MultiplyScalar(y), nil
		}
		if _, ok := b.(*Vector[K]); ok {
			return nil, errors.WithHint(incompatible("multiply", a, b), "use Dot or Cross for two vectors")
		}
	}
	return nil, incompatible("multiply", a, b)
}

// Divide supports scalar/scalar and vector/scalar.
func Divide[K Key](a, b Composition[K]) (Composition[K], error) {
	switch x := a.(type) {
	case *Scalar[K]:
		if y, ok := b.(*Scalar[K]); ok {
			return x.Divide(y), nil
		}
	case *Vector[K]:
		if y, ok := b.(*Scalar[K]); ok {
			return x.DivideScalar(y), nil
		}
	}
	return nil, incompatible("divide", a, b)
}

// Pow raises a scalar composition to p. A vector composition only accepts
// p = 1, which returns it unchanged.
func Pow[K Key](a Composition[K], p decimal.Decimal) (Composition[K], error) {
	switch x := a.(type) {
	case *Scalar[K]:
		return x.Pow(p), nil
	case *Vector[K]:
		if p.Equal(decimal.NewFromInt(1)) {
			return x, nil
		}
		return nil, errors.Invalidf(errors.ErrIncompatibleComposition, "cannot raise vector to power %s", p)
	}
	return nil, errors.Invalidf(errors.ErrIncompatibleComposition, "cannot raise %s to a power", flavor(a))
}

// Dot requires two vectors and yields a scalar.
func Dot[K Key](a, b Composition[K]) (Composition[K], error) {
	x, okA := a.(*Vector[K])
	y, okB := b.(*Vector[K])
	if !okA || !okB {
		return nil, incompatible("dot", a, b)
	}
	return x.Dot(y), nil
}

// Cross requires two vectors and yields a vector.
func Cross[K Key](a, b Composition[K]) (Composition[K], error) {
	x, okA := a.(*Vector[K])
	y, okB := b.(*Vector[K])
	if !okA || !okB {
		return nil, incompatible("cross", a, b)
	}
	return x.Cross(y), nil
}

// Map converts every key of c through convert, keeping exponents and flavor.
// Keys that convert to the same result have their exponents summed.
func Map[K, C Key](c Composition[K], convert func(K) (C, error)) (Composition[C], error) {
	src := c.terms()
	out := make([]Term[C], 0, len(src))
	for _, t := range src {
		key, err := convert(t.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, Term[C]{Key: key, Exponent: t.Exponent})
	}
	return FromTerms(c.IsVector(), out...), nil
}
