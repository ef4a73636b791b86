package composition

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Scalar is an immutable scalar composition. The zero value is not used;
// build one with NewScalar, ScalarOf or EmptyScalar.
type Scalar[K Key] struct {
	t []Term[K]
}

var _ Composition[int] = (*Scalar[int])(nil)

// NewScalar builds a scalar composition from terms. Duplicate keys are summed
// and zero exponents dropped; no remaining terms yields EmptyScalar.
func NewScalar[K Key](terms ...Term[K]) *Scalar[K] {
	return scalarOf(normalize(terms))
}

// ScalarOf returns the composition {key: 1}.
func ScalarOf[K Key](key K) *Scalar[K] {
	return &Scalar[K]{t: []Term[K]{NewTerm(key, 1)}}
}

func scalarOf[K Key](t []Term[K]) *Scalar[K] {
	if len(t) == 0 {
		return EmptyScalar[K]()
	}
	return &Scalar[K]{t: t}
}

func (s *Scalar[K]) IsVector() bool { return false }

func (s *Scalar[K]) Terms() []Term[K] { return slices.Clone(s.t) }

func (s *Scalar[K]) terms() []Term[K] { return s.t }

func (s *Scalar[K]) Exponent(key K) decimal.Decimal { return exponentOf(s.t, key) }

func (s *Scalar[K]) Len() int { return len(s.t) }

func (s *Scalar[K]) IsEmpty() bool { return len(s.t) == 0 }

func (s *Scalar[K]) Key() string { return keyOf(false, s.t) }

func (s *Scalar[K]) Equal(other Composition[K]) bool { return equal[K](s, other) }

func (s *Scalar[K]) String() string { return s.Key() }

// ScalarAnalog returns s.
func (s *Scalar[K]) ScalarAnalog() *Scalar[K] { return s }

// VectorAnalog returns the vector composition with the same terms.
func (s *Scalar[K]) VectorAnalog() *Vector[K] { return vectorOf(s.t) }

// Multiply adds exponents key by key.
func (s *Scalar[K]) Multiply(o *Scalar[K]) *Scalar[K] {
	switch {
	case o.IsEmpty():
		return s
	case s.IsEmpty():
		return o
	}
	return scalarOf(combine(s.t, o.t, false))
}

// Divide subtracts o's exponents from s's.
func (s *Scalar[K]) Divide(o *Scalar[K]) *Scalar[K] {
	if o.IsEmpty() {
		return s
	}
	return scalarOf(combine(s.t, o.t, true))
}

// Pow multiplies every exponent by p. Pow(0) is the shared empty composition
// and Pow(1) is s itself. Fractional powers are allowed.
func (s *Scalar[K]) Pow(p decimal.Decimal) *Scalar[K] {
	switch {
	case p.IsZero():
		return EmptyScalar[K]()
	case p.Equal(decimal.NewFromInt(1)):
		return s
	}
	return scalarOf(scale(s.t, p))
}

// MultiplyVector combines additively and yields a vector composition.
func (s *Scalar[K]) MultiplyVector(v *Vector[K]) *Vector[K] {
	return vectorOf(combine(s.t, v.t, false))
}
