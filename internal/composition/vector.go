package composition

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Vector is an immutable vector composition.
type Vector[K Key] struct {
	t []Term[K]
}

var _ Composition[int] = (*Vector[int])(nil)

// NewVector builds a vector composition from terms. No remaining terms yields
// EmptyVector.
func NewVector[K Key](terms ...Term[K]) *Vector[K] {
	return vectorOf(normalize(terms))
}

// VectorOf returns the vector composition {key: 1}.
func VectorOf[K Key](key K) *Vector[K] {
	return &Vector[K]{t: []Term[K]{NewTerm(key, 1)}}
}

func vectorOf[K Key](t []Term[K]) *Vector[K] {
	if len(t) == 0 {
		return EmptyVector[K]()
	}
	return &Vector[K]{t: t}
}

func (v *Vector[K]) IsVector() bool { return true }

func (v *Vector[K]) Terms() []Term[K] { return slices.Clone(v.t) }

func (v *Vector[K]) terms() []Term[K] { return v.t }

func (v *Vector[K]) Exponent(key K) decimal.Decimal { return exponentOf(v.t, key) }

func (v *Vector[K]) Len() int { return len(v.t) }

func (v *Vector[K]) IsEmpty() bool { return len(v.t) == 0 }

func (v *Vector[K]) Key() string { return keyOf(true, v.t) }

func (v *Vector[K]) Equal(other Composition[K]) bool { return equal[K](v, other) }

func (v *Vector[K]) String() string { return v.Key() }

// ScalarAnalog strips the vector-ness from every key.
func (v *Vector[K]) ScalarAnalog() *Scalar[K] { return scalarOf(v.t) }

// VectorAnalog returns v.
func (v *Vector[K]) VectorAnalog() *Vector[K] { return v }

// MultiplyScalar combines additively and stays a vector.
func (v *Vector[K]) MultiplyScalar(s *Scalar[K]) *Vector[K] {
	if s.IsEmpty() {
		return v
	}
	return vectorOf(combine(v.t, s.t, false))
}

// DivideScalar subtracts s's exponents and stays a vector.
func (v *Vector[K]) DivideScalar(s *Scalar[K]) *Vector[K] {
	if s.IsEmpty() {
		return v
	}
	return vectorOf(combine(v.t, s.t, true))
}

// Dot is the scalar product of both sides' scalar analogs. It tracks
// dimensions only, as if the bases were orthogonal unit vectors.
func (v *Vector[K]) Dot(o *Vector[K]) *Scalar[K] {
	return v.ScalarAnalog().Multiply(o.ScalarAnalog())
}

// Cross combines additively and stays a vector. Direction is not modelled.
func (v *Vector[K]) Cross(o *Vector[K]) *Vector[K] {
	switch {
	case o.IsEmpty():
		return v
	case v.IsEmpty():
		return o
	}
	return vectorOf(combine(v.t, o.t, false))
}
