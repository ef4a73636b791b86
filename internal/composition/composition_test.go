package composition

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

const (
	length = iota + 1
	mass
	duration
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func speed() *Scalar[int] {
	return NewScalar(NewTerm(length, 1), NewTerm(duration, -1))
}

func TestNewScalarNormalizes(t *testing.T) {
	c := NewScalar(
		NewTerm(duration, -1),
		NewTerm(length, 1),
		NewTerm(duration, -1),
		NewTerm(mass, 2),
		NewTerm(mass, -2),
	)

	require.Equal(t, 2, c.Len())
	terms := c.Terms()
	assert.Equal(t, length, terms[0].Key)
	assert.Equal(t, duration, terms[1].Key)
	assert.True(t, c.Exponent(duration).Equal(dec("-2")))
	assert.True(t, c.Exponent(mass).IsZero())
}

func TestEmptyIsShared(t *testing.T) {
	assert.Same(t, EmptyScalar[int](), EmptyScalar[int]())
	assert.Same(t, EmptyVector[int](), EmptyVector[int]())
	assert.Same(t, EmptyScalar[int](), NewScalar[int]())
	assert.Same(t, EmptyScalar[int](), NewScalar(NewTerm(length, 1), NewTerm(length, -1)))

	assert.False(t, EmptyScalar[int]().Equal(EmptyVector[int]()))
	assert.Same(t, EmptyScalar[int](), EmptyVector[int]().ScalarAnalog())
	assert.Same(t, EmptyVector[int](), EmptyScalar[int]().VectorAnalog())
}

func TestEmptyIsPerKeyType(t *testing.T) {
	type other uint32
	b := EmptyScalar[other]()
	assert.True(t, b.IsEmpty())
	assert.Same(t, b, EmptyScalar[other]())
	assert.Same(t, EmptyVector[other](), b.VectorAnalog())
}

func TestScalarMultiplyDivide(t *testing.T) {
	area := ScalarOf(length).Multiply(ScalarOf(length))
	assert.True(t, area.Exponent(length).Equal(dec("2")))

	v := ScalarOf(length).Divide(ScalarOf(duration))
	assert.True(t, v.Equal(speed()))
	assert.Equal(t, v.Key(), speed().Key())

	assert.Same(t, EmptyScalar[int](), v.Divide(speed()))
}

func TestMultiplyByEmptyReturnsOperand(t *testing.T) {
	s := speed()
	assert.Same(t, s, EmptyScalar[int]().Multiply(s))
	assert.Same(t, s, s.Multiply(EmptyScalar[int]()))
	assert.Same(t, s, s.Divide(EmptyScalar[int]()))

	inverse := EmptyScalar[int]().Divide(s)
	assert.True(t, inverse.Exponent(length).Equal(dec("-1")))
	assert.True(t, inverse.Exponent(duration).Equal(dec("1")))
}

func TestPow(t *testing.T) {
	s := speed()
	assert.Same(t, EmptyScalar[int](), s.Pow(decimal.Zero))
	assert.Same(t, s, s.Pow(decimal.NewFromInt(1)))

	sq := s.Pow(decimal.NewFromInt(2))
	assert.True(t, sq.Exponent(duration).Equal(dec("-2")))

	root := ScalarOf(length).Pow(dec("0.5"))
	assert.True(t, root.Exponent(length).Equal(dec("0.5")))
	assert.True(t, root.Multiply(root).Equal(ScalarOf(length)))
}

func TestVectorRules(t *testing.T) {
	displacement := VectorOf(length)
	velocity := displacement.DivideScalar(ScalarOf(duration))
	assert.True(t, velocity.IsVector())
	assert.True(t, velocity.ScalarAnalog().Equal(speed()))

	momentum := ScalarOf(mass).MultiplyVector(velocity)
	assert.True(t, momentum.IsVector())
	assert.True(t, momentum.Equal(velocity.MultiplyScalar(ScalarOf(mass))))

	work := displacement.Dot(displacement)
	assert.False(t, work.IsVector())
	assert.True(t, work.Exponent(length).Equal(dec("2")))

	torque := displacement.Cross(displacement)
	assert.True(t, torque.IsVector())
	assert.True(t, torque.Exponent(length).Equal(dec("2")))
}

func TestDynamicDispatch(t *testing.T) {
	s := Composition[int](ScalarOf(length))
	v := Composition[int](VectorOf(length))

	got, err := Multiply(s, v)
	require.NoError(t, err)
	assert.True(t, got.IsVector())

	_, err = Multiply(v, v)
	assert.True(t, errors.Is(err, errors.ErrIncompatibleComposition))

	_, err = Divide(s, v)
	assert.True(t, errors.Is(err, errors.ErrIncompatibleComposition))

	got, err = Divide(v, s)
	require.NoError(t, err)
	assert.Same(t, EmptyVector[int](), got)

	got, err = Dot(v, v)
	require.NoError(t, err)
	assert.False(t, got.IsVector())

	_, err = Dot(s, v)
	assert.Error(t, err)

	got, err = Cross(v, v)
	require.NoError(t, err)
	assert.True(t, got.IsVector())

	got, err = Pow(v, decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Same(t, v, got)

	_, err = Pow(v, decimal.NewFromInt(2))
	assert.Error(t, err)
}

func TestMap(t *testing.T) {
	names := map[int]string{length: "m", mass: "kg", duration: "s"}
	got, err := Map(Composition[int](speed()), func(k int) (string, error) { return names[k], nil })
	require.NoError(t, err)
	assert.False(t, got.IsVector())
	assert.True(t, got.Exponent("m").Equal(dec("1")))
	assert.True(t, got.Exponent("s").Equal(dec("-1")))

	merged, err := Map(Composition[int](speed().VectorAnalog()), func(int) (string, error) { return "x", nil })
	require.NoError(t, err)
	assert.True(t, merged.IsVector())
	assert.True(t, merged.IsEmpty())

	_, err = Map(Composition[int](speed()), func(int) (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	names := map[int]string{length: "Length", mass: "Mass", duration: "Time"}
	name := func(k int) string { return names[k] }

	assert.Equal(t, "Length·Time^-1", Format[int](speed(), name))
	assert.Equal(t, "1", Format[int](EmptyScalar[int](), name))
	assert.Equal(t, "→(Length)", Format[int](VectorOf(length), name))
}

func scalarGen() *rapid.Generator[*Scalar[int]] {
	return rapid.Custom(func(t *rapid.T) *Scalar[int] {
		n := rapid.IntRange(0, 5).Draw(t, "n")
		terms := make([]Term[int], n)
		for i := range terms {
			terms[i] = NewTerm(
				rapid.IntRange(1, 6).Draw(t, "key"),
				int64(rapid.IntRange(-3, 3).Draw(t, "exp")),
			)
		}
		return NewScalar(terms...)
	})
}

func TestProperty_IdentityLaws(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := scalarGen().Draw(rt, "x")
		empty := EmptyScalar[int]()

		require.True(rt, empty.Multiply(x).Equal(x))
		require.Same(rt, empty, x.Divide(x))
		require.Same(rt, empty, x.Pow(decimal.Zero))
		require.Same(rt, x, x.Pow(decimal.NewFromInt(1)))
	})
}

func TestProperty_MultiplyCommutesAndInverts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := scalarGen().Draw(rt, "x")
		y := scalarGen().Draw(rt, "y")

		xy := x.Multiply(y)
		require.True(rt, xy.Equal(y.Multiply(x)))
		require.Equal(rt, xy.Key(), y.Multiply(x).Key())
		require.True(rt, xy.Divide(y).Equal(x))

		for _, term := range xy.Terms() {
			require.False(rt, term.Exponent.IsZero(), "zero exponents are never stored")
		}
	})
}

func TestProperty_DotMatchesScalarProduct(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := scalarGen().Draw(rt, "x")
		y := scalarGen().Draw(rt, "y")

		dot := x.VectorAnalog().Dot(y.VectorAnalog())
		require.True(rt, dot.Equal(x.Multiply(y)))

		cross := x.VectorAnalog().Cross(y.VectorAnalog())
		require.True(rt, cross.ScalarAnalog().Equal(x.Multiply(y)))
	})
}

func TestProperty_KeyMatchesEquality(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := scalarGen().Draw(rt, "x")
		y := scalarGen().Draw(rt, "y")
		require.Equal(rt, x.Equal(y), x.Key() == y.Key())
	})
}
