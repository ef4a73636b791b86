package composition

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Key is the constraint on composition keys. Registry handles satisfy it.
type Key interface {
	cmp.Ordered
}

// Term is one (key, exponent) pair of a composition.
type Term[K Key] struct {
	Key      K
	Exponent decimal.Decimal
}

// NewTerm returns a term with an integral exponent.
func NewTerm[K Key](key K, exponent int64) Term[K] {
	return Term[K]{Key: key, Exponent: decimal.NewFromInt(exponent)}
}

// Composition is the read side shared by Scalar and Vector compositions.
// Keys are always scalar entities; the flavor carries the vector-ness.
type Composition[K Key] interface {
	IsVector() bool
	// Terms returns the terms sorted by key.
	Terms() []Term[K]
	// Exponent returns the exponent of key, zero when absent.
	Exponent(key K) decimal.Decimal
	Len() int
	IsEmpty() bool
	// Key is a canonical string of the flavor and every (key, exponent) pair.
	// Equal compositions have equal keys.
	Key() string
	Equal(other Composition[K]) bool
	ScalarAnalog() *Scalar[K]
	VectorAnalog() *Vector[K]
	String() string

	terms() []Term[K]
}

type emptyKey struct {
	key    reflect.Type
	vector bool
}

// empties holds one Scalar and one Vector empty composition per key type.
var empties sync.Map

// EmptyScalar returns the shared empty scalar composition for K.
func EmptyScalar[K Key]() *Scalar[K] {
	k := emptyKey{key: reflect.TypeFor[K]()}
	if e, ok := empties.Load(k); ok {
		return e.(*Scalar[K])
	}
	e, _ := empties.LoadOrStore(k, &Scalar[K]{})
	return e.(*Scalar[K])
}

// EmptyVector returns the shared empty vector composition for K.
func EmptyVector[K Key]() *Vector[K] {
	k := emptyKey{key: reflect.TypeFor[K](), vector: true}
	if e, ok := empties.Load(k); ok {
		return e.(*Vector[K])
	}
	e, _ := empties.LoadOrStore(k, &Vector[K]{})
	return e.(*Vector[K])
}

// normalize sorts terms by key, sums duplicate keys and drops zero exponents.
func normalize[K Key](in []Term[K]) []Term[K] {
	if len(in) == 0 {
		return nil
	}
	sorted := slices.Clone(in)
	slices.SortStableFunc(sorted, func(a, b Term[K]) int { return cmp.Compare(a.Key, b.Key) })

	out := make([]Term[K], 0, len(sorted))
	for _, t := range sorted {
		if n := len(out); n > 0 && out[n-1].Key == t.Key {
			out[n-1].Exponent = out[n-1].Exponent.Add(t.Exponent)
			continue
		}
		out = append(out, t)
	}
	return slices.DeleteFunc(out, func(t Term[K]) bool { return t.Exponent.IsZero() })
}

// combine merges two sorted term lists, adding (or subtracting) exponents.
func combine[K Key](a, b []Term[K], subtract bool) []Term[K] {
	sign := func(d decimal.Decimal) decimal.Decimal {
		if subtract {
			return d.Neg()
		}
		return d
	}

	out := make([]Term[K], 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i].Key < b[j].Key):
			out = append(out, a[i])
			i++
		case i >= len(a) || b[j].Key < a[i].Key:
			out = append(out, Term[K]{Key: b[j].Key, Exponent: sign(b[j].Exponent)})
			j++
		default:
			if sum := a[i].Exponent.Add(sign(b[j].Exponent)); !sum.IsZero() {
				out = append(out, Term[K]{Key: a[i].Key, Exponent: sum})
			}
			i++
			j++
		}
	}
	return out
}

func scale[K Key](in []Term[K], p decimal.Decimal) []Term[K] {
	out := make([]Term[K], len(in))
	for i, t := range in {
		out[i] = Term[K]{Key: t.Key, Exponent: t.Exponent.Mul(p)}
	}
	return out
}

func exponentOf[K Key](in []Term[K], key K) decimal.Decimal {
	i, ok := slices.BinarySearchFunc(in, key, func(t Term[K], k K) int { return cmp.Compare(t.Key, k) })
	if !ok {
		return decimal.Zero
	}
	return in[i].Exponent
}

func keyOf[K Key](vector bool, in []Term[K]) string {
	var b strings.Builder
	if vector {
		b.WriteString("v:")
	} else {
		b.WriteString("s:")
	}
	for i, t := range in {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%v^%s", t.Key, t.Exponent.String())
	}
	return b.String()
}

func equal[K Key](a, b Composition[K]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.IsVector() != b.IsVector() {
		return false
	}
	at, bt := a.terms(), b.terms()
	if len(at) != len(bt) {
		return false
	}
	for i := range at {
		if at[i].Key != bt[i].Key || !at[i].Exponent.Equal(bt[i].Exponent) {
			return false
		}
	}
	return true
}

// Format renders c using name for keys, e.g. "Length·Time^-1". The empty
// composition renders as "1"; vector compositions are wrapped in "→(...)".
func Format[K Key](c Composition[K], name func(K) string) string {
	t := c.terms()
	parts := make([]string, 0, len(t))
	for _, term := range t {
		if term.Exponent.Equal(decimal.NewFromInt(1)) {
			parts = append(parts, name(term.Key))
			continue
		}
		parts = append(parts, name(term.Key)+"^"+term.Exponent.String())
	}
	s := strings.Join(parts, "·")
	if s == "" {
		s = "1"
	}
	if c.IsVector() {
		return "→(" + s + ")"
	}
	return s
}

// FromTerms builds a composition of the requested flavor from unnormalized terms.
func FromTerms[K Key](vector bool, terms ...Term[K]) Composition[K] {
	if vector {
		return NewVector(terms...)
	}
	return NewScalar(terms...)
}
