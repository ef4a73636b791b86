package registry

import (
	"slices"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// bucket is one name namespace. Entities of every kind that resolves to the
// bucket share it.
type bucket struct {
	kind    Kind
	entries []ref
}

// AddBucket registers a name bucket for kind. Kinds below it in the hierarchy
// that have no closer bucket move into it, entries included.
func (r *Registry) AddBucket(kind Kind) {
	if _, ok := r.buckets[kind]; ok {
		return
	}
	nb := &bucket{kind: kind}
	r.buckets[kind] = nb

	for _, b := range r.buckets {
		if b == nb {
			continue
		}
		kept := b.entries[:0]
		for _, e := range b.entries {
			_, k, _ := r.record(e)
			if r.bucketFor(k) == nb {
				nb.entries = append(nb.entries, e)
				continue
			}
			kept = append(kept, e)
		}
		b.entries = kept
	}
}

// bucketFor walks kind's ancestry to the nearest registered bucket.
func (r *Registry) bucketFor(kind Kind) *bucket {
	for cur := kind; cur != KindNone; cur = cur.Parent() {
		if b, ok := r.buckets[cur]; ok {
			return b
		}
	}
	return nil
}

// checkGrammar validates a plain name: alphanumeric, not a number, with at
// most one leading VectorMarker.
func checkGrammar(name string, isSymbol bool) error {
	what := "name"
	if isSymbol {
		what = "symbol"
	}
	if strings.TrimSpace(name) == "" {
		return errors.Invalidf(errors.ErrInvalidName, "%s is empty", what)
	}
	bare := strings.TrimPrefix(name, VectorMarker)
	if bare == "" {
		return errors.Invalidf(errors.ErrInvalidName, "%s %q has no characters after the vector marker", what, name)
	}
	for _, c := range bare {
		if c > unicode.MaxASCII || !(unicode.IsLetter(c) || unicode.IsDigit(c)) {
			return errors.Invalidf(errors.ErrInvalidName, "%s %q contains %q; only letters and digits are allowed", what, name, c)
		}
	}
	if _, err := decimal.NewFromString(bare); err == nil {
		return errors.Invalidf(errors.ErrInvalidName, "%s %q is a number", what, name)
	}
	return nil
}

// checkFree fails if name is already a name or symbol in kind's bucket.
func (r *Registry) checkFree(kind Kind, name string) error {
	b := r.bucketFor(kind)
	if b == nil {
		return errors.AssertionFailedf("no name bucket for %s", kind)
	}
	for _, e := range b.entries {
		rec, k, ok := r.record(e)
		if !ok || rec.disposed {
			continue
		}
		if rec.name == name || rec.symbol == name {
			return errors.Invalidf(errors.ErrDuplicateName, "%q is already used by %s %q", name, k, rec.label())
		}
	}
	return nil
}

// ValidateName checks name against the name grammar and against every name
// and symbol already in the bucket kind resolves to.
func (r *Registry) ValidateName(kind Kind, name string, isSymbol bool) error {
	if err := checkGrammar(name, isSymbol); err != nil {
		return err
	}
	return r.checkFree(kind, name)
}

// NameIsValid is the non-failing form of ValidateName.
func (r *Registry) NameIsValid(kind Kind, name string, isSymbol bool) bool {
	return r.ValidateName(kind, name, isSymbol) == nil
}

// validateNaming checks an optional name and symbol for a new entity of kind.
// The pair must not collide with each other either.
func (r *Registry) validateNaming(kind Kind, name, symbol string) error {
	if name != "" {
		if err := r.ValidateName(kind, name, false); err != nil {
			return err
		}
	}
	if symbol != "" {
		if err := r.ValidateName(kind, symbol, true); err != nil {
			return err
		}
		if symbol == name {
			return errors.Invalidf(errors.ErrDuplicateName, "symbol %q repeats the name", symbol)
		}
	}
	return nil
}

// register adds e to its bucket once it carries a name or symbol.
func (r *Registry) register(e ref) {
	rec, kind, ok := r.record(e)
	if !ok || (rec.name == "" && rec.symbol == "") {
		return
	}
	b := r.bucketFor(kind)
	if b == nil || slices.Contains(b.entries, e) {
		return
	}
	b.entries = append(b.entries, e)
}

// unregister removes e from its bucket.
func (r *Registry) unregister(e ref) {
	_, kind, ok := r.record(e)
	if !ok {
		return
	}
	if b := r.bucketFor(kind); b != nil {
		b.entries = slices.DeleteFunc(b.entries, func(x ref) bool { return x == e })
	}
}

// lookup scans every bucket that can hold kind for live entities of kind (or
// a subkind) whose name or symbol is text. More than one match breaks the
// uniqueness invariant.
func (r *Registry) lookup(kind Kind, text string) (ref, bool, error) {
	if text == "" {
		return ref{}, false, nil
	}
	var found []ref
	for bk, b := range r.buckets {
		if !bk.IsA(kind) && !kind.IsA(bk) {
			continue
		}
		for _, e := range b.entries {
			rec, k, ok := r.record(e)
			if !ok || rec.disposed || !k.IsA(kind) {
				continue
			}
			if rec.name == text || rec.symbol == text {
				found = append(found, e)
			}
		}
	}
	switch len(found) {
	case 0:
		return ref{}, false, nil
	case 1:
		return found[0], true, nil
	default:
		return ref{}, false, errors.Invariantf(errors.ErrAmbiguousMatch, "%d entities of kind %s are named %q", len(found), kind, text)
	}
}

func notFound(kind Kind, text string) error {
	return errors.Wrapf(errors.ErrNotFound, "%s %q", kind, text)
}

// TryPrefix looks up a prefix by name or symbol.
func (r *Registry) TryPrefix(text string) (Prefix, bool, error) {
	e, ok, err := r.lookup(KindPrefix, text)
	return Prefix{r: r, id: PrefixID(e.id)}, ok, err
}

// TryQuantity looks up a quantity by name or symbol.
func (r *Registry) TryQuantity(text string) (Quantity, bool, error) {
	e, ok, err := r.lookup(KindQuantity, text)
	return Quantity{r: r, id: QuantityID(e.id)}, ok, err
}

// TryUnit looks up a unit by name or symbol.
func (r *Registry) TryUnit(text string) (Unit, bool, error) {
	e, ok, err := r.lookup(KindUnit, text)
	return Unit{r: r, id: UnitID(e.id)}, ok, err
}

// TrySystem looks up a measurement system by name.
func (r *Registry) TrySystem(text string) (MeasurementSystem, bool, error) {
	e, ok, err := r.lookup(KindMeasurementSystem, text)
	return MeasurementSystem{r: r, id: SystemID(e.id)}, ok, err
}

// TryGet looks up any entity of kind by name or symbol.
func (r *Registry) TryGet(kind Kind, text string) (Entity, bool, error) {
	e, ok, err := r.lookup(kind, text)
	if !ok || err != nil {
		return nil, ok, err
	}
	return r.entityOf(e), true, nil
}

// Prefix returns the prefix named text or ErrNotFound.
func (r *Registry) Prefix(text string) (Prefix, error) {
	p, ok, err := r.TryPrefix(text)
	if err == nil && !ok {
		err = notFound(KindPrefix, text)
	}
	return p, err
}

// Quantity returns the quantity named text or ErrNotFound.
func (r *Registry) Quantity(text string) (Quantity, error) {
	q, ok, err := r.TryQuantity(text)
	if err == nil && !ok {
		err = notFound(KindQuantity, text)
	}
	return q, err
}

// Unit returns the unit named text or ErrNotFound.
func (r *Registry) Unit(text string) (Unit, error) {
	u, ok, err := r.TryUnit(text)
	if err == nil && !ok {
		err = notFound(KindUnit, text)
	}
	return u, err
}

// System returns the measurement system named text or ErrNotFound.
func (r *Registry) System(text string) (MeasurementSystem, error) {
	s, ok, err := r.TrySystem(text)
	if err == nil && !ok {
		err = notFound(KindMeasurementSystem, text)
	}
	return s, err
}

// vectorName derives the conventional vector name of a scalar name.
func vectorName(scalar string) string {
	if scalar == "" || strings.HasPrefix(scalar, VectorMarker) {
		return ""
	}
	return VectorMarker + scalar
}

// scalarName derives the scalar name of a conventionally named vector.
func scalarName(vector string) string {
	if !strings.HasPrefix(vector, VectorMarker) {
		return ""
	}
	return strings.TrimPrefix(vector, VectorMarker)
}
