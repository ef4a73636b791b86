package registry

import (
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// planNames checks that name and symbol can fill e's missing fields. A field
// that already holds a different value is a rename conflict. It reports which
// fields actually change.
func (r *Registry) planNames(e ref, name, symbol string, grammar bool) (setName, setSymbol bool, err error) {
	rec, kind, ok := r.record(e)
	if !ok {
		return false, false, errors.AssertionFailedf("unknown entity %v", e)
	}
	if rec.disposed {
		return false, false, errors.Invalidf(errors.ErrDisposed, "%s %q", kind, rec.label())
	}

	check := func(current, want string, isSymbol bool) (bool, error) {
		switch {
		case want == "" || want == current:
			return false, nil
		case current != "":
			what := "name"
			if isSymbol {
				what = "symbol"
			}
			return false, errors.Invariantf(errors.ErrRenameConflict, "%s %q already has %s %q, cannot become %q", kind, rec.label(), what, current, want)
		}
		if grammar {
			if err := checkGrammar(want, isSymbol); err != nil {
				return false, err
			}
		}
		return true, r.checkFree(kind, want)
	}

	if setName, err = check(rec.name, name, false); err != nil {
		return false, false, err
	}
	if setSymbol, err = check(rec.symbol, symbol, true); err != nil {
		return false, false, err
	}
	if setName && setSymbol && name == symbol {
		return false, false, errors.Invalidf(errors.ErrDuplicateName, "symbol %q repeats the name", symbol)
	}
	return setName, setSymbol, nil
}

// applyNames writes fields planned by planNames and registers e in its bucket.
func (r *Registry) applyNames(e ref, name, symbol string, setName, setSymbol bool) {
	rec, _, _ := r.record(e)
	if setName {
		rec.name = name
	}
	if setSymbol {
		rec.symbol = symbol
	}
	r.register(e)
}

// nameEntity fills e's missing name and symbol, then propagates the names to
// an unnamed scalar or vector analog.
func (r *Registry) nameEntity(e ref, name, symbol string) error {
	setName, setSymbol, err := r.planNames(e, name, symbol, true)
	if err != nil {
		return err
	}
	r.applyNames(e, name, symbol, setName, setSymbol)
	r.propagateNames(e)
	return nil
}

// NameQuantity gives q a name and/or symbol. Each field can be set once;
// naming an already named quantity differently is an assertion failure,
// because algebraically equal expressions must denote the same concept.
func (r *Registry) NameQuantity(q Quantity, name, symbol string) error {
	if err := r.owns(q); err != nil {
		return err
	}
	return r.nameEntity(q.ref(), name, symbol)
}

// NameUnit gives u a name and/or symbol, once per field.
func (r *Registry) NameUnit(u Unit, name, symbol string) error {
	if err := r.owns(u); err != nil {
		return err
	}
	return r.nameEntity(u.ref(), name, symbol)
}
