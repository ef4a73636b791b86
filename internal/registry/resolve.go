package registry

import (
	"cmp"
	"slices"
	"strings"
)

// ResolveUnit finds the unit text denotes. Besides plain names and symbols it
// understands a leading vector marker ("→metre"), composite prefixed names
// ("kilo_metre" or "k_metre") and a prefix symbol joined to a unit symbol
// ("km"). Vector and prefixed units are created on first use.
func (r *Registry) ResolveUnit(text string) (Unit, error) {
	if u, ok, err := r.TryUnit(text); err != nil || ok {
		return u, err
	}

	if bare, ok := strings.CutPrefix(text, VectorMarker); ok {
		s, err := r.ResolveUnit(bare)
		if err != nil {
			return Unit{}, err
		}
		return r.VectorUnit(s)
	}

	if prefixName, unitName, ok := strings.Cut(text, PrefixSeparator); ok {
		p, okPrefix, err := r.TryPrefix(prefixName)
		if err != nil {
			return Unit{}, err
		}
		u, okUnit, err := r.TryUnit(unitName)
		if err != nil {
			return Unit{}, err
		}
		if okPrefix && okUnit {
			return r.PrefixedUnit(u, p)
		}
	}

	// Longest prefix symbol first so "da" wins over "d".
	prefixes := r.Prefixes()
	slices.SortStableFunc(prefixes, func(a, b Prefix) int {
		return cmp.Compare(len(b.Symbol()), len(a.Symbol()))
	})
	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(text, p.Symbol())
		if p.Symbol() == "" || !ok || rest == "" {
			continue
		}
		u, ok, err := r.TryUnit(rest)
		if err != nil {
			return Unit{}, err
		}
		if !ok || u.Symbol() != rest {
			continue
		}
		if _, prefixed := u.Prefix(); prefixed {
			continue
		}
		return r.PrefixedUnit(u, p)
	}

	return Unit{}, notFound(KindUnit, text)
}
