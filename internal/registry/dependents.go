package registry

import (
	"maps"
	"slices"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// dependencyGraph maps every live entity to the live entities whose
// definitions reference it.
func (r *Registry) dependencyGraph() map[ref][]ref {
	g := make(map[ref][]ref)
	add := func(from, to ref) {
		if from != to && from.id != 0 {
			g[from] = append(g[from], to)
		}
	}
	unitRef := func(id UnitID) ref { return ref{classUnit, uint64(id)} }
	quantityRef := func(id QuantityID) ref { return ref{classQuantity, uint64(id)} }

	for _, id := range slices.Sorted(maps.Keys(r.quantities)) {
		q := r.quantities[id]
		if q.disposed {
			continue
		}
		me := quantityRef(id)
		for _, t := range q.composition.Terms() {
			add(quantityRef(t.Key), me)
		}
		if q.isVector() {
			add(quantityRef(q.analog), me)
		}
		if !q.isBase() {
			if fu, ok := r.units[q.fundamental]; ok {
				for _, t := range fu.composition.Terms() {
					if t.Key != fu.id {
						add(unitRef(t.Key), me)
					}
				}
			}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(r.units)) {
		u := r.units[id]
		if u.disposed {
			continue
		}
		me := unitRef(id)
		add(quantityRef(u.quantity), me)
		add(unitRef(u.from), me)
		add(unitRef(u.base), me)
		add(ref{classPrefix, uint64(u.prefix)}, me)
		for _, t := range u.composition.Terms() {
			add(unitRef(t.Key), me)
		}
		if u.isVector() {
			add(unitRef(u.analog), me)
		}
	}
	return g
}

// Dependents returns every live entity whose definition depends on e,
// directly or transitively, in discovery order. Reaching e again means the
// dependency graph has a cycle, which is an assertion failure.
func (r *Registry) Dependents(e Entity) ([]Entity, error) {
	if err := r.owns(e); err != nil {
		return nil, err
	}
	g := r.dependencyGraph()
	start := e.ref()
	visited := map[ref]bool{start: true}
	stack := []ref{start}

	var out []Entity
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g[cur] {
			if next == start {
				return nil, errors.Invariantf(errors.ErrDependencyCycle, "%s %q depends on itself", e.Kind(), e.Name())
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, r.entityOf(next))
			stack = append(stack, next)
		}
	}
	return out, nil
}
