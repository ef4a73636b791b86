package registry

import (
	"go.uber.org/zap"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// Dispose removes e from the registry. With cascade, every dependent is
// disposed too. The whole plan is checked before anything changes: the
// canonical empty quantities and their units are protected, and a fundamental
// unit can only go together with its quantity.
func (r *Registry) Dispose(e Entity, cascade bool) error {
	if err := r.owns(e); err != nil {
		return err
	}
	start := e.ref()
	if r.protected[start] {
		return errors.Invalidf(errors.ErrProtected, "%s %q", e.Kind(), e.Name())
	}

	plan := []ref{start}
	if cascade {
		deps, err := r.Dependents(e)
		if err != nil {
			return err
		}
		for _, d := range deps {
			if r.protected[d.ref()] {
				return errors.Invalidf(errors.ErrProtected, "%s %q depends on %q", d.Kind(), d.Name(), e.Name())
			}
			plan = append(plan, d.ref())
		}
	}

	inPlan := make(map[ref]bool, len(plan))
	for _, p := range plan {
		inPlan[p] = true
	}
	for _, p := range plan {
		if p.class != classUnit {
			continue
		}
		for _, q := range r.quantities {
			if !q.disposed && uint64(q.fundamental) == p.id && !inPlan[ref{classQuantity, uint64(q.id)}] {
				return errors.Invariantf(errors.ErrDisposalOrder,
					"unit %q is the fundamental unit of live quantity %q", r.units[UnitID(p.id)].label(), q.label())
			}
		}
	}

	for _, c := range []class{classQuantity, classUnit, classPrefix, classSystem} {
		for _, p := range plan {
			if p.class == c {
				r.remove(p)
			}
		}
	}
	r.logger.Debug("disposed",
		zap.String("kind", e.Kind().String()),
		zap.String("entity", e.Name()),
		zap.Int("count", len(plan)))
	return nil
}

// remove marks e disposed and detaches it from buckets, the composition
// cache, analog links and measurement systems.
func (r *Registry) remove(e ref) {
	rec, kind, ok := r.record(e)
	if !ok || rec.disposed {
		return
	}
	r.unregister(e)
	rec.disposed = true

	switch e.class {
	case classQuantity:
		q := r.quantities[QuantityID(e.id)]
		if key := q.composition.Key(); r.byComposition[key] == q.id {
			delete(r.byComposition, key)
		}
		if a, ok := r.quantities[q.analog]; ok && a.analog == q.id {
			a.analog = 0
		}
		q.analog = 0
	case classUnit:
		u := r.units[UnitID(e.id)]
		if a, ok := r.units[u.analog]; ok && a.analog == u.id {
			a.analog = 0
		}
		u.analog = 0
	}
	r.forgetInSystems(e)
	r.logger.Debug("entity removed", zap.String("kind", kind.String()), zap.String("entity", rec.label()))
}
