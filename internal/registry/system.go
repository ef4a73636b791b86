package registry

import (
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// DefineMeasurementSystem creates an empty measurement system.
func (r *Registry) DefineMeasurementSystem(name string) (MeasurementSystem, error) {
	if err := r.ValidateName(KindMeasurementSystem, name, false); err != nil {
		return MeasurementSystem{}, err
	}
	s := &systemRecord{id: SystemID(r.allocID()), units: make(map[QuantityID]UnitID)}
	s.name = name
	r.systems[s.id] = s
	r.register(ref{classSystem, uint64(s.id)})
	return MeasurementSystem{r: r, id: s.id}, nil
}

// GetOrDefineMeasurementSystem returns the system called name, defining it
// when absent.
func (r *Registry) GetOrDefineMeasurementSystem(name string) (MeasurementSystem, error) {
	s, ok, err := r.TrySystem(name)
	if err != nil || ok {
		return s, err
	}
	return r.DefineMeasurementSystem(name)
}

// SetUnit makes u the preferred unit of q in s. u must measure q.
func (r *Registry) SetUnit(s MeasurementSystem, q Quantity, u Unit) error {
	if err := r.ownsAll(s, q, u); err != nil {
		return err
	}
	if u.rec().quantity != q.id {
		return errors.Invalidf(errors.ErrInvalidQuantity, "unit %q measures %q, not %q", u, u.Quantity(), q)
	}
	s.rec().units[q.id] = u.id
	return nil
}

// RemoveQuantity drops q's preferred unit from s. It reports whether q had one.
func (r *Registry) RemoveQuantity(s MeasurementSystem, q Quantity) (bool, error) {
	if err := r.owns(s); err != nil {
		return false, err
	}
	units := s.rec().units
	_, ok := units[q.id]
	delete(units, q.id)
	return ok, nil
}

// Units returns the system's preferred units keyed by quantity.
func (s MeasurementSystem) Units() map[Quantity]Unit {
	out := make(map[Quantity]Unit, len(s.rec().units))
	for q, u := range s.rec().units {
		out[Quantity{r: s.r, id: q}] = Unit{r: s.r, id: u}
	}
	return out
}

// forgetInSystems removes every preference that mentions e.
func (r *Registry) forgetInSystems(e ref) {
	for _, s := range r.systems {
		for q, u := range s.units {
			if (e.class == classQuantity && uint64(q) == e.id) || (e.class == classUnit && uint64(u) == e.id) {
				delete(s.units, q)
			}
		}
	}
}
