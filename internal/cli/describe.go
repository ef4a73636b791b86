package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name>",
		Short: "Show details of a quantity, unit, prefix or system",
		Long: `Show how an entity is defined and which other entities depend on it.
Every kind of entity matching the name is shown; "m" describes both the
metre and the milli prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			sections, err := describe(reg, args[0])
			if err != nil {
				return err
			}
			if len(sections) == 0 {
				return errors.WithHint(errors.Wrapf(errors.ErrNotFound, "nothing named %q", args[0]),
					"run 'convertal list units' to see what is defined")
			}

			w := cmd.OutOrStdout()
			for i, s := range sections {
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := s.write(w); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type field struct{ key, value string }

type section []field

func (s section) write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range s {
		fmt.Fprintf(tw, "%s:\t%s\n", f.key, f.value)
	}
	return tw.Flush()
}

func (s *section) add(key, value string) {
	if value != "" {
		*s = append(*s, field{key, value})
	}
}

func describe(reg *registry.Registry, name string) ([]section, error) {
	var out []section

	q, ok, err := reg.TryQuantity(name)
	if err != nil {
		return nil, err
	}
	if ok {
		s, err := describeQuantity(reg, q)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	u, err := reg.ResolveUnit(name)
	switch {
	case err == nil:
		s, err := describeUnit(reg, u)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	case !errors.IsNotFoundError(err):
		return nil, err
	}

	p, ok, err := reg.TryPrefix(name)
	if err != nil {
		return nil, err
	}
	if ok {
		s, err := describePrefix(reg, p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	sys, ok, err := reg.TrySystem(name)
	if err != nil {
		return nil, err
	}
	if ok {
		out = append(out, describeSystem(sys))
	}
	return out, nil
}

func describeQuantity(reg *registry.Registry, q registry.Quantity) (section, error) {
	var s section
	s.add("Quantity", named(q.Name(), q.Symbol()))
	s.add("Kind", q.Kind().String())
	s.add("Composition", q.FormatComposition())
	s.add("Fundamental unit", q.FundamentalUnit().String())
	if q.IsVector() {
		if scalar, ok := q.ScalarAnalog(); ok {
			s.add("Scalar analog", scalar.String())
		}
	} else if vector, ok := q.VectorAnalog(); ok {
		s.add("Vector analog", vector.String())
	}

	var units []string
	for _, u := range q.Units() {
		if u.Name() != "" {
			units = append(units, u.Name())
		}
	}
	s.add("Units", strings.Join(units, ", "))
	return s, addDependents(reg, &s, q)
}

func describeUnit(reg *registry.Registry, u registry.Unit) (section, error) {
	var s section
	s.add("Unit", named(u.Name(), u.Symbol()))
	s.add("Kind", u.Kind().String())
	s.add("Quantity", u.Quantity().String())
	s.add("Composition", u.FormatComposition())
	s.add("Multiplier", u.Multiplier().String())
	if !u.Offset().IsZero() {
		s.add("Offset", u.Offset().String())
	}
	if u.IsFundamental() {
		s.add("Fundamental", "yes")
	}
	if from, m, o, ok := u.DefinedFrom(); ok {
		def := m.String() + " " + from.String()
		if !o.IsZero() {
			def += fmt.Sprintf(" (offset %s)", o)
		}
		s.add("Defined from", def)
	}
	if p, ok := u.Prefix(); ok {
		base, _ := u.Unprefixed()
		s.add("Prefix", fmt.Sprintf("%s applied to %s", p, base))
	}
	if u.IsVector() {
		if scalar, ok := u.ScalarAnalog(); ok {
			s.add("Scalar analog", scalar.String())
		}
	} else if vector, ok := u.VectorAnalog(); ok {
		s.add("Vector analog", vector.String())
	}
	return s, addDependents(reg, &s, u)
}

func describePrefix(reg *registry.Registry, p registry.Prefix) (section, error) {
	var s section
	s.add("Prefix", named(p.Name(), p.Symbol()))
	s.add("Multiplier", p.Multiplier().String())
	return s, addDependents(reg, &s, p)
}

func describeSystem(sys registry.MeasurementSystem) section {
	var s section
	s.add("Measurement system", sys.Name())

	var prefs []string
	for q, u := range sys.Units() {
		prefs = append(prefs, fmt.Sprintf("%s=%s", q, label(u)))
	}
	slices.Sort(prefs)
	s.add("Units", strings.Join(prefs, ", "))
	return s
}

func addDependents(reg *registry.Registry, s *section, e registry.Entity) error {
	deps, err := reg.Dependents(e)
	if err != nil {
		return err
	}
	var names []string
	for _, d := range deps {
		if d.Name() != "" {
			names = append(names, d.Name())
		}
	}
	s.add("Dependents", strings.Join(names, ", "))
	return nil
}

func named(name, symbol string) string {
	if symbol == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, symbol)
}
