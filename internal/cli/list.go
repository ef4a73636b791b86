package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

var listKinds = []string{"prefixes", "quantities", "units", "systems"}

// listEntry is one named entity for display.
type listEntry struct {
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol,omitempty"`
	Kind        string            `json:"kind"`
	Quantity    string            `json:"quantity,omitempty"`
	Composition string            `json:"composition,omitempty"`
	Unit        string            `json:"unit,omitempty"`
	Multiplier  string            `json:"multiplier,omitempty"`
	Offset      string            `json:"offset,omitempty"`
	Units       map[string]string `json:"units,omitempty"`
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "list [prefixes|quantities|units|systems]",
		Short:     "List defined entities",
		Long:      `List the named prefixes, quantities, units or measurement systems. Without an argument a count of each is printed.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: listKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if len(args) == 0 {
				return printSummary(w, reg)
			}

			kind := strings.ToLower(args[0])
			var entries []listEntry
			switch kind {
			case "prefixes":
				entries = prefixEntries(reg)
			case "quantities":
				entries = quantityEntries(reg)
			case "units":
				entries = unitEntries(reg)
			case "systems":
				entries = systemEntries(reg)
			default:
				return errors.WithHintf(errors.Newf("unknown entity kind %q", args[0]),
					"choose one of: %s", strings.Join(listKinds, ", "))
			}

			if asJSON {
				return printListJSON(w, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintf(w, "No %s defined.\n", kind)
				return nil
			}
			return printListTable(w, kind, entries)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func printSummary(w io.Writer, reg *registry.Registry) error {
	p := message.NewPrinter(language.English)
	counts := []int{
		len(prefixEntries(reg)),
		len(quantityEntries(reg)),
		len(unitEntries(reg)),
		len(systemEntries(reg)),
	}
	for i, kind := range listKinds {
		if _, err := p.Fprintf(w, "%-12s %6d\n", kind, counts[i]); err != nil {
			return err
		}
	}
	return nil
}

func prefixEntries(reg *registry.Registry) []listEntry {
	var out []listEntry
	for _, p := range reg.Prefixes() {
		if p.Name() == "" {
			continue
		}
		out = append(out, listEntry{
			Name:       p.Name(),
			Symbol:     p.Symbol(),
			Kind:       p.Kind().String(),
			Multiplier: p.Multiplier().String(),
		})
	}
	return out
}

func quantityEntries(reg *registry.Registry) []listEntry {
	var out []listEntry
	for _, q := range reg.Quantities() {
		if q.Name() == "" {
			continue
		}
		out = append(out, listEntry{
			Name:        q.Name(),
			Symbol:      q.Symbol(),
			Kind:        q.Kind().String(),
			Composition: q.FormatComposition(),
			Unit:        label(q.FundamentalUnit()),
		})
	}
	return out
}

func unitEntries(reg *registry.Registry) []listEntry {
	var out []listEntry
	for _, u := range reg.Units() {
		if u.Name() == "" {
			continue
		}
		e := listEntry{
			Name:       u.Name(),
			Symbol:     u.Symbol(),
			Kind:       u.Kind().String(),
			Quantity:   u.Quantity().String(),
			Multiplier: u.Multiplier().String(),
		}
		if !u.Offset().IsZero() {
			e.Offset = u.Offset().String()
		}
		out = append(out, e)
	}
	return out
}

func systemEntries(reg *registry.Registry) []listEntry {
	var out []listEntry
	for _, s := range reg.Systems() {
		units := make(map[string]string)
		for q, u := range s.Units() {
			units[q.String()] = label(u)
		}
		out = append(out, listEntry{
			Name:  s.Name(),
			Kind:  s.Kind().String(),
			Units: units,
		})
	}
	return out
}

func printListTable(w io.Writer, kind string, entries []listEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	switch kind {
	case "prefixes":
		fmt.Fprintln(tw, "NAME\tSYMBOL\tMULTIPLIER")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, orDash(e.Symbol), e.Multiplier)
		}
	case "quantities":
		fmt.Fprintln(tw, "NAME\tSYMBOL\tKIND\tUNIT\tCOMPOSITION")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Name, orDash(e.Symbol), e.Kind, e.Unit, orDash(e.Composition))
		}
	case "units":
		fmt.Fprintln(tw, "NAME\tSYMBOL\tQUANTITY\tMULTIPLIER\tOFFSET")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Name, orDash(e.Symbol), e.Quantity, e.Multiplier, orDash(e.Offset))
		}
	case "systems":
		fmt.Fprintln(tw, "NAME\tQUANTITY\tUNIT")
		for _, e := range entries {
			quantities := make([]string, 0, len(e.Units))
			for q := range e.Units {
				quantities = append(quantities, q)
			}
			slices.Sort(quantities)
			if len(quantities) == 0 {
				fmt.Fprintf(tw, "%s\t-\t-\n", e.Name)
			}
			for _, q := range quantities {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, q, e.Units[q])
			}
		}
	}
	return tw.Flush()
}

func printListJSON(w io.Writer, entries []listEntry) error {
	if entries == nil {
		entries = []listEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
