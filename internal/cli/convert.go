package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RichardMelito/Convertal-sub000/internal/convert"
	"github.com/RichardMelito/Convertal-sub000/internal/document"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

func newConvertCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "convert <value> <from> [to]",
		Short: "Convert a value between units",
		Long: `Convert a value from one unit to another of the same quantity.

Units may be given by name or symbol, with or without a prefix ("km",
"kilo_metre"). Values accept decimals, exponents and rationals ("1/3").
Without a target unit the value is converted to the unit preferred by the
measurement system named with --system or output.system.`,
		Example: `  convertal convert 1 mi km
  convertal convert 100 degC degF
  convertal convert 3 ft --system SI`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := document.ParseNumber(args[0])
			if err != nil {
				return errors.Invalidf(errors.ErrInvalidDefinition, "value %q is not a number", args[0])
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}
			from, err := reg.ResolveUnit(args[1])
			if err != nil {
				return err
			}

			var (
				out decimal.Decimal
				to  registry.Unit
			)
			if len(args) == 3 {
				if to, err = reg.ResolveUnit(args[2]); err != nil {
					return err
				}
				out, err = convert.Convert(from, n.Decimal, to)
			} else {
				out, to, err = convertInSystem(reg, from, n.Decimal, a.settings.System)
			}
			if err != nil {
				return err
			}
			a.logger.Debug("converted",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
				zap.String("value", out.String()))

			value := formatValue(out, a.settings.Precision)
			if quiet {
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s\n", args[0], label(from), value, label(to))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the converted value")
	return cmd
}

func convertInSystem(reg *registry.Registry, from registry.Unit, v decimal.Decimal, system string) (decimal.Decimal, registry.Unit, error) {
	if system == "" {
		return decimal.Zero, registry.Unit{}, errors.WithHint(
			errors.New("no target unit given"),
			"pass a target unit or choose a measurement system with --system")
	}
	s, err := reg.System(system)
	if err != nil {
		return decimal.Zero, registry.Unit{}, err
	}
	return convert.ConvertInSystem(from, v, s)
}
