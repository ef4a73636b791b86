package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RichardMelito/Convertal-sub000/internal/document"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every loaded definition as a document",
		Long: `Write the loaded prefixes, quantities, units and measurement systems as a
single YAML or JSON document. Loading the result into an empty registry
recreates the same definitions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" && output != "" {
				format = string(document.FormatFromPath(output))
			}
			f, err := document.ParseFormat(format)
			if err != nil {
				return err
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}

			doc := document.FromRegistry(reg)
			doc.Name = name
			data, err := document.Marshal(doc, f)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrapf(err, "writing %s", output)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d units to %s\n", len(doc.Units), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml or json (default from --output, else yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringVar(&name, "name", "", "Document name to record")
	return cmd
}
