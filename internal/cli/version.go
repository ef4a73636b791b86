package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RichardMelito/Convertal-sub000/internal/branding"
	"github.com/RichardMelito/Convertal-sub000/internal/document"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

func newVersionCmd(a *app) *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, a.build.Version)
				return nil
			}

			if asJSON {
				info := map[string]string{
					"version":         a.build.Version,
					"commit":          a.build.Commit,
					"date":            a.build.Date,
					"document_format": document.FormatVersion,
				}
				out, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return errors.Wrap(err, "marshaling version info")
				}
				fmt.Fprintln(w, string(out))
				return nil
			}

			fmt.Fprintf(w, "%s version %s (commit: %s, built: %s, document format: %s)\n",
				branding.CLIName(), a.build.Version, a.build.Commit, a.build.Date, document.FormatVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print version number only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version info as JSON")
	return cmd
}
