package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RichardMelito/Convertal-sub000/internal/catalog"
	"github.com/RichardMelito/Convertal-sub000/internal/document"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

func newValidateCmd(a *app) *cobra.Command {
	var schemaOnly bool

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check definition documents",
		Long: `Check definition documents against the document schema, then load each one
into a fresh registry (on top of the built-in catalog unless --builtin=false)
to catch unresolved references and conflicting definitions.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				if err := validateDocument(w, a, path, schemaOnly); err != nil {
					failed++
				}
			}
			if failed > 0 {
				return errors.Newf("%d of %d document(s) failed validation", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "Skip loading the document into a registry")
	return cmd
}

func validateDocument(w io.Writer, a *app, path string, schemaOnly bool) error {
	fmt.Fprintf(w, "Document validation: %s\n", path)

	result, err := document.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}
	if !result.Valid {
		fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Path != "" {
				fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
			} else {
				fmt.Fprintf(w, "    - %s\n", issue.Message)
			}
		}
		return errors.Newf("document %s has %d validation issue(s)", path, len(result.Issues))
	}
	fmt.Fprintln(w, "  [ OK ] Schema")
	if schemaOnly {
		return nil
	}

	// Each document loads into its own registry so that one file's
	// definitions cannot satisfy another's references.
	reg, err := catalog.NewRegistry(
		catalog.WithLogger(a.logger),
		catalog.WithBuiltin(a.settings.Builtin),
	)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}
	if err := document.LoadFile(reg, path); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}
	fmt.Fprintln(w, "  [ OK ] Definitions load")
	return nil
}
