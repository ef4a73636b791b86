package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/RichardMelito/Convertal-sub000/internal/branding"
	"github.com/RichardMelito/Convertal-sub000/internal/catalog"
	"github.com/RichardMelito/Convertal-sub000/internal/config"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/log"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

// BuildInfo is injected via ldflags at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// app carries state shared by one invocation of the command tree.
type app struct {
	build    BuildInfo
	settings config.Settings
	logger   *zap.Logger
	reg      *registry.Registry
}

// registry builds the registry on first use so that commands which never
// touch definitions do not pay for loading the catalog.
func (a *app) registry() (*registry.Registry, error) {
	if a.reg != nil {
		return a.reg, nil
	}
	reg, err := catalog.NewRegistry(
		catalog.WithLogger(a.logger),
		catalog.WithBuiltin(a.settings.Builtin),
		catalog.WithFiles(a.settings.Files...),
	)
	if err != nil {
		return nil, err
	}
	a.reg = reg
	return reg, nil
}

// flagKeys binds persistent flags to config keys. Flags win over the config
// file and environment when set.
var flagKeys = map[string]string{
	"builtin":   config.KeyBuiltin,
	"file":      config.KeyFiles,
	"precision": config.KeyPrecision,
	"system":    config.KeySystem,
	"log-level": config.KeyLogLevel,
	"log-json":  config.KeyLogJSON,
}

// NewRootCmd builds the command tree.
func NewRootCmd(build BuildInfo) *cobra.Command {
	a := &app{build: build, logger: log.Nop()}

	root := &cobra.Command{
		Use:   branding.CLIName(),
		Short: branding.Description(),
		Long: branding.DisplayName() + ` converts values between units and inspects the quantities,
units, prefixes and measurement systems they are defined by. Definitions come
from the built-in SI catalog plus any YAML or JSON documents you add.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.Load()
			for name, key := range flagKeys {
				if err := viper.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
					return errors.Wrapf(err, "binding --%s", name)
				}
			}
			a.settings = config.Current()

			logger, err := log.New(log.Options{
				Level:  a.settings.LogLevel,
				JSON:   a.settings.LogJSON,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.Bool("builtin", true, "Load the built-in SI catalog")
	pf.StringSliceP("file", "f", nil, "Definition documents or directories to load (repeatable)")
	pf.Int("precision", config.DefaultPrecision, "Maximum fractional digits in printed values")
	pf.String("system", "", "Measurement system used when no target unit is given")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.Bool("log-json", false, "Write logs as JSON")

	root.AddCommand(
		newConvertCmd(a),
		newListCmd(a),
		newDescribeCmd(a),
		newExportCmd(a),
		newValidateCmd(a),
		newConfigCmd(),
		newVersionCmd(a),
	)
	return root
}

// Execute runs the command tree with build info injected via ldflags.
func Execute(build BuildInfo) error {
	err := NewRootCmd(build).Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := errors.FlattenHints(err); hint != "" {
		for _, line := range strings.Split(hint, "\n") {
			fmt.Fprintf(w, "  hint: %s\n", line)
		}
	}
}
