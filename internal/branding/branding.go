// Package branding names the convertal binary, its home directory and its
// environment variables. The values live in the embedded branding.yaml.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawIdentity []byte

// Identity is the set of names the CLI presents itself under.
type Identity struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
}

var fallback = Identity{
	CLIName:     "convertal",
	DisplayName: "Convertal",
	Description: "Dimensional analysis and exact unit conversion",
	HomeDir:     ".convertal",
	EnvPrefix:   "CONVERTAL",
}

var current = sync.OnceValue(func() Identity { return parse(rawIdentity) })

// parse reads an identity document. Fields it leaves empty, or a document
// that does not parse, take the fallback values.
func parse(raw []byte) Identity {
	var id Identity
	if err := yaml.Unmarshal(raw, &id); err != nil {
		return fallback
	}
	fill(&id.CLIName, fallback.CLIName)
	fill(&id.DisplayName, fallback.DisplayName)
	fill(&id.Description, fallback.Description)
	fill(&id.HomeDir, fallback.HomeDir)
	fill(&id.EnvPrefix, fallback.EnvPrefix)
	return id
}

func fill(field *string, def string) {
	if strings.TrimSpace(*field) == "" {
		*field = def
	}
}

// Current returns the embedded identity.
func Current() Identity { return current() }

// CLIName is the root command name.
func CLIName() string { return current().CLIName }

func DisplayName() string { return current().DisplayName }

func Description() string { return current().Description }

// HomeDir is the directory under $HOME holding config.yaml.
func HomeDir() string { return current().HomeDir }

// EnvPrefix is the prefix viper binds configuration variables under.
func EnvPrefix() string { return current().EnvPrefix }

// EnvVar maps a configuration key to its environment variable:
// "output.precision" becomes CONVERTAL_OUTPUT_PRECISION.
func EnvVar(key string) string {
	key = strings.NewReplacer(".", "_", "-", "_").Replace(key)
	return current().EnvPrefix + "_" + strings.ToUpper(key)
}
