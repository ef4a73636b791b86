package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/RichardMelito/Convertal-sub000/internal/branding"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyBuiltin   = "catalog.builtin"
	KeyFiles     = "catalog.files"
	KeyPrecision = "output.precision"
	KeySystem    = "output.system"
	KeyLogLevel  = "log.level"
	KeyLogJSON   = "log.json"
)

// DefaultPrecision is the number of fractional digits printed by default.
const DefaultPrecision = 10

var defaults = map[string]interface{}{
	KeyBuiltin:   true,
	KeyFiles:     []string{},
	KeyPrecision: DefaultPrecision,
	KeySystem:    "",
	KeyLogLevel:  "warn",
	KeyLogJSON:   false,
}

// Settings is a typed snapshot of the configuration.
type Settings struct {
	Builtin   bool
	Files     []string
	Precision int
	System    string
	LogLevel  string
	LogJSON   bool
}

// Keys returns every recognized setting key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Dir returns the path to the Convertal config directory (~/.convertal/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.convertal/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating config directory %s", dir)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Nested keys map to variables such as CONVERTAL_OUTPUT_PRECISION.
func Load() {
	setDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	if key == KeyFiles {
		return strings.Join(viper.GetStringSlice(key), ",")
	}
	return viper.GetString(key)
}

// Set validates a config key-value pair, stores it and saves the config file.
// catalog.files takes a comma-separated list.
func Set(key, value string) error {
	v, err := parseValue(key, value)
	if err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, v)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return errors.Wrapf(err, "creating config file %s", configFile)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return errors.Wrapf(err, "writing config file %s", configFile)
	}

	return nil
}

func parseValue(key, value string) (interface{}, error) {
	switch key {
	case KeyBuiltin, KeyLogJSON:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Newf("%s must be true or false, got %q", key, value)
		}
		return b, nil
	case KeyPrecision:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, errors.Newf("%s must be a non-negative integer, got %q", key, value)
		}
		return n, nil
	case KeyFiles:
		var files []string
		for _, f := range strings.Split(value, ",") {
			if f = strings.TrimSpace(f); f != "" {
				files = append(files, f)
			}
		}
		return files, nil
	case KeySystem, KeyLogLevel:
		return value, nil
	default:
		return nil, errors.WithHintf(errors.Newf("unknown config key %q", key),
			"known keys: %s", strings.Join(Keys(), ", "))
	}
}

func setDefaults() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// Current returns the typed settings, with defaults for unset keys.
func Current() Settings {
	setDefaults()
	return Settings{
		Builtin:   viper.GetBool(KeyBuiltin),
		Files:     viper.GetStringSlice(KeyFiles),
		Precision: viper.GetInt(KeyPrecision),
		System:    viper.GetString(KeySystem),
		LogLevel:  viper.GetString(KeyLogLevel),
		LogJSON:   viper.GetBool(KeyLogJSON),
	}
}
