package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RichardMelito/Convertal-sub000/internal/document"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// execute runs the command tree in an isolated home directory and returns
// what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-02"})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestConvert(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"prefixed target", []string{"convert", "1", "mi", "km"}, "1 mi = 1.609344 km\n"},
		{"affine", []string{"convert", "-q", "100", "degC", "degF"}, "212\n"},
		{"rational value", []string{"convert", "-q", "1/2", "h", "min"}, "30\n"},
		{"precision flag", []string{"--precision", "3", "convert", "-q", "1", "in", "ft"}, "0.083\n"},
		{"system", []string{"convert", "3", "ft", "--system", "SI"}, "3 ft = 0.9144 m\n"},
		{"imperial system", []string{"convert", "-q", "0", "degC", "--system", "Imperial"}, "32\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConvertUsesConfiguredSystem(t *testing.T) {
	isolate(t)
	_, err := execute(t, "config", "set", "output.system", "Imperial")
	require.NoError(t, err)

	viper.Reset()
	out, err := execute(t, "convert", "-q", "1", "km")
	require.NoError(t, err)
	assert.Equal(t, "3280.8398950131\n", out)
}

func TestConvertErrors(t *testing.T) {
	isolate(t)

	_, err := execute(t, "convert", "1", "m", "s")
	assert.ErrorIs(t, err, errors.ErrInvalidQuantity)

	_, err = execute(t, "convert", "1", "m")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "--system")

	_, err = execute(t, "convert", "ten", "m", "ft")
	assert.ErrorIs(t, err, errors.ErrInvalidDefinition)

	_, err = execute(t, "convert", "1", "furlong", "m")
	assert.True(t, errors.IsNotFoundError(err))

	_, err = execute(t, "convert", "1", "m", "--system", "Metric")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestListSummary(t *testing.T) {
	isolate(t)
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "prefixes")
	assert.Contains(t, out, "24")
	assert.Contains(t, out, "systems")
}

func TestListTables(t *testing.T) {
	isolate(t)

	out, err := execute(t, "list", "prefixes")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "kilo")

	out, err = execute(t, "list", "systems")
	require.NoError(t, err)
	assert.Contains(t, out, "Imperial")
	assert.Contains(t, out, "mph")

	_, err = execute(t, "list", "widgets")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "quantities")
}

func TestListJSON(t *testing.T) {
	isolate(t)
	out, err := execute(t, "list", "units", "--json")
	require.NoError(t, err)

	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	byName := make(map[string]listEntry)
	for _, e := range entries {
		byName[e.Name] = e
	}
	require.Contains(t, byName, "foot")
	assert.Equal(t, "ft", byName["foot"].Symbol)
	assert.Equal(t, "Length", byName["foot"].Quantity)
	assert.Equal(t, "0.3048", byName["foot"].Multiplier)
	assert.Equal(t, "273.15", byName["celsius"].Offset)
}

func TestListWithoutBuiltin(t *testing.T) {
	isolate(t)
	out, err := execute(t, "--builtin=false", "list", "units")
	require.NoError(t, err)
	assert.Equal(t, "No units defined.\n", out)
}

func TestDescribe(t *testing.T) {
	isolate(t)

	out, err := execute(t, "describe", "Force")
	require.NoError(t, err)
	assert.Contains(t, out, "Quantity:")
	assert.Contains(t, out, "Fundamental unit:")
	assert.Contains(t, out, "newton")

	// "m" names both the metre and the milli prefix.
	out, err = execute(t, "describe", "m")
	require.NoError(t, err)
	assert.Contains(t, out, "metre (m)")
	assert.Contains(t, out, "milli (m)")

	out, err = execute(t, "describe", "metre")
	require.NoError(t, err)
	assert.Contains(t, out, "Dependents:")
	assert.Contains(t, out, "inch")

	out, err = execute(t, "describe", "degF")
	require.NoError(t, err)
	assert.Contains(t, out, "Defined from:")
	assert.Contains(t, out, "celsius")

	out, err = execute(t, "describe", "SI")
	require.NoError(t, err)
	assert.Contains(t, out, "Measurement system:")
	assert.Contains(t, out, "Length=m")

	_, err = execute(t, "describe", "zorkmid")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestExport(t *testing.T) {
	isolate(t)

	out, err := execute(t, "export", "--format", "json", "--name", "snapshot")
	require.NoError(t, err)
	doc, err := document.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, document.FormatVersion, doc.Version)
	assert.Equal(t, "snapshot", doc.Name)
	assert.Len(t, doc.BaseQuantities, 7)

	path := filepath.Join(t.TempDir(), "all.yaml")
	_, err = execute(t, "export", "-o", path)
	require.NoError(t, err)
	result, err := document.ValidateFile(path)
	require.NoError(t, err)
	assert.True(t, result.Valid, "issues: %+v", result.Issues)

	_, err = execute(t, "export", "--format", "toml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`version: 1.0.0
units:
  - {name: fathom, symbol: ftm, from: foot, multiplier: 6}
`), 0o644))
	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "[ OK ] Schema")
	assert.Contains(t, out, "[ OK ] Definitions load")

	// Without the built-in catalog "foot" cannot resolve.
	out, err = execute(t, "--builtin=false", "validate", good)
	require.Error(t, err)
	assert.Contains(t, out, "[FAIL]")

	out, err = execute(t, "--builtin=false", "validate", "--schema-only", good)
	require.NoError(t, err)
	assert.NotContains(t, out, "Definitions load")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`version: 1.0.0
units:
  - {name: fathom, from: foot, multiplier: lots}
`), 0o644))
	out, err = execute(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "/units/0/multiplier")
}

func TestExtraFiles(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nautical.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`version: 1.0.0
units:
  - {name: nauticalmile, symbol: nmi, from: metre, multiplier: 1852}
  - {name: knot, symbol: kn, from_composition: {nauticalmile: 1, hour: -1}}
`), 0o644))

	out, err := execute(t, "-f", path, "convert", "-q", "10", "kn", "kph")
	require.NoError(t, err)
	assert.Equal(t, "18.52\n", out)

	_, err = execute(t, "-f", filepath.Join(t.TempDir(), "missing.yaml"), "list")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "config", "set", "output.precision", "4")
	require.NoError(t, err)
	assert.Equal(t, "Set output.precision = 4\n", out)
	assert.FileExists(t, filepath.Join(home, ".convertal", "config.yaml"))

	viper.Reset()
	out, err = execute(t, "config", "get", "output.precision")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	viper.Reset()
	out, err = execute(t, "convert", "-q", "1", "in", "ft")
	require.NoError(t, err)
	assert.Equal(t, "0.0833\n", out)

	out, err = execute(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog.builtin")
	assert.Contains(t, out, "log.level")

	_, err = execute(t, "config", "set", "colour", "red")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "output.precision")
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "convertal version 1.2.3 (commit: abc123")

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "2026-01-02", info["date"])
	assert.Equal(t, document.FormatVersion, info["document_format"])
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.WithHint(errors.New("boom"), "try again"))
	assert.Equal(t, "Error: boom\n  hint: try again\n", buf.String())
}
