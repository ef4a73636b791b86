package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/RichardMelito/Convertal-sub000/internal/convert"
	"github.com/RichardMelito/Convertal-sub000/internal/document"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuiltinIsValid(t *testing.T) {
	result, err := document.Validate(BuiltinSource())
	require.NoError(t, err)
	assert.True(t, result.Valid, "issues: %+v", result.Issues)

	doc, err := Builtin()
	require.NoError(t, err)
	assert.Len(t, doc.BaseQuantities, 7)
	assert.Len(t, doc.Prefixes, 24)
}

func TestNewRegistryConverts(t *testing.T) {
	reg, err := NewRegistry(WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	tests := []struct {
		value, from, to, want string
	}{
		{"1", "mile", "km", "1.609344"},
		{"1", "ft", "in", "12"},
		{"2.5", "h", "min", "150"},
		{"1", "d", "s", "86400"},
		{"1", "t", "kg", "1000"},
		{"1", "atm", "bar", "1.01325"},
		{"1500", "g", "kg", "1.5"},
		{"3", "mm", "cm", "0.3"},
		{"1", "qm", "km", "1e-33"},
		{"1e-33", "km", "qm", "1"},
		{"1", "Qm", "qm", "1e60"},
		{"1", "qg", "kg", "1e-33"},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			from, err := reg.ResolveUnit(tt.from)
			require.NoError(t, err)
			to, err := reg.ResolveUnit(tt.to)
			require.NoError(t, err)
			got, err := convert.Convert(from, dec(tt.value), to)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}

	degC, err := reg.Unit("degC")
	require.NoError(t, err)
	degF, err := reg.Unit("degF")
	require.NoError(t, err)
	got, err := convert.Convert(degC, dec("100"), degF)
	require.NoError(t, err)
	assert.True(t, got.Sub(dec("212")).Abs().LessThan(dec("1e-20")), "got %s", got)

	kph, err := reg.Unit("kph")
	require.NoError(t, err)
	mph, err := reg.Unit("mph")
	require.NoError(t, err)
	got, err = convert.Convert(mph, dec("1"), kph)
	require.NoError(t, err)
	assert.True(t, got.Sub(dec("1.609344")).Abs().LessThan(dec("1e-20")), "got %s", got)
}

func TestNewRegistryStructure(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	force, err := reg.Quantity("Force")
	require.NoError(t, err)
	newton, err := reg.Unit("N")
	require.NoError(t, err)
	assert.Equal(t, force.FundamentalUnit(), newton)

	mass, err := reg.Quantity("Mass")
	require.NoError(t, err)
	assert.Equal(t, "kilo_gram", mass.FundamentalUnit().Name())

	displacement, err := reg.Quantity("Displacement")
	require.NoError(t, err)
	assert.True(t, displacement.IsVector())

	si, err := reg.System("SI")
	require.NoError(t, err)
	u, ok := si.PreferredUnit(mass)
	require.True(t, ok)
	assert.Equal(t, mass.FundamentalUnit(), u)

	imperial, err := reg.System("Imperial")
	require.NoError(t, err)
	speed, err := reg.Quantity("Speed")
	require.NoError(t, err)
	u, ok = imperial.PreferredUnit(speed)
	require.True(t, ok)
	assert.Equal(t, "mph", u.Name())

	// Loading again reuses every definition.
	before := len(reg.Units())
	require.NoError(t, Load(reg))
	assert.Len(t, reg.Units(), before)
}

func TestNewRegistryWithoutBuiltin(t *testing.T) {
	reg, err := NewRegistry(WithBuiltin(false))
	require.NoError(t, err)
	_, err = reg.Unit("metre")
	assert.True(t, errors.IsNotFoundError(err))
	assert.Empty(t, reg.Prefixes())
}

func TestNewRegistryLoadsExtraDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "survey.yaml"), `version: 1.0.0
units:
  - name: furlong
    symbol: fur
    from: chain
    multiplier: 10
  - name: chain
    symbol: ch
    from: yard
    multiplier: 22
`)
	reg, err := NewRegistry(WithFiles(dir))
	require.NoError(t, err)
	furlong, err := reg.Unit("fur")
	require.NoError(t, err)
	assert.True(t, dec("201.168").Equal(furlong.Multiplier()))

	writeFile(t, filepath.Join(dir, "broken.yaml"), "version: 1.0.0\nunits:\n  - name: x\n    from: nowhere\n")
	_, err = NewRegistry(WithFiles(dir))
	assert.ErrorIs(t, err, errors.ErrUnresolvedReference)
	assert.Contains(t, err.Error(), "broken.yaml")

	_, err = NewRegistry(WithFiles(filepath.Join(dir, "missing")))
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b.yaml",
		"a/one.json",
		"a/two.yml",
		"a/notes.txt",
		".hidden/skip.yaml",
		"a/.skip.yaml",
	} {
		writeFile(t, filepath.Join(dir, name), "version: 1.0.0\n")
	}
	explicit := filepath.Join(dir, "a", "notes.txt")

	got, err := Discover([]string{dir, explicit, filepath.Join(dir, "b.yaml")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "one.json"),
		filepath.Join(dir, "a", "two.yml"),
		filepath.Join(dir, "b.yaml"),
		explicit,
	}, got)

	got, err = Discover(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExportRoundTrip(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	doc := document.FromRegistry(reg)

	fresh := registry.New()
	require.NoError(t, document.Load(fresh, doc))
	assert.Len(t, fresh.Units(), len(reg.Units()))

	pound, err := fresh.Unit("lb")
	require.NoError(t, err)
	assert.True(t, dec("0.45359237").Equal(pound.Multiplier()))
}
