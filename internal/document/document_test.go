package document

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/RichardMelito/Convertal-sub000/internal/convert"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertNear(t testing.TB, want, got decimal.Decimal) {
	t.Helper()
	assert.True(t, want.Sub(got).Abs().LessThan(dec("1e-20")), "want %s, got %s", want, got)
}

func loadBasic(t *testing.T, opts ...registry.Option) *registry.Registry {
	t.Helper()
	reg := registry.New(opts...)
	require.NoError(t, LoadFile(reg, testPath("basic.yaml")))
	return reg
}

func TestParseFile(t *testing.T) {
	doc, err := ParseFile(testPath("basic.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", doc.Version)
	assert.Equal(t, "basic", doc.Name)
	require.Len(t, doc.Prefixes, 2)
	assert.True(t, dec("0.01").Equal(doc.Prefixes[1].Multiplier.Decimal))
	require.Len(t, doc.BaseQuantities, 4)
	assert.Equal(t, "kilo", doc.BaseQuantities[1].FundamentalPrefix)
	require.Len(t, doc.DerivedQuantities, 3)
	assert.Equal(t, &VectorDoc{Name: "Velocity"}, doc.DerivedQuantities[2].Vector)

	require.Len(t, doc.Units, 6)
	inch := doc.Units[0]
	assert.Equal(t, "foot", inch.From)
	require.NotNil(t, inch.Multiplier)
	assert.Nil(t, inch.Offset)
	celsius := doc.Units[2]
	assert.Nil(t, celsius.Multiplier)
	assert.True(t, dec("273.15").Equal(celsius.Offset.Decimal))
	assert.True(t, dec("-1").Equal(doc.Units[4].Composition["hour"].Decimal))

	require.Len(t, doc.Systems, 1)
	assert.Equal(t, "fahrenheit", doc.Systems[0].Units["Temperature"])
}

func TestParseJSON(t *testing.T) {
	doc, err := ParseFile(testPath("basic.json"))
	require.NoError(t, err)
	require.Len(t, doc.Units, 2)
	assert.True(t, dec("3").Equal(doc.Units[0].Multiplier.Decimal))
	assert.True(t, dec("0.3048").Equal(doc.Units[1].Multiplier.Decimal))
}

func TestParseRejects(t *testing.T) {
	_, err := Parse([]byte("version: 1.0.0\nbogus: true\n"))
	assert.Error(t, err)

	_, err = Parse([]byte(""))
	assert.ErrorIs(t, err, errors.ErrInvalidDefinition)

	_, err = Parse([]byte("version: 1.0.0\nprefixes:\n  - name: kilo\n    multiplier: [1]\n"))
	assert.Error(t, err)

	_, err = ParseFile(testPath("nonexistent.yaml"))
	assert.Error(t, err)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.54", "2.54"},
		{" -3 ", "-3"},
		{"1/4", "0.25"},
		{"-1 / 8", "-0.125"},
		{"1e-3", "0.001"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := ParseNumber(tt.in)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(n.Decimal), "got %s", n)
		})
	}

	for _, bad := range []string{"", "abc", "1/0", "1/x", "x/2"} {
		_, err := ParseNumber(bad)
		assert.Error(t, err, bad)
	}
	_, err := ParseNumber("1/0")
	assert.ErrorIs(t, err, errors.ErrInvalidDefinition)
	_, err = ParseNumber("2/x")
	assert.ErrorContains(t, err, `parsing denominator of "2/x"`)

	_, err = Parse([]byte("version: 1.0.0\nprefixes:\n  - name: kilo\n    multiplier: [1000]\n"))
	assert.ErrorContains(t, err, "line 4: expected a number")

	third, err := ParseNumber("1/3")
	require.NoError(t, err)
	assert.Equal(t, "0.3333333333333333333333333333", third.String())
}

func TestPropertyNumberTextRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := decimal.New(rapid.Int64().Draw(rt, "value"), int32(rapid.IntRange(-30, 30).Draw(rt, "exp")))
		n, err := ParseNumber(NewNumber(d).String())
		require.NoError(rt, err)
		require.True(rt, d.Equal(n.Decimal), "%s != %s", d, n)
	})
}

func TestCheckVersion(t *testing.T) {
	for _, v := range []string{"1.0.0", "1.4.2", "v1.0.0", "1"} {
		assert.NoError(t, CheckVersion(v), v)
	}
	for _, v := range []string{"2.0.0", "0.9.0", "banana"} {
		assert.ErrorIs(t, CheckVersion(v), errors.ErrUnsupportedVersion, v)
	}
}

func TestValidateFile(t *testing.T) {
	for _, file := range []string{"basic.yaml", "basic.json"} {
		t.Run(file, func(t *testing.T) {
			result, err := ValidateFile(testPath(file))
			require.NoError(t, err)
			if !assert.True(t, result.Valid) {
				for _, issue := range result.Issues {
					t.Logf("path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
			}
		})
	}

	result, err := ValidateFile(testPath("invalid.yaml"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	paths := make(map[string]bool)
	for _, issue := range result.Issues {
		paths[issue.Path] = true
		assert.NotEmpty(t, issue.Message)
		assert.NotEmpty(t, issue.Keyword)
	}
	assert.True(t, paths["/prefixes/0/multiplier"], "issues: %+v", result.Issues)
	assert.True(t, paths["/units/0/name"], "issues: %+v", result.Issues)
}

func TestValidateReportsVersionAndShape(t *testing.T) {
	result, err := Validate([]byte("version: 2.0.0\n"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "/version", result.Issues[0].Path)
	assert.Equal(t, "version", result.Issues[0].Keyword)

	result, err = Validate([]byte("name: no version\n"))
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Issues)

	_, err = Validate([]byte("version: [unclosed\n"))
	assert.Error(t, err)

	_, err = getSchema()
	assert.NoError(t, err)
}

func TestLoad(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := loadBasic(t, registry.WithLogger(zap.New(core)))

	foot, err := reg.Unit("ft")
	require.NoError(t, err)
	assert.True(t, dec("0.3048").Equal(foot.Multiplier()))
	inch, err := reg.Unit("inch")
	require.NoError(t, err)
	assertNear(t, dec("0.0254"), inch.Multiplier())

	force, err := reg.Quantity("Force")
	require.NoError(t, err)
	assert.Equal(t, "newton", force.FundamentalUnit().Name())
	assert.Equal(t, "metre·kilo_gram·second^-2", force.FundamentalUnit().FormatComposition())

	velocity, err := reg.Quantity("Velocity")
	require.NoError(t, err)
	assert.True(t, velocity.IsVector())

	kph, err := reg.Unit("kph")
	require.NoError(t, err)
	assert.Equal(t, "Speed", kph.Quantity().Name())
	assertNear(t, registry.Divide(dec("1000"), dec("3600")), kph.Multiplier())

	celsius, err := reg.Unit("degC")
	require.NoError(t, err)
	fahrenheit, err := reg.Unit("fahrenheit")
	require.NoError(t, err)
	v, err := convert.Convert(fahrenheit, dec("-40"), celsius)
	require.NoError(t, err)
	assertNear(t, dec("-40"), v)

	imperial, err := reg.System("Imperial")
	require.NoError(t, err)
	length, err := reg.Quantity("Length")
	require.NoError(t, err)
	pref, ok := imperial.PreferredUnit(length)
	require.True(t, ok)
	assert.Equal(t, foot, pref)

	passes := map[string]int{}
	for _, e := range logs.FilterMessage("worklist pass").All() {
		passes[e.ContextMap()["section"].(string)]++
	}
	assert.Equal(t, map[string]int{"derived quantity": 3, "unit": 2}, passes)
	assert.Equal(t, 1, logs.FilterMessage("document loaded").Len())
}

func TestLoadTwiceChangesNothing(t *testing.T) {
	reg := loadBasic(t)
	units, quantities := len(reg.Units()), len(reg.Quantities())

	require.NoError(t, LoadFile(reg, testPath("basic.yaml")))
	assert.Len(t, reg.Units(), units)
	assert.Len(t, reg.Quantities(), quantities)
}

func TestLoadJSONForwardReference(t *testing.T) {
	reg := registry.New()
	require.NoError(t, LoadFile(reg, testPath("basic.json")))
	yard, err := reg.Unit("yard")
	require.NoError(t, err)
	assert.True(t, dec("0.9144").Equal(yard.Multiplier()))
}

func TestLoadFailures(t *testing.T) {
	base := `version: 1.0.0
base_quantities:
  - name: Length
    unit: metre
`
	tests := []struct {
		name string
		body string
		want error
	}{
		{"unknown reference", "units:\n  - name: furlong\n    from: chain\n", errors.ErrUnresolvedReference},
		{"cycle", "units:\n  - name: a\n    from: b\n  - name: b\n    from: a\n", errors.ErrUnresolvedReference},
		{"self composition", "units:\n  - name: widget\n    composition: {widget: 2}\n", errors.ErrSelfReference},
		{"self from", "units:\n  - name: widget\n    symbol: w\n    from: w\n", errors.ErrSelfReference},
		{"two sources", "units:\n  - name: foot\n    from: metre\n    composition: {metre: 1}\n", errors.ErrInvalidDefinition},
		{"zero multiplier", "units:\n  - name: nothing\n    from: metre\n    multiplier: 0\n", errors.ErrInvalidDefinition},
		{"wrong quantity", "units:\n  - name: foot\n    quantity: Time\n    from: metre\n    multiplier: 0.3048\n", errors.ErrInvalidQuantity},
		{"unknown derived", "derived_quantities:\n  - name: Speed\n    composition: {Length: 1, Time: -1}\n", errors.ErrUnresolvedReference},
		{"bad prefix", "prefixes:\n  - name: nil\n    multiplier: 0\n", errors.ErrInvalidDefinition},
		{"missing system unit", "systems:\n  - name: SI\n    units: {Length: furlong}\n", errors.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(base + tt.body))
			require.NoError(t, err)
			assert.ErrorIs(t, Load(registry.New(), doc), tt.want)
		})
	}

	doc, err := Parse([]byte("version: 3.1.0\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, Load(registry.New(), doc), errors.ErrUnsupportedVersion)
}

func TestLoadSymbolOnlyVectors(t *testing.T) {
	body := []byte(`version: 1.0.0
base_quantities:
  - name: Length
    unit: metre
    vector: {symbol: D}
units:
  - name: foot
    from: metre
    multiplier: 0.3048
    vector: {symbol: vft}
`)
	result, err := Validate(body)
	require.NoError(t, err)
	assert.True(t, result.Valid, "issues: %+v", result.Issues)

	doc, err := Parse(body)
	require.NoError(t, err)
	reg := registry.New()
	require.NoError(t, Load(reg, doc))
	require.NoError(t, Load(reg, doc))

	displacement, err := reg.Quantity("D")
	require.NoError(t, err)
	assert.True(t, displacement.IsVector())
	length, err := reg.Quantity("Length")
	require.NoError(t, err)
	scalar, ok := displacement.ScalarAnalog()
	require.True(t, ok)
	assert.Equal(t, length, scalar)

	vft, err := reg.Unit("vft")
	require.NoError(t, err)
	assert.True(t, vft.IsVector())
	assert.True(t, dec("0.3048").Equal(vft.Multiplier()))
}

func TestLoadConflictsWithExistingDefinitions(t *testing.T) {
	reg := loadBasic(t)
	doc, err := Parse([]byte("version: 1.0.0\nunits:\n  - name: foot\n    from: metre\n    multiplier: 0.3\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, Load(reg, doc), errors.ErrDefinitionMismatch)

	doc, err = Parse([]byte("version: 1.0.0\nbase_quantities:\n  - name: Length\n    unit: foot\n"))
	require.NoError(t, err)
	assert.ErrorIs(t, Load(reg, doc), errors.ErrDefinitionMismatch)
}

func TestFromRegistryRoundTrip(t *testing.T) {
	reg := loadBasic(t)
	doc := FromRegistry(reg)
	assert.Equal(t, FormatVersion, doc.Version)

	byName := make(map[string]UnitDoc)
	for _, u := range doc.Units {
		byName[u.Name] = u
	}
	assert.Equal(t, "foot", byName["inch"].From)
	assert.Equal(t, "Temperature", byName["fahrenheit"].Quantity)
	assert.True(t, dec("-32").Equal(byName["fahrenheit"].Offset.Decimal))
	assert.Len(t, byName["kph"].Composition, 2)
	assert.NotContains(t, byName, "gram")

	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			first, err := Marshal(doc, format)
			require.NoError(t, err)

			result, err := Validate(first)
			require.NoError(t, err)
			assert.True(t, result.Valid, "issues: %+v", result.Issues)

			parsed, err := Parse(first)
			require.NoError(t, err)
			fresh := registry.New()
			require.NoError(t, Load(fresh, parsed))

			second, err := Marshal(FromRegistry(fresh), format)
			require.NoError(t, err)
			assert.Equal(t, string(first), string(second))

			fahrenheit, err := fresh.Unit("degF")
			require.NoError(t, err)
			kelvin, err := fresh.Unit("K")
			require.NoError(t, err)
			v, err := convert.Convert(fahrenheit, dec("32"), kelvin)
			require.NoError(t, err)
			assertNear(t, dec("273.15"), v)
		})
	}
}

func TestFormats(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	_, err = ParseFormat("toml")
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "yaml or json")

	assert.Equal(t, FormatJSON, FormatFromPath("out/si.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("out/si.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("out/si"))

	_, err = Marshal(&Document{Version: FormatVersion}, Format("toml"))
	assert.Error(t, err)
}
