package document

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v3"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

// FormatVersion is the version written by Marshal and FromRegistry.
const FormatVersion = "1.0.0"

// Document is a self-contained set of definitions that can be loaded into a
// registry. Sections are loaded in field order.
type Document struct {
	Version           string               `yaml:"version" json:"version"`
	Name              string               `yaml:"name,omitempty" json:"name,omitempty"`
	Description       string               `yaml:"description,omitempty" json:"description,omitempty"`
	Prefixes          []PrefixDoc          `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`
	BaseQuantities    []BaseQuantityDoc    `yaml:"base_quantities,omitempty" json:"base_quantities,omitempty"`
	DerivedQuantities []DerivedQuantityDoc `yaml:"derived_quantities,omitempty" json:"derived_quantities,omitempty"`
	Units             []UnitDoc            `yaml:"units,omitempty" json:"units,omitempty"`
	Systems           []SystemDoc          `yaml:"systems,omitempty" json:"systems,omitempty"`
}

// PrefixDoc defines a prefix.
type PrefixDoc struct {
	Name       string `yaml:"name" json:"name"`
	Symbol     string `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Multiplier Number `yaml:"multiplier" json:"multiplier"`
}

// VectorDoc names the vector analog of a quantity or unit.
type VectorDoc struct {
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Symbol string `yaml:"symbol,omitempty" json:"symbol,omitempty"`
}

// BaseQuantityDoc defines a base quantity and its fundamental unit. With a
// fundamental prefix, Unit is the unprefixed unit ("gram" for kilo_gram).
type BaseQuantityDoc struct {
	Name              string     `yaml:"name" json:"name"`
	Symbol            string     `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Unit              string     `yaml:"unit" json:"unit"`
	UnitSymbol        string     `yaml:"unit_symbol,omitempty" json:"unit_symbol,omitempty"`
	FundamentalPrefix string     `yaml:"fundamental_prefix,omitempty" json:"fundamental_prefix,omitempty"`
	Vector            *VectorDoc `yaml:"vector,omitempty" json:"vector,omitempty"`
}

// DerivedQuantityDoc names the quantity with a composition over other named
// quantities and, optionally, its fundamental unit.
type DerivedQuantityDoc struct {
	Name        string            `yaml:"name,omitempty" json:"name,omitempty"`
	Symbol      string            `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Composition map[string]Number `yaml:"composition" json:"composition"`
	Unit        string            `yaml:"unit,omitempty" json:"unit,omitempty"`
	UnitSymbol  string            `yaml:"unit_symbol,omitempty" json:"unit_symbol,omitempty"`
	Vector      *VectorDoc        `yaml:"vector,omitempty" json:"vector,omitempty"`
}

// UnitDoc defines a scalar unit. Exactly one of From, FromComposition or
// Composition must be set. Multiplier and Offset apply to the first two:
// from_value = multiplier * (value + offset).
type UnitDoc struct {
	Name            string            `yaml:"name" json:"name"`
	Symbol          string            `yaml:"symbol,omitempty" json:"symbol,omitempty"`
	Quantity        string            `yaml:"quantity,omitempty" json:"quantity,omitempty"`
	From            string            `yaml:"from,omitempty" json:"from,omitempty"`
	FromComposition map[string]Number `yaml:"from_composition,omitempty" json:"from_composition,omitempty"`
	Multiplier      *Number           `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
	Offset          *Number           `yaml:"offset,omitempty" json:"offset,omitempty"`
	Composition     map[string]Number `yaml:"composition,omitempty" json:"composition,omitempty"`
	Vector          *VectorDoc        `yaml:"vector,omitempty" json:"vector,omitempty"`
}

// SystemDoc maps quantity names to preferred unit names.
type SystemDoc struct {
	Name  string            `yaml:"name" json:"name"`
	Units map[string]string `yaml:"units,omitempty" json:"units,omitempty"`
}

// Number is an exact decimal. It reads decimal literals and "a/b" rationals,
// and writes plain decimal literals.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d.
func NewNumber(d decimal.Decimal) Number { return Number{Decimal: d} }

// ParseNumber reads "2.54", "-3", "1e-3" or "1/3".
func ParseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := decimal.NewFromString(strings.TrimSpace(num))
		if err != nil {
			return Number{}, errors.Wrapf(err, "parsing numerator of %q", s)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(den))
		if err != nil {
			return Number{}, errors.Wrapf(err, "parsing denominator of %q", s)
		}
		if d.IsZero() {
			return Number{}, errors.Invalidf(errors.ErrInvalidDefinition, "rational %q has a zero denominator", s)
		}
		return Number{Decimal: registry.Divide(n, d)}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, errors.Wrapf(err, "parsing number %q", s)
	}
	return Number{Decimal: d}, nil
}

// Or returns the number, or def when n is nil.
func (n *Number) Or(def decimal.Decimal) decimal.Decimal {
	if n == nil {
		return def
	}
	return n.Decimal
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: expected a number", node.Line)
	}
	parsed, err := ParseNumber(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	*n = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (n Number) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: n.String()}, nil
}

// MarshalJSON writes the number as a JSON number literal.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalJSON accepts a JSON number or a string holding a number or rational.
func (n *Number) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	parsed, err := ParseNumber(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func numbers(m map[string]decimal.Decimal) map[string]Number {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]Number, len(m))
	for k, v := range m {
		out[k] = NewNumber(v)
	}
	return out
}
