package document

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"

	"github.com/RichardMelito/Convertal-sub000/internal/errors"
)

// SupportedVersions is the constraint a document's version must satisfy.
const SupportedVersions = "^1.0.0"

// Format selects the encoding used by Marshal.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat maps "yaml", "yml" or "json" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", errors.WithHint(errors.Newf("unknown document format %q", s), "use yaml or json")
	}
}

// FormatFromPath picks the format from a file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return FormatYAML
}

// Parse decodes a YAML or JSON document. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.Invalidf(errors.ErrInvalidDefinition, "document is empty")
		}
		return nil, errors.Wrap(err, "parsing document")
	}
	return &doc, nil
}

// ParseFile reads and decodes the document at path.
func ParseFile(path string) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "document %s", path)
	}
	return doc, nil
}

// CheckVersion fails with ErrUnsupportedVersion unless v satisfies
// SupportedVersions.
func CheckVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return errors.Invalidf(errors.ErrUnsupportedVersion, "version %q is not a semantic version", v)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.WithAssertionFailure(err)
	}
	if !constraint.Check(version) {
		return errors.WithHintf(
			errors.Invalidf(errors.ErrUnsupportedVersion, "version %s", version),
			"this build reads documents matching %s", SupportedVersions)
	}
	return nil
}

// Marshal encodes doc in the requested format.
func Marshal(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encoding JSON")
		}
		return append(data, '\n'), nil
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, errors.Wrap(err, "encoding YAML")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encoding YAML")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Newf("unknown document format %q", format)
	}
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading file %s", path)
	}
	return data, nil
}
