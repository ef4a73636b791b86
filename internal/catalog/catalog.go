// Package catalog provides Convertal's built-in SI definitions and finds
// user definition documents on disk.
package catalog

import (
	_ "embed"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/RichardMelito/Convertal-sub000/internal/document"
	"github.com/RichardMelito/Convertal-sub000/internal/errors"
	"github.com/RichardMelito/Convertal-sub000/internal/registry"
)

//go:embed si.yaml
var builtinDocument []byte

// BuiltinSource is the document data behind Builtin.
func BuiltinSource() []byte { return slices.Clone(builtinDocument) }

// Builtin parses the embedded SI document.
func Builtin() (*document.Document, error) {
	doc, err := document.Parse(builtinDocument)
	if err != nil {
		return nil, errors.WithAssertionFailure(errors.Wrap(err, "built-in catalog"))
	}
	return doc, nil
}

// Load defines the built-in SI catalog in reg.
func Load(reg *registry.Registry) error {
	doc, err := Builtin()
	if err != nil {
		return err
	}
	return errors.Wrap(document.Load(reg, doc), "loading built-in catalog")
}

type options struct {
	logger  *zap.Logger
	builtin bool
	files   []string
}

// Option configures NewRegistry.
type Option func(*options)

// WithLogger sets the logger handed to the registry.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithBuiltin controls whether the SI catalog is loaded. Defaults to true.
func WithBuiltin(enabled bool) Option {
	return func(o *options) { o.builtin = enabled }
}

// WithFiles adds documents, or directories of documents, loaded after the
// built-in catalog.
func WithFiles(paths ...string) Option {
	return func(o *options) { o.files = append(o.files, paths...) }
}

// NewRegistry returns a registry holding the built-in catalog and any extra
// documents.
func NewRegistry(opts ...Option) (*registry.Registry, error) {
	o := options{logger: zap.NewNop(), builtin: true}
	for _, opt := range opts {
		opt(&o)
	}

	reg := registry.New(registry.WithLogger(o.logger))
	if o.builtin {
		if err := Load(reg); err != nil {
			return nil, err
		}
	}

	files, err := Discover(o.files)
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		if err := document.LoadFile(reg, path); err != nil {
			return nil, err
		}
		o.logger.Debug("catalog document loaded", zap.String("path", path))
	}
	return reg, nil
}

// Discover expands paths into document files. Directories are walked
// recursively in lexical order, skipping hidden entries; files listed
// explicitly are kept whatever their extension. Each file appears once, at
// its first position.
func Discover(paths []string) ([]string, error) {
	var result []string
	seen := make(map[string]bool)
	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if !seen[key] {
			seen[key] = true
			result = append(result, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog path %s", root)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // skip inaccessible entries
			}
			if path != root && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && isDocumentFile(d.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walking %s", root)
		}
	}
	return result, nil
}

// isDocumentFile returns true if the filename has a document extension.
func isDocumentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
