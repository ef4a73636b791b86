// Package cli defines the Cobra command tree for the convertal CLI. Each file
// in this package builds one top-level command (convert, list, describe, etc.)
// for the root command. Command implementations delegate to internal packages
// for conversion and definition handling and only deal with flag parsing and
// output formatting.
package cli
