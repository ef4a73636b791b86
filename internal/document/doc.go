// Package document reads and writes Convertal definition documents: YAML or
// JSON files listing prefixes, base and derived quantities, units and
// measurement systems. It validates raw documents against an embedded JSON
// schema, checks the format version, loads documents into a registry and
// exports a registry back to a document.
package document
