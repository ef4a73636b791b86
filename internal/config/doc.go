// Package config manages user-level settings stored at ~/.convertal/config.yaml.
// It provides functions to load, read, and write the keys that choose which
// definition documents are loaded, how results are printed and how the CLI
// logs.
package config
