//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/RichardMelito/Convertal-sub000/internal/cli"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // HOME, holds .convertal/config.yaml
	DefsDir string // user definition documents
}

// setupTestEnv points HOME at a temp directory and clears viper state so
// every Convertal run in the test is sandboxed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir: t.TempDir(),
		DefsDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return env
}

// result is the captured outcome of one CLI run.
type result struct {
	Stdout string
	Stderr string
	Err    error
}

// run executes the root command with args, as a fresh process would.
func run(t *testing.T, args ...string) result {
	t.Helper()
	viper.Reset()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd(cli.BuildInfo{Version: "test", Commit: "none", Date: "today"})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// mustRun fails the test if the command returns an error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	r := run(t, args...)
	if r.Err != nil {
		t.Fatalf("convertal %v: %v\nstdout:\n%s\nstderr:\n%s", args, r.Err, r.Stdout, r.Stderr)
	}
	return r.Stdout
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeShippingDefs writes a pair of documents in which each references
// definitions from the other and from the built-in catalog.
func writeShippingDefs(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, "a-units.yaml"), `version: 1.0.0
name: shipping-units
units:
  - name: nauticalmile
    symbol: nmi
    from: metre
    multiplier: 1852
  - name: knot
    symbol: kn
    from_composition: {nauticalmile: 1, hour: -1}
  - name: shortton
    symbol: tn
    from: pound
    multiplier: 2000
`)

	writeFile(t, filepath.Join(dir, "b-systems.json"), `{
  "version": "1.0.0",
  "name": "shipping-systems",
  "systems": [
    {"name": "Nautical", "units": {"Length": "nmi", "Speed": "kn", "Mass": "tn"}}
  ]
}
`)
}
