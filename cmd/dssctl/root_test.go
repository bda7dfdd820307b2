package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
models:
  - id: 1
    brand: Apple
    name: iPhone 15
    release_year: 2023
conditions:
  - id: 10
    category: physical
    name: Screen scratches
    impact_weight: 5
    answer_group_id: 100
  - id: 20
    category: functional
    name: Battery health
    impact_weight: 10
    answer_group_id: 200
answer_options:
  - id: 1000
    group_id: 100
    label: Flawless
    default_ratio: 0
  - id: 1001
    group_id: 100
    label: Cracked
    default_ratio: 1
decision_paths:
  - id: 1
    name: Trade-in
    weight_physical: 0.3
    weight_functional: 0.3
    weight_age: 0.4
  - id: 2
    name: Resale
    weight_physical: 0.5
    weight_functional: 0.3
    weight_age: 0.2
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
