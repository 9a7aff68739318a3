package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Stdin(t *testing.T) {
	in := strings.NewReader(`[{"id": 1, "name": "Pull from Stock", "action": "pull", "procure_method": "make_to_stock", "delay": "3"}, null]`)
	var out bytes.Buffer

	require.NoError(t, run([]string{"-entity", "rules"}, in, &out))

	var res struct {
		Items  []map[string]any `json:"items"`
		Errors []map[string]any `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Pull From", res.Items[0]["action"])
	assert.EqualValues(t, 3, res.Items[0]["leadTime"])
	require.Len(t, res.Errors, 1)
	assert.EqualValues(t, 1, res.Errors[0]["index"])
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "valuation.json")
	outPath := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(inPath, []byte(`{
		"quants": [{"product_id": [5, "Cabinet"], "quantity": 4}],
		"products": [{"id": 5, "name": "Cabinet", "standard_price": 12.5}]
	}`), 0o600))

	require.NoError(t, run([]string{"-entity", "valuation", "-in", inPath, "-out", outPath, "-pretty"}, nil, nil))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"items\"")
	assert.Contains(t, string(data), `"totalValue": "50"`)
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name string
		args []string
		in   string
	}{
		{"missing entity", nil, `[]`},
		{"unknown entity", []string{"-entity", "invoices"}, `[]`},
		{"not an array", []string{"-entity", "scraps"}, `{"id": 1}`},
		{"broken json", []string{"-entity", "scraps"}, `[{`},
		{"missing file", []string{"-entity", "scraps", "-in", "/nonexistent/file.json"}, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, strings.NewReader(tt.in), &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}
