package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ResolvesCatalog(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/merge_variants.yaml")
	require.NoError(t, err)

	assert.Equal(t, "merge_variants", s.Name)
	assert.Equal(t, filepath.Join("testdata", "catalog"), s.Catalog)
	assert.Len(t, s.Steps, 4)
	assert.Equal(t, "indigo", s.Steps[0].Variant)
	assert.Equal(t, 1.5, s.Steps[1].Quantity)
}

func TestLoadScenario_InlineProducts(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/legacy_snapshot.yaml")
	require.NoError(t, err)

	require.Len(t, s.Products, 1)
	assert.Equal(t, "silk-red", s.Products[0].ID)
	assert.Equal(t, "Red Silk", s.Products[0].Name["en"])
	assert.Equal(t, 120000.0, s.Products[0].Price)
	assert.NotEmpty(t, s.Seed)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"testdata/bad/unknown_field.yaml", "field assertion not found"},
		{"testdata/bad/missing_catalog.yaml", "catalog"},
		{"testdata/bad/does_not_exist.yaml", "failed to read scenario file"},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			_, err := LoadScenario(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "description: d\nsteps: [{op: clear}]\nassertions: [{type: total, value: 0}]\n",
			want: "name is required",
		},
		{
			name: "missing steps",
			yaml: "name: n\ndescription: d\nassertions: [{type: total, value: 0}]\n",
			want: "steps list is required",
		},
		{
			name: "unknown op",
			yaml: "name: n\ndescription: d\nsteps: [{op: juggle}]\nassertions: [{type: total, value: 0}]\n",
			want: `unknown op "juggle"`,
		},
		{
			name: "add without product",
			yaml: "name: n\ndescription: d\nsteps: [{op: add}]\nassertions: [{type: total, value: 0}]\n",
			want: "product is required for add",
		},
		{
			name: "update without item",
			yaml: "name: n\ndescription: d\nsteps: [{op: update, quantity: 2}]\nassertions: [{type: total, value: 0}]\n",
			want: "item is required for update",
		},
		{
			name: "total without value",
			yaml: "name: n\ndescription: d\nsteps: [{op: clear}]\nassertions: [{type: total}]\n",
			want: "value is required for total",
		},
		{
			name: "negative trace count",
			yaml: "name: n\ndescription: d\nsteps: [{op: clear}]\nassertions: [{type: trace_count, kind: cleared, count: -1}]\n",
			want: "count must be non-negative",
		},
		{
			name: "unknown assertion",
			yaml: "name: n\ndescription: d\nsteps: [{op: clear}]\nassertions: [{type: vibes}]\n",
			want: `unknown assertion type "vibes"`,
		},
		{
			name: "product without id",
			yaml: "name: n\ndescription: d\nproducts: [{price: 1}]\nsteps: [{op: clear}]\nassertions: [{type: total, value: 0}]\n",
			want: "products[0]: id is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
