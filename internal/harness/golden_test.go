package harness

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/kain/internal/shop"
	"github.com/roach88/kain/internal/testutil"
)

func TestRunWithGolden_SingleAdd(t *testing.T) {
	one := 1
	scenario := &Scenario{
		Name:        "golden_single_add",
		Description: "One product added twice over",
		Products: []shop.Product{
			{ID: "silk-red", Name: shop.LocalizedText{"en": "Red Silk"}, Price: 120000},
		},
		Customer: testutil.SampleCustomer(),
		Steps: []Step{
			{Op: OpAdd, Product: "silk-red", Quantity: 2},
		},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Kind: "item_added", Count: &one},
			{Type: AssertSnapshotItems, Count: &one},
			{Type: AssertItemCount, Count: &one},
		},
	}

	// Regenerate with:
	//   go test ./internal/harness -run TestRunWithGolden_SingleAdd -update
	require.NoError(t, RunWithGolden(t, scenario))
}
