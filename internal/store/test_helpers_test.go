package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/kain/internal/cart"
	"github.com/roach88/kain/internal/checkout"
	"github.com/roach88/kain/internal/shop"
	"github.com/roach88/kain/internal/testutil"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestOrder creates an order with two line items.
func createTestOrder(id string) checkout.Order {
	batik := testutil.BatikCotton()
	items := []cart.LineItem{
		{
			ProductID:  batik.ID,
			Name:       batik.Name,
			Price:      batik.Price,
			Quantity:   2.25,
			Variant:    testutil.VariantOf(batik, "indigo"),
			CartItemID: "batik-cotton-indigo",
		},
		{
			ProductID:  "silk-red",
			Name:       shop.LocalizedText{"en": "Red Silk"},
			Price:      120000,
			Quantity:   1,
			CartItemID: "silk-red",
		},
	}
	return checkout.Order{
		ID:        id,
		Customer:  testutil.SampleCustomer(),
		Locale:    shop.LocaleIndonesian,
		Items:     items,
		Total:     cart.Total(items),
		Message:   "*New Order from Website*",
		Link:      "https://wa.me/6281122334455?text=%2ANew%20Order",
		CreatedAt: time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}
}

// verifyPragma checks that a pragma is set to the expected value.
func verifyPragma(s *Store, name, expected string) error {
	var value string
	if err := s.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
