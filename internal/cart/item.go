package cart

import (
	"github.com/roach88/kain/internal/shop"
)

// DefaultQuantity is the quantity used when AddItem is called without one.
const DefaultQuantity = 1

// MinQuantity is the smallest quantity UpdateQuantity accepts.
const MinQuantity = 1

// LineItem is one entry in the cart: a product snapshot, an optional
// variant snapshot, and a quantity in meters.
//
// The JSON layout is the persisted snapshot format: the product fields
// followed by quantity, variant and cartItemId.
type LineItem struct {
	ProductID   string             `json:"id"`
	Name        shop.LocalizedText `json:"name"`
	Description shop.LocalizedText `json:"description,omitempty"`
	Price       float64            `json:"price"`
	Category    string             `json:"category,omitempty"`
	Stock       float64            `json:"stock,omitempty"`
	Images      []string           `json:"images,omitempty"`
	Quantity    float64            `json:"quantity"`
	Variant     *shop.VariantRef   `json:"variant"`
	CartItemID  string             `json:"cartItemId"`
}

// LineTotal returns Price * Quantity.
func (it LineItem) LineTotal() float64 {
	return it.Price * it.Quantity
}

// newLineItem snapshots product and variant at add-time.
func newLineItem(p shop.Product, quantity float64, variant *shop.VariantRef) LineItem {
	it := LineItem{
		ProductID:   p.ID,
		Name:        p.Name.Clone(),
		Description: p.Description.Clone(),
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Quantity:    quantity,
		Variant:     cloneVariant(variant),
		CartItemID:  itemID(p.ID, variant),
	}
	if len(p.Images) > 0 {
		it.Images = append([]string(nil), p.Images...)
	}
	return it
}

// itemID computes the identity key for a product and optional variant.
// A variant with an empty ID yields the bare productID, same as no variant.
func itemID(productID string, variant *shop.VariantRef) string {
	if variant == nil {
		return productID
	}
	return shop.ItemID(productID, variant.ID)
}

func cloneVariant(v *shop.VariantRef) *shop.VariantRef {
	if v == nil {
		return nil
	}
	c := *v
	c.Value = v.Value.Clone()
	return &c
}

// migrate backfills fields missing from snapshots written by older clients.
// A missing cartItemId defaults to the product id; a missing variant is
// already nil after decoding.
func migrate(it LineItem) LineItem {
	if it.CartItemID == "" {
		it.CartItemID = it.ProductID
	}
	return it
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		c := it
		c.Name = it.Name.Clone()
		c.Description = it.Description.Clone()
		c.Variant = cloneVariant(it.Variant)
		if it.Images != nil {
			c.Images = append([]string(nil), it.Images...)
		}
		out[i] = c
	}
	return out
}
