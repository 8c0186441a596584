package shop

// Product is a catalog entry as the storefront sees it.
//
// Required: ID, Name (with an "en" entry), Price.
// Optional: Description, Category, Stock, Images, Variants.
type Product struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description,omitempty"`
	Price       float64       `json:"price"`
	Category    string        `json:"category,omitempty"`
	Stock       float64       `json:"stock,omitempty"`
	Images      []string      `json:"images,omitempty"`
	Variants    []VariantRef  `json:"variants,omitempty"`
}

// VariantRef is a snapshot of a product variant (e.g. a colour option)
// taken when the variant is selected.
type VariantRef struct {
	ID    string        `json:"id"`
	Value LocalizedText `json:"value"`
	Image string        `json:"image,omitempty"`
	Stock float64       `json:"stock"`
}

// Variant returns the variant with the given id.
func (p Product) Variant(id string) (VariantRef, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return VariantRef{}, false
}

// AvailableStock reports the stock limit that applies to a selection:
// the variant's stock if a variant is chosen, else the product's.
func (p Product) AvailableStock(variant *VariantRef) float64 {
	if variant != nil {
		return variant.Stock
	}
	return p.Stock
}

// ItemID computes the cart identity key for a product and optional variant.
// It is productID alone when variantID is empty, else "productID-variantID".
func ItemID(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + "-" + variantID
}
