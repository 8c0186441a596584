package testutil

import "github.com/roach88/kain/internal/shop"

// RedSilk is a product with an English name only.
func RedSilk() shop.Product {
	return shop.Product{
		ID:       "silk-red",
		Name:     shop.LocalizedText{"en": "Red Silk"},
		Price:    120000,
		Category: "silk",
		Stock:    25,
	}
}

// BatikCotton is a product with both names and two colour variants.
func BatikCotton() shop.Product {
	return shop.Product{
		ID:       "batik-cotton",
		Name:     shop.LocalizedText{"en": "Batik Cotton", "id": "Katun Batik"},
		Price:    85000,
		Category: "cotton",
		Stock:    40,
		Images:   []string{"products/batik-cotton/main.jpg"},
		Variants: []shop.VariantRef{
			{ID: "indigo", Value: shop.LocalizedText{"en": "Indigo", "id": "Nila"}, Image: "variants/indigo.jpg", Stock: 12},
			{ID: "sogan", Value: shop.LocalizedText{"en": "Sogan Brown", "id": "Coklat Sogan"}, Stock: 4},
		},
	}
}

// Linen is a plain product with both names.
func Linen() shop.Product {
	return shop.Product{
		ID:    "linen-natural",
		Name:  shop.LocalizedText{"en": "Natural Linen", "id": "Linen Alami"},
		Price: 95000,
		Stock: 8,
	}
}

// VariantOf returns a pointer to the named variant of p, or nil.
func VariantOf(p shop.Product, id string) *shop.VariantRef {
	v, ok := p.Variant(id)
	if !ok {
		return nil
	}
	return &v
}

// SampleCustomer returns a complete checkout contact.
func SampleCustomer() shop.Customer {
	return shop.Customer{
		Name:     "Siti Rahma",
		WhatsApp: "081234567890",
		Address:  "Jl. Malioboro 12, Yogyakarta",
		Payment:  shop.PaymentBankTransfer,
		Delivery: shop.DeliveryCourier,
	}
}
