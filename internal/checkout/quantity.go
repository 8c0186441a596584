package checkout

import (
	"math"

	"github.com/roach88/kain/internal/shop"
)

// QuantityStep is the smallest quantity increment offered to customers.
const QuantityStep = 0.25

// StepQuantity rounds q to the nearest QuantityStep and clamps it to at
// least one step. NaN and infinities become one step. Callers run
// quantities through it before AddItem.
func StepQuantity(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < QuantityStep {
		return QuantityStep
	}
	return math.Round(q/QuantityStep) * QuantityStep
}

// Remaining returns how many more meters of a selection can be added given
// what is already in the cart. It never goes below zero.
func Remaining(p shop.Product, variant *shop.VariantRef, inCart float64) float64 {
	left := p.AvailableStock(variant) - inCart
	if left < 0 {
		return 0
	}
	return left
}

// CanAdd reports whether adding q meters stays within the selection's stock.
func CanAdd(p shop.Product, variant *shop.VariantRef, inCart, q float64) bool {
	return q > 0 && q <= Remaining(p, variant, inCart)
}
