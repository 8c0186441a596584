package checkout

import (
	"strings"
	"unicode"

	"github.com/roach88/kain/internal/shop"
)

// Validate checks the checkout form.
//
// Name and WhatsApp are always required. Address is required unless the
// customer picks the order up. Payment and delivery must be known methods.
func Validate(c shop.Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Code: ErrCodeRequired, Message: "name is required"}
	}
	if strings.TrimSpace(c.WhatsApp) == "" {
		return &ValidationError{Field: "whatsapp", Code: ErrCodeRequired, Message: "WhatsApp number is required"}
	}
	if digits := PhoneDigits(c.WhatsApp); len(digits) < 8 || len(digits) > 15 {
		return &ValidationError{Field: "whatsapp", Code: ErrCodeInvalid, Message: "WhatsApp number must have 8 to 15 digits"}
	}
	if !knownPayment(c.Payment) {
		return &ValidationError{Field: "payment", Code: ErrCodeUnknownOption, Message: "unknown payment method " + string(c.Payment)}
	}
	if !knownDelivery(c.Delivery) {
		return &ValidationError{Field: "delivery", Code: ErrCodeUnknownOption, Message: "unknown delivery method " + string(c.Delivery)}
	}
	if c.Delivery != shop.DeliveryPickup && strings.TrimSpace(c.Address) == "" {
		return &ValidationError{Field: "address", Code: ErrCodeRequired, Message: "address is required for delivery"}
	}
	return nil
}

// Normalize trims every free-text field.
func Normalize(c shop.Customer) shop.Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.WhatsApp = strings.TrimSpace(c.WhatsApp)
	c.Address = strings.TrimSpace(c.Address)
	c.Notes = strings.TrimSpace(c.Notes)
	return c
}

// PhoneDigits strips everything but digits from a phone number.
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// InternationalNumber converts a local Indonesian number ("0812...") to
// the international digits wa.me expects ("62812..."). Numbers already
// carrying a country code are returned as digits only.
func InternationalNumber(s string) string {
	d := PhoneDigits(s)
	if strings.HasPrefix(d, "0") {
		return "62" + d[1:]
	}
	return d
}

func knownPayment(p shop.PaymentMethod) bool {
	for _, m := range shop.PaymentMethods {
		if m == p {
			return true
		}
	}
	return false
}

func knownDelivery(d shop.DeliveryMethod) bool {
	for _, m := range shop.DeliveryMethods {
		if m == d {
			return true
		}
	}
	return false
}
