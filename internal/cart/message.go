package cart

import (
	"strconv"
	"strings"

	"github.com/roach88/kain/internal/money"
	"github.com/roach88/kain/internal/shop"
)

// FormatOrderMessage renders the current cart as the plain-text order
// summary sent to the shop's chat.
func (e *Engine) FormatOrderMessage(c shop.Customer, locale shop.Locale) string {
	return FormatOrderMessage(e.Items(), c, locale)
}

// FormatOrderMessage renders items and customer details with the fixed
// order template. Item names use the locale's string, falling back to
// English; amounts are formatted in IDR for the locale.
func FormatOrderMessage(items []LineItem, c shop.Customer, locale shop.Locale) string {
	lines := []string{
		"*New Order from Website*",
		"",
		"*Customer Details:*",
		"Name: " + c.Name,
		"WhatsApp: " + c.WhatsApp,
		"Address: " + c.Address,
	}
	if c.Notes != "" {
		lines = append(lines, "Notes: "+c.Notes)
	}

	lines = append(lines, "", "*Order Details:*")
	for _, it := range items {
		lines = append(lines, "- "+it.Name.Get(locale)+
			" ("+FormatQuantity(it.Quantity)+"m) - "+
			money.Format(it.LineTotal(), locale))
	}

	lines = append(lines,
		"",
		"*Total: "+money.Format(Total(items), locale)+"*",
		"",
		"Payment: "+FormatPayment(c.Payment),
		"Delivery: "+FormatDelivery(c.Delivery),
	)
	return strings.Join(lines, "\n")
}

// FormatQuantity prints a quantity in its shortest decimal form ("2.25", "1").
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// FormatPayment upper-cases a payment method and turns underscores into spaces.
func FormatPayment(p shop.PaymentMethod) string {
	return strings.ToUpper(strings.ReplaceAll(string(p), "_", " "))
}

// FormatDelivery upper-cases a delivery method.
func FormatDelivery(d shop.DeliveryMethod) string {
	return strings.ToUpper(string(d))
}
