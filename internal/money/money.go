// Package money formats IDR amounts the way the storefront displays them.
//
// Amounts are rendered as "{symbol} {number}" with the ISO 4217 minor
// unit (two fraction digits for IDR) and the locale's digit grouping: id-ID for the
// Indonesian locale, en-US for everything else. The separator is a
// no-break space, matching browser Intl currency output.
package money

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/roach88/kain/internal/shop"
)

// Currency is the store's fixed base currency.
var Currency = currency.IDR

const separator = "\u00a0"

// FractionDigits is the ISO 4217 minor unit of IDR. x/text's
// currency.Standard rounds IDR to whole rupiah, which drops the ".00"
// that Intl prints.
const FractionDigits = 2

var (
	tagID = language.MustParse("id-ID")
	tagEN = language.MustParse("en-US")
)

// Tag maps a storefront locale to the language tag used for formatting.
func Tag(locale shop.Locale) language.Tag {
	if locale == shop.LocaleIndonesian {
		return tagID
	}
	return tagEN
}

// Format renders amount in IDR for locale.
func Format(amount float64, locale shop.Locale) string {
	p := message.NewPrinter(Tag(locale))

	var b strings.Builder
	if amount < 0 {
		b.WriteString("-")
		amount = math.Abs(amount)
	}
	b.WriteString(p.Sprint(currency.Symbol(Currency)))
	b.WriteString(separator)
	b.WriteString(p.Sprint(number.Decimal(amount, number.Scale(FractionDigits))))
	return b.String()
}
