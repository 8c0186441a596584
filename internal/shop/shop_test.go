package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocale(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
	}{
		{"en", LocaleEnglish},
		{"id", LocaleIndonesian},
		{"id-ID", LocaleIndonesian},
		{" EN_us ", LocaleEnglish},
		{"fr", DefaultLocale},
		{"", DefaultLocale},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLocale(tt.in))
		})
	}
}

func TestLocalizedText_Get(t *testing.T) {
	name := LocalizedText{"en": "Red Silk", "id": "Sutra Merah"}
	assert.Equal(t, "Sutra Merah", name.Get(LocaleIndonesian))
	assert.Equal(t, "Red Silk", name.Get(LocaleEnglish))

	enOnly := LocalizedText{"en": "Red Silk"}
	assert.Equal(t, "Red Silk", enOnly.Get(LocaleIndonesian))

	emptyID := LocalizedText{"en": "Red Silk", "id": ""}
	assert.Equal(t, "Red Silk", emptyID.Get(LocaleIndonesian))

	var none LocalizedText
	assert.Equal(t, "", none.Get(LocaleIndonesian))
}

func TestLocalizedText_Normalize(t *testing.T) {
	// "e" + combining acute accent composes to a single rune under NFC.
	in := LocalizedText{"en": "  Cafe\u0301 Linen ", "id": "   "}
	out := in.Normalize()

	assert.Equal(t, "Caf\u00e9 Linen", out["en"])
	_, ok := out["id"]
	assert.False(t, ok, "blank values are dropped")
	assert.Equal(t, "  Cafe\u0301 Linen ", in["en"], "input is not modified")

	assert.Nil(t, LocalizedText(nil).Normalize())
}

func TestItemID(t *testing.T) {
	assert.Equal(t, "p1", ItemID("p1", ""))
	assert.Equal(t, "p1-v2", ItemID("p1", "v2"))
}

func TestProduct_Variant(t *testing.T) {
	p := Product{
		ID:    "p1",
		Stock: 10,
		Variants: []VariantRef{
			{ID: "red", Value: LocalizedText{"en": "Red"}, Stock: 3},
			{ID: "blue", Value: LocalizedText{"en": "Blue"}, Stock: 0},
		},
	}

	v, ok := p.Variant("red")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v.Stock)

	_, ok = p.Variant("green")
	assert.False(t, ok)

	assert.Equal(t, 10.0, p.AvailableStock(nil))
	assert.Equal(t, 3.0, p.AvailableStock(&v))
}
