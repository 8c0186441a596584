package money

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/roach88/kain/internal/shop"
)

func TestTag(t *testing.T) {
	assert.Equal(t, language.MustParse("id-ID"), Tag(shop.LocaleIndonesian))
	assert.Equal(t, language.MustParse("en-US"), Tag(shop.LocaleEnglish))
	assert.Equal(t, language.MustParse("en-US"), Tag(shop.Locale("fr")))
}

func TestFormat_Grouping(t *testing.T) {
	en := Format(1234567, shop.LocaleEnglish)
	id := Format(1234567, shop.LocaleIndonesian)

	assert.True(t, strings.HasSuffix(en, "1,234,567.00"), en)
	assert.True(t, strings.HasSuffix(id, "1.234.567,00"), id)
}

func TestFormat_Symbol(t *testing.T) {
	en := Format(150000, shop.LocaleEnglish)
	id := Format(150000, shop.LocaleIndonesian)

	assert.Equal(t, "IDR\u00a0150,000.00", en)
	assert.Equal(t, "Rp\u00a0150.000,00", id)
}

func TestFormat_Fractional(t *testing.T) {
	// 2.25m at 85,000/m
	assert.True(t, strings.HasSuffix(Format(191250, shop.LocaleEnglish), "191,250.00"))
	assert.True(t, strings.HasSuffix(Format(0.5, shop.LocaleEnglish), "0.50"))
}

func TestFormat_Zero(t *testing.T) {
	assert.True(t, strings.HasSuffix(Format(0, shop.LocaleEnglish), "\u00a00.00"))
	assert.True(t, strings.HasSuffix(Format(0, shop.LocaleIndonesian), "\u00a00,00"))
}

func TestFormat_Negative(t *testing.T) {
	out := Format(-1000, shop.LocaleEnglish)
	assert.True(t, strings.HasPrefix(out, "-"), out)
	assert.True(t, strings.HasSuffix(out, "1,000.00"), out)
}
