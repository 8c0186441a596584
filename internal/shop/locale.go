package shop

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Locale is a two-letter language code selecting which localized string
// to display.
type Locale string

const (
	LocaleEnglish    Locale = "en"
	LocaleIndonesian Locale = "id"
)

// DefaultLocale is used whenever a locale is missing or unknown.
const DefaultLocale = LocaleEnglish

// ParseLocale normalizes a user-supplied locale code. Region suffixes are
// dropped ("id-ID" -> "id"); unknown codes map to DefaultLocale.
func ParseLocale(s string) Locale {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i >= 0 {
		s = s[:i]
	}
	switch Locale(s) {
	case LocaleEnglish, LocaleIndonesian:
		return Locale(s)
	default:
		return DefaultLocale
	}
}

// LocalizedText maps a locale code to a display string.
type LocalizedText map[Locale]string

// Get returns the string for locale, falling back to English when the
// requested locale has no (or an empty) entry.
func (t LocalizedText) Get(locale Locale) string {
	if s := t[locale]; s != "" {
		return s
	}
	return t[LocaleEnglish]
}

// Normalize returns a copy with every value trimmed and NFC normalized.
// Empty values are dropped.
func (t LocalizedText) Normalize() LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		v = norm.NFC.String(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// Clone returns an independent copy.
func (t LocalizedText) Clone() LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
