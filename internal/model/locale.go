package model

// Locale identifies the language a party wants user-facing text in.
// It is always passed explicitly; nothing reads it from ambient state.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleArabic  Locale = "ar"
)

// LocalizedText is a bilingual text value with a single fallback order:
// the requested language first, English second, whatever is left last.
type LocalizedText struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Resolve returns the text for the given locale.
func (t LocalizedText) Resolve(locale Locale) string {
	if locale == LocaleArabic && t.Ar != "" {
		return t.Ar
	}
	if t.En != "" {
		return t.En
	}
	return t.Ar
}
