// Package translate provides the translation contract the workflow engine
// depends on, together with a lingua-based language detector and a static
// translator suitable for development and tests. English is always a
// passthrough: text already in English is returned unchanged.
package translate

import "context"

// LanguageEnglish is the ISO 639-1 code that short-circuits translation.
const LanguageEnglish = "en"

// Translator converts case text between the requester's language and English.
// Implementations must treat LanguageEnglish as a no-op in both directions.
type Translator interface {
	// Detect returns the ISO 639-1 code and human-readable name of the
	// text's language.
	Detect(ctx context.Context, text string) (code, name string, err error)

	// ToEnglish translates text to English. When sourceCode is empty the
	// language is auto-detected. Returns the English text along with the
	// (detected or given) source language code and name.
	ToEnglish(ctx context.Context, text, sourceCode string) (english, code, name string, err error)

	// FromEnglish translates English text into the target language.
	FromEnglish(ctx context.Context, text, targetCode string) (string, error)
}

// languageNames maps the supported ISO 639-1 codes to display names.
var languageNames = map[string]string{
	"en": "English",
	"da": "Danish",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
	"sv": "Swedish",
	"no": "Norwegian",
	"nl": "Dutch",
	"it": "Italian",
	"pt": "Portuguese",
}

// LanguageName returns the display name for a supported code, or "Unknown".
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "Unknown"
}
