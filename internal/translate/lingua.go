package translate

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector identifies the language of a piece of text.
type Detector interface {
	DetectLanguage(text string) (code, name string, ok bool)
}

// LinguaDetector detects languages statistically with lingua, restricted to
// the supported language set so short texts are not misattributed to exotic
// languages. Safe for concurrent use.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

var _ Detector = (*LinguaDetector)(nil)

// NewLinguaDetector builds a detector over the supported languages.
func NewLinguaDetector() *LinguaDetector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Danish,
		lingua.German,
		lingua.French,
		lingua.Spanish,
		lingua.Swedish,
		lingua.Bokmal,
		lingua.Dutch,
		lingua.Italian,
		lingua.Portuguese,
	}

	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// DetectLanguage returns the ISO 639-1 code and display name of the text's
// language. ok is false when lingua cannot make a call, in which case callers
// fall back to English.
func (d *LinguaDetector) DetectLanguage(text string) (string, string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", "", false
	}

	code := strings.ToLower(lang.IsoCode639_1().String())
	// Lingua distinguishes Bokmål/Nynorsk; the case pipeline uses plain "no".
	if code == "nb" || code == "nn" {
		code = "no"
	}

	return code, LanguageName(code), true
}
