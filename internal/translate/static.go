package translate

import (
	"context"
	"fmt"

	"github.com/casekit/caseflow/internal/domain"
)

// StaticTranslator is a deterministic translator that tags text with its
// translation direction instead of calling a paid API. Detection is delegated
// to the configured Detector; translation output is a bracketed rendition of
// the input, which keeps the pipeline observable end to end in development
// and tests.
type StaticTranslator struct {
	detector Detector
}

var _ Translator = (*StaticTranslator)(nil)

// NewStaticTranslator creates a static translator around the given detector.
func NewStaticTranslator(detector Detector) *StaticTranslator {
	return &StaticTranslator{detector: detector}
}

// Detect identifies the language of text, defaulting to English when the
// detector cannot make a call.
func (t *StaticTranslator) Detect(ctx context.Context, text string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", fmt.Errorf("%w: %w", domain.ErrTranslation, err)
	}

	code, name, ok := t.detector.DetectLanguage(text)
	if !ok {
		return LanguageEnglish, LanguageName(LanguageEnglish), nil
	}
	return code, name, nil
}

// ToEnglish translates text to English, auto-detecting the source language
// when sourceCode is empty. English input passes through unchanged.
func (t *StaticTranslator) ToEnglish(ctx context.Context, text, sourceCode string) (string, string, string, error) {
	var name string
	if sourceCode == "" {
		var err error
		sourceCode, name, err = t.Detect(ctx, text)
		if err != nil {
			return "", "", "", err
		}
	} else {
		name = LanguageName(sourceCode)
	}

	if sourceCode == LanguageEnglish {
		return text, sourceCode, name, nil
	}

	return fmt.Sprintf("[Translated from %s to English] %s", name, text), sourceCode, name, nil
}

// FromEnglish translates English text into the target language.
// An English target passes through unchanged.
func (t *StaticTranslator) FromEnglish(ctx context.Context, text, targetCode string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTranslation, err)
	}

	if targetCode == LanguageEnglish {
		return text, nil
	}

	return fmt.Sprintf("[Translated to %s] %s", LanguageName(targetCode), text), nil
}
