package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedDetector always answers with a fixed language.
type fixedDetector struct {
	code string
	ok   bool
}

func (d fixedDetector) DetectLanguage(string) (string, string, bool) {
	if !d.ok {
		return "", "", false
	}
	return d.code, LanguageName(d.code), true
}

func TestStaticTranslator_ToEnglish(t *testing.T) {
	ctx := context.Background()

	t.Run("translates detected non-english text", func(t *testing.T) {
		tr := NewStaticTranslator(fixedDetector{code: "da", ok: true})

		english, code, name, err := tr.ToEnglish(ctx, "Hej, jeg har et problem", "")
		require.NoError(t, err)
		assert.Equal(t, "da", code)
		assert.Equal(t, "Danish", name)
		assert.NotEqual(t, "Hej, jeg har et problem", english)
		assert.Contains(t, english, "Hej, jeg har et problem")
	})

	t.Run("english is a passthrough", func(t *testing.T) {
		tr := NewStaticTranslator(fixedDetector{code: "en", ok: true})

		english, code, name, err := tr.ToEnglish(ctx, "I have a problem", "")
		require.NoError(t, err)
		assert.Equal(t, "en", code)
		assert.Equal(t, "English", name)
		assert.Equal(t, "I have a problem", english)
	})

	t.Run("explicit source skips detection", func(t *testing.T) {
		tr := NewStaticTranslator(fixedDetector{ok: false})

		english, code, name, err := tr.ToEnglish(ctx, "Ich habe ein Problem", "de")
		require.NoError(t, err)
		assert.Equal(t, "de", code)
		assert.Equal(t, "German", name)
		assert.Contains(t, english, "Translated from German")
	})

	t.Run("failed detection falls back to english", func(t *testing.T) {
		tr := NewStaticTranslator(fixedDetector{ok: false})

		english, code, _, err := tr.ToEnglish(ctx, "???", "")
		require.NoError(t, err)
		assert.Equal(t, "en", code)
		assert.Equal(t, "???", english)
	})
}

func TestStaticTranslator_FromEnglish(t *testing.T) {
	ctx := context.Background()
	tr := NewStaticTranslator(fixedDetector{ok: false})

	t.Run("translates to target language", func(t *testing.T) {
		out, err := tr.FromEnglish(ctx, "We fixed it", "da")
		require.NoError(t, err)
		assert.Contains(t, out, "Translated to Danish")
		assert.Contains(t, out, "We fixed it")
	})

	t.Run("english target is a passthrough", func(t *testing.T) {
		out, err := tr.FromEnglish(ctx, "We fixed it", "en")
		require.NoError(t, err)
		assert.Equal(t, "We fixed it", out)
	})
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Danish", LanguageName("da"))
	assert.Equal(t, "Norwegian", LanguageName("no"))
	assert.Equal(t, "Unknown", LanguageName("xx"))
}

func TestLinguaDetector(t *testing.T) {
	detector := NewLinguaDetector()

	tests := []struct {
		name string
		text string
		code string
	}{
		{
			name: "danish",
			text: "Jeg har et problem med mit produkt og har brug for hjælp",
			code: "da",
		},
		{
			name: "german",
			text: "Ich habe ein Problem mit meinem Gerät und brauche dringend Hilfe",
			code: "de",
		},
		{
			name: "english",
			text: "My device stopped working and I would like some assistance please",
			code: "en",
		},
		{
			name: "spanish",
			text: "Tengo un problema con mi producto y necesito ayuda urgente",
			code: "es",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, name, ok := detector.DetectLanguage(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, LanguageName(tt.code), name)
		})
	}
}
