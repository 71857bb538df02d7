package generation_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/generation"
	"github.com/phrazzld/glossa-api/internal/mocks"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type providers struct {
	text      *mocks.MockTextCompleter
	speech    *mocks.MockSpeechSynthesizer
	annotator *mocks.MockPhoneticAnnotator
}

func newGenerator(t *testing.T) (*generation.Generator, providers) {
	t.Helper()
	p := providers{
		text:      &mocks.MockTextCompleter{},
		speech:    &mocks.MockSpeechSynthesizer{},
		annotator: &mocks.MockPhoneticAnnotator{},
	}
	log, _ := logger.GetTestLogger(t)
	g, err := generation.NewGenerator(p.text, p.speech, p.annotator, "Kore", log)
	require.NoError(t, err)
	t.Cleanup(func() {
		p.text.AssertExpectations(t)
		p.speech.AssertExpectations(t)
		p.annotator.AssertExpectations(t)
	})
	return g, p
}

func TestNewGenerator_RequiresProviders(t *testing.T) {
	t.Parallel()

	_, err := generation.NewGenerator(nil, &mocks.MockSpeechSynthesizer{}, nil, "", nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = generation.NewGenerator(&mocks.MockTextCompleter{}, nil, nil, "", nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerate_BreakdownUsesLayoutPrompt(t *testing.T) {
	t.Parallel()

	g, p := newGenerator(t)
	ctx := context.Background()

	p.text.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Part of speech") && strings.Contains(prompt, "Spanish")
	})).Return("  | hola | hello |  ", nil).Once()
	p.text.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "phone") && !strings.Contains(prompt, "Part of speech")
	})).Return("| hola | hi |", nil).Once()

	desktop, err := g.Generate(ctx, generation.Request{
		Variant: domain.VariantBreakdownDesktop, Text: "hola", Language: "es-MX",
	})
	require.NoError(t, err)
	assert.Equal(t, "| hola | hello |", desktop.Text)

	mobile, err := g.Generate(ctx, generation.Request{
		Variant: domain.VariantBreakdownMobile, Text: "hola", Language: "es",
	})
	require.NoError(t, err)
	assert.Equal(t, "| hola | hi |", mobile.Text)
}

func TestGenerate_PhoneticRoutesJapaneseToAnnotator(t *testing.T) {
	t.Parallel()

	g, p := newGenerator(t)
	ctx := context.Background()

	p.annotator.On("Annotate", ctx, "日本語").Return("日本語[にほんご]", nil).Once()

	art, err := g.Generate(ctx, generation.Request{
		Variant: domain.VariantPhonetic, Text: "日本語", Language: "ja-JP",
	})
	require.NoError(t, err)
	assert.Equal(t, "日本語[にほんご]", art.Text)
	p.text.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerate_PhoneticOtherLanguagesUseCompletion(t *testing.T) {
	t.Parallel()

	g, p := newGenerator(t)
	ctx := context.Background()

	p.text.On("Complete", ctx, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "IPA") && strings.Contains(prompt, "French")
	})).Return("/bɔ̃ʒuʁ/", nil).Once()

	art, err := g.Generate(ctx, generation.Request{
		Variant: domain.VariantPhonetic, Text: "bonjour", Language: "fr",
	})
	require.NoError(t, err)
	assert.Equal(t, "/bɔ̃ʒuʁ/", art.Text)
}

func TestGenerate_AudioPassesVoice(t *testing.T) {
	t.Parallel()

	g, p := newGenerator(t)
	ctx := context.Background()

	p.speech.On("SynthesizeSpeech", ctx, "hola", generation.VoiceParams{VoiceName: "Kore", LanguageCode: "es"}).
		Return([]byte{1, 2, 3}, "audio/L16;rate=24000", nil).Once()

	art, err := g.Generate(ctx, generation.Request{
		Variant: domain.VariantAudio, Text: "hola", Language: "es",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, art.Data)
	assert.Equal(t, "audio/L16;rate=24000", art.MIMEType)
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty text", func(t *testing.T) {
		g, _ := newGenerator(t)
		_, err := g.Generate(ctx, generation.Request{Variant: domain.VariantPhonetic, Text: "   "})
		assert.ErrorIs(t, err, generation.ErrEmptyInput)
	})

	t.Run("unknown variant", func(t *testing.T) {
		g, _ := newGenerator(t)
		_, err := g.Generate(ctx, generation.Request{Variant: "poster", Text: "x"})
		assert.ErrorIs(t, err, generation.ErrUnsupportedVariant)
	})

	t.Run("bad language tag", func(t *testing.T) {
		g, _ := newGenerator(t)
		_, err := g.Generate(ctx, generation.Request{Variant: domain.VariantAudio, Text: "x", Language: "not a tag!"})
		assert.ErrorIs(t, err, domain.ErrInvalidLanguage)
	})

	t.Run("provider failure is wrapped", func(t *testing.T) {
		g, p := newGenerator(t)
		p.text.On("Complete", ctx, mock.Anything).Return("", errors.New("quota exceeded")).Once()

		_, err := g.Generate(ctx, generation.Request{Variant: domain.VariantBreakdownMobile, Text: "x", Language: "en"})
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("blocked content keeps its sentinel", func(t *testing.T) {
		g, p := newGenerator(t)
		p.text.On("Complete", ctx, mock.Anything).Return("", generation.ErrContentBlocked).Once()

		_, err := g.Generate(ctx, generation.Request{Variant: domain.VariantBreakdownDesktop, Text: "x", Language: "en"})
		assert.ErrorIs(t, err, generation.ErrContentBlocked)
		assert.NotErrorIs(t, err, generation.ErrGenerationFailed)
	})

	t.Run("empty audio", func(t *testing.T) {
		g, p := newGenerator(t)
		p.speech.On("SynthesizeSpeech", ctx, "x", mock.Anything).Return(nil, "", nil).Once()

		_, err := g.Generate(ctx, generation.Request{Variant: domain.VariantAudio, Text: "x"})
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})
}

func TestCanonicalLanguage(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"ja":    "ja",
		"ja-JP": "ja",
		"JA":    "ja",
		"pt-BR": "pt",
		"":      "",
	}
	for in, want := range tests {
		got, err := generation.CanonicalLanguage(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
