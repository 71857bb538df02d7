package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/glossa-api/internal/domain"
)

// Request describes one artifact to derive.
type Request struct {
	Variant  domain.ArtifactVariant
	Text     string
	Language string
}

// ArtifactGenerator defines the interface for deriving one artifact variant from text.
// This interface serves as the boundary between the derivation cache and the
// external providers. Implementations never cache or persist.
type ArtifactGenerator interface {
	Generate(ctx context.Context, req Request) (domain.Artifact, error)
}

// Generator routes each variant to the provider that produces it.
type Generator struct {
	text      TextCompleter
	speech    SpeechSynthesizer
	annotator PhoneticAnnotator
	voiceName string
	logger    *slog.Logger
}

// Compile-time check to ensure Generator implements ArtifactGenerator
var _ ArtifactGenerator = (*Generator)(nil)

// NewGenerator creates a Generator. annotator may be nil, in which case every
// language uses the text completer for phonetic output.
func NewGenerator(
	text TextCompleter,
	speech SpeechSynthesizer,
	annotator PhoneticAnnotator,
	voiceName string,
	logger *slog.Logger,
) (*Generator, error) {
	if text == nil {
		return nil, fmt.Errorf("%w: text completer cannot be nil", ErrInvalidConfig)
	}
	if speech == nil {
		return nil, fmt.Errorf("%w: speech synthesizer cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		text:      text,
		speech:    speech,
		annotator: annotator,
		voiceName: voiceName,
		logger:    logger.With(slog.String("component", "artifact_generator")),
	}, nil
}

// Generate implements ArtifactGenerator.
func (g *Generator) Generate(ctx context.Context, req Request) (domain.Artifact, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return domain.Artifact{}, ErrEmptyInput
	}

	lang, err := CanonicalLanguage(req.Language)
	if err != nil {
		return domain.Artifact{}, err
	}

	g.logger.DebugContext(ctx, "generating artifact",
		slog.String("variant", string(req.Variant)),
		slog.String("language", lang),
		slog.Int("text_length", len(text)))

	var art domain.Artifact
	switch req.Variant {
	case domain.VariantBreakdownDesktop, domain.VariantBreakdownMobile:
		art, err = g.complete(ctx, req.Variant, text, lang)
	case domain.VariantPhonetic:
		if lang == "ja" && g.annotator != nil {
			art, err = g.annotate(ctx, text)
		} else {
			art, err = g.complete(ctx, req.Variant, text, lang)
		}
	case domain.VariantAudio:
		art, err = g.synthesize(ctx, text, lang)
	default:
		return domain.Artifact{}, fmt.Errorf("%w: %q", ErrUnsupportedVariant, req.Variant)
	}
	if err != nil {
		g.logger.WarnContext(ctx, "artifact generation failed",
			slog.String("variant", string(req.Variant)),
			slog.String("error", err.Error()))
		return domain.Artifact{}, err
	}

	return art, nil
}

func (g *Generator) complete(
	ctx context.Context,
	variant domain.ArtifactVariant,
	text, lang string,
) (domain.Artifact, error) {
	prompt, err := buildPrompt(variant, text, languageName(lang))
	if err != nil {
		return domain.Artifact{}, err
	}

	out, err := g.text.Complete(ctx, prompt)
	if err != nil {
		return domain.Artifact{}, wrapProviderError(err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return domain.Artifact{}, fmt.Errorf("%w: empty completion", ErrInvalidResponse)
	}
	return domain.Artifact{Text: out}, nil
}

func (g *Generator) annotate(ctx context.Context, text string) (domain.Artifact, error) {
	out, err := g.annotator.Annotate(ctx, text)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if out == "" {
		return domain.Artifact{}, fmt.Errorf("%w: empty annotation", ErrInvalidResponse)
	}
	return domain.Artifact{Text: out}, nil
}

func (g *Generator) synthesize(ctx context.Context, text, lang string) (domain.Artifact, error) {
	data, mime, err := g.speech.SynthesizeSpeech(ctx, text, VoiceParams{
		VoiceName:    g.voiceName,
		LanguageCode: lang,
	})
	if err != nil {
		return domain.Artifact{}, wrapProviderError(err)
	}
	if len(data) == 0 {
		return domain.Artifact{}, fmt.Errorf("%w: empty audio", ErrInvalidResponse)
	}
	if mime == "" {
		mime = "audio/wav"
	}
	return domain.Artifact{Data: data, MIMEType: mime}, nil
}

// wrapProviderError keeps known generation errors and marks anything else as a generation failure.
func wrapProviderError(err error) error {
	for _, known := range []error{
		ErrGenerationFailed, ErrInvalidResponse, ErrContentBlocked, ErrTransientFailure,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}
