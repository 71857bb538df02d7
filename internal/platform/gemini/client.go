package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/glossa-api/internal/config"
	"github.com/phrazzld/glossa-api/internal/generation"
	"google.golang.org/genai"
)

const defaultRequestTimeout = 45 * time.Second

// Client talks to the Gemini API for text completion and speech synthesis.
type Client struct {
	genai       *genai.Client
	textModel   string
	speechModel string
	timeout     time.Duration
	logger      *slog.Logger
}

// Compile-time checks to ensure Client implements the provider interfaces
var (
	_ generation.TextCompleter     = (*Client)(nil)
	_ generation.SpeechSynthesizer = (*Client)(nil)
)

// NewClient validates cfg and creates a Gemini API client.
// Returns generation.ErrInvalidConfig if required settings are missing.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	logger = logger.With(slog.String("component", "gemini_client"))

	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gc, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %w", generation.ErrInvalidConfig, err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	logger.InfoContext(ctx, "Gemini client initialized",
		slog.String("text_model", cfg.TextModel),
		slog.String("speech_model", cfg.SpeechModel))

	return &Client{
		genai:       gc,
		textModel:   cfg.TextModel,
		speechModel: cfg.SpeechModel,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Complete implements generation.TextCompleter.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", generation.ErrEmptyInput
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Gemini text completion failed",
			slog.String("model", c.textModel),
			slog.String("error", err.Error()))
		return "", classifyError(err)
	}
	if err := checkResponse(resp); err != nil {
		c.logger.WarnContext(ctx, "unusable Gemini response",
			slog.String("model", c.textModel),
			slog.String("error", err.Error()))
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: no text in response", generation.ErrInvalidResponse)
	}

	c.logger.DebugContext(ctx, "Gemini text completion succeeded",
		slog.String("model", c.textModel),
		slog.Int("prompt_length", len(prompt)),
		slog.Int("response_length", len(text)),
		slog.Duration("elapsed", time.Since(start)))

	return text, nil
}

// SynthesizeSpeech implements generation.SpeechSynthesizer. Raw PCM returned by the
// API is wrapped in a WAV container so clients can play it directly.
func (c *Client) SynthesizeSpeech(
	ctx context.Context,
	text string,
	voice generation.VoiceParams,
) ([]byte, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", generation.ErrEmptyInput
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
	}
	if voice.VoiceName != "" {
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice.VoiceName},
			},
		}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.speechModel, genai.Text(text), cfg)
	if err != nil {
		c.logger.ErrorContext(ctx, "Gemini speech synthesis failed",
			slog.String("model", c.speechModel),
			slog.String("error", err.Error()))
		return nil, "", classifyError(err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, "", err
	}

	var blob *genai.Blob
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			blob = part.InlineData
			break
		}
	}
	if blob == nil {
		return nil, "", fmt.Errorf("%w: no audio in response", generation.ErrInvalidResponse)
	}

	data, mime := blob.Data, blob.MIMEType
	if rate, ok := pcmSampleRate(mime); ok {
		data, mime = wrapPCM(data, rate), "audio/wav"
	}

	c.logger.DebugContext(ctx, "Gemini speech synthesis succeeded",
		slog.String("model", c.speechModel),
		slog.String("voice", voice.VoiceName),
		slog.String("language", voice.LanguageCode),
		slog.Int("audio_bytes", len(data)))

	return data, mime, nil
}
