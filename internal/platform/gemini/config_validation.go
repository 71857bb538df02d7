package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/glossa-api/internal/config"
	"github.com/phrazzld/glossa-api/internal/generation"
)

// validateConfig checks the settings the client cannot work without.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		logger.ErrorContext(ctx, "missing Gemini API key")
		return fmt.Errorf("%w: GeminiAPIKey cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.TextModel == "" {
		logger.ErrorContext(ctx, "missing text model name")
		return fmt.Errorf("%w: TextModel cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.SpeechModel == "" {
		logger.ErrorContext(ctx, "missing speech model name")
		return fmt.Errorf("%w: SpeechModel cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.RequestTimeout <= 0 {
		logger.WarnContext(ctx, "invalid request timeout",
			slog.Duration("value", cfg.RequestTimeout),
			slog.Duration("using", defaultRequestTimeout))
	}

	return nil
}
