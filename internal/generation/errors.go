package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when artifact generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate artifact")

	// ErrInvalidResponse is returned when the provider response is empty or malformed
	ErrInvalidResponse = errors.New("invalid response from generation provider")

	// ErrContentBlocked is returned when the provider blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by provider safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during artifact generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyInput is returned when there is no text to derive an artifact from
	ErrEmptyInput = errors.New("generation input cannot be empty")

	// ErrUnsupportedVariant is returned when no generator handles the requested variant
	ErrUnsupportedVariant = errors.New("unsupported artifact variant")
)
