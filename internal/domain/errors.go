package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidVariant is returned when an artifact variant is not one of the known variants.
	ErrInvalidVariant = errors.New("invalid artifact variant")

	// ErrInvalidLanguage is returned when a language tag cannot be parsed.
	ErrInvalidLanguage = errors.New("invalid language tag")

	// ErrInvalidTimezone is returned when a timezone name cannot be resolved.
	ErrInvalidTimezone = errors.New("invalid timezone")
)
