// Package generation derives secondary artifacts (breakdowns, phonetic
// annotation, synthesized speech) from a piece of text. It defines the
// provider boundaries the application core depends on (TextCompleter,
// SpeechSynthesizer, PhoneticAnnotator) and a Generator that picks the right
// provider and prompt for each artifact variant. Concrete providers live under
// internal/platform. Nothing in this package caches or persists results.
package generation
