// Package gemini implements the generation provider interfaces on top of
// Google's Gemini API through the google.golang.org/genai SDK.
//
// This package is an infrastructure adapter: Client satisfies both
// generation.TextCompleter (plain text completions used for breakdowns and
// phonetic transcriptions) and generation.SpeechSynthesizer (single-speaker
// text-to-speech). Provider failures are translated to the sentinel errors of
// the generation package so callers never see SDK types.
//
// The client does not retry and does not cache. Each call is bounded by the
// configured request timeout.
package gemini
