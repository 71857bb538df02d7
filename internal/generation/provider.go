package generation

import "context"

// TextCompleter sends a prompt to a language model and returns its text reply.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// VoiceParams selects the voice used for speech synthesis.
type VoiceParams struct {
	VoiceName    string
	LanguageCode string
}

// SpeechSynthesizer turns text into audio. It returns the raw bytes and their MIME type.
type SpeechSynthesizer interface {
	SynthesizeSpeech(ctx context.Context, text string, voice VoiceParams) ([]byte, string, error)
}

// PhoneticAnnotator annotates text with readings without calling a remote provider.
type PhoneticAnnotator interface {
	Annotate(ctx context.Context, text string) (string, error)
}
