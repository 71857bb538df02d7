package mocks

import (
	"context"

	"github.com/phrazzld/glossa-api/internal/generation"
	"github.com/stretchr/testify/mock"
)

// MockTextCompleter is a mock of generation.TextCompleter for use with testify/mock
type MockTextCompleter struct {
	mock.Mock
}

// Complete is a mock implementation of generation.TextCompleter.Complete
func (m *MockTextCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockSpeechSynthesizer is a mock of generation.SpeechSynthesizer for use with testify/mock
type MockSpeechSynthesizer struct {
	mock.Mock
}

// SynthesizeSpeech is a mock implementation of generation.SpeechSynthesizer.SynthesizeSpeech
func (m *MockSpeechSynthesizer) SynthesizeSpeech(
	ctx context.Context,
	text string,
	voice generation.VoiceParams,
) ([]byte, string, error) {
	args := m.Called(ctx, text, voice)
	var data []byte
	if b, ok := args.Get(0).([]byte); ok {
		data = b
	}
	return data, args.String(1), args.Error(2)
}

// MockPhoneticAnnotator is a mock of generation.PhoneticAnnotator for use with testify/mock
type MockPhoneticAnnotator struct {
	mock.Mock
}

// Annotate is a mock implementation of generation.PhoneticAnnotator.Annotate
func (m *MockPhoneticAnnotator) Annotate(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

var (
	_ generation.TextCompleter     = (*MockTextCompleter)(nil)
	_ generation.SpeechSynthesizer = (*MockSpeechSynthesizer)(nil)
	_ generation.PhoneticAnnotator = (*MockPhoneticAnnotator)(nil)
)
