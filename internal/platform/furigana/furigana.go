// Package furigana annotates Japanese text with kana readings locally, using
// the kagome morphological analyzer and the IPA dictionary. Annotated words
// are rendered as 漢字[かんじ]; kana, punctuation and latin text pass through.
package furigana

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/phrazzld/glossa-api/internal/generation"
)

// readingFeature is the index of the katakana reading in IPA dictionary features.
const readingFeature = 7

// Annotator implements generation.PhoneticAnnotator.
type Annotator struct {
	t      *tokenizer.Tokenizer
	logger *slog.Logger
}

var _ generation.PhoneticAnnotator = (*Annotator)(nil)

// NewAnnotator loads the IPA dictionary and builds a tokenizer.
func NewAnnotator(logger *slog.Logger) (*Annotator, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build tokenizer: %w", generation.ErrInvalidConfig, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{
		t:      t,
		logger: logger.With(slog.String("component", "furigana")),
	}, nil
}

// Annotate returns text with a bracketed hiragana reading after every word containing kanji.
func (a *Annotator) Annotate(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", generation.ErrEmptyInput
	}

	var b strings.Builder
	annotated := 0
	for _, tok := range a.t.Tokenize(text) {
		reading := ""
		if tok.Class != tokenizer.DUMMY {
			if features := tok.Features(); len(features) > readingFeature && features[readingFeature] != "*" {
				reading = features[readingFeature]
			}
		}
		if reading == "" || !hasKanji(tok.Surface) {
			b.WriteString(tok.Surface)
			continue
		}
		b.WriteString(ruby(tok.Surface, ToHiragana(reading)))
		annotated++
	}

	a.logger.DebugContext(ctx, "annotated text",
		slog.Int("text_length", len(text)),
		slog.Int("annotated_words", annotated))

	return b.String(), nil
}

// ruby renders surface with its reading, keeping trailing kana outside the brackets
// so 食べる becomes 食[た]べる.
func ruby(surface, reading string) string {
	s := []rune(surface)
	r := []rune(reading)
	for len(s) > 1 && len(r) > 1 && !isKanji(s[len(s)-1]) &&
		toHiraganaRune(s[len(s)-1]) == r[len(r)-1] {
		s = s[:len(s)-1]
		r = r[:len(r)-1]
	}
	tail := string([]rune(surface)[len(s):])
	return string(s) + "[" + string(r) + "]" + tail
}

// ToHiragana converts katakana to hiragana and leaves every other rune unchanged.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = toHiraganaRune(r)
	}
	return string(runes)
}

func toHiraganaRune(r rune) rune {
	if r >= 0x30A1 && r <= 0x30F6 {
		return r - 0x60
	}
	return r
}

func isKanji(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

func hasKanji(s string) bool {
	for _, r := range s {
		if isKanji(r) {
			return true
		}
	}
	return false
}
