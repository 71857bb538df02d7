package generation

import (
	"fmt"

	"github.com/phrazzld/glossa-api/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// CanonicalLanguage parses a BCP 47 tag and returns its base language code,
// so "ja-JP", "JA" and "ja" all become "ja". Empty input stays empty.
func CanonicalLanguage(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, raw)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// languageName returns the English name for code, falling back to the code itself.
func languageName(code string) string {
	if code == "" {
		return "source language"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
