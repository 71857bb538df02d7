package generation

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/phrazzld/glossa-api/internal/domain"
)

// promptData is passed to every prompt template.
type promptData struct {
	Text         string
	LanguageName string
}

const breakdownDesktopPrompt = `You are a language tutor. Break down the following {{.LanguageName}} text for a learner.
Return a Markdown table with the columns: Word, Reading, Part of speech, Meaning, Notes.
Add one row per meaningful word or particle, keep the original order, and finish with
a short paragraph on any grammar pattern worth remembering.

Text:
{{.Text}}`

const breakdownMobilePrompt = `You are a language tutor. Break down the following {{.LanguageName}} text for a learner
reading on a phone. Return a Markdown table with only two columns: Word and Meaning.
Keep each meaning under six words and skip the grammar notes.

Text:
{{.Text}}`

const phoneticPrompt = `Write the pronunciation of the following {{.LanguageName}} text in IPA.
Reply with the transcription only, one line, no commentary.

Text:
{{.Text}}`

var promptTemplates = map[domain.ArtifactVariant]*template.Template{
	domain.VariantBreakdownDesktop: template.Must(template.New("breakdown_desktop").Parse(breakdownDesktopPrompt)),
	domain.VariantBreakdownMobile:  template.Must(template.New("breakdown_mobile").Parse(breakdownMobilePrompt)),
	domain.VariantPhonetic:         template.Must(template.New("phonetic").Parse(phoneticPrompt)),
}

// buildPrompt renders the prompt for a text variant.
func buildPrompt(variant domain.ArtifactVariant, text, languageName string) (string, error) {
	tmpl, ok := promptTemplates[variant]
	if !ok {
		return "", fmt.Errorf("%w: no prompt for %s", ErrUnsupportedVariant, variant)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Text: text, LanguageName: languageName}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
