package domain

import (
	"fmt"
)

// ArtifactVariant identifies one kind of derived output cached per entity.
type ArtifactVariant string

// Known artifact variants.
const (
	VariantBreakdownDesktop ArtifactVariant = "breakdown_desktop"
	VariantBreakdownMobile  ArtifactVariant = "breakdown_mobile"
	VariantPhonetic         ArtifactVariant = "phonetic"
	VariantAudio            ArtifactVariant = "audio"
)

// AllVariants lists every artifact variant in a stable order.
var AllVariants = []ArtifactVariant{
	VariantBreakdownDesktop,
	VariantBreakdownMobile,
	VariantPhonetic,
	VariantAudio,
}

// Valid reports whether v is a known variant.
func (v ArtifactVariant) Valid() bool {
	switch v {
	case VariantBreakdownDesktop, VariantBreakdownMobile, VariantPhonetic, VariantAudio:
		return true
	default:
		return false
	}
}

// ParseVariant converts a raw string into an ArtifactVariant.
func ParseVariant(raw string) (ArtifactVariant, error) {
	v := ArtifactVariant(raw)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidVariant, raw)
	}
	return v, nil
}

// Artifact is one derived output. Text variants use Text; audio uses Data and MIMEType.
type Artifact struct {
	Text     string `json:"text,omitempty"`
	Data     []byte `json:"data,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

// IsEmpty reports whether the artifact carries no content.
func (a Artifact) IsEmpty() bool {
	return a.Text == "" && len(a.Data) == 0
}

// Artifacts maps each variant to its cached artifact. A missing key means absent.
type Artifacts map[ArtifactVariant]Artifact

// Get returns the artifact for v and whether it is present and non-empty.
func (a Artifacts) Get(v ArtifactVariant) (Artifact, bool) {
	art, ok := a[v]
	if !ok || art.IsEmpty() {
		return Artifact{}, false
	}
	return art, true
}

// Set stores art under v. Empty artifacts are dropped so absence stays observable.
func (a Artifacts) Set(v ArtifactVariant, art Artifact) {
	if art.IsEmpty() {
		delete(a, v)
		return
	}
	a[v] = art
}

// Clone returns a deep copy of the map.
func (a Artifacts) Clone() Artifacts {
	out := make(Artifacts, len(a))
	for v, art := range a {
		cp := art
		if art.Data != nil {
			cp.Data = append([]byte(nil), art.Data...)
		}
		out[v] = cp
	}
	return out
}
