package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors for PublishedPost.
var (
	ErrEmptyPostID         = errors.New("published post ID cannot be empty")
	ErrEmptyPostOrigin     = errors.New("published post origin item cannot be empty")
	ErrEmptyPostCreator    = errors.New("published post creator cannot be empty")
	ErrEmptyPostLabel      = errors.New("published post label cannot be empty")
	ErrNegativeImportCount = errors.New("import count cannot be negative")
)

// PublishedPost is the public copy of exactly one ContentItem taken at publish time.
type PublishedPost struct {
	ID             uuid.UUID `json:"id"`
	OriginItemID   uuid.UUID `json:"origin_item_id"`
	CreatorID      uuid.UUID `json:"creator_id"`
	CreatorName    string    `json:"creator_name"`
	Language       string    `json:"language"`
	Label          string    `json:"label"`
	SourceText     string    `json:"source_text"`
	TranslatedText string    `json:"translated_text"`
	Artifacts      Artifacts `json:"artifacts"`
	ImportCount    int       `json:"import_count"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewPublishedPost snapshots item into a new active post with a zero import count.
func NewPublishedPost(item *ContentItem, creatorName, label string) (*PublishedPost, error) {
	now := time.Now().UTC()
	post := &PublishedPost{
		ID:             uuid.New(),
		OriginItemID:   item.ID,
		CreatorID:      item.UserID,
		CreatorName:    creatorName,
		Language:       item.Language,
		Label:          label,
		SourceText:     item.SourceText,
		TranslatedText: item.TranslatedText,
		Artifacts:      item.Artifacts.Clone(),
		ImportCount:    0,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	return post, nil
}

// Validate checks if the PublishedPost has valid data.
func (p *PublishedPost) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPostID
	}
	if p.OriginItemID == uuid.Nil {
		return ErrEmptyPostOrigin
	}
	if p.CreatorID == uuid.Nil {
		return ErrEmptyPostCreator
	}
	if p.Label == "" {
		return ErrEmptyPostLabel
	}
	if p.ImportCount < 0 {
		return ErrNegativeImportCount
	}
	return nil
}

// ResolvePostLabel picks the label for a post from the origin item's collection titles.
// The first title that is not reserved wins, then the first title, then defaultLabel.
func ResolvePostLabel(titles []string, reserved []string, defaultLabel string) string {
	isReserved := make(map[string]struct{}, len(reserved))
	for _, r := range reserved {
		isReserved[r] = struct{}{}
	}

	for _, t := range titles {
		if t == "" {
			continue
		}
		if _, ok := isReserved[t]; !ok {
			return t
		}
	}

	for _, t := range titles {
		if t != "" {
			return t
		}
	}

	return defaultLabel
}
