package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContentSource records how a content item came into a user's collection.
type ContentSource string

// Possible content sources.
const (
	ContentSourceUser     ContentSource = "user"
	ContentSourceImported ContentSource = "imported"
)

// Validation errors for ContentItem.
var (
	ErrEmptyContentItemID     = errors.New("content item ID cannot be empty")
	ErrEmptyContentItemUserID = errors.New("content item user ID cannot be empty")
	ErrEmptyContentItemText   = errors.New("content item text cannot be empty")
	ErrInvalidContentSource   = errors.New("invalid content source")
	ErrImportedItemNoOrigin   = errors.New("imported content item must reference its origin post")
)

// ContentItem is a user-owned unit of translated content plus its cached artifacts.
type ContentItem struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	Language       string        `json:"language"`
	SourceText     string        `json:"source_text"`
	TranslatedText string        `json:"translated_text"`
	Artifacts      Artifacts     `json:"artifacts"`
	Source         ContentSource `json:"source"`
	OriginPostID   *uuid.UUID    `json:"origin_post_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewContentItem creates a user-submitted content item.
func NewContentItem(userID uuid.UUID, language, sourceText, translatedText string) (*ContentItem, error) {
	now := time.Now().UTC()
	item := &ContentItem{
		ID:             uuid.New(),
		UserID:         userID,
		Language:       language,
		SourceText:     sourceText,
		TranslatedText: translatedText,
		Artifacts:      Artifacts{},
		Source:         ContentSourceUser,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// NewImportedContentItem copies a published post into a new item owned by userID.
// Artifacts are copied verbatim.
func NewImportedContentItem(userID uuid.UUID, post *PublishedPost) (*ContentItem, error) {
	now := time.Now().UTC()
	postID := post.ID
	item := &ContentItem{
		ID:             uuid.New(),
		UserID:         userID,
		Language:       post.Language,
		SourceText:     post.SourceText,
		TranslatedText: post.TranslatedText,
		Artifacts:      post.Artifacts.Clone(),
		Source:         ContentSourceImported,
		OriginPostID:   &postID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the ContentItem has valid data.
func (c *ContentItem) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyContentItemID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyContentItemUserID
	}

	if c.SourceText == "" && c.TranslatedText == "" {
		return ErrEmptyContentItemText
	}

	switch c.Source {
	case ContentSourceUser:
	case ContentSourceImported:
		if c.OriginPostID == nil {
			return ErrImportedItemNoOrigin
		}
	default:
		return ErrInvalidContentSource
	}

	return nil
}

// IsImported reports whether the item is a copy of a published post.
func (c *ContentItem) IsImported() bool {
	return c.Source == ContentSourceImported
}

// DisplayText is the text used as input for derived artifacts.
func (c *ContentItem) DisplayText() string {
	if c.TranslatedText != "" {
		return c.TranslatedText
	}
	return c.SourceText
}
