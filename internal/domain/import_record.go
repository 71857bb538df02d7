package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors for ImportRecord.
var (
	ErrEmptyImportUserID = errors.New("import record user ID cannot be empty")
	ErrEmptyImportPostID = errors.New("import record post ID cannot be empty")
	ErrEmptyImportItemID = errors.New("import record imported item ID cannot be empty")
)

// ImportRecord records that a user imported a post, and where the copy landed.
type ImportRecord struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	PostID               uuid.UUID  `json:"post_id"`
	ImportedItemID       uuid.UUID  `json:"imported_item_id"`
	CollectionID         *uuid.UUID `json:"collection_id,omitempty"`
	WasCollectionCreated bool       `json:"was_collection_created"`
	CreatedAt            time.Time  `json:"created_at"`
}

// NewImportRecord creates a record linking userID, post and the imported copy.
func NewImportRecord(
	userID, postID, importedItemID uuid.UUID,
	collectionID uuid.UUID,
	wasCollectionCreated bool,
) (*ImportRecord, error) {
	rec := &ImportRecord{
		ID:                   uuid.New(),
		UserID:               userID,
		PostID:               postID,
		ImportedItemID:       importedItemID,
		WasCollectionCreated: wasCollectionCreated,
		CreatedAt:            time.Now().UTC(),
	}
	if collectionID != uuid.Nil {
		cid := collectionID
		rec.CollectionID = &cid
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validate checks if the ImportRecord has valid data.
func (r *ImportRecord) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrEmptyImportUserID
	}
	if r.PostID == uuid.Nil {
		return ErrEmptyImportPostID
	}
	if r.ImportedItemID == uuid.Nil {
		return ErrEmptyImportItemID
	}
	return nil
}
