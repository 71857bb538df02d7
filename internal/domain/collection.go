package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors for Collection.
var (
	ErrEmptyCollectionUserID = errors.New("collection user ID cannot be empty")
	ErrEmptyCollectionTitle  = errors.New("collection title cannot be empty")
)

// Collection is a named container of content items scoped to one user and language.
type Collection struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCollection creates a collection for userID.
func NewCollection(userID uuid.UUID, title, language string) (*Collection, error) {
	now := time.Now().UTC()
	c := &Collection{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Language:  language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Collection has valid data.
func (c *Collection) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrEmptyCollectionUserID
	}
	if c.Title == "" {
		return ErrEmptyCollectionTitle
	}
	return nil
}
