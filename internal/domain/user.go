package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the subset of account data the core reads. Accounts are managed elsewhere.
type User struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	// PublicAlias is the name shown on published posts. Empty means the user cannot publish.
	PublicAlias string    `json:"public_alias,omitempty"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasPublicAlias reports whether the user may publish posts.
func (u *User) HasPublicAlias() bool {
	return u.PublicAlias != ""
}
