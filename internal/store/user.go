package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
)

// UserStore reads the account data the core depends on.
// Accounts are created and edited by the external identity service.
type UserStore interface {
	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
