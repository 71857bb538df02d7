package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
)

// CollectionStore defines the interface for collection persistence.
type CollectionStore interface {
	// Create saves a new collection.
	// Returns ErrCollectionExists if (user, title, language) is taken.
	Create(ctx context.Context, collection *domain.Collection) error

	// GetByID retrieves a collection.
	// Returns ErrCollectionNotFound if the collection does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error)

	// FindByTitle looks a collection up by its natural key.
	// Returns ErrCollectionNotFound if there is none.
	FindByTitle(ctx context.Context, userID uuid.UUID, title, language string) (*domain.Collection, error)

	// FindOrCreate returns the collection with the same (user, title, language)
	// as collection, inserting collection if there is none. The bool reports
	// whether this call inserted it. Safe against concurrent callers racing on
	// the same key.
	FindOrCreate(ctx context.Context, collection *domain.Collection) (*domain.Collection, bool, error)

	// Touch bumps updated_at on every listed collection. Unknown ids are ignored.
	Touch(ctx context.Context, ids ...uuid.UUID) error
}
