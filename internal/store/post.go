package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
)

// PostStore defines the interface for published post persistence.
type PostStore interface {
	// Create saves a new post.
	// Returns ErrPostExists if the origin item already has a post.
	Create(ctx context.Context, post *domain.PublishedPost) error

	// GetByID retrieves a post with its artifacts.
	// Returns ErrPostNotFound if the post does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PublishedPost, error)

	// GetByOriginItem retrieves the post published from itemID.
	// Returns ErrPostNotFound if the item was never published.
	GetByOriginItem(ctx context.Context, itemID uuid.UUID) (*domain.PublishedPost, error)

	// Delete removes a post. Import records for it are removed by cascade.
	// Fails while imported copies still reference the post.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementImportCount atomically adds one to import_count.
	// Returns ErrPostNotFound if the post does not exist.
	IncrementImportCount(ctx context.Context, id uuid.UUID) error

	// DecrementImportCount atomically subtracts one from import_count.
	// A missing post is ignored, since the origin may already be gone.
	DecrementImportCount(ctx context.Context, id uuid.UUID) error

	// SetArtifactIfEmpty has the same write-once contract as ContentItemStore.SetArtifactIfEmpty.
	SetArtifactIfEmpty(
		ctx context.Context,
		id uuid.UUID,
		variant domain.ArtifactVariant,
		artifact domain.Artifact,
	) (bool, error)

	// ListImportable returns active posts with the label and language that
	// userID neither created nor imported yet, oldest first.
	ListImportable(ctx context.Context, userID uuid.UUID, label, language string) ([]*domain.PublishedPost, error)
}
