package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
)

// ContentItemStore defines the interface for content item persistence,
// including collection membership and write-once artifact columns.
type ContentItemStore interface {
	// Create saves a new content item. Artifacts present on the item are stored with it.
	// Returns validation errors from the domain ContentItem if data is invalid.
	Create(ctx context.Context, item *domain.ContentItem) error

	// GetByID retrieves an item with its artifacts.
	// Returns ErrContentItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)

	// Delete removes the item. Import records pointing at it are removed by cascade.
	// Returns ErrContentItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetArtifactIfEmpty writes one artifact variant only when that variant is
	// still empty. It reports whether the write happened.
	SetArtifactIfEmpty(
		ctx context.Context,
		id uuid.UUID,
		variant domain.ArtifactVariant,
		artifact domain.Artifact,
	) (bool, error)

	// ListByOriginPost returns the imported copies of a post.
	ListByOriginPost(ctx context.Context, postID uuid.UUID) ([]*domain.ContentItem, error)

	// AddToCollection links the item to a collection. Adding twice is a no-op.
	AddToCollection(ctx context.Context, itemID, collectionID uuid.UUID) error

	// RemoveFromCollections unlinks the item from every collection it belongs to.
	RemoveFromCollections(ctx context.Context, itemID uuid.UUID) error

	// ListCollections returns the collections holding the item, oldest membership first.
	ListCollections(ctx context.Context, itemID uuid.UUID) ([]*domain.Collection, error)
}
