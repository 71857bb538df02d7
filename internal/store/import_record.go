package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
)

// ImportRecordStore defines the interface for import record persistence.
// Records are deleted only through foreign key cascades.
type ImportRecordStore interface {
	// Create saves a new record.
	// Returns ErrImportExists if the user already imported the post.
	Create(ctx context.Context, record *domain.ImportRecord) error

	// Exists reports whether userID has a live record for postID.
	Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error)

	// CountImporters returns the number of distinct users holding a record for postID.
	CountImporters(ctx context.Context, postID uuid.UUID) (int, error)
}
