package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/store"
)

// PostgresImportRecordStore implements the store.ImportRecordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresImportRecordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresImportRecordStore creates a new PostgreSQL implementation of the ImportRecordStore interface.
func NewPostgresImportRecordStore(db store.DBTX, logger *slog.Logger) *PostgresImportRecordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresImportRecordStore{
		db:     db,
		logger: logger.With(slog.String("component", "import_record_store")),
	}
}

// Ensure PostgresImportRecordStore implements store.ImportRecordStore interface
var _ store.ImportRecordStore = (*PostgresImportRecordStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresImportRecordStore) WithTx(tx *sql.Tx) *PostgresImportRecordStore {
	return &PostgresImportRecordStore{db: tx, logger: s.logger}
}

// Create implements store.ImportRecordStore.Create
func (s *PostgresImportRecordStore) Create(ctx context.Context, record *domain.ImportRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	var collectionID uuid.NullUUID
	if record.CollectionID != nil {
		collectionID = uuid.NullUUID{UUID: *record.CollectionID, Valid: true}
	}

	query := `
		INSERT INTO import_records
			(id, user_id, post_id, imported_item_id, collection_id, was_collection_created, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.PostID,
		record.ImportedItemID,
		collectionID,
		record.WasCollectionCreated,
		record.CreatedAt,
	)
	if err != nil {
		if !IsUniqueViolation(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to create import record",
				slog.String("error", err.Error()),
				slog.String("user_id", record.UserID.String()),
				slog.String("post_id", record.PostID.String()))
		}
		return wrapError(entityImportRecord, "create", err)
	}
	return nil
}

// Exists implements store.ImportRecordStore.Exists
func (s *PostgresImportRecordStore) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM import_records WHERE user_id = $1 AND post_id = $2)`,
		userID, postID,
	).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// CountImporters implements store.ImportRecordStore.CountImporters
func (s *PostgresImportRecordStore) CountImporters(ctx context.Context, postID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM import_records WHERE post_id = $1`,
		postID,
	).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}
