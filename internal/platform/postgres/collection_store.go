package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/store"
)

// PostgresCollectionStore implements the store.CollectionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCollectionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCollectionStore creates a new PostgreSQL implementation of the CollectionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCollectionStore(db store.DBTX, logger *slog.Logger) *PostgresCollectionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCollectionStore{
		db:     db,
		logger: logger.With(slog.String("component", "collection_store")),
	}
}

// Ensure PostgresCollectionStore implements store.CollectionStore interface
var _ store.CollectionStore = (*PostgresCollectionStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresCollectionStore) WithTx(tx *sql.Tx) *PostgresCollectionStore {
	return &PostgresCollectionStore{db: tx, logger: s.logger}
}

func scanCollection(row rowScanner) (*domain.Collection, error) {
	var c domain.Collection
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Language, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create implements store.CollectionStore.Create
func (s *PostgresCollectionStore) Create(ctx context.Context, collection *domain.Collection) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := collection.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO collections (id, user_id, title, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		collection.ID,
		collection.UserID,
		collection.Title,
		collection.Language,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrCollectionExists) {
			log.Debug("collection already exists",
				slog.String("user_id", collection.UserID.String()),
				slog.String("title", collection.Title))
		} else {
			log.Error("failed to create collection",
				slog.String("error", err.Error()),
				slog.String("collection_id", collection.ID.String()))
		}
		return mapped
	}

	log.Info("collection created",
		slog.String("collection_id", collection.ID.String()),
		slog.String("user_id", collection.UserID.String()))
	return nil
}

// GetByID implements store.CollectionStore.GetByID
func (s *PostgresCollectionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	query := `
		SELECT id, user_id, title, language, created_at, updated_at
		FROM collections
		WHERE id = $1
	`
	c, err := scanCollection(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCollectionNotFound
		}
		return nil, MapError(err)
	}
	return c, nil
}

// FindByTitle implements store.CollectionStore.FindByTitle
func (s *PostgresCollectionStore) FindByTitle(
	ctx context.Context,
	userID uuid.UUID,
	title, language string,
) (*domain.Collection, error) {
	query := `
		SELECT id, user_id, title, language, created_at, updated_at
		FROM collections
		WHERE user_id = $1 AND title = $2 AND language = $3
	`
	c, err := scanCollection(s.db.QueryRowContext(ctx, query, userID, title, language))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCollectionNotFound
		}
		return nil, MapError(err)
	}
	return c, nil
}

// FindOrCreate implements store.CollectionStore.FindOrCreate
func (s *PostgresCollectionStore) FindOrCreate(
	ctx context.Context,
	collection *domain.Collection,
) (*domain.Collection, bool, error) {
	if err := collection.Validate(); err != nil {
		return nil, false, err
	}

	// A conflicting insert waits for the other transaction and then does nothing,
	// so it never aborts the caller's transaction.
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, user_id, title, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, title, language) DO NOTHING
	`,
		collection.ID,
		collection.UserID,
		collection.Title,
		collection.Language,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create collection",
			slog.String("error", err.Error()),
			slog.String("user_id", collection.UserID.String()))
		return nil, false, wrapError(entityCollection, "find_or_create", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 1 {
		return collection, true, nil
	}

	existing, err := s.FindByTitle(ctx, collection.UserID, collection.Title, collection.Language)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Touch implements store.CollectionStore.Touch
func (s *PostgresCollectionStore) Touch(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE collections SET updated_at = NOW() WHERE id = ANY($1)`,
		ids,
	); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to touch collections",
			slog.String("error", err.Error()),
			slog.Int("count", len(ids)))
		return wrapError(entityCollection, "touch", err)
	}
	return nil
}
