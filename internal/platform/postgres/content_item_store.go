package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/store"
)

const contentItemColumns = `id, user_id, language, source_text, translated_text, ` +
	artifactSelectColumns + `, source, origin_post_id, created_at, updated_at`

// PostgresContentItemStore implements the store.ContentItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresContentItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentItemStore creates a new PostgreSQL implementation of the ContentItemStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresContentItemStore(db store.DBTX, logger *slog.Logger) *PostgresContentItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContentItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_item_store")),
	}
}

// Ensure PostgresContentItemStore implements store.ContentItemStore interface
var _ store.ContentItemStore = (*PostgresContentItemStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresContentItemStore) WithTx(tx *sql.Tx) *PostgresContentItemStore {
	return &PostgresContentItemStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContentItem(row rowScanner) (*domain.ContentItem, error) {
	var item domain.ContentItem
	var arts artifactRow
	var source string
	var origin uuid.NullUUID

	dest := []any{&item.ID, &item.UserID, &item.Language, &item.SourceText, &item.TranslatedText}
	dest = append(dest, arts.scanDest()...)
	dest = append(dest, &source, &origin, &item.CreatedAt, &item.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	item.Artifacts = arts.toDomain()
	item.Source = domain.ContentSource(source)
	if origin.Valid {
		id := origin.UUID
		item.OriginPostID = &id
	}
	return &item, nil
}

// Create implements store.ContentItemStore.Create
func (s *PostgresContentItemStore) Create(ctx context.Context, item *domain.ContentItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("content item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		INSERT INTO content_items (` + contentItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	args := []any{item.ID, item.UserID, item.Language, item.SourceText, item.TranslatedText}
	args = append(args, artifactArgs(item.Artifacts)...)
	args = append(args, string(item.Source), uuid.NullUUID{}, item.CreatedAt, item.UpdatedAt)
	if item.OriginPostID != nil {
		args[11] = uuid.NullUUID{UUID: *item.OriginPostID, Valid: true}
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create content item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()),
			slog.String("user_id", item.UserID.String()))
		return wrapError(entityContentItem, "create", err)
	}

	log.Debug("content item created",
		slog.String("item_id", item.ID.String()),
		slog.String("source", string(item.Source)))
	return nil
}

// GetByID implements store.ContentItemStore.GetByID
func (s *PostgresContentItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + contentItemColumns + ` FROM content_items WHERE id = $1`

	item, err := scanContentItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("content item not found", slog.String("item_id", id.String()))
			return nil, store.ErrContentItemNotFound
		}
		log.Error("failed to get content item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, MapError(err)
	}
	return item, nil
}

// Delete implements store.ContentItemStore.Delete
func (s *PostgresContentItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete content item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return wrapError(entityContentItem, "delete", err)
	}
	if err := CheckRowsAffected(result, store.ErrContentItemNotFound); err != nil {
		return err
	}

	log.Debug("content item deleted", slog.String("item_id", id.String()))
	return nil
}

// SetArtifactIfEmpty implements store.ContentItemStore.SetArtifactIfEmpty
func (s *PostgresContentItemStore) SetArtifactIfEmpty(
	ctx context.Context,
	id uuid.UUID,
	variant domain.ArtifactVariant,
	artifact domain.Artifact,
) (bool, error) {
	written, err := setArtifactIfEmpty(ctx, s.db, "content_items", id, variant, artifact)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to persist artifact",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()),
			slog.String("variant", string(variant)))
		return false, err
	}
	return written, nil
}

// ListByOriginPost implements store.ContentItemStore.ListByOriginPost
func (s *PostgresContentItemStore) ListByOriginPost(
	ctx context.Context,
	postID uuid.UUID,
) ([]*domain.ContentItem, error) {
	query := `
		SELECT ` + contentItemColumns + `
		FROM content_items
		WHERE origin_post_id = $1
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return items, nil
}

// AddToCollection implements store.ContentItemStore.AddToCollection
func (s *PostgresContentItemStore) AddToCollection(ctx context.Context, itemID, collectionID uuid.UUID) error {
	query := `
		INSERT INTO content_item_collections (item_id, collection_id)
		VALUES ($1, $2)
		ON CONFLICT (item_id, collection_id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query, itemID, collectionID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to add item to collection",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()),
			slog.String("collection_id", collectionID.String()))
		return wrapError(entityContentItem, "add_to_collection", err)
	}
	return nil
}

// RemoveFromCollections implements store.ContentItemStore.RemoveFromCollections
func (s *PostgresContentItemStore) RemoveFromCollections(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM content_item_collections WHERE item_id = $1`, itemID); err != nil {
		return wrapError(entityContentItem, "remove_from_collections", err)
	}
	return nil
}

// ListCollections implements store.ContentItemStore.ListCollections
func (s *PostgresContentItemStore) ListCollections(ctx context.Context, itemID uuid.UUID) ([]*domain.Collection, error) {
	query := `
		SELECT c.id, c.user_id, c.title, c.language, c.created_at, c.updated_at
		FROM content_item_collections m
		JOIN collections c ON c.id = m.collection_id
		WHERE m.item_id = $1
		ORDER BY m.created_at, c.id
	`

	rows, err := s.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var collections []*domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, MapError(err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return collections, nil
}
