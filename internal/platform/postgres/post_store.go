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

const postColumns = `id, origin_item_id, creator_id, creator_name, language, label, ` +
	`source_text, translated_text, ` + artifactSelectColumns + `, ` +
	`import_count, is_active, created_at, updated_at`

// PostgresPostStore implements the store.PostStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPostStore creates a new PostgreSQL implementation of the PostStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPostStore(db store.DBTX, logger *slog.Logger) *PostgresPostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPostStore{
		db:     db,
		logger: logger.With(slog.String("component", "post_store")),
	}
}

// Ensure PostgresPostStore implements store.PostStore interface
var _ store.PostStore = (*PostgresPostStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresPostStore) WithTx(tx *sql.Tx) *PostgresPostStore {
	return &PostgresPostStore{db: tx, logger: s.logger}
}

func scanPost(row rowScanner) (*domain.PublishedPost, error) {
	var p domain.PublishedPost
	var arts artifactRow

	dest := []any{
		&p.ID, &p.OriginItemID, &p.CreatorID, &p.CreatorName, &p.Language, &p.Label,
		&p.SourceText, &p.TranslatedText,
	}
	dest = append(dest, arts.scanDest()...)
	dest = append(dest, &p.ImportCount, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.Artifacts = arts.toDomain()
	return &p, nil
}

// Create implements store.PostStore.Create
func (s *PostgresPostStore) Create(ctx context.Context, post *domain.PublishedPost) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		log.Warn("post validation failed during create",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return err
	}

	query := `
		INSERT INTO published_posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	args := []any{
		post.ID, post.OriginItemID, post.CreatorID, post.CreatorName, post.Language, post.Label,
		post.SourceText, post.TranslatedText,
	}
	args = append(args, artifactArgs(post.Artifacts)...)
	args = append(args, post.ImportCount, post.IsActive, post.CreatedAt, post.UpdatedAt)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrPostExists) {
			log.Debug("origin item already published",
				slog.String("origin_item_id", post.OriginItemID.String()))
		} else {
			log.Error("failed to create post",
				slog.String("error", err.Error()),
				slog.String("post_id", post.ID.String()))
		}
		return mapped
	}

	log.Info("post created",
		slog.String("post_id", post.ID.String()),
		slog.String("origin_item_id", post.OriginItemID.String()),
		slog.String("label", post.Label))
	return nil
}

func (s *PostgresPostStore) getOne(ctx context.Context, where string, arg uuid.UUID) (*domain.PublishedPost, error) {
	query := `SELECT ` + postColumns + ` FROM published_posts WHERE ` + where + ` = $1`

	p, err := scanPost(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPostNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get post",
			slog.String("error", err.Error()),
			slog.String(where, arg.String()))
		return nil, MapError(err)
	}
	return p, nil
}

// GetByID implements store.PostStore.GetByID
func (s *PostgresPostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PublishedPost, error) {
	return s.getOne(ctx, "id", id)
}

// GetByOriginItem implements store.PostStore.GetByOriginItem
func (s *PostgresPostStore) GetByOriginItem(ctx context.Context, itemID uuid.UUID) (*domain.PublishedPost, error) {
	return s.getOne(ctx, "origin_item_id", itemID)
}

// Delete implements store.PostStore.Delete
func (s *PostgresPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM published_posts WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete post",
			slog.String("error", err.Error()),
			slog.String("post_id", id.String()))
		return wrapError(entityPost, "delete", err)
	}
	return CheckRowsAffected(result, store.ErrPostNotFound)
}

// IncrementImportCount implements store.PostStore.IncrementImportCount
func (s *PostgresPostStore) IncrementImportCount(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE published_posts
		SET import_count = import_count + 1, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return wrapError(entityPost, "increment_import_count", err)
	}
	return CheckRowsAffected(result, store.ErrPostNotFound)
}

// DecrementImportCount implements store.PostStore.DecrementImportCount
func (s *PostgresPostStore) DecrementImportCount(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE published_posts
		SET import_count = import_count - 1, updated_at = NOW()
		WHERE id = $1 AND import_count > 0
	`, id)
	if err != nil {
		return wrapError(entityPost, "decrement_import_count", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		log.Warn("import count not decremented",
			slog.String("post_id", id.String()))
	}
	return nil
}

// SetArtifactIfEmpty implements store.PostStore.SetArtifactIfEmpty
func (s *PostgresPostStore) SetArtifactIfEmpty(
	ctx context.Context,
	id uuid.UUID,
	variant domain.ArtifactVariant,
	artifact domain.Artifact,
) (bool, error) {
	return setArtifactIfEmpty(ctx, s.db, "published_posts", id, variant, artifact)
}

// ListImportable implements store.PostStore.ListImportable
func (s *PostgresPostStore) ListImportable(
	ctx context.Context,
	userID uuid.UUID,
	label, language string,
) ([]*domain.PublishedPost, error) {
	query := `
		SELECT ` + postColumns + `
		FROM published_posts p
		WHERE p.label = $2
		  AND p.language = $3
		  AND p.is_active
		  AND p.creator_id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM import_records r
			WHERE r.post_id = p.id AND r.user_id = $1
		  )
		ORDER BY p.created_at, p.id
	`

	rows, err := s.db.QueryContext(ctx, query, userID, label, language)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var posts []*domain.PublishedPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, MapError(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return posts, nil
}
