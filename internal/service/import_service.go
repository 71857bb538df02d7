package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/store"
)

// DefaultImportBatchSize is used when ImportOptions.BatchSize is not positive.
const DefaultImportBatchSize = 50

// ImportOptions controls bulk imports.
type ImportOptions struct {
	// BatchSize is the number of posts imported per transaction.
	BatchSize int
}

// ImportedItem is one post copied into a user's collection.
type ImportedItem struct {
	Item   *domain.ContentItem  `json:"item"`
	Record *domain.ImportRecord `json:"record"`
}

// ImportResult is the outcome of ImportOne.
type ImportResult struct {
	ImportedItem
	Collection *domain.Collection `json:"collection"`
	// Streak is the streak after the import. Nil when recording it failed.
	Streak *domain.StreakUpdate `json:"streak,omitempty"`
	// StreakWarning describes a streak failure. The import itself succeeded.
	StreakWarning string `json:"streak_warning,omitempty"`
}

// BulkImportResult is the outcome of ImportAll.
type BulkImportResult struct {
	Imported          []ImportedItem       `json:"imported"`
	Collection        *domain.Collection   `json:"collection,omitempty"`
	CollectionCreated bool                 `json:"collection_created"`
	Streak            *domain.StreakUpdate `json:"streak,omitempty"`
	StreakWarning     string               `json:"streak_warning,omitempty"`
}

// ImportService copies published posts into users' collections.
type ImportService interface {
	// ImportOne imports a single post. targetCollectionID may be nil to file the
	// copy under a collection named after the post label.
	ImportOne(
		ctx context.Context,
		userID, postID uuid.UUID,
		targetCollectionID *uuid.UUID,
		timezone string,
	) (*ImportResult, error)

	// ImportAll imports every active post with label in the user's language that the
	// user has not created or imported yet. When a batch fails, the returned result
	// holds the items committed by earlier batches.
	ImportAll(
		ctx context.Context,
		userID uuid.UUID,
		label string,
		targetCollectionID *uuid.UUID,
		timezone string,
	) (*BulkImportResult, error)
}

type importServiceImpl struct {
	tx      store.TxManager
	stores  *store.Stores
	streaks StreakService
	opts    ImportOptions
	logger  *slog.Logger
}

// NewImportService creates an ImportService. It returns an error if any of the
// required dependencies are nil.
func NewImportService(
	tx store.TxManager,
	stores *store.Stores,
	streaks StreakService,
	opts ImportOptions,
	logger *slog.Logger,
) (ImportService, error) {
	if tx == nil {
		return nil, newError("create_service", ErrValidation, "transaction manager cannot be nil", nil)
	}
	if stores == nil {
		return nil, newError("create_service", ErrValidation, "stores cannot be nil", nil)
	}
	if streaks == nil {
		return nil, newError("create_service", ErrValidation, "streak service cannot be nil", nil)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultImportBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &importServiceImpl{
		tx:      tx,
		stores:  stores,
		streaks: streaks,
		opts:    opts,
		logger:  logger.With("component", "import_service"),
	}, nil
}

// ImportOne implements ImportService.
func (s *importServiceImpl) ImportOne(
	ctx context.Context,
	userID, postID uuid.UUID,
	targetCollectionID *uuid.UUID,
	timezone string,
) (*ImportResult, error) {
	const op = "import_one"
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.loadUser(ctx, op, userID)
	if err != nil {
		return nil, err
	}

	post, err := s.stores.Posts.GetByID(ctx, postID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, newError(op, ErrNotFound, "post not found", err)
		}
		return nil, persistenceError(op, "failed to load post", err)
	}
	if !post.IsActive {
		return nil, newError(op, ErrNotFound, "post is not available", nil)
	}
	if post.CreatorID == userID {
		return nil, newError(op, ErrSelfImport, "post was created by the caller", nil)
	}

	exists, err := s.stores.Imports.Exists(ctx, userID, postID)
	if err != nil {
		return nil, persistenceError(op, "failed to check import record", err)
	}
	if exists {
		return nil, newError(op, ErrAlreadyImported, "post already imported", nil)
	}

	if err := s.checkTarget(ctx, op, userID, targetCollectionID); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *store.Stores) error {
		col, created, err := resolveCollection(ctx, op, tx, user, post, targetCollectionID)
		if err != nil {
			return err
		}

		imported, err := importPost(ctx, op, tx, userID, postID, col.ID, created)
		if err != nil {
			return err
		}

		if err := tx.Collections.Touch(ctx, col.ID); err != nil {
			return err
		}

		result.ImportedItem = *imported
		result.Collection = col
		return nil
	})
	if err != nil {
		return nil, persistenceError(op, "failed to import post", err)
	}

	log.InfoContext(ctx, "post imported",
		slog.String("post_id", postID.String()),
		slog.String("item_id", result.Item.ID.String()),
		slog.String("collection_id", result.Collection.ID.String()),
		slog.Bool("collection_created", result.Record.WasCollectionCreated))

	result.Streak, result.StreakWarning = s.recordStreak(ctx, userID, timezone)
	return result, nil
}

// ImportAll implements ImportService.
func (s *importServiceImpl) ImportAll(
	ctx context.Context,
	userID uuid.UUID,
	label string,
	targetCollectionID *uuid.UUID,
	timezone string,
) (*BulkImportResult, error) {
	const op = "import_all"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if label == "" {
		return nil, newError(op, ErrValidation, "label cannot be empty", nil)
	}

	user, err := s.loadUser(ctx, op, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTarget(ctx, op, userID, targetCollectionID); err != nil {
		return nil, err
	}

	posts, err := s.stores.Posts.ListImportable(ctx, userID, label, user.Language)
	if err != nil {
		return nil, persistenceError(op, "failed to list importable posts", err)
	}

	result := &BulkImportResult{Imported: []ImportedItem{}}
	if len(posts) == 0 {
		return result, nil
	}

	for start := 0; start < len(posts); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(posts))
		batch := posts[start:end]

		var committed []ImportedItem
		err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *store.Stores) error {
			committed = committed[:0]

			col := result.Collection
			if col == nil {
				resolved, created, err := resolveCollection(ctx, op, tx, user, batch[0], targetCollectionID)
				if err != nil {
					return err
				}
				col = resolved
				result.Collection = col
				result.CollectionCreated = created
			}

			for i, post := range batch {
				// Only the very first copy records that the collection was created for it.
				first := start == 0 && i == 0
				imported, err := importPost(ctx, op, tx, userID, post.ID, col.ID, first && result.CollectionCreated)
				if err != nil {
					return err
				}
				committed = append(committed, *imported)
			}

			return tx.Collections.Touch(ctx, col.ID)
		})
		if err != nil {
			if start == 0 {
				result.Collection = nil
				result.CollectionCreated = false
			}
			log.ErrorContext(ctx, "bulk import batch failed",
				slog.String("label", label),
				slog.Int("batch_start", start),
				slog.Int("imported_before_failure", len(result.Imported)),
				slog.String("error", err.Error()))
			return result, persistenceError(op, "failed to import batch", err)
		}
		result.Imported = append(result.Imported, committed...)
	}

	log.InfoContext(ctx, "bulk import finished",
		slog.String("label", label),
		slog.Int("imported", len(result.Imported)),
		slog.String("collection_id", result.Collection.ID.String()))

	result.Streak, result.StreakWarning = s.recordStreak(ctx, userID, timezone)
	return result, nil
}

func (s *importServiceImpl) loadUser(ctx context.Context, op string, userID uuid.UUID) (*domain.User, error) {
	user, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, newError(op, ErrNotFound, "user not found", err)
		}
		return nil, persistenceError(op, "failed to load user", err)
	}
	return user, nil
}

func (s *importServiceImpl) checkTarget(ctx context.Context, op string, userID uuid.UUID, target *uuid.UUID) error {
	if target == nil {
		return nil
	}
	col, err := s.stores.Collections.GetByID(ctx, *target)
	if err != nil {
		if store.IsNotFoundError(err) {
			return newError(op, ErrNotFound, "target collection not found", err)
		}
		return persistenceError(op, "failed to load target collection", err)
	}
	if col.UserID != userID {
		return newError(op, ErrNotOwner, "target collection belongs to another user", nil)
	}
	return nil
}

// recordStreak records the activity after an import. Failures do not undo the import.
func (s *importServiceImpl) recordStreak(
	ctx context.Context,
	userID uuid.UUID,
	timezone string,
) (*domain.StreakUpdate, string) {
	update, err := s.streaks.RecordActivity(ctx, userID, timezone)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx, "failed to record streak after import",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, "streak could not be updated: " + KindOf(err)
	}
	return update, ""
}

// resolveCollection returns the target collection, or finds or creates the one
// named after the post label in the user's language.
func resolveCollection(
	ctx context.Context,
	op string,
	tx *store.Stores,
	user *domain.User,
	post *domain.PublishedPost,
	target *uuid.UUID,
) (*domain.Collection, bool, error) {
	if target != nil {
		col, err := tx.Collections.GetByID(ctx, *target)
		if err != nil {
			if store.IsNotFoundError(err) {
				return nil, false, newError(op, ErrNotFound, "target collection not found", err)
			}
			return nil, false, err
		}
		if col.UserID != user.ID {
			return nil, false, newError(op, ErrNotOwner, "target collection belongs to another user", nil)
		}
		return col, false, nil
	}

	language := user.Language
	if language == "" {
		language = post.Language
	}

	candidate, err := domain.NewCollection(user.ID, post.Label, language)
	if err != nil {
		return nil, false, newError(op, ErrValidation, "invalid collection", err)
	}
	return tx.Collections.FindOrCreate(ctx, candidate)
}

// importPost copies one post into collectionID and keeps the import count in step
// with the new record.
func importPost(
	ctx context.Context,
	op string,
	tx *store.Stores,
	userID, postID, collectionID uuid.UUID,
	collectionCreated bool,
) (*ImportedItem, error) {
	// Read the post inside the transaction so the copy carries every committed artifact.
	post, err := tx.Posts.GetByID(ctx, postID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, newError(op, ErrNotFound, "post not found", err)
		}
		return nil, err
	}
	if !post.IsActive {
		return nil, newError(op, ErrNotFound, "post is not available", nil)
	}

	item, err := domain.NewImportedContentItem(userID, post)
	if err != nil {
		return nil, newError(op, ErrValidation, "invalid imported item", err)
	}
	if err := tx.Items.Create(ctx, item); err != nil {
		return nil, err
	}
	if err := tx.Items.AddToCollection(ctx, item.ID, collectionID); err != nil {
		return nil, err
	}

	record, err := domain.NewImportRecord(userID, postID, item.ID, collectionID, collectionCreated)
	if err != nil {
		return nil, newError(op, ErrValidation, "invalid import record", err)
	}
	if err := tx.Imports.Create(ctx, record); err != nil {
		if store.IsDuplicateError(err) {
			return nil, newError(op, ErrAlreadyImported, "post already imported", err)
		}
		return nil, err
	}
	if err := tx.Posts.IncrementImportCount(ctx, postID); err != nil {
		return nil, err
	}

	return &ImportedItem{Item: item, Record: record}, nil
}
