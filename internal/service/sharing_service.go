package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/store"
)

// SharingOptions controls how post labels are chosen.
type SharingOptions struct {
	// ReservedTitles are system collection titles skipped when a better label exists.
	ReservedTitles []string
	// DefaultLabel is used when the item belongs to no collection.
	DefaultLabel string
}

// SharingService publishes content items as public posts.
type SharingService interface {
	// Publish snapshots the item and its artifacts into a new post.
	Publish(ctx context.Context, userID, itemID uuid.UUID) (*domain.PublishedPost, error)
}

type sharingServiceImpl struct {
	tx     store.TxManager
	stores *store.Stores
	opts   SharingOptions
	logger *slog.Logger
}

// NewSharingService creates a SharingService. stores is used for the reads made
// before the transaction starts.
func NewSharingService(
	tx store.TxManager,
	stores *store.Stores,
	opts SharingOptions,
	logger *slog.Logger,
) (SharingService, error) {
	if tx == nil {
		return nil, newError("create_service", ErrValidation, "transaction manager cannot be nil", nil)
	}
	if stores == nil {
		return nil, newError("create_service", ErrValidation, "stores cannot be nil", nil)
	}
	if opts.DefaultLabel == "" {
		return nil, newError("create_service", ErrValidation, "default label cannot be empty", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &sharingServiceImpl{
		tx:     tx,
		stores: stores,
		opts:   opts,
		logger: logger.With("component", "sharing_service"),
	}, nil
}

// Publish implements SharingService.
func (s *sharingServiceImpl) Publish(ctx context.Context, userID, itemID uuid.UUID) (*domain.PublishedPost, error) {
	const op = "publish"
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, newError(op, ErrNotFound, "user not found", err)
		}
		return nil, persistenceError(op, "failed to load user", err)
	}
	if !user.HasPublicAlias() {
		return nil, newError(op, ErrNoPublicAlias, "user has no public alias", nil)
	}

	item, err := s.stores.Items.GetByID(ctx, itemID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, newError(op, ErrNotFound, "content item not found", err)
		}
		return nil, persistenceError(op, "failed to load content item", err)
	}
	if item.UserID != userID {
		return nil, newError(op, ErrNotOwner, "content item belongs to another user", nil)
	}

	if _, err := s.stores.Posts.GetByOriginItem(ctx, itemID); err == nil {
		return nil, newError(op, ErrAlreadyShared, "content item already has a post", nil)
	} else if !store.IsNotFoundError(err) {
		return nil, persistenceError(op, "failed to check existing post", err)
	}

	var post *domain.PublishedPost
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *store.Stores) error {
		// Re-read inside the transaction so the snapshot matches what is committed.
		current, err := tx.Items.GetByID(ctx, itemID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return newError(op, ErrNotFound, "content item not found", err)
			}
			return err
		}

		collections, err := tx.Items.ListCollections(ctx, itemID)
		if err != nil {
			return err
		}
		titles := make([]string, 0, len(collections))
		for _, c := range collections {
			titles = append(titles, c.Title)
		}
		label := domain.ResolvePostLabel(titles, s.opts.ReservedTitles, s.opts.DefaultLabel)

		post, err = domain.NewPublishedPost(current, user.PublicAlias, label)
		if err != nil {
			return newError(op, ErrValidation, "invalid post", err)
		}

		if err := tx.Posts.Create(ctx, post); err != nil {
			if store.IsDuplicateError(err) {
				return newError(op, ErrAlreadyShared, "content item already has a post", err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if KindOf(err) == KindInternal {
			log.ErrorContext(ctx, "publish transaction failed",
				slog.String("item_id", itemID.String()),
				slog.String("error", err.Error()))
		}
		return nil, persistenceError(op, "failed to publish content item", err)
	}

	log.InfoContext(ctx, "content item published",
		slog.String("item_id", itemID.String()),
		slog.String("post_id", post.ID.String()),
		slog.String("label", post.Label))
	return post, nil
}
