package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/store"
)

// Deletion plan step names.
const (
	StepDeleteChildren        = "delete-children"
	StepDeletePost            = "delete-post"
	StepReleaseOrigin         = "release-origin"
	StepDisconnectCollections = "disconnect-collections"
	StepDeleteItem            = "delete-item"
)

// DeletionImpact describes what deleting a content item would remove.
type DeletionImpact struct {
	CanDelete     bool `json:"can_delete"`
	IsPublished   bool `json:"is_published"`
	ImportCount   int  `json:"import_count"`
	ImporterCount int  `json:"importer_count"`
}

// DeletionService deletes content items together with everything that depends on them.
type DeletionService interface {
	// CheckImpact reports the consequences of deleting itemID without changing anything.
	CheckImpact(ctx context.Context, userID, itemID uuid.UUID) (*DeletionImpact, error)

	// DeleteWithCascade deletes itemID, its post and every imported copy of that post in
	// one transaction. memberships lists extra collections the client shows the item in;
	// those owned by userID are touched along with the stored memberships.
	DeleteWithCascade(ctx context.Context, userID, itemID uuid.UUID, memberships []uuid.UUID) error
}

type deletionServiceImpl struct {
	tx     store.TxManager
	stores *store.Stores
	logger *slog.Logger
}

// NewDeletionService creates a DeletionService.
func NewDeletionService(tx store.TxManager, stores *store.Stores, logger *slog.Logger) (DeletionService, error) {
	if tx == nil {
		return nil, newError("create_service", ErrValidation, "transaction manager cannot be nil", nil)
	}
	if stores == nil {
		return nil, newError("create_service", ErrValidation, "stores cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &deletionServiceImpl{
		tx:     tx,
		stores: stores,
		logger: logger.With("component", "deletion_service"),
	}, nil
}

// CheckImpact implements DeletionService. Callers other than the owner only learn
// that they cannot delete the item.
func (s *deletionServiceImpl) CheckImpact(ctx context.Context, userID, itemID uuid.UUID) (*DeletionImpact, error) {
	const op = "check_impact"

	item, err := s.stores.Items.GetByID(ctx, itemID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, newError(op, ErrNotFound, "content item not found", err)
		}
		return nil, persistenceError(op, "failed to load content item", err)
	}
	if item.UserID != userID {
		return &DeletionImpact{CanDelete: false}, nil
	}

	impact := &DeletionImpact{CanDelete: true}
	post, err := s.stores.Posts.GetByOriginItem(ctx, itemID)
	if store.IsNotFoundError(err) {
		return impact, nil
	}
	if err != nil {
		return nil, persistenceError(op, "failed to load post", err)
	}

	importers, err := s.stores.Imports.CountImporters(ctx, post.ID)
	if err != nil {
		return nil, persistenceError(op, "failed to count importers", err)
	}

	impact.IsPublished = true
	impact.ImportCount = post.ImportCount
	impact.ImporterCount = importers
	return impact, nil
}

// deletionStep is one named unit of the plan.
type deletionStep struct {
	name string
	run  func(ctx context.Context, tx *store.Stores) error
}

// DeleteWithCascade implements DeletionService.
func (s *deletionServiceImpl) DeleteWithCascade(
	ctx context.Context,
	userID, itemID uuid.UUID,
	memberships []uuid.UUID,
) error {
	const op = "delete_with_cascade"
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.stores.Items.GetByID(ctx, itemID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return newError(op, ErrNotFound, "content item not found", err)
		}
		return persistenceError(op, "failed to load content item", err)
	}
	if item.UserID != userID {
		return newError(op, ErrNotOwner, "content item belongs to another user", nil)
	}

	var executed []string
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *store.Stores) error {
		executed = executed[:0]

		plan, err := s.plan(ctx, tx, item, memberships)
		if err != nil {
			return err
		}
		for _, step := range plan {
			if err := step.run(ctx, tx); err != nil {
				return newError(op, ErrPersistence, fmt.Sprintf("step %s failed", step.name), err)
			}
			executed = append(executed, step.name)
		}
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "cascade deletion rolled back",
			slog.String("item_id", itemID.String()),
			slog.Any("completed_steps", executed),
			slog.String("error", err.Error()))
		return persistenceError(op, "failed to delete content item", err)
	}

	log.InfoContext(ctx, "content item deleted",
		slog.String("item_id", itemID.String()),
		slog.Any("steps", executed))
	return nil
}

// plan builds the ordered steps for deleting item. Foreign keys from items to posts
// are RESTRICT, so imported copies must go before the post and the post before the item.
func (s *deletionServiceImpl) plan(
	ctx context.Context,
	tx *store.Stores,
	item *domain.ContentItem,
	memberships []uuid.UUID,
) ([]deletionStep, error) {
	post, err := tx.Posts.GetByOriginItem(ctx, item.ID)
	if err != nil && !store.IsNotFoundError(err) {
		return nil, err
	}

	touched, err := s.collectionsToTouch(ctx, tx, item, memberships)
	if err != nil {
		return nil, err
	}

	var steps []deletionStep
	if post != nil {
		steps = append(steps,
			deletionStep{StepDeleteChildren, func(ctx context.Context, tx *store.Stores) error {
				return deleteImportedCopies(ctx, tx, post.ID)
			}},
			deletionStep{StepDeletePost, func(ctx context.Context, tx *store.Stores) error {
				return tx.Posts.Delete(ctx, post.ID)
			}},
		)
	}

	steps = append(steps,
		deletionStep{StepReleaseOrigin, func(ctx context.Context, tx *store.Stores) error {
			if !item.IsImported() || item.OriginPostID == nil {
				return nil
			}
			return tx.Posts.DecrementImportCount(ctx, *item.OriginPostID)
		}},
		deletionStep{StepDisconnectCollections, func(ctx context.Context, tx *store.Stores) error {
			if err := tx.Items.RemoveFromCollections(ctx, item.ID); err != nil {
				return err
			}
			return tx.Collections.Touch(ctx, touched...)
		}},
		deletionStep{StepDeleteItem, func(ctx context.Context, tx *store.Stores) error {
			return tx.Items.Delete(ctx, item.ID)
		}},
	)
	return steps, nil
}

// collectionsToTouch merges the stored memberships with the caller-supplied ones
// that belong to the item's owner.
func (s *deletionServiceImpl) collectionsToTouch(
	ctx context.Context,
	tx *store.Stores,
	item *domain.ContentItem,
	memberships []uuid.UUID,
) ([]uuid.UUID, error) {
	stored, err := tx.Items.ListCollections(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(stored)+len(memberships))
	out := make([]uuid.UUID, 0, len(stored)+len(memberships))
	for _, c := range stored {
		if _, ok := seen[c.ID]; !ok {
			seen[c.ID] = struct{}{}
			out = append(out, c.ID)
		}
	}
	for _, id := range memberships {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		col, err := tx.Collections.GetByID(ctx, id)
		if store.IsNotFoundError(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if col.UserID != item.UserID {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// deleteImportedCopies removes every imported copy of postID, and recursively the
// posts published from those copies. Import records go with them by cascade, and
// the importers' collections are touched.
func deleteImportedCopies(ctx context.Context, tx *store.Stores, postID uuid.UUID) error {
	children, err := tx.Items.ListByOriginPost(ctx, postID)
	if err != nil {
		return err
	}

	var touched []uuid.UUID
	for _, child := range children {
		cols, err := tx.Items.ListCollections(ctx, child.ID)
		if err != nil {
			return err
		}
		for _, c := range cols {
			touched = append(touched, c.ID)
		}
		// An importer may have published their copy in turn.
		childPost, err := tx.Posts.GetByOriginItem(ctx, child.ID)
		switch {
		case err == nil:
			if err := deleteImportedCopies(ctx, tx, childPost.ID); err != nil {
				return err
			}
			if err := tx.Posts.Delete(ctx, childPost.ID); err != nil {
				return err
			}
		case !store.IsNotFoundError(err):
			return err
		}
		if err := tx.Items.Delete(ctx, child.ID); err != nil {
			return err
		}
	}
	if len(touched) == 0 {
		return nil
	}
	return tx.Collections.Touch(ctx, touched...)
}
