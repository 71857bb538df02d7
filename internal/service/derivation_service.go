package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/generation"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/store"
)

// OwnerKind names the table an artifact is cached on.
type OwnerKind string

// Artifact owners.
const (
	OwnerContentItem   OwnerKind = "content_item"
	OwnerPublishedPost OwnerKind = "published_post"
)

// DerivationRequest identifies the artifact to fetch or generate.
type DerivationRequest struct {
	// CallerID is the requesting user. Content items may only be derived by their owner.
	CallerID  uuid.UUID
	OwnerKind OwnerKind
	// EntityID may be uuid.Nil or unknown, in which case the result is never cached.
	EntityID   uuid.UUID
	Variant    domain.ArtifactVariant
	SourceText string
	Language   string
}

// DerivationService returns cached artifacts and generates missing ones exactly once per entity.
type DerivationService interface {
	GetOrGenerate(ctx context.Context, req DerivationRequest) (domain.Artifact, error)
}

type derivationServiceImpl struct {
	items     store.ContentItemStore
	posts     store.PostStore
	generator generation.ArtifactGenerator
	logger    *slog.Logger
}

// NewDerivationService creates a DerivationService. It returns an error if any
// required dependency is nil.
func NewDerivationService(
	stores *store.Stores,
	generator generation.ArtifactGenerator,
	logger *slog.Logger,
) (DerivationService, error) {
	if stores == nil || stores.Items == nil || stores.Posts == nil {
		return nil, newError("create_service", ErrValidation, "item and post stores are required", nil)
	}
	if generator == nil {
		return nil, newError("create_service", ErrValidation, "generator cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &derivationServiceImpl{
		items:     stores.Items,
		posts:     stores.Posts,
		generator: generator,
		logger:    logger.With("component", "derivation_service"),
	}, nil
}

// cacheTarget is the persisted entity an artifact belongs to.
type cacheTarget struct {
	artifacts domain.Artifacts
	language  string
	save      func(ctx context.Context, v domain.ArtifactVariant, a domain.Artifact) (bool, error)
	reload    func(ctx context.Context) (domain.Artifacts, error)
}

// GetOrGenerate implements DerivationService.
func (s *derivationServiceImpl) GetOrGenerate(ctx context.Context, req DerivationRequest) (domain.Artifact, error) {
	const op = "get_or_generate"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !req.Variant.Valid() {
		return domain.Artifact{}, newError(op, ErrValidation, "unknown artifact variant", domain.ErrInvalidVariant)
	}
	text := strings.TrimSpace(req.SourceText)
	if text == "" {
		return domain.Artifact{}, newError(op, ErrValidation, "source text cannot be empty", nil)
	}

	target, err := s.lookup(ctx, req)
	if err != nil {
		return domain.Artifact{}, err
	}

	if target != nil {
		if art, ok := target.artifacts.Get(req.Variant); ok {
			log.DebugContext(ctx, "artifact cache hit",
				slog.String("owner_kind", string(req.OwnerKind)),
				slog.String("entity_id", req.EntityID.String()),
				slog.String("variant", string(req.Variant)))
			return art, nil
		}
	}

	language := req.Language
	if language == "" && target != nil {
		language = target.language
	}

	art, err := s.generator.Generate(ctx, generation.Request{
		Variant:  req.Variant,
		Text:     text,
		Language: language,
	})
	if err != nil {
		if errors.Is(err, generation.ErrEmptyInput) || errors.Is(err, domain.ErrInvalidLanguage) {
			return domain.Artifact{}, newError(op, ErrValidation, "invalid generation input", err)
		}
		log.WarnContext(ctx, "artifact generation failed",
			slog.String("variant", string(req.Variant)),
			slog.String("error", err.Error()))
		return domain.Artifact{}, newError(op, ErrExternalProvider, "artifact generation failed", err)
	}

	if target == nil {
		log.DebugContext(ctx, "generated ephemeral artifact",
			slog.String("variant", string(req.Variant)))
		return art, nil
	}

	written, err := target.save(ctx, req.Variant, art)
	if err != nil {
		log.ErrorContext(ctx, "failed to cache artifact",
			slog.String("entity_id", req.EntityID.String()),
			slog.String("variant", string(req.Variant)),
			slog.String("error", err.Error()))
		return domain.Artifact{}, persistenceError(op, "failed to cache artifact", err)
	}
	if !written {
		// A concurrent request cached this variant first; the stored value wins.
		current, err := target.reload(ctx)
		if err != nil {
			return domain.Artifact{}, persistenceError(op, "failed to reload artifacts", err)
		}
		if stored, ok := current.Get(req.Variant); ok {
			return stored, nil
		}
	}

	log.InfoContext(ctx, "artifact generated and cached",
		slog.String("owner_kind", string(req.OwnerKind)),
		slog.String("entity_id", req.EntityID.String()),
		slog.String("variant", string(req.Variant)))
	return art, nil
}

// lookup returns the cache target, or nil when the entity does not exist.
func (s *derivationServiceImpl) lookup(ctx context.Context, req DerivationRequest) (*cacheTarget, error) {
	const op = "get_or_generate"
	if req.EntityID == uuid.Nil {
		return nil, nil
	}

	switch req.OwnerKind {
	case OwnerContentItem:
		item, err := s.items.GetByID(ctx, req.EntityID)
		if store.IsNotFoundError(err) {
			return nil, nil
		}
		if err != nil {
			return nil, persistenceError(op, "failed to load content item", err)
		}
		if req.CallerID != uuid.Nil && item.UserID != req.CallerID {
			return nil, newError(op, ErrNotOwner, "content item belongs to another user", nil)
		}
		return &cacheTarget{
			artifacts: item.Artifacts,
			language:  item.Language,
			save: func(ctx context.Context, v domain.ArtifactVariant, a domain.Artifact) (bool, error) {
				return s.items.SetArtifactIfEmpty(ctx, item.ID, v, a)
			},
			reload: func(ctx context.Context) (domain.Artifacts, error) {
				fresh, err := s.items.GetByID(ctx, item.ID)
				if err != nil {
					return nil, err
				}
				return fresh.Artifacts, nil
			},
		}, nil

	case OwnerPublishedPost:
		post, err := s.posts.GetByID(ctx, req.EntityID)
		if store.IsNotFoundError(err) {
			return nil, nil
		}
		if err != nil {
			return nil, persistenceError(op, "failed to load published post", err)
		}
		return &cacheTarget{
			artifacts: post.Artifacts,
			language:  post.Language,
			save: func(ctx context.Context, v domain.ArtifactVariant, a domain.Artifact) (bool, error) {
				return s.posts.SetArtifactIfEmpty(ctx, post.ID, v, a)
			},
			reload: func(ctx context.Context) (domain.Artifacts, error) {
				fresh, err := s.posts.GetByID(ctx, post.ID)
				if err != nil {
					return nil, err
				}
				return fresh.Artifacts, nil
			},
		}, nil

	default:
		return nil, newError(op, ErrValidation, "unknown owner kind", nil)
	}
}
