package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/store"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// StreakService tracks consecutive days of activity per user.
type StreakService interface {
	// RecordActivity records one activity now, judged by calendar days in the
	// IANA timezone (empty means UTC). Repeated calls on the same day are no-ops.
	RecordActivity(ctx context.Context, userID uuid.UUID, timezone string) (*domain.StreakUpdate, error)
}

type streakServiceImpl struct {
	streaks store.StreakStore
	clock   Clock
	logger  *slog.Logger
}

// NewStreakService creates a StreakService. A nil clock uses time.Now.
func NewStreakService(streaks store.StreakStore, clock Clock, logger *slog.Logger) (StreakService, error) {
	if streaks == nil {
		return nil, newError("create_service", ErrValidation, "streak store cannot be nil", nil)
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &streakServiceImpl{
		streaks: streaks,
		clock:   clock,
		logger:  logger.With("component", "streak_service"),
	}, nil
}

// RecordActivity implements StreakService.
func (s *streakServiceImpl) RecordActivity(
	ctx context.Context,
	userID uuid.UUID,
	timezone string,
) (*domain.StreakUpdate, error) {
	const op = "record_activity"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, newError(op, ErrValidation, "user ID cannot be empty", nil)
	}
	loc, err := domain.LoadTimezone(timezone)
	if err != nil {
		return nil, newError(op, ErrValidation, "invalid timezone", err)
	}

	prev, err := s.load(ctx, userID)
	if err != nil {
		return nil, persistenceError(op, "failed to load streak", err)
	}

	// Postgres keeps microseconds; truncating keeps the stored value comparable for the next swap.
	now := s.clock().UTC().Truncate(time.Microsecond)
	next, update := domain.AdvanceStreak(prev, now, loc)
	if !update.IsNewStreak {
		return &update, nil
	}

	swapped, err := s.streaks.CompareAndSwap(ctx, next, prev.LastActivityDate)
	if err != nil {
		return nil, persistenceError(op, "failed to store streak", err)
	}
	if swapped {
		log.DebugContext(ctx, "streak advanced",
			slog.String("user_id", userID.String()),
			slog.Int("current_streak", update.CurrentStreak),
			slog.Bool("was_broken", update.WasStreakBroken))
		return &update, nil
	}

	// Another request recorded activity first; report what it stored.
	stored, err := s.load(ctx, userID)
	if err != nil {
		return nil, persistenceError(op, "failed to reload streak", err)
	}
	log.DebugContext(ctx, "streak updated concurrently",
		slog.String("user_id", userID.String()))

	return &domain.StreakUpdate{
		CurrentStreak:    stored.CurrentStreak,
		MaxStreak:        stored.MaxStreak,
		LastActivityDate: stored.LastActivityDate,
	}, nil
}

func (s *streakServiceImpl) load(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error) {
	st, err := s.streaks.Get(ctx, userID)
	if errors.Is(err, store.ErrStreakNotFound) {
		return domain.NewStreakState(userID), nil
	}
	return st, err
}
