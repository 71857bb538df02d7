package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
)

// StreakStore defines the interface for streak persistence.
type StreakStore interface {
	// Get returns the stored streak for userID.
	// Returns ErrStreakNotFound when the user has no row yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error)

	// CompareAndSwap stores next only if the stored last activity still equals
	// prevLast (nil meaning no row exists). It reports whether the swap happened.
	CompareAndSwap(ctx context.Context, next *domain.StreakState, prevLast *time.Time) (bool, error)
}
