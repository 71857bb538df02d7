package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/domain"
	"github.com/phrazzld/glossa-api/internal/platform/logger"
	"github.com/phrazzld/glossa-api/internal/store"
)

// PostgresStreakStore implements the store.StreakStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStreakStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStreakStore creates a new PostgreSQL implementation of the StreakStore interface.
func NewPostgresStreakStore(db store.DBTX, logger *slog.Logger) *PostgresStreakStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStreakStore{
		db:     db,
		logger: logger.With(slog.String("component", "streak_store")),
	}
}

// Ensure PostgresStreakStore implements store.StreakStore interface
var _ store.StreakStore = (*PostgresStreakStore)(nil)

// WithTx returns a store bound to tx.
func (s *PostgresStreakStore) WithTx(tx *sql.Tx) *PostgresStreakStore {
	return &PostgresStreakStore{db: tx, logger: s.logger}
}

// Get implements store.StreakStore.Get
func (s *PostgresStreakStore) Get(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error) {
	query := `
		SELECT user_id, current_streak, max_streak, last_activity_date, updated_at
		FROM streaks
		WHERE user_id = $1
	`

	var st domain.StreakState
	var last sql.NullTime
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&st.UserID,
		&st.CurrentStreak,
		&st.MaxStreak,
		&last,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStreakNotFound
		}
		return nil, MapError(err)
	}

	if last.Valid {
		t := last.Time.UTC()
		st.LastActivityDate = &t
	}
	return &st, nil
}

// CompareAndSwap implements store.StreakStore.CompareAndSwap
func (s *PostgresStreakStore) CompareAndSwap(
	ctx context.Context,
	next *domain.StreakState,
	prevLast *time.Time,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var last sql.NullTime
	if next.LastActivityDate != nil {
		last = sql.NullTime{Time: *next.LastActivityDate, Valid: true}
	}

	var (
		result sql.Result
		err    error
	)
	if prevLast == nil {
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO streaks (user_id, current_streak, max_streak, last_activity_date, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE
			SET current_streak = EXCLUDED.current_streak,
				max_streak = EXCLUDED.max_streak,
				last_activity_date = EXCLUDED.last_activity_date,
				updated_at = EXCLUDED.updated_at
			WHERE streaks.last_activity_date IS NULL
		`, next.UserID, next.CurrentStreak, next.MaxStreak, last, next.UpdatedAt)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE streaks
			SET current_streak = $2, max_streak = $3, last_activity_date = $4, updated_at = $5
			WHERE user_id = $1 AND last_activity_date = $6
		`, next.UserID, next.CurrentStreak, next.MaxStreak, last, next.UpdatedAt, *prevLast)
	}
	if err != nil {
		log.Error("failed to store streak",
			slog.String("error", err.Error()),
			slog.String("user_id", next.UserID.String()))
		return false, wrapError(entityStreak, "compare_and_swap", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		log.Debug("streak changed concurrently",
			slog.String("user_id", next.UserID.String()))
	}
	return rows > 0, nil
}
