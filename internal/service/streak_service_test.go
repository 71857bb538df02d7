package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/phrazzld/glossa-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRecordActivity_Progression(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "alice", "es")
	start := f.clock.Now()

	steps := []struct {
		name    string
		at      time.Time
		current int
		max     int
		isNew   bool
		broken  bool
	}{
		{"first activity", start, 1, 1, true, false},
		{"same day", start.Add(6 * time.Hour), 1, 1, false, false},
		{"next day", start.Add(24 * time.Hour), 2, 2, true, false},
		{"day after", start.Add(48 * time.Hour), 3, 3, true, false},
		{"after a gap", start.Add(5 * 24 * time.Hour), 1, 3, true, true},
		{"resumed", start.Add(6 * 24 * time.Hour), 2, 3, true, false},
	}

	for _, step := range steps {
		f.clock.Set(step.at)
		got, err := f.streaks.RecordActivity(ctx, user.ID, "")
		require.NoError(t, err, step.name)
		assert.Equal(t, step.current, got.CurrentStreak, step.name)
		assert.Equal(t, step.max, got.MaxStreak, step.name)
		assert.Equal(t, step.isNew, got.IsNewStreak, step.name)
		assert.Equal(t, step.broken, got.WasStreakBroken, step.name)
	}

	stored := f.db.Streak(user.ID)
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.CurrentStreak)
	assert.Equal(t, 3, stored.MaxStreak)
}

func TestRecordActivity_UsesCallerTimezone(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	morning := time.Date(2026, time.May, 4, 10, 0, 0, 0, time.UTC)
	// 23:30 UTC is still May 4 in UTC but already May 5 in Tokyo.
	night := time.Date(2026, time.May, 4, 23, 30, 0, 0, time.UTC)

	f := newFixture(t)
	user := f.user(t, "alice", "ja")

	f.clock.Set(morning)
	_, err := f.streaks.RecordActivity(ctx, user.ID, "Asia/Tokyo")
	require.NoError(t, err)
	f.clock.Set(night)
	got, err := f.streaks.RecordActivity(ctx, user.ID, "Asia/Tokyo")
	require.NoError(t, err)
	assert.True(t, got.IsNewStreak)
	assert.Equal(t, 2, got.CurrentStreak)

	other := f.user(t, "bob", "es")
	f.clock.Set(morning)
	_, err = f.streaks.RecordActivity(ctx, other.ID, "UTC")
	require.NoError(t, err)
	f.clock.Set(night)
	got, err = f.streaks.RecordActivity(ctx, other.ID, "UTC")
	require.NoError(t, err)
	assert.False(t, got.IsNewStreak)
	assert.Equal(t, 1, got.CurrentStreak)
}

func TestRecordActivity_ConcurrentSameDay(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	user := f.user(t, "alice", "es")

	var advanced atomic.Int32
	var g errgroup.Group
	for range 16 {
		g.Go(func() error {
			got, err := f.streaks.RecordActivity(context.Background(), user.ID, "")
			if err != nil {
				return err
			}
			if got.IsNewStreak {
				advanced.Add(1)
			}
			if got.CurrentStreak != 1 {
				return errors.New("unexpected streak value")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), advanced.Load())
	assert.Equal(t, 1, f.db.Streak(user.ID).CurrentStreak)
}

func TestRecordActivity_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("invalid timezone", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user := f.user(t, "alice", "es")
		_, err := f.streaks.RecordActivity(ctx, user.ID, "Mars/Olympus_Mons")
		assert.ErrorIs(t, err, service.ErrValidation)
		assert.Nil(t, f.db.Streak(user.ID))
	})

	t.Run("empty user", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.streaks.RecordActivity(ctx, uuid.Nil, "")
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		user := f.user(t, "alice", "es")
		f.db.FailOn("Streaks.CompareAndSwap", errors.New("connection refused"))
		_, err := f.streaks.RecordActivity(ctx, user.ID, "")
		assert.ErrorIs(t, err, service.ErrPersistence)
		assert.Equal(t, service.KindPersistence, service.KindOf(err))
	})
}
