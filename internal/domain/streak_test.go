package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadTimezone(name)
	require.NoError(t, err)
	return loc
}

func TestLocalDateAddDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   LocalDate
		n    int
		want LocalDate
	}{
		{"next day", LocalDate{2026, time.May, 3}, 1, LocalDate{2026, time.May, 4}},
		{"previous day across month", LocalDate{2026, time.March, 1}, -1, LocalDate{2026, time.February, 28}},
		{"leap day", LocalDate{2028, time.February, 28}, 1, LocalDate{2028, time.February, 29}},
		{"across year", LocalDate{2025, time.December, 31}, 1, LocalDate{2026, time.January, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.in.AddDays(tt.n))
		})
	}
}

func TestDateInUsesLocalCalendarDay(t *testing.T) {
	t.Parallel()

	tokyo := mustLoad(t, "Asia/Tokyo")
	// 2026-01-10 20:00 UTC is already 2026-01-11 in Tokyo.
	instant := time.Date(2026, time.January, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, LocalDate{2026, time.January, 10}, DateIn(instant, time.UTC))
	assert.Equal(t, LocalDate{2026, time.January, 11}, DateIn(instant, tokyo))
	assert.Equal(t, "2026-01-11", DateIn(instant, tokyo).String())
}

func TestLoadTimezone(t *testing.T) {
	t.Parallel()

	loc, err := LoadTimezone("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadTimezone("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestAdvanceStreak_FirstActivity(t *testing.T) {
	t.Parallel()

	prev := NewStreakState(uuid.New())
	now := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

	next, update := AdvanceStreak(prev, now, time.UTC)

	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 1, next.MaxStreak)
	require.NotNil(t, next.LastActivityDate)
	assert.True(t, next.LastActivityDate.Equal(now))
	assert.True(t, update.IsNewStreak)
	assert.False(t, update.WasStreakBroken)
	assert.Nil(t, prev.LastActivityDate, "previous state must not be mutated")
}

func TestAdvanceStreak_Scenario(t *testing.T) {
	t.Parallel()

	loc := mustLoad(t, "Europe/Berlin")
	dayD := time.Date(2026, time.April, 14, 18, 0, 0, 0, loc)
	state := &StreakState{
		UserID:           uuid.New(),
		CurrentStreak:    3,
		MaxStreak:        3,
		LastActivityDate: &dayD,
	}

	// Consecutive day.
	dayD1 := time.Date(2026, time.April, 15, 8, 0, 0, 0, loc)
	state, update := AdvanceStreak(state, dayD1, loc)
	assert.Equal(t, 4, update.CurrentStreak)
	assert.Equal(t, 4, update.MaxStreak)
	assert.True(t, update.IsNewStreak)
	assert.False(t, update.WasStreakBroken)

	// Later the same day.
	laterD1 := time.Date(2026, time.April, 15, 22, 30, 0, 0, loc)
	same, update := AdvanceStreak(state, laterD1, loc)
	assert.Same(t, state, same)
	assert.Equal(t, 4, update.CurrentStreak)
	assert.False(t, update.IsNewStreak)

	// Gap of three days.
	dayD4 := time.Date(2026, time.April, 18, 12, 0, 0, 0, loc)
	state, update = AdvanceStreak(state, dayD4, loc)
	assert.Equal(t, 1, update.CurrentStreak)
	assert.Equal(t, 4, update.MaxStreak)
	assert.True(t, update.IsNewStreak)
	assert.True(t, update.WasStreakBroken)
	assert.Equal(t, 1, state.CurrentStreak)
}

func TestAdvanceStreak_AcrossDSTTransition(t *testing.T) {
	t.Parallel()

	ny := mustLoad(t, "America/New_York")
	// Clocks spring forward on 2026-03-08; that local day is only 23 hours long.
	last := time.Date(2026, time.March, 7, 23, 30, 0, 0, ny)
	state := &StreakState{UserID: uuid.New(), CurrentStreak: 5, MaxStreak: 9, LastActivityDate: &last}

	now := time.Date(2026, time.March, 8, 23, 45, 0, 0, ny)
	next, update := AdvanceStreak(state, now, ny)

	assert.Equal(t, 6, next.CurrentStreak)
	assert.Equal(t, 9, next.MaxStreak)
	assert.True(t, update.IsNewStreak)
	assert.False(t, update.WasStreakBroken)
}

func TestAdvanceStreak_SameInstantDifferentZones(t *testing.T) {
	t.Parallel()

	tokyo := mustLoad(t, "Asia/Tokyo")
	// 14:00 UTC on Jan 10 is 23:00 in Tokyo; 16:00 UTC is already Jan 11 there.
	last := time.Date(2026, time.January, 10, 14, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.January, 10, 16, 0, 0, 0, time.UTC)
	state := &StreakState{UserID: uuid.New(), CurrentStreak: 2, MaxStreak: 2, LastActivityDate: &last}

	_, utcUpdate := AdvanceStreak(state, now, time.UTC)
	assert.False(t, utcUpdate.IsNewStreak)

	_, tokyoUpdate := AdvanceStreak(state, now, tokyo)
	assert.True(t, tokyoUpdate.IsNewStreak)
	assert.Equal(t, 3, tokyoUpdate.CurrentStreak)
}

func TestAdvanceStreak_BrokenFlagRequiresPriorStreak(t *testing.T) {
	t.Parallel()

	last := time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC)
	state := &StreakState{UserID: uuid.New(), CurrentStreak: 0, MaxStreak: 4, LastActivityDate: &last}

	_, update := AdvanceStreak(state, last.AddDate(0, 0, 5), time.UTC)
	assert.Equal(t, 1, update.CurrentStreak)
	assert.False(t, update.WasStreakBroken)
}
