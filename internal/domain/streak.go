package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LocalDate is a calendar day in some timezone. Comparable with ==.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateIn returns the calendar day t falls on in loc.
func DateIn(t time.Time, loc *time.Location) LocalDate {
	y, m, d := t.In(loc).Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// AddDays returns the calendar day n days after d. Arithmetic happens at noon UTC,
// so DST transitions in the user's zone never shift the result.
func (d LocalDate) AddDays(n int) LocalDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC)
	y, m, day := t.Date()
	return LocalDate{Year: y, Month: m, Day: day}
}

// String formats the date as YYYY-MM-DD.
func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// LoadTimezone resolves an IANA timezone name. Empty means UTC.
func LoadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// StreakState holds the persisted streak counters for one user.
type StreakState struct {
	UserID           uuid.UUID  `json:"user_id"`
	CurrentStreak    int        `json:"current_streak"`
	MaxStreak        int        `json:"max_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewStreakState returns the empty state for a user with no recorded activity.
func NewStreakState(userID uuid.UUID) *StreakState {
	return &StreakState{UserID: userID}
}

// StreakUpdate is the outcome of recording one activity.
type StreakUpdate struct {
	CurrentStreak    int        `json:"current_streak"`
	MaxStreak        int        `json:"max_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	IsNewStreak      bool       `json:"is_new_streak"`
	WasStreakBroken  bool       `json:"was_streak_broken"`
}

// AdvanceStreak applies one activity at now, judged by calendar days in loc.
// It returns the next state and whether anything changed. prev is not modified.
func AdvanceStreak(prev *StreakState, now time.Time, loc *time.Location) (*StreakState, StreakUpdate) {
	today := DateIn(now, loc)

	if prev.LastActivityDate != nil && DateIn(*prev.LastActivityDate, loc) == today {
		return prev, StreakUpdate{
			CurrentStreak:    prev.CurrentStreak,
			MaxStreak:        prev.MaxStreak,
			LastActivityDate: prev.LastActivityDate,
		}
	}

	next := &StreakState{
		UserID:    prev.UserID,
		MaxStreak: prev.MaxStreak,
		UpdatedAt: now.UTC(),
	}
	broken := false

	switch {
	case prev.LastActivityDate == nil:
		next.CurrentStreak = 1
	case DateIn(*prev.LastActivityDate, loc) == today.AddDays(-1):
		next.CurrentStreak = prev.CurrentStreak + 1
	default:
		next.CurrentStreak = 1
		broken = prev.CurrentStreak > 0
	}

	if next.CurrentStreak > next.MaxStreak {
		next.MaxStreak = next.CurrentStreak
	}
	last := now.UTC()
	next.LastActivityDate = &last

	return next, StreakUpdate{
		CurrentStreak:    next.CurrentStreak,
		MaxStreak:        next.MaxStreak,
		LastActivityDate: next.LastActivityDate,
		IsNewStreak:      true,
		WasStreakBroken:  broken,
	}
}
