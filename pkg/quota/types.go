package quota

import (
	"context"
	"errors"
	"time"
)

// DayLayout is the calendar-day format used for usage records.
const DayLayout = "2006-01-02"

// ErrClosed is returned by store operations after Close.
var ErrClosed = errors.New("quota store closed")

// Outcome is the result of a quota check.
type Outcome string

const (
	// Allowed means the request fits within today's limit and was counted.
	Allowed Outcome = "allowed"

	// Denied means today's limit is exhausted. Nothing was counted.
	Denied Outcome = "denied"
)

// UsageRecord is the usage of one user on one UTC calendar day.
// A stored record always has 1 <= Count <= the store's daily limit.
type UsageRecord struct {
	UserID string
	Date   string
	Count  int
}

// Decision is returned by CheckAndConsume.
type Decision struct {
	Outcome Outcome

	// Used is the user's count for the day after this decision.
	Used int

	// Limit is the configured daily limit.
	Limit int

	// ResetAt is the next UTC midnight, when the count starts over.
	ResetAt time.Time
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == Allowed
}

// Remaining returns how many more requests the user may make today.
func (d Decision) Remaining() int {
	if d.Used >= d.Limit {
		return 0
	}
	return d.Limit - d.Used
}

// Store tracks per-user daily usage.
//
// Implementations must make CheckAndConsume atomic: for N concurrent calls
// for the same user and day on a fresh record, exactly min(N, limit) are
// allowed. Store methods never call out to other services.
type Store interface {
	// CheckAndConsume counts one request for userID on the UTC day of now,
	// or denies it if the limit is reached.
	CheckAndConsume(ctx context.Context, userID string, now time.Time) (Decision, error)

	// Get returns the stored record for userID, if any.
	Get(ctx context.Context, userID string) (UsageRecord, bool, error)

	// Reset removes the record for userID.
	Reset(ctx context.Context, userID string) error

	// Sweep removes every record dated strictly before the given day
	// (DayLayout) and returns how many were removed.
	Sweep(ctx context.Context, before string) (int, error)

	// Len returns the number of stored records.
	Len() int

	// Close releases resources held by the store.
	Close() error
}

// Day returns the UTC calendar day of t in DayLayout.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// NextReset returns the UTC midnight following t.
func NextReset(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
