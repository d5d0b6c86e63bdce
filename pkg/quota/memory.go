package quota

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. All data is lost when the
// process exits.
//
// A single mutex serializes every operation, so the check and the increment
// in CheckAndConsume happen as one step.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]UsageRecord
	limit   int
	closed  bool
}

// NewMemoryStore creates an empty store enforcing dailyLimit requests per
// user per UTC day.
func NewMemoryStore(dailyLimit int) (*MemoryStore, error) {
	if dailyLimit < 1 {
		return nil, fmt.Errorf("daily limit must be at least 1, got %d", dailyLimit)
	}
	return &MemoryStore{
		records: make(map[string]UsageRecord),
		limit:   dailyLimit,
	}, nil
}

// Limit returns the configured daily limit.
func (s *MemoryStore) Limit() int {
	return s.limit
}

// CheckAndConsume implements Store.
func (s *MemoryStore) CheckAndConsume(ctx context.Context, userID string, now time.Time) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	day := Day(now)
	decision := Decision{Limit: s.limit, ResetAt: NextReset(now)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Decision{}, ErrClosed
	}

	rec, ok := s.records[userID]
	switch {
	case !ok || rec.Date != day:
		// No record and a stale record are the same thing.
		rec = UsageRecord{UserID: userID, Date: day, Count: 1}
		s.records[userID] = rec
		decision.Outcome = Allowed
	case rec.Count >= s.limit:
		decision.Outcome = Denied
	default:
		rec.Count++
		s.records[userID] = rec
		decision.Outcome = Allowed
	}

	decision.Used = rec.Count
	return decision, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, userID string) (UsageRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return UsageRecord{}, false, ErrClosed
	}
	rec, ok := s.records[userID]
	return rec, ok, nil
}

// Reset implements Store.
func (s *MemoryStore) Reset(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	delete(s.records, userID)
	return nil
}

// Sweep implements Store. Day strings compare lexically in date order.
func (s *MemoryStore) Sweep(ctx context.Context, before string) (int, error) {
	if _, err := time.Parse(DayLayout, before); err != nil {
		return 0, fmt.Errorf("invalid sweep cutoff %q: %w", before, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	removed := 0
	for id, rec := range s.records {
		if rec.Date < before {
			delete(s.records, id)
			removed++
		}
	}
	return removed, nil
}

// Len implements Store.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Close implements Store. It drops all records.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.records = nil
	return nil
}
