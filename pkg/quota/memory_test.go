package quota

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newStore(t *testing.T, limit int) *MemoryStore {
	t.Helper()
	s, err := NewMemoryStore(limit)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func TestNewMemoryStore_InvalidLimit(t *testing.T) {
	for _, limit := range []int{0, -1} {
		if _, err := NewMemoryStore(limit); err == nil {
			t.Errorf("expected error for limit %d", limit)
		}
	}
}

func TestMemoryStore_CheckAndConsume(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 3)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		d, err := store.CheckAndConsume(ctx, "alice", now)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if d.Outcome != Allowed {
			t.Errorf("call %d: expected allowed, got %s", i, d.Outcome)
		}
		if d.Used != i {
			t.Errorf("call %d: expected used %d, got %d", i, i, d.Used)
		}
		if d.Remaining() != 3-i {
			t.Errorf("call %d: expected remaining %d, got %d", i, 3-i, d.Remaining())
		}
	}

	d, err := store.CheckAndConsume(ctx, "alice", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Outcome != Denied {
		t.Errorf("expected denied on 4th call, got %s", d.Outcome)
	}
	if d.Used != 3 || d.Limit != 3 {
		t.Errorf("expected used 3 of 3, got %d of %d", d.Used, d.Limit)
	}

	expectedReset := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if !d.ResetAt.Equal(expectedReset) {
		t.Errorf("expected reset at %v, got %v", expectedReset, d.ResetAt)
	}
}

func TestMemoryStore_DeniedDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 1)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	if _, err := store.CheckAndConsume(ctx, "bob", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, _, _ := store.Get(ctx, "bob")

	for i := 0; i < 5; i++ {
		d, _ := store.CheckAndConsume(ctx, "bob", now)
		if d.Allowed() {
			t.Fatalf("expected denial on repeat call %d", i)
		}
	}

	after, _, _ := store.Get(ctx, "bob")
	if before != after {
		t.Errorf("expected record unchanged, before %+v after %+v", before, after)
	}
}

func TestMemoryStore_DailyReset(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 3)
	day1 := time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC)
	day2 := day1.Add(2 * time.Second)

	for i := 0; i < 3; i++ {
		store.CheckAndConsume(ctx, "carol", day1)
	}
	if d, _ := store.CheckAndConsume(ctx, "carol", day1); d.Allowed() {
		t.Fatal("expected denial at end of day 1")
	}

	d, err := store.CheckAndConsume(ctx, "carol", day2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed() || d.Used != 1 {
		t.Errorf("expected first allowed request of day 2, got %+v", d)
	}

	rec, ok, _ := store.Get(ctx, "carol")
	if !ok || rec.Date != "2025-03-15" || rec.Count != 1 {
		t.Errorf("expected record {2025-03-15, 1}, got %+v", rec)
	}
}

func TestMemoryStore_UsesUTCDay(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 3)

	// 2025-03-14 22:00 in UTC-5 is 2025-03-15 03:00 UTC.
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2025, 3, 14, 22, 0, 0, 0, loc)

	store.CheckAndConsume(ctx, "dave", now)
	rec, _, _ := store.Get(ctx, "dave")
	if rec.Date != "2025-03-15" {
		t.Errorf("expected UTC date 2025-03-15, got %s", rec.Date)
	}
}

func TestMemoryStore_UsersIndependent(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 1)
	now := time.Now()

	tests := []struct {
		user    string
		allowed bool
	}{
		{"User", true},
		{"user", true},
		{"User", false},
		{" user", true},
	}

	for _, tt := range tests {
		d, err := store.CheckAndConsume(ctx, tt.user, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Allowed() != tt.allowed {
			t.Errorf("user %q: expected allowed=%v, got %v", tt.user, tt.allowed, d.Allowed())
		}
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		callers  int
		expected int64
	}{
		{"more callers than limit", 3, 50, 3},
		{"fewer callers than limit", 10, 4, 4},
		{"exact", 5, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t, tt.limit)
			now := time.Now()

			var allowed atomic.Int64
			var wg sync.WaitGroup
			start := make(chan struct{})

			for i := 0; i < tt.callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					d, err := store.CheckAndConsume(ctx, "shared", now)
					if err == nil && d.Allowed() {
						allowed.Add(1)
					}
				}()
			}
			close(start)
			wg.Wait()

			if got := allowed.Load(); got != tt.expected {
				t.Errorf("expected %d allowed, got %d", tt.expected, got)
			}

			rec, _, _ := store.Get(ctx, "shared")
			if int64(rec.Count) != tt.expected {
				t.Errorf("expected count %d, got %d", tt.expected, rec.Count)
			}
		})
	}
}

func TestMemoryStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 1)
	now := time.Now()

	store.CheckAndConsume(ctx, "erin", now)
	if err := store.Reset(ctx, "erin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "erin"); ok {
		t.Error("expected record removed after reset")
	}
	if d, _ := store.CheckAndConsume(ctx, "erin", now); !d.Allowed() {
		t.Error("expected allowed after reset")
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 3)

	store.CheckAndConsume(ctx, "old", time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC))
	store.CheckAndConsume(ctx, "yesterday", time.Date(2025, 3, 13, 8, 0, 0, 0, time.UTC))
	store.CheckAndConsume(ctx, "today", time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC))

	removed, err := store.Sweep(ctx, "2025-03-13")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 records left, got %d", store.Len())
	}
	if _, ok, _ := store.Get(ctx, "old"); ok {
		t.Error("expected old record swept")
	}

	if _, err := store.Sweep(ctx, "13/03/2025"); err == nil {
		t.Error("expected error for malformed cutoff")
	}
}

func TestMemoryStore_Close(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, 3)
	store.CheckAndConsume(ctx, "frank", time.Now())

	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.CheckAndConsume(ctx, "frank", time.Now()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected 0 records after close, got %d", store.Len())
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := newStore(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.CheckAndConsume(ctx, "gina", time.Now()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if store.Len() != 0 {
		t.Error("expected no record for cancelled call")
	}
}

func TestNextReset(t *testing.T) {
	tests := []struct {
		name     string
		in       time.Time
		expected time.Time
	}{
		{"midday", time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC), time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"exact midnight", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"year end", time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextReset(tt.in); !got.Equal(tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
