package quota

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SweepObserver is notified after every sweep. The metrics collector
// implements it.
type SweepObserver interface {
	RecordQuotaEviction(count int)
}

// Sweeper evicts usage records from past days on a cron schedule.
type Sweeper struct {
	store         Store
	schedule      string
	retentionDays int
	observer      SweepObserver
	now           func() time.Time

	cron    *cron.Cron
	entry   cron.EntryID
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// SweeperConfig configures a Sweeper.
type SweeperConfig struct {
	// Schedule is a standard five-field cron expression.
	// An empty schedule disables periodic sweeping.
	Schedule string

	// RetentionDays is how many past days survive a sweep.
	// Records dated before today minus RetentionDays are removed.
	RetentionDays int

	// Observer receives eviction counts. Optional.
	Observer SweepObserver
}

// NewSweeper creates a sweeper for store.
func NewSweeper(store Store, cfg SweeperConfig) *Sweeper {
	return &Sweeper{
		store:         store,
		schedule:      cfg.Schedule,
		retentionDays: cfg.RetentionDays,
		observer:      cfg.Observer,
		now:           time.Now,
		cron:          cron.New(cron.WithLocation(time.UTC)),
		logger:        slog.Default().With("component", "quota.sweeper"),
	}
}

// Start schedules periodic sweeps. Sweeping stops when ctx is cancelled or
// Stop is called. Start on a running sweeper is a no-op.
//
// Common cron expressions:
//   - "0 * * * *"    - Hourly
//   - "5 0 * * *"    - Daily, five minutes after UTC midnight
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if s.schedule == "" {
		s.logger.Info("sweep schedule not configured, skipping sweeper")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	entry, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled quota sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	s.entry = entry

	s.cron.Start()
	s.running = true

	s.logger.Info("quota sweeper started",
		"schedule", s.schedule,
		"retention_days", s.retentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunOnce evicts stale records immediately and returns how many were removed.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	cutoff := Day(s.now().UTC().AddDate(0, 0, -s.retentionDays))

	removed, err := s.store.Sweep(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if s.observer != nil {
		s.observer.RecordQuotaEviction(removed)
	}

	if removed > 0 {
		s.logger.Info("quota sweep completed",
			"evicted", removed,
			"cutoff", cutoff,
			"remaining", s.store.Len(),
		)
	} else {
		s.logger.Debug("quota sweep completed, nothing evicted", "cutoff", cutoff)
	}

	return removed, nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.cron.Remove(s.entry)
		s.running = false
		s.logger.Info("quota sweeper stopped")
	}
}

// IsRunning reports whether periodic sweeping is active.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when not scheduled.
func (s *Sweeper) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
