// Package scheduler runs periodic maintenance jobs: expiring idle dashboard sessions
// and removing old search log records.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

//go:generate moq -out mocks/session_sweeper.go -pkg mocks -skip-ensure -fmt goimports . SessionSweeper
//go:generate moq -out mocks/fetch_log_cleaner.go -pkg mocks -skip-ensure -fmt goimports . FetchLogCleaner

// Scheduler manages periodic maintenance workers
type Scheduler struct {
	sessions SessionSweeper
	fetchLog FetchLogCleaner

	sweepInterval   time.Duration
	cleanupInterval time.Duration
	retention       time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// SessionSweeper removes expired sessions
type SessionSweeper interface {
	Sweep(now time.Time) int
}

// FetchLogCleaner removes old search log records
type FetchLogCleaner interface {
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Params holds scheduler dependencies and intervals
type Params struct {
	Sessions SessionSweeper
	FetchLog FetchLogCleaner // optional, no retention worker if nil

	SweepInterval   time.Duration
	CleanupInterval time.Duration
	Retention       time.Duration // records older than this are removed
}

// NewScheduler creates a new scheduler instance
func NewScheduler(params Params) *Scheduler {
	if params.SweepInterval <= 0 {
		params.SweepInterval = 10 * time.Minute
	}
	if params.CleanupInterval <= 0 {
		params.CleanupInterval = time.Hour
	}
	if params.Retention <= 0 {
		params.Retention = 30 * 24 * time.Hour
	}

	return &Scheduler{
		sessions:        params.Sessions,
		fetchLog:        params.FetchLog,
		sweepInterval:   params.SweepInterval,
		cleanupInterval: params.CleanupInterval,
		retention:       params.Retention,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.sessionSweepWorker(ctx)

	if s.fetchLog != nil {
		s.wg.Add(1)
		go s.fetchLogCleanupWorker(ctx)
	}

	lgr.Printf("[INFO] scheduler started with sweep interval %v, cleanup interval %v, retention %v",
		s.sweepInterval, s.cleanupInterval, s.retention)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// sessionSweepWorker periodically removes idle sessions
func (s *Scheduler) sessionSweepWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.sessions.Sweep(now); n > 0 {
				lgr.Printf("[DEBUG] removed %d expired sessions", n)
			}
		}
	}
}

// fetchLogCleanupWorker removes old search log records on start and every cleanup interval
func (s *Scheduler) fetchLogCleanupWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	// run immediately on start
	s.cleanupFetchLog(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupFetchLog(ctx)
		}
	}
}

func (s *Scheduler) cleanupFetchLog(ctx context.Context) {
	n, err := s.fetchLog.DeleteOlderThan(ctx, time.Now().Add(-s.retention))
	if err != nil {
		if ctx.Err() == nil {
			lgr.Printf("[WARN] failed to clean search log: %v", err)
		}
		return
	}
	if n > 0 {
		lgr.Printf("[INFO] removed %d old search log records", n)
	}
}
