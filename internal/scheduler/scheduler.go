// Package scheduler runs the periodic snapshot refresh.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
	"github.com/robfig/cron/v3"
)

// RefreshFunc fetches and persists a new snapshot.
type RefreshFunc func(ctx context.Context, now time.Time) (*schema.LoadResult, error)

// Scheduler manages the refresh cron task.
type Scheduler struct {
	Cron    *cron.Cron
	Ctx     context.Context
	refresh RefreshFunc
	now     func() time.Time
	runs    atomic.Int64
}

// NewScheduler creates a Scheduler with six-field (seconds) cron specs.
func NewScheduler(ctx context.Context, refresh RefreshFunc) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Ctx:     ctx,
		refresh: refresh,
		now:     time.Now,
	}
}

// Register adds the refresh task on the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	contract.Logger.Info().Int("entries", len(s.Cron.Entries())).Msg("Scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	contract.Logger.Info().Int64("runs", s.runs.Load()).Msg("Scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

// Runs reports how many refresh tasks have completed.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Next reports when the refresh task fires next, or the zero time.
func (s *Scheduler) Next() time.Time {
	entries := s.Cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) refreshTask() {
	defer s.runs.Add(1)
	res, err := s.refresh(s.Ctx, s.now())
	if err != nil {
		contract.LogWarn("Scheduled refresh failed", err)
		return
	}
	series, points := res.Dataset.Counts()
	event := contract.Logger.Info()
	if res.Degraded {
		event = contract.Logger.Warn().Str("reason", res.Reason)
	}
	event.Str("day", res.LastUpdated).Int("series", series).Int("points", points).
		Bool("degraded", res.Degraded).Msg("Scheduled refresh finished")
}
