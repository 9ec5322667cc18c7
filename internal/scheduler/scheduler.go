// Package scheduler provides cron-based background jobs for DealFlow, such
// as the periodic session expiry sweep.
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs maintenance jobs every five minutes.
const DefaultSweepSchedule = "*/5 * * * *"

// Scheduler wraps a cron runner with recovery so a panicking job cannot take
// the process down.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates and starts a cron scheduler using the standard
// 5-field expression format (min, hour, dom, month, dow).
func NewScheduler() *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Start()
	return &Scheduler{cron: c}
}

// AddJob schedules a task under the given cron expression and returns its
// entry ID for later removal. An invalid expression is an error.
func (s *Scheduler) AddJob(expr string, task func()) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(expr, task)
	if err != nil {
		return 0, err
	}
	slog.Debug("Scheduler AddJob registered", "expr", expr, "entryID", id)
	return id, nil
}

// Remove unschedules a previously added job.
func (s *Scheduler) Remove(id cron.EntryID) {
	s.cron.Remove(id)
}

// Sweeper is the session manager's expiry sweep.
type Sweeper interface {
	Sweep() (int, error)
}

// RegisterSweep schedules the session expiry sweep. Sweep failures are
// logged and retried on the next tick.
func (s *Scheduler) RegisterSweep(expr string, sweeper Sweeper) (cron.EntryID, error) {
	return s.AddJob(expr, func() {
		if _, err := sweeper.Sweep(); err != nil {
			slog.Error("Scheduler sweep failed", "error", err)
		}
	})
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
