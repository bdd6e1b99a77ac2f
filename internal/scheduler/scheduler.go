// Package scheduler wraps robfig/cron for daemon mode, where the recorder
// stays resident and triggers valuation runs on a cron schedule instead of
// relying on an external scheduler to invoke the binary.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers a job on a cron schedule.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler using the standard 5-field cron expression
// format (minute, hour, day of month, month, day of week).
func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Schedule registers job to run on the given cron expression.
// Returns an error if the expression does not parse.
func (s *Scheduler) Schedule(spec string, job func()) error {
	_, err := s.cron.AddFunc(spec, job)
	return err
}

// Start begins triggering scheduled jobs in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling new runs. The returned context is done once any
// in-flight job has completed, allowing a graceful shutdown to wait.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
