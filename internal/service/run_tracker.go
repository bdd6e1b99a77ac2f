package service

import (
	"sync"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
)

// RunTracker keeps the most recent run summary for the status endpoint.
// Safe for concurrent use: the scheduler writes, HTTP handlers read.
type RunTracker struct {
	mu     sync.RWMutex
	last   model.RunSummary
	hasRun bool
}

// NewRunTracker creates an empty tracker.
func NewRunTracker() *RunTracker {
	return &RunTracker{}
}

// Record stores the summary of a completed run.
func (t *RunTracker) Record(summary model.RunSummary) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = summary
	t.hasRun = true
}

// Last returns the most recent run summary and whether any run has
// completed yet.
func (t *RunTracker) Last() (model.RunSummary, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.hasRun
}
