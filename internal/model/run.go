package model

import "time"

// RunSummary aggregates the outcome of one valuation run across all users.
// It is logged at the end of every run and exposed by the status endpoint
// in daemon mode.
type RunSummary struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	UsersProcessed int `json:"usersProcessed"` // users whose ledger was valued successfully
	UsersFailed    int `json:"usersFailed"`    // users skipped due to a ledger or persistence error
	RecordsWritten int `json:"recordsWritten"` // valuation records appended
	TickersSkipped int `json:"tickersSkipped"` // tickers skipped due to price lookup failure
}

// Failed reports whether the run as a whole should be considered a failure.
// Price-lookup skips alone do not fail a run; a user that could not be
// valued does.
func (s RunSummary) Failed() bool {
	return s.UsersFailed > 0
}
