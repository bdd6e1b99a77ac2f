package service

import (
	"context"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/config"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/pricing"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/repository"
)

// RecorderService drives one valuation run: it enumerates users, replays
// each user's ledger into position states, prices the still-held tickers
// and appends one dated valuation record per holding to the append-only
// history.
//
// Each (user, ticker) unit is independent, so users fan out concurrently
// and ticker lookups fan out within a user, both with bounded parallelism.
// A failed user is logged and counted but never blocks other users.
type RecorderService struct {
	userRepo        *repository.UserRepository
	transactionRepo *repository.TransactionRepository
	valuationRepo   *repository.ValuationRepository
	priceSource     pricing.Source

	maxConcurrentUsers   int
	maxConcurrentLookups int

	// Now supplies the run clock; tests override it for deterministic
	// dates and timestamps.
	Now func() time.Time
}

// NewRecorderService creates a new RecorderService with the provided
// repositories, price source and fan-out limits.
func NewRecorderService(
	userRepo *repository.UserRepository,
	transactionRepo *repository.TransactionRepository,
	valuationRepo *repository.ValuationRepository,
	priceSource pricing.Source,
	cfg config.RunConfig,
) *RecorderService {
	maxUsers := cfg.MaxConcurrentUsers
	if maxUsers < 1 {
		maxUsers = 1
	}
	maxLookups := cfg.MaxConcurrentLookups
	if maxLookups < 1 {
		maxLookups = 1
	}

	return &RecorderService{
		userRepo:             userRepo,
		transactionRepo:      transactionRepo,
		valuationRepo:        valuationRepo,
		priceSource:          priceSource,
		maxConcurrentUsers:   maxUsers,
		maxConcurrentLookups: maxLookups,
		Now:                  time.Now,
	}
}

// Run executes one full valuation run across all users and returns its
// summary. The returned error is non-nil only for global failures (user
// enumeration unavailable); per-user failures are counted in the summary,
// and summary.Failed() reports whether the run should exit nonzero.
func (s *RecorderService) Run(ctx context.Context) (model.RunSummary, error) {
	summary := model.RunSummary{StartedAt: s.Now()}

	users, err := s.userRepo.ListUsers()
	if err != nil {
		return summary, err
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrentUsers)

	for _, user := range users {
		g.Go(func() error {
			written, skipped, err := s.recordUser(gctx, user)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("user %s: valuation failed: %v", user.ID, err)
				summary.UsersFailed++
				return nil // isolate: one bad ledger must not block other users
			}
			summary.UsersProcessed++
			summary.RecordsWritten += written
			summary.TickersSkipped += skipped
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}

	summary.FinishedAt = s.Now()
	log.Printf("run complete: %d users processed, %d failed, %d records written, %d tickers skipped",
		summary.UsersProcessed, summary.UsersFailed, summary.RecordsWritten, summary.TickersSkipped)

	return summary, nil
}

// recordUser values one user's portfolio and appends the results.
// Returns the number of records written and tickers skipped due to price
// lookup failures. A replay or persistence error fails the whole user.
func (s *RecorderService) recordUser(ctx context.Context, user model.User) (int, int, error) {
	transactions, err := s.transactionRepo.ListTransactions(user.ID)
	if err != nil {
		return 0, 0, err
	}

	// No ledger, no output. Explicit early exit, not an error.
	if len(transactions) == 0 {
		log.Printf("user %s: no transactions, skipping", user.ID)
		return 0, 0, nil
	}

	positions, err := Replay(transactions)
	if err != nil {
		return 0, 0, err
	}

	held := make([]string, 0, len(positions))
	for ticker, state := range positions {
		if state.Shares > ResidualEpsilon {
			held = append(held, ticker)
		}
	}
	sort.Strings(held)

	runDate := s.Now().Format("2006-01-02")

	var mu sync.Mutex
	var written, skipped int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrentLookups)

	for _, ticker := range held {
		state := positions[ticker]

		g.Go(func() error {
			price, err := s.priceSource.CurrentPrice(gctx, ticker)
			if err != nil {
				// Recoverable per ticker: skip this run's record, keep going.
				log.Printf("user %s: skipping %s: %v", user.ID, ticker, err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}

			marketValue := state.Shares * price
			record := model.ValuationRecord{
				ID:        uuid.NewString(),
				UserID:    user.ID,
				Ticker:    ticker,
				Date:      runDate,
				Price:     price,
				Profit:    round2(marketValue - state.TotalCost),
				Timestamp: s.Now().UnixMilli(),
			}

			if err := s.valuationRepo.Append(record); err != nil {
				return err
			}

			log.Printf("user %s: %s price %.2f profit %.2f", user.ID, ticker, price, record.Profit)
			mu.Lock()
			written++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return written, skipped, err
	}

	return written, skipped, nil
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
