package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/config"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/repository"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/service"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/testutil"
)

func newTestRecorder(t *testing.T, db *sql.DB, prices *testutil.StaticPriceSource, now time.Time) *service.RecorderService {
	t.Helper()

	recorder := service.NewRecorderService(
		repository.NewUserRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewValuationRepository(db),
		prices,
		config.RunConfig{MaxConcurrentUsers: 2, MaxConcurrentLookups: 4},
	)
	recorder.Now = func() time.Time { return now }
	return recorder
}

// TestRecorderService_Run tests the full valuation pipeline.
//
// WHY: This is the end-to-end path of every run: ledger replay, price
// lookup, profit calculation and the append to history. The worked
// examples pin the exact numbers the accounting must produce.
func TestRecorderService_Run(t *testing.T) {
	runDay := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)

	t.Run("writes one record per held ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db, "Alice")

		// Two same-day buys, then sell half: 10 shares at cost 1500.
		testutil.CreateTransaction(t, db, user.ID, "AAPL", "2024-01-02", "Buy", "100", "10")
		testutil.CreateTransaction(t, db, user.ID, "AAPL", "2024-01-02", "Buy", "200", "10")
		testutil.CreateTransaction(t, db, user.ID, "AAPL", "2024-02-02", "Sell", "500", "10")

		prices := testutil.NewStaticPriceSource(map[string]float64{"AAPL": 200})
		recorder := newTestRecorder(t, db, prices, runDay)

		summary, err := recorder.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}

		if summary.UsersProcessed != 1 || summary.UsersFailed != 0 {
			t.Errorf("Expected 1 processed / 0 failed, got %+v", summary)
		}
		if summary.RecordsWritten != 1 {
			t.Errorf("Expected 1 record written, got %d", summary.RecordsWritten)
		}

		history, err := repository.NewValuationRepository(db).History(user.ID, "AAPL")
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("Expected 1 history entry, got %d", len(history))
		}

		record := history[0]
		if record.Date != "2024-06-03" {
			t.Errorf("Expected report date 2024-06-03, got %s", record.Date)
		}
		if record.Price != 200 {
			t.Errorf("Expected price 200, got %v", record.Price)
		}
		// marketValue 10*200 = 2000, cost 1500
		if record.Profit != 500.00 {
			t.Errorf("Expected profit 500.00, got %v", record.Profit)
		}
		if record.Timestamp != runDay.UnixMilli() {
			t.Errorf("Expected timestamp %d, got %d", runDay.UnixMilli(), record.Timestamp)
		}
	})

	t.Run("split halves the average cost before valuation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db, "Bob")

		testutil.CreateTransaction(t, db, user.ID, "NVDA", "2024-01-02", "Buy", "10", "100")
		testutil.CreateTransaction(t, db, user.ID, "NVDA", "2024-03-02", "Split", "2", "")

		prices := testutil.NewStaticPriceSource(map[string]float64{"NVDA": 6})
		recorder := newTestRecorder(t, db, prices, runDay)

		if _, err := recorder.Run(context.Background()); err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}

		history, err := repository.NewValuationRepository(db).History(user.ID, "NVDA")
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(history) != 1 {
			t.Fatalf("Expected 1 history entry, got %d", len(history))
		}

		// 200 shares * 6 = 1200 market value, cost unchanged at 1000.
		if history[0].Profit != 200.00 {
			t.Errorf("Expected profit 200.00, got %v", history[0].Profit)
		}
	})

	t.Run("fully sold tickers produce no record", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db, "Carol")

		testutil.CreateTransaction(t, db, user.ID, "AAPL", "2024-01-02", "Buy", "100", "10")
		testutil.CreateTransaction(t, db, user.ID, "AAPL", "2024-02-02", "Sell", "120", "10")

		prices := testutil.NewStaticPriceSource(map[string]float64{"AAPL": 200})
		recorder := newTestRecorder(t, db, prices, runDay)

		summary, err := recorder.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}

		if summary.RecordsWritten != 0 {
			t.Errorf("Expected no records for a closed position, got %d", summary.RecordsWritten)
		}
		if prices.CallCount() != 0 {
			t.Errorf("Expected no price lookups for a closed position, got %d", prices.CallCount())
		}
	})

	t.Run("users with no transactions produce no output", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateUser(t, db, "Dave")

		prices := testutil.NewStaticPriceSource(nil)
		recorder := newTestRecorder(t, db, prices, runDay)

		summary, err := recorder.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}

		if summary.UsersProcessed != 1 || summary.RecordsWritten != 0 {
			t.Errorf("Expected a quiet successful run, got %+v", summary)
		}
	})

	t.Run("empty user table is a successful no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		prices := testutil.NewStaticPriceSource(nil)
		recorder := newTestRecorder(t, db, prices, runDay)

		summary, err := recorder.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}
		if summary.Failed() {
			t.Errorf("Empty run must not be a failure: %+v", summary)
		}
	})
}

// TestRecorderService_FailureIsolation tests the error propagation policy.
//
// WHY: One bad ledger or one flaky price source must not take down the
// whole run. Price failures skip a ticker; replay failures skip a user;
// both are counted so the scheduler can still see the run degraded.
func TestRecorderService_FailureIsolation(t *testing.T) {
	runDay := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)

	t.Run("price lookup failure skips only that ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db, "Erin")

		testutil.CreateTransaction(t, db, user.ID, "AAPL", "2024-01-02", "Buy", "100", "10")
		testutil.CreateTransaction(t, db, user.ID, "MSFT", "2024-01-02", "Buy", "300", "4")

		prices := testutil.NewStaticPriceSource(map[string]float64{"AAPL": 150, "MSFT": 400})
		prices.Errors["MSFT"] = errors.New("price feed down")
		recorder := newTestRecorder(t, db, prices, runDay)

		summary, err := recorder.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}

		if summary.UsersFailed != 0 {
			t.Errorf("Price failure must not fail the user, got %+v", summary)
		}
		if summary.RecordsWritten != 1 || summary.TickersSkipped != 1 {
			t.Errorf("Expected 1 written / 1 skipped, got %+v", summary)
		}

		valuationRepo := repository.NewValuationRepository(db)
		if history, _ := valuationRepo.History(user.ID, "MSFT"); len(history) != 0 {
			t.Errorf("Skipped ticker must not get a record, got %d", len(history))
		}
		if history, _ := valuationRepo.History(user.ID, "AAPL"); len(history) != 1 {
			t.Errorf("Healthy ticker must still be recorded, got %d", len(history))
		}
	})

	t.Run("malformed ledger fails one user without blocking others", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		bad := testutil.CreateUser(t, db, "Mallory")
		good := testutil.CreateUser(t, db, "Grace")

		testutil.CreateTransaction(t, db, bad.ID, "AAPL", "2024-01-02", "Buy", "not-a-number", "10")
		testutil.CreateTransaction(t, db, good.ID, "AAPL", "2024-01-02", "Buy", "100", "10")

		prices := testutil.NewStaticPriceSource(map[string]float64{"AAPL": 150})
		recorder := newTestRecorder(t, db, prices, runDay)

		summary, err := recorder.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() returned unexpected error: %v", err)
		}

		if summary.UsersFailed != 1 || summary.UsersProcessed != 1 {
			t.Errorf("Expected 1 failed / 1 processed, got %+v", summary)
		}
		if !summary.Failed() {
			t.Error("A run with a failed user must report failure")
		}

		history, err := repository.NewValuationRepository(db).History(good.ID, "AAPL")
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}
		if len(history) != 1 {
			t.Errorf("Healthy user must still be valued, got %d records", len(history))
		}
	})
}

// TestRecorderService_AppendOnly tests that history accumulates across runs.
//
// WHY: The history is the product of the whole system. A second run must
// add entries without touching what earlier runs wrote.
func TestRecorderService_AppendOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "Heidi")

	testutil.CreateTransaction(t, db, user.ID, "AAPL", "2024-01-02", "Buy", "100", "10")

	prices := testutil.NewStaticPriceSource(map[string]float64{"AAPL": 150})

	dayOne := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	if _, err := newTestRecorder(t, db, prices, dayOne).Run(context.Background()); err != nil {
		t.Fatalf("First run returned unexpected error: %v", err)
	}

	prices.Prices["AAPL"] = 180
	dayTwo := dayOne.AddDate(0, 0, 1)
	if _, err := newTestRecorder(t, db, prices, dayTwo).Run(context.Background()); err != nil {
		t.Fatalf("Second run returned unexpected error: %v", err)
	}

	history, err := repository.NewValuationRepository(db).History(user.ID, "AAPL")
	if err != nil {
		t.Fatalf("History() returned unexpected error: %v", err)
	}

	if len(history) != 2 {
		t.Fatalf("Expected 2 accumulated entries, got %d", len(history))
	}

	// The first run's entry is untouched by the second run.
	if history[0].Date != "2024-06-03" || history[0].Price != 150 {
		t.Errorf("Prior entry was altered: %+v", history[0])
	}
	if history[1].Date != "2024-06-04" || history[1].Price != 180 {
		t.Errorf("New entry wrong: %+v", history[1])
	}
}
