package repository_test

import (
	"testing"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/repository"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/testutil"
)

// TestTransactionRepository_ListTransactions tests ledger retrieval.
//
// WHY: The replayer depends on two things from this layer: raw fields
// coming back exactly as stored (no numeric coercion) and a monotonic
// insertion sequence for the date tie-break.
func TestTransactionRepository_ListTransactions(t *testing.T) {
	t.Run("returns empty slice for a user with no ledger", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db, "Alice")

		repo := repository.NewTransactionRepository(db)
		transactions, err := repo.ListTransactions(user.ID)
		if err != nil {
			t.Fatalf("ListTransactions() returned unexpected error: %v", err)
		}
		if len(transactions) != 0 {
			t.Errorf("Expected empty ledger, got %d transactions", len(transactions))
		}
	})

	t.Run("preserves raw fields and insertion order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db, "Alice")

		// Out of date order on purpose: retrieval is by seq, the
		// replayer does the date sorting.
		testutil.CreateTransaction(t, db, user.ID, "AAPL", "2024-03-02", "Sell", "150.50", "2.5")
		testutil.CreateTransaction(t, db, user.ID, "AAPL", "2024-01-02", "Buy", "100", "10")

		repo := repository.NewTransactionRepository(db)
		transactions, err := repo.ListTransactions(user.ID)
		if err != nil {
			t.Fatalf("ListTransactions() returned unexpected error: %v", err)
		}

		if len(transactions) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(transactions))
		}
		if transactions[0].Price != "150.50" || transactions[0].Shares != "2.5" {
			t.Errorf("Raw fields altered: %+v", transactions[0])
		}
		if transactions[0].Seq >= transactions[1].Seq {
			t.Errorf("Expected ascending seq, got %d then %d", transactions[0].Seq, transactions[1].Seq)
		}
		if transactions[0].Date != "2024-03-02" {
			t.Errorf("Expected insertion order, got %s first", transactions[0].Date)
		}
	})

	t.Run("does not leak other users' transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		alice := testutil.CreateUser(t, db, "Alice")
		bob := testutil.CreateUser(t, db, "Bob")

		testutil.CreateTransaction(t, db, alice.ID, "AAPL", "2024-01-02", "Buy", "100", "10")
		testutil.CreateTransaction(t, db, bob.ID, "MSFT", "2024-01-02", "Buy", "300", "4")

		repo := repository.NewTransactionRepository(db)
		transactions, err := repo.ListTransactions(alice.ID)
		if err != nil {
			t.Fatalf("ListTransactions() returned unexpected error: %v", err)
		}

		if len(transactions) != 1 || transactions[0].Ticker != "AAPL" {
			t.Errorf("Expected only Alice's AAPL ledger, got %+v", transactions)
		}
	})
}

// TestTransactionRepository_Add tests ledger appends.
func TestTransactionRepository_Add(t *testing.T) {
	t.Run("assigns id and monotonic seq", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		user := testutil.CreateUser(t, db, "Alice")

		repo := repository.NewTransactionRepository(db)

		first, err := repo.Add(model.Transaction{
			UserID: user.ID, Ticker: "AAPL", Date: "2024-01-02",
			Type: "Buy", Price: "100", Shares: "10",
		})
		if err != nil {
			t.Fatalf("Add() returned unexpected error: %v", err)
		}
		second, err := repo.Add(model.Transaction{
			UserID: user.ID, Ticker: "AAPL", Date: "2024-01-02",
			Type: "Sell", Price: "120", Shares: "5",
		})
		if err != nil {
			t.Fatalf("Add() returned unexpected error: %v", err)
		}

		if first.ID == "" || second.ID == "" {
			t.Error("Expected generated ids")
		}
		if second.Seq <= first.Seq {
			t.Errorf("Expected monotonic seq, got %d then %d", first.Seq, second.Seq)
		}
	})
}
