package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
)

// CreateUser inserts a user and returns it.
func CreateUser(t *testing.T, db *sql.DB, name string) model.User {
	t.Helper()

	user := model.User{
		ID:   uuid.NewString(),
		Name: name,
	}

	_, err := db.Exec(`INSERT INTO user (id, name) VALUES (?, ?)`, user.ID, user.Name)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateTransaction inserts a ledger entry for a user and returns it with
// its assigned insertion sequence. Price and shares are raw strings, as
// they are stored; pass malformed values to exercise replay failures.
func CreateTransaction(t *testing.T, db *sql.DB, userID, ticker, date, txType, price, shares string) model.Transaction {
	t.Helper()

	tx := model.Transaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Ticker: ticker,
		Date:   date,
		Type:   txType,
		Price:  price,
		Shares: shares,
	}

	result, err := db.Exec(
		`INSERT INTO "transaction" (id, user_id, ticker, date, type, price, shares) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.UserID, tx.Ticker, tx.Date, tx.Type, tx.Price, tx.Shares,
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	tx.Seq, err = result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read test transaction seq: %v", err)
	}

	return tx
}

// MakeTransaction builds an in-memory transaction without touching the
// database, for replayer tests that need no persistence. Seq encodes the
// intended tie-break order for equal dates.
func MakeTransaction(ticker, date, txType, price, shares string, seq int64) model.Transaction {
	return model.Transaction{
		ID:     uuid.NewString(),
		Ticker: ticker,
		Date:   date,
		Type:   txType,
		Price:  price,
		Shares: shares,
		Seq:    seq,
	}
}
