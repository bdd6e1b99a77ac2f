package repository

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// The ledger is append-only: transactions are inserted once and never
// mutated or deleted by the valuation pipeline, which only reads them.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListTransactions retrieves the full ledger for one user.
//
// Date, price and shares come back as the raw strings that were stored;
// parsing happens during replay so that a malformed record surfaces as an
// error there instead of being coerced on the way out of the database.
// Rows are returned in insertion order (seq ASC); the replayer re-sorts by
// date and uses seq only as the tie-break.
func (r *TransactionRepository) ListTransactions(userID string) ([]model.Transaction, error) {
	transactionQuery := `
		SELECT seq, id, user_id, ticker, date, type, price, shares, created_at
		FROM "transaction"
		WHERE user_id = ?
		ORDER BY seq ASC
	`

	rows, err := r.db.Query(transactionQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		var t model.Transaction
		var createdAtStr string

		err := rows.Scan(
			&t.Seq,
			&t.ID,
			&t.UserID,
			&t.Ticker,
			&t.Date,
			&t.Type,
			&t.Price,
			&t.Shares,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// Add appends one transaction to a user's ledger and returns it with its
// assigned id and insertion sequence.
func (r *TransactionRepository) Add(t model.Transaction) (model.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	result, err := r.db.Exec(
		`INSERT INTO "transaction" (id, user_id, ticker, date, type, price, shares) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Ticker, t.Date, t.Type, t.Price, t.Shares,
	)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to insert transaction: %w", err)
	}

	t.Seq, err = result.LastInsertId()
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to read transaction seq: %w", err)
	}

	return t, nil
}
