package repository

import (
	"database/sql"
	"fmt"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/apperrors"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
)

// ValuationRepository provides data access methods for the valuation_history table.
// The table is append-only: Append only ever inserts, so entries written by
// earlier runs are never altered or removed (the equivalent of an
// array-union merge, not a field overwrite).
type ValuationRepository struct {
	db *sql.DB
}

// NewValuationRepository creates a new ValuationRepository with the provided database connection.
func NewValuationRepository(db *sql.DB) *ValuationRepository {
	return &ValuationRepository{db: db}
}

// Append adds one valuation record to a user's per-ticker history.
// Failures wrap apperrors.ErrPersistence and are surfaced to the caller,
// never masked as success.
func (r *ValuationRepository) Append(record model.ValuationRecord) error {
	_, err := r.db.Exec(
		`INSERT INTO valuation_history (id, user_id, ticker, date, price, profit, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.Ticker, record.Date, record.Price, record.Profit, record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to insert valuation for %s/%s: %v",
			apperrors.ErrPersistence, record.UserID, record.Ticker, err)
	}
	return nil
}

// History retrieves the valuation history for one (user, ticker) pair,
// ordered by date then capture timestamp.
func (r *ValuationRepository) History(userID, ticker string) ([]model.ValuationRecord, error) {
	historyQuery := `
		SELECT id, user_id, ticker, date, price, profit, timestamp
		FROM valuation_history
		WHERE user_id = ? AND ticker = ?
		ORDER BY date ASC, timestamp ASC
	`

	rows, err := r.db.Query(historyQuery, userID, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuation_history table: %w", err)
	}
	defer rows.Close()

	records := []model.ValuationRecord{}

	for rows.Next() {
		var v model.ValuationRecord

		err := rows.Scan(
			&v.ID,
			&v.UserID,
			&v.Ticker,
			&v.Date,
			&v.Price,
			&v.Profit,
			&v.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan valuation_history results: %w", err)
		}

		records = append(records, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating valuation_history table: %w", err)
	}

	return records, nil
}
