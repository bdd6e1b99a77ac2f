package model

import "time"

// Transaction type values recognised by the ledger replayer.
// Any other value is skipped during replay (forward-compatible no-op).
const (
	TransactionTypeBuy   = "Buy"
	TransactionTypeSell  = "Sell"
	TransactionTypeSplit = "Split"
)

// Transaction represents one immutable ledger entry exactly as stored.
// Date, Price and Shares are kept as raw strings and parsed during replay,
// so a malformed field surfaces as an error instead of a silent zero.
//
// For Buy and Sell, Price is the trade price and Shares the trade size.
// For Split, Price encodes the split multiplier (2.0 for a 2-for-1 split)
// and Shares is unused.
type Transaction struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Ticker string `json:"ticker"`
	Date   string `json:"date"` // ISO-8601 calendar date, YYYY-MM-DD
	Type   string `json:"type"`
	Price  string `json:"price"`
	Shares string `json:"shares"`

	// Seq is the insertion sequence assigned by the transaction store.
	// It is the deterministic tie-break when two transactions share a date.
	Seq int64 `json:"seq"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}
