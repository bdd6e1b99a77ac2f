package model

// ValuationRecord is one dated entry in a user's per-ticker valuation
// history. Records are append-only: written once per (user, ticker, run)
// and never updated or deleted.
type ValuationRecord struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Ticker string  `json:"ticker"`
	Date   string  `json:"date"`   // report calendar day, YYYY-MM-DD
	Price  float64 `json:"price"`  // market price used for this valuation
	Profit float64 `json:"profit"` // marketValue - totalCost, rounded to 2 decimals

	// Timestamp is the capture instant in Unix milliseconds. It orders
	// entries that share the same Date.
	Timestamp int64 `json:"timestamp"`
}
