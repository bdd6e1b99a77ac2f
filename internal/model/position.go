package model

// PositionState is the per-ticker accumulator produced by replaying a
// ledger. TotalCost is the aggregate amount paid for currently-held shares
// under the average-cost method, not per-lot. A value near zero may carry
// floating-point noise and is treated as zero by callers.
type PositionState struct {
	Shares    float64 `json:"shares"`
	TotalCost float64 `json:"totalCost"`
}
