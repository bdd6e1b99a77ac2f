package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/apperrors"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
)

// ResidualEpsilon is the share-count threshold below which a position is
// treated as closed. It absorbs floating-point residue left behind by
// proportional sells, so a fully-sold ticker never produces a valuation.
const ResidualEpsilon = 0.001

// parsedTransaction is a ledger entry with its date and numeric fields
// decoded, ready for sorting and folding.
type parsedTransaction struct {
	date   time.Time
	seq    int64
	txType string
	price  float64
	shares float64
}

// Replay reconstructs per-ticker position states from an unordered ledger.
//
// Transactions are partitioned by ticker, sorted ascending by date (ties
// broken by insertion sequence) and folded into a PositionState under the
// average-cost method:
//
//   - Buy adds price*shares to cost and shares to the position.
//   - Sell removes the sold fraction from both shares and cost, so the
//     average cost per share is invariant under a partial sell. Selling
//     more than is held clamps to full liquidation; selling with no
//     position at all is a no-op.
//   - Split multiplies shares by the ratio carried in the price field and
//     leaves total cost unchanged.
//   - Any other type is skipped, so unknown future types cannot corrupt
//     the cost basis.
//
// Replay is a pure function: no I/O, no retained state, identical output
// for any ordering of the same input. A transaction whose date or numeric
// fields cannot be parsed fails the whole replay with
// apperrors.ErrMalformedTransaction rather than silently coercing to zero.
func Replay(transactions []model.Transaction) (map[string]model.PositionState, error) {
	byTicker := make(map[string][]parsedTransaction)

	for _, t := range transactions {
		parsed, err := parseTransaction(t)
		if err != nil {
			return nil, err
		}
		byTicker[t.Ticker] = append(byTicker[t.Ticker], parsed)
	}

	positions := make(map[string]model.PositionState, len(byTicker))

	for ticker, entries := range byTicker {
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].date.Equal(entries[j].date) {
				return entries[i].seq < entries[j].seq
			}
			return entries[i].date.Before(entries[j].date)
		})

		var state model.PositionState
		for _, entry := range entries {
			state = applyTransaction(state, entry)
		}
		positions[ticker] = state
	}

	return positions, nil
}

// applyTransaction folds a single ledger entry into the position state.
func applyTransaction(state model.PositionState, t parsedTransaction) model.PositionState {
	switch t.txType {
	case model.TransactionTypeBuy:
		state.TotalCost += t.price * t.shares
		state.Shares += t.shares
	case model.TransactionTypeSell:
		if state.Shares > 0 {
			ratio := math.Min(t.shares/state.Shares, 1)
			state.TotalCost -= state.TotalCost * ratio
			state.Shares = math.Max(state.Shares-t.shares, 0)
		}
	case model.TransactionTypeSplit:
		state.Shares *= t.price
	}
	return state
}

// parseTransaction decodes the raw date and numeric fields. The shares
// field is only required for Buy and Sell; a Split carries its ratio in
// the price field and its shares field is ignored. Unknown types skip
// numeric parsing entirely since they are no-ops during the fold.
func parseTransaction(t model.Transaction) (parsedTransaction, error) {
	parsed := parsedTransaction{seq: t.Seq, txType: t.Type}

	date, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return parsedTransaction{}, fmt.Errorf("%w: transaction %s: bad date %q", apperrors.ErrMalformedTransaction, t.ID, t.Date)
	}
	parsed.date = date

	switch t.Type {
	case model.TransactionTypeBuy, model.TransactionTypeSell:
		parsed.price, err = parseAmount(t.ID, "price", t.Price)
		if err != nil {
			return parsedTransaction{}, err
		}
		parsed.shares, err = parseAmount(t.ID, "shares", t.Shares)
		if err != nil {
			return parsedTransaction{}, err
		}
	case model.TransactionTypeSplit:
		parsed.price, err = parseAmount(t.ID, "price", t.Price)
		if err != nil {
			return parsedTransaction{}, err
		}
	}

	return parsed, nil
}

// parseAmount parses a non-negative numeric field.
func parseAmount(txID, field, value string) (float64, error) {
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: transaction %s: bad %s %q", apperrors.ErrMalformedTransaction, txID, field, value)
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: transaction %s: negative %s %q", apperrors.ErrMalformedTransaction, txID, field, value)
	}
	return amount, nil
}
