package apperrors

import "errors"

// Ledger errors indicate that a user's transaction history cannot be
// replayed into a position state.
var (
	// ErrMalformedTransaction indicates that a transaction's date or numeric
	// fields cannot be parsed. The whole replay for that user is aborted
	// rather than silently producing a wrong cost basis.
	ErrMalformedTransaction = errors.New("malformed transaction")
)

// Collaborator errors wrap failures of the external price source and the
// history store.
var (
	// ErrPriceLookup indicates that the price source could not produce a
	// current price for a ticker. The ticker is skipped for this run.
	ErrPriceLookup = errors.New("price lookup failed")

	// ErrPersistence indicates that an append to the valuation history
	// store failed. It is surfaced to the orchestrator, never masked as
	// success.
	ErrPersistence = errors.New("persistence failure")
)

// Configuration errors prevent any processing and fail the run at startup.
var (
	// ErrUnknownPriceSource indicates that PRICE_SOURCE names no known
	// price source implementation.
	ErrUnknownPriceSource = errors.New("unknown price source")

	// ErrMissingPriceToken indicates that a price source requiring an API
	// token was selected without one being configured.
	ErrMissingPriceToken = errors.New("price source token not configured")

	// ErrInvalidTokenKey indicates that PRICE_TOKEN_KEY is not a valid
	// fernet key or does not verify the encrypted token.
	ErrInvalidTokenKey = errors.New("invalid price token key")
)
