// Package pricing provides swappable current-price sources for the
// valuation recorder. The simulated source mirrors the development stub
// (pseudo-random prices); yahoo and finnhub query real market data APIs.
package pricing

import (
	"context"
	"fmt"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/apperrors"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/config"
)

// Source produces the current market price for a ticker. Implementations
// may block on network calls; they are expected to carry their own bounded
// timeout so one slow ticker cannot stall a whole run.
type Source interface {
	CurrentPrice(ctx context.Context, ticker string) (float64, error)
}

// New builds the price source selected by the configuration.
func New(cfg config.PricingConfig) (Source, error) {
	switch cfg.Source {
	case config.PriceSourceSimulated:
		return NewSimulatedSource(), nil
	case config.PriceSourceYahoo:
		return NewYahooSource(cfg.Timeout), nil
	case config.PriceSourceFinnhub:
		return NewFinnhubSource(cfg.Token, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownPriceSource, cfg.Source)
	}
}
