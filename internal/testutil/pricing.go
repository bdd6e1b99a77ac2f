package testutil

import (
	"context"
	"sync"
)

// StaticPriceSource is a scriptable pricing.Source for tests. It returns
// fixed per-ticker prices, optional per-ticker errors, and records the
// tickers it was asked about.
type StaticPriceSource struct {
	mu sync.Mutex

	// Prices maps ticker to the price to return.
	Prices map[string]float64
	// Errors maps ticker to an error to return instead of a price.
	Errors map[string]error

	// Calls records every ticker looked up, in call order.
	Calls []string
}

// NewStaticPriceSource creates a price source returning the given prices.
func NewStaticPriceSource(prices map[string]float64) *StaticPriceSource {
	return &StaticPriceSource{
		Prices: prices,
		Errors: map[string]error{},
	}
}

// CurrentPrice implements pricing.Source.
func (s *StaticPriceSource) CurrentPrice(_ context.Context, ticker string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls = append(s.Calls, ticker)

	if err, ok := s.Errors[ticker]; ok {
		return 0, err
	}
	return s.Prices[ticker], nil
}

// CallCount returns how many lookups were made.
func (s *StaticPriceSource) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}
