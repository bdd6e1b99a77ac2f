package pricing

import (
	"context"
	"math/rand/v2"
)

// SimulatedSource returns pseudo-random whole-dollar prices in [100, 600).
// It never fails and never blocks, which makes it the default for local
// development and demo data.
type SimulatedSource struct{}

// NewSimulatedSource creates a new simulated price source.
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{}
}

// CurrentPrice returns a random price in [100, 600) regardless of ticker.
func (s *SimulatedSource) CurrentPrice(_ context.Context, _ string) (float64, error) {
	return float64(rand.IntN(500) + 100), nil
}
