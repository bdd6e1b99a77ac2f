package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/apperrors"
)

const defaultFinnhubBaseURL = "https://finnhub.io/api/v1"

// finnhubQuote maps the Finnhub /quote response. Current is zero for
// unknown symbols, which the API reports as a 200 with empty data.
type finnhubQuote struct {
	Current       float64 `json:"c"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	PreviousClose float64 `json:"pc"`
}

// FinnhubSource fetches real-time quotes from the Finnhub API.
// Requires an API token; see config.PricingConfig.
type FinnhubSource struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewFinnhubSource creates a Finnhub price source with the given API token
// and request timeout.
func NewFinnhubSource(token string, timeout time.Duration) *FinnhubSource {
	return &FinnhubSource{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultFinnhubBaseURL,
		token:      token,
	}
}

// CurrentPrice returns the current quote for the ticker.
func (s *FinnhubSource) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	quoteURL := fmt.Sprintf("%s/quote?symbol=%s&token=%s", s.baseURL, url.QueryEscape(ticker), url.QueryEscape(s.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, quoteURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrPriceLookup, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrPriceLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: finnhub returned status %d for %s", apperrors.ErrPriceLookup, resp.StatusCode, ticker)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrPriceLookup, err)
	}

	var quote finnhubQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrPriceLookup, err)
	}

	if quote.Current <= 0 {
		return 0, fmt.Errorf("%w: no quote for symbol %s", apperrors.ErrPriceLookup, ticker)
	}

	return quote.Current, nil
}
