package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/apperrors"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// yahooResponse maps the relevant parts of the Yahoo Finance chart API
// response: daily close prices plus an optional API-level error message.
type yahooResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// YahooSource fetches current prices from the Yahoo Finance chart API.
// It queries the last five trading days and uses the most recent close,
// which tolerates weekends and market holidays.
type YahooSource struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooSource creates a Yahoo price source with the given request timeout.
func NewYahooSource(timeout time.Duration) *YahooSource {
	return &YahooSource{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultYahooBaseURL,
	}
}

// CurrentPrice returns the latest available daily close for the ticker.
func (s *YahooSource) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", s.baseURL, ticker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrPriceLookup, err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrPriceLookup, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrPriceLookup, err)
	}

	var response yahooResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrPriceLookup, err)
	}

	if response.Chart.Error != nil {
		return 0, fmt.Errorf("%w: yahoo error for %s: %s", apperrors.ErrPriceLookup, ticker, *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return 0, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrPriceLookup, ticker)
	}

	result := response.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return 0, fmt.Errorf("%w: no close prices returned for %s", apperrors.ErrPriceLookup, ticker)
	}

	// The most recent entries can be zero on days with no trade data yet;
	// walk backwards to the last real close.
	closes := result.Indicators.Quote[0].Close
	for i := len(closes) - 1; i >= 0; i-- {
		if closes[i] > 0 {
			return closes[i], nil
		}
	}

	return 0, fmt.Errorf("%w: no close prices returned for %s", apperrors.ErrPriceLookup, ticker)
}
