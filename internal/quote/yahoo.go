package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cylin-tw/line-daily-push/internal/config"
)

// YahooSource reads the current quote from the Yahoo Finance chart endpoint.
// The endpoint rejects requests without a browser-like User-Agent.
type YahooSource struct {
	baseURL string
	symbol  string
	client  *http.Client
}

func NewYahooSource(cfg config.QuoteConfig) *YahooSource {
	return &YahooSource{
		baseURL: cfg.YahooBaseURL,
		symbol:  cfg.Symbol,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

func (s *YahooSource) Name() string {
	return "yahoo"
}

func (s *YahooSource) Fetch(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s", s.baseURL, s.symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("yahoo chart request failed with status: %d", resp.StatusCode)
	}

	var payload struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice *float64 `json:"regularMarketPrice"`
				} `json:"meta"`
			} `json:"result"`
		} `json:"chart"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("yahoo chart response is not JSON: %w", err)
	}

	if len(payload.Chart.Result) == 0 || payload.Chart.Result[0].Meta.RegularMarketPrice == nil {
		return 0, fmt.Errorf("yahoo chart response missing regularMarketPrice")
	}

	return *payload.Chart.Result[0].Meta.RegularMarketPrice, nil
}
