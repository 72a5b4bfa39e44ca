package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cylin-tw/line-daily-push/internal/config"
)

// FinMindSource reads the daily price series from the FinMind open API.
// Unlike Yahoo it returns a time-ordered series; the current price is the
// close of the last entry.
type FinMindSource struct {
	baseURL   string
	dataID    string
	startDate string
	client    *http.Client
}

func NewFinMindSource(cfg config.QuoteConfig) *FinMindSource {
	return &FinMindSource{
		baseURL:   cfg.FinMindBaseURL,
		dataID:    cfg.DataID,
		startDate: cfg.StartDate,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

func (s *FinMindSource) Name() string {
	return "finmind"
}

func (s *FinMindSource) Fetch(ctx context.Context) (float64, error) {
	startDate := s.startDate
	if startDate == "" {
		// Wide enough to cover holidays and long weekends.
		startDate = time.Now().AddDate(0, 0, -14).Format("2006-01-02")
	}

	values := url.Values{}
	values.Set("dataset", "TaiwanStockPrice")
	values.Set("data_id", s.dataID)
	values.Set("start_date", startDate)

	u := fmt.Sprintf("%s/api/v4/data?%s", s.baseURL, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("finmind request failed with status: %d", resp.StatusCode)
	}

	var payload struct {
		Data []struct {
			Date  string  `json:"date"`
			Close float64 `json:"close"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("finmind response is not JSON: %w", err)
	}

	if len(payload.Data) == 0 {
		return 0, fmt.Errorf("finmind returned no rows for %s", s.dataID)
	}

	return payload.Data[len(payload.Data)-1].Close, nil
}
