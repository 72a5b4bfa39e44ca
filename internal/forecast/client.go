package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cylin-tw/line-daily-push/internal/config"
)

// Client fetches raw dataset payloads from the weather open-data service.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// FetchDataset retrieves one administrative-area dataset. The payload is
// decoded into a generic map; schema tolerance lives in the extractor.
func (c *Client) FetchDataset(ctx context.Context, dataset string, areas []string) (map[string]interface{}, error) {
	values := url.Values{}
	values.Set("Authorization", c.apiKey)
	if len(areas) > 0 {
		values.Set("locationName", strings.Join(areas, ","))
	}

	u := fmt.Sprintf("%s/%s?%s", c.baseURL, dataset, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset %s request failed with status: %d", dataset, resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("dataset %s response is not JSON: %w", dataset, err)
	}

	return payload, nil
}
