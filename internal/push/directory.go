package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
)

// Directory lists recipient identifiers from the key-value store backing the
// bot's subscription list. The set is re-read on every run.
type Directory struct {
	baseURL     string
	accountID   string
	namespaceID string
	apiToken    string
	client      *http.Client
	logger      *zap.Logger
}

func NewDirectory(cfg config.DirectoryConfig, logger *zap.Logger) *Directory {
	return &Directory{
		baseURL:     cfg.BaseURL,
		accountID:   cfg.AccountID,
		namespaceID: cfg.NamespaceID,
		apiToken:    cfg.APIToken,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

// Configured reports whether a recipient store is set up at all.
func (d *Directory) Configured() bool {
	return d.accountID != "" && d.namespaceID != ""
}

// List walks the paginated key listing until the cursor runs out.
func (d *Directory) List(ctx context.Context) ([]string, error) {
	var recipients []string
	cursor := ""

	for {
		page, nextCursor, err := d.listPage(ctx, cursor)
		if err != nil {
			return nil, err
		}

		recipients = append(recipients, page...)

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	d.logger.Info("Recipient directory listed", zap.Int("recipients", len(recipients)))
	return recipients, nil
}

func (d *Directory) listPage(ctx context.Context, cursor string) ([]string, string, error) {
	u := fmt.Sprintf("%s/accounts/%s/storage/kv/namespaces/%s/keys",
		d.baseURL, d.accountID, d.namespaceID)
	if cursor != "" {
		u += "?cursor=" + url.QueryEscape(cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Authorization", "Bearer "+d.apiToken)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("key listing failed with status: %d", resp.StatusCode)
	}

	var payload struct {
		Result []struct {
			Name string `json:"name"`
		} `json:"result"`
		ResultInfo struct {
			Cursor string `json:"cursor"`
		} `json:"result_info"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("key listing response is not JSON: %w", err)
	}

	names := make([]string, 0, len(payload.Result))
	for _, key := range payload.Result {
		names = append(names, key.Name)
	}

	return names, payload.ResultInfo.Cursor, nil
}
