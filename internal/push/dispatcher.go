package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
)

// Dispatcher pushes a text message to recipients through the messaging API,
// splitting them into batches the API accepts. Batches are independent:
// one failed push does not stop the rest, and there are no retries.
type Dispatcher struct {
	pushURL      string
	channelToken string
	batchSize    int
	client       *http.Client
	logger       *zap.Logger
}

type pushMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       []string      `json:"to"`
	Messages []pushMessage `json:"messages"`
}

func NewDispatcher(cfg config.LineConfig, logger *zap.Logger) *Dispatcher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > 500 {
		batchSize = 500
	}

	return &Dispatcher{
		pushURL:      cfg.PushURL,
		channelToken: cfg.ChannelToken,
		batchSize:    batchSize,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

// Send is best-effort: it logs per-batch failures and reports only a summary
// error when some batches were not delivered.
func (d *Dispatcher) Send(ctx context.Context, recipients []string, text string) error {
	if len(recipients) == 0 {
		d.logger.Warn("No recipients to push to")
		return nil
	}

	var failed int
	batches := 0

	for start := 0; start < len(recipients); start += d.batchSize {
		end := start + d.batchSize
		if end > len(recipients) {
			end = len(recipients)
		}
		batches++

		if err := d.pushBatch(ctx, recipients[start:end], text); err != nil {
			failed++
			d.logger.Error("Push batch failed",
				zap.Int("batch", batches),
				zap.Int("recipients", end-start),
				zap.Error(err))
		}
	}

	d.logger.Info("Push completed",
		zap.Int("recipients", len(recipients)),
		zap.Int("batches", batches),
		zap.Int("failed_batches", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d push batches failed", failed, batches)
	}
	return nil
}

func (d *Dispatcher) pushBatch(ctx context.Context, recipients []string, text string) error {
	body, err := json.Marshal(pushRequest{
		To:       recipients,
		Messages: []pushMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.pushURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.channelToken)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push request failed with status: %d", resp.StatusCode)
	}

	return nil
}
