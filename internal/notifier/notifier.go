package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/internal/forecast"
	"github.com/cylin-tw/line-daily-push/internal/push"
	"github.com/cylin-tw/line-daily-push/internal/quote"
	"github.com/cylin-tw/line-daily-push/pkg/telemetry"
)

// ErrMissingCredential marks a run aborted because a required secret is not
// configured. It affects only the run that needed the secret.
var ErrMissingCredential = errors.New("missing credential")

const (
	ModePrice   = "price"
	ModeWeather = "weather"
)

type priceFetcher interface {
	Fetch(ctx context.Context) (float64, error)
}

type reportBuilder interface {
	BuildReport(ctx context.Context) string
}

type recipientLister interface {
	Configured() bool
	List(ctx context.Context) ([]string, error)
}

type sender interface {
	Send(ctx context.Context, recipients []string, text string) error
}

// RunResult captures the outcome of one notification run for the status
// endpoint.
type RunResult struct {
	Mode       string    `json:"mode"`
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	Duration   string    `json:"duration"`
	Recipients int       `json:"recipients"`
	DryRun     bool      `json:"dry_run"`
	Error      string    `json:"error,omitempty"`
}

// Notifier ties the acquisition layers to recipient resolution and dispatch.
// Price and weather runs are independent: a failure in one never blocks the
// other's scheduled window.
type Notifier struct {
	cfg      *config.Config
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	quotes   priceFetcher
	reporter reportBuilder
	dir      recipientLister
	disp     sender

	mu       sync.Mutex
	lastRuns map[string]RunResult
}

func New(cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) *Notifier {
	return &Notifier{
		cfg:    cfg,
		logger: logger,
		tele:   tele,
		quotes: quote.NewChain(logger,
			quote.NewYahooSource(cfg.Quote),
			quote.NewFinMindSource(cfg.Quote)),
		reporter: forecast.NewReporter(cfg.Weather, logger, tele),
		dir:      push.NewDirectory(cfg.Directory, logger),
		disp:     push.NewDispatcher(cfg.Line, logger),
		lastRuns: make(map[string]RunResult),
	}
}

// RunPrice fetches the quote through the fallback chain and pushes the daily
// price message, prefixed with a threshold alert when the target is reached.
// A chain failure means no price message of any kind is sent.
func (n *Notifier) RunPrice(ctx context.Context, dryRun bool) (string, error) {
	return n.run(ctx, ModePrice, dryRun, func(ctx context.Context, log *zap.Logger) (string, error) {
		price, err := n.quotes.Fetch(ctx)
		if err != nil {
			return "", fmt.Errorf("fetching price: %w", err)
		}

		target := n.cfg.Quote.TargetPrice
		message := fmt.Sprintf("📢 台積電今日價格為：%.2f 元", price)
		if target > 0 && price >= target {
			message = fmt.Sprintf("📈 台積電股價已達 %.2f 元！\n（提醒門檻：%.0f）\n\n%s",
				price, target, message)
			log.Info("Target price reached",
				zap.Float64("price", price),
				zap.Float64("target", target))
		}

		return message, nil
	})
}

// RunWeather builds the grouped forecast report and pushes it. The reporter
// degrades internally; the only hard failure here is a missing API key.
func (n *Notifier) RunWeather(ctx context.Context, dryRun bool) (string, error) {
	return n.run(ctx, ModeWeather, dryRun, func(ctx context.Context, log *zap.Logger) (string, error) {
		if n.cfg.Weather.APIKey == "" {
			return "⚠ 未設定天氣 API 金鑰，無法產生天氣預報", ErrMissingCredential
		}
		return n.reporter.BuildReport(ctx), nil
	})
}

func (n *Notifier) run(ctx context.Context, mode string, dryRun bool,
	build func(context.Context, *zap.Logger) (string, error)) (string, error) {

	runID := uuid.New().String()
	started := time.Now()

	log := n.logger.With(
		zap.String("mode", mode),
		zap.String("run_id", runID))

	ctx, span := n.tele.GetTracer().Start(ctx, "notifier.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("mode", mode),
		attribute.String("run_id", runID),
		attribute.Bool("dry_run", dryRun),
	)

	log.Info("Notification run started")

	message, err := build(ctx, log)
	if err != nil {
		log.Warn("Notification run produced no dispatchable message", zap.Error(err))
		n.record(RunResult{Mode: mode, RunID: runID, StartedAt: started,
			Duration: time.Since(started).String(), DryRun: dryRun, Error: err.Error()})
		return message, err
	}

	if dryRun {
		log.Info("Dry run, skipping dispatch")
		n.record(RunResult{Mode: mode, RunID: runID, StartedAt: started,
			Duration: time.Since(started).String(), DryRun: true})
		return message, nil
	}

	if n.cfg.Line.ChannelToken == "" {
		log.Warn("Messaging credential not configured, aborting dispatch")
		n.record(RunResult{Mode: mode, RunID: runID, StartedAt: started,
			Duration: time.Since(started).String(), Error: ErrMissingCredential.Error()})
		return message, ErrMissingCredential
	}

	recipients, err := n.recipients(ctx)
	if err != nil {
		log.Error("Failed to resolve recipients", zap.Error(err))
		n.record(RunResult{Mode: mode, RunID: runID, StartedAt: started,
			Duration: time.Since(started).String(), Error: err.Error()})
		return message, err
	}

	if err := n.disp.Send(ctx, recipients, message); err != nil {
		// Best-effort dispatch: partial delivery is logged, not fatal.
		log.Warn("Dispatch finished with failures", zap.Error(err))
	}

	log.Info("Notification run completed",
		zap.Int("recipients", len(recipients)),
		zap.Duration("elapsed", time.Since(started)))

	n.record(RunResult{Mode: mode, RunID: runID, StartedAt: started,
		Duration: time.Since(started).String(), Recipients: len(recipients)})
	return message, nil
}

// recipients re-reads the recipient set on every run; it is never cached.
func (n *Notifier) recipients(ctx context.Context) ([]string, error) {
	if n.dir.Configured() {
		return n.dir.List(ctx)
	}

	if n.cfg.Line.UserID != "" {
		return []string{n.cfg.Line.UserID}, nil
	}

	return nil, nil
}

func (n *Notifier) record(result RunResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastRuns[result.Mode] = result
}

// LastRuns returns a copy of the most recent result per mode.
func (n *Notifier) LastRuns() map[string]RunResult {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make(map[string]RunResult, len(n.lastRuns))
	for mode, result := range n.lastRuns {
		out[mode] = result
	}
	return out
}
