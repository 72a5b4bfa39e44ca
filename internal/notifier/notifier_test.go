package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/internal/quote"
	"github.com/cylin-tw/line-daily-push/pkg/telemetry"
)

type stubFetcher struct {
	price float64
	err   error
}

func (s stubFetcher) Fetch(ctx context.Context) (float64, error) {
	return s.price, s.err
}

type stubReporter struct {
	text string
}

func (s stubReporter) BuildReport(ctx context.Context) string {
	return s.text
}

type stubDirectory struct {
	configured bool
	recipients []string
	err        error
}

func (s stubDirectory) Configured() bool {
	return s.configured
}

func (s stubDirectory) List(ctx context.Context) ([]string, error) {
	return s.recipients, s.err
}

type captureSender struct {
	recipients []string
	text       string
	calls      int
}

func (c *captureSender) Send(ctx context.Context, recipients []string, text string) error {
	c.calls++
	c.recipients = recipients
	c.text = text
	return nil
}

func newTestNotifier(t *testing.T, cfg *config.Config) (*Notifier, *captureSender) {
	t.Helper()
	tele, err := telemetry.New(context.Background(), config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)

	sender := &captureSender{}
	n := New(cfg, zap.NewNop(), tele)
	n.disp = sender
	return n, sender
}

func baseConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Line.ChannelToken = "token"
	cfg.Line.UserID = "U-fallback"
	return cfg
}

func TestRunPriceBelowThreshold(t *testing.T) {
	cfg := baseConfig()
	cfg.Quote.TargetPrice = 1500

	n, sender := newTestNotifier(t, cfg)
	n.quotes = stubFetcher{price: 1030.5}

	message, err := n.RunPrice(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "📢 台積電今日價格為：1030.50 元", message)
	assert.NotContains(t, message, "📈")
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, []string{"U-fallback"}, sender.recipients)
}

func TestRunPriceTargetReached(t *testing.T) {
	cfg := baseConfig()
	cfg.Quote.TargetPrice = 1000

	n, _ := newTestNotifier(t, cfg)
	n.quotes = stubFetcher{price: 1030.5}

	message, err := n.RunPrice(context.Background(), true)
	require.NoError(t, err)
	assert.Contains(t, message, "📈 台積電股價已達 1030.50 元！")
	assert.Contains(t, message, "（提醒門檻：1000）")
	assert.Contains(t, message, "📢 台積電今日價格為：1030.50 元")
}

func TestRunPriceAllSourcesExhausted(t *testing.T) {
	n, sender := newTestNotifier(t, baseConfig())
	n.quotes = stubFetcher{err: quote.ErrNoSource}

	_, err := n.RunPrice(context.Background(), false)
	assert.ErrorIs(t, err, quote.ErrNoSource)
	assert.Equal(t, 0, sender.calls, "no message may be attempted without a quote")
}

func TestRunWeatherMissingAPIKey(t *testing.T) {
	cfg := baseConfig()
	cfg.Weather.APIKey = ""

	n, sender := newTestNotifier(t, cfg)

	message, err := n.RunWeather(context.Background(), false)
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.NotEmpty(t, message, "diagnostic must be a short visible string")
	assert.Equal(t, 0, sender.calls)
}

func TestRunWeatherDispatchesReport(t *testing.T) {
	cfg := baseConfig()
	cfg.Weather.APIKey = "cwa-key"

	n, sender := newTestNotifier(t, cfg)
	n.reporter = stubReporter{text: "report body"}
	n.dir = stubDirectory{configured: true, recipients: []string{"U1", "U2"}}

	message, err := n.RunWeather(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "report body", message)
	assert.Equal(t, []string{"U1", "U2"}, sender.recipients)
}

func TestRunDryRunSkipsDispatch(t *testing.T) {
	cfg := baseConfig()
	cfg.Weather.APIKey = "cwa-key"

	n, sender := newTestNotifier(t, cfg)
	n.reporter = stubReporter{text: "report body"}

	_, err := n.RunWeather(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, sender.calls)

	runs := n.LastRuns()
	require.Contains(t, runs, ModeWeather)
	assert.True(t, runs[ModeWeather].DryRun)
}

func TestRunDirectoryErrorAborts(t *testing.T) {
	cfg := baseConfig()
	cfg.Weather.APIKey = "cwa-key"

	n, sender := newTestNotifier(t, cfg)
	n.reporter = stubReporter{text: "report body"}
	n.dir = stubDirectory{configured: true, err: errors.New("listing failed")}

	_, err := n.RunWeather(context.Background(), false)
	assert.Error(t, err)
	assert.Equal(t, 0, sender.calls)
}
