package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "2330.TW", cfg.Quote.Symbol)
	assert.Equal(t, "2330", cfg.Quote.DataID)
	assert.Equal(t, 500, cfg.Line.BatchSize)
	assert.Equal(t, "Asia/Taipei", cfg.Schedule.Timezone)
	assert.NotEmpty(t, cfg.Weather.Endpoints)
	assert.NotEmpty(t, cfg.Weather.Groups)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LDP_QUOTE_TARGET_PRICE", "900")
	t.Setenv("LDP_WEATHER_API_KEY", "cwa-test-key")
	t.Setenv("LDP_LINE_CHANNEL_TOKEN", "line-test-token")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, float64(900), cfg.Quote.TargetPrice)
	assert.Equal(t, "cwa-test-key", cfg.Weather.APIKey)
	assert.Equal(t, "line-test-token", cfg.Line.ChannelToken)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("LDP_LINE_BATCH_SIZE", "9000")

	_, err := Load("")
	assert.Error(t, err, "batch size above the push API limit must be rejected")
}
