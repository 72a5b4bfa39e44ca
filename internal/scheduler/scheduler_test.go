package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/internal/notifier"
	"github.com/cylin-tw/line-daily-push/pkg/telemetry"
)

func newTestScheduler(t *testing.T, cfg config.ScheduleConfig) *Scheduler {
	t.Helper()
	tele, err := telemetry.New(context.Background(), config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)

	n := notifier.New(config.NewDefaultConfig(), zap.NewNop(), tele)
	return New(cfg, n, zap.NewNop())
}

func TestStartRegistersBothJobs(t *testing.T) {
	s := newTestScheduler(t, config.ScheduleConfig{
		Timezone:  "Asia/Taipei",
		WeatherAt: "07:00",
		PriceAt:   "14:00",
	})
	defer s.Stop()

	require.NoError(t, s.Start())
	assert.Equal(t, 2, len(s.scheduler.Jobs()))
}

func TestStartRejectsInvalidTime(t *testing.T) {
	s := newTestScheduler(t, config.ScheduleConfig{
		Timezone:  "Asia/Taipei",
		WeatherAt: "not-a-time",
		PriceAt:   "14:00",
	})
	defer s.Stop()

	assert.Error(t, s.Start())
}

func TestUnknownTimezoneFallsBack(t *testing.T) {
	s := newTestScheduler(t, config.ScheduleConfig{
		Timezone:  "Not/AZone",
		WeatherAt: "07:00",
		PriceAt:   "14:00",
	})
	defer s.Stop()

	require.NoError(t, s.Start())
}
