package forecast

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/pkg/telemetry"
)

const (
	reportTitle     = "🌤 今日天氣預報"
	reportSignOff   = "祝你有美好的一天 ☀️"
	emptyDiagnostic = "⚠ 目前無法取得天氣資料，請稍後再試"
)

// Weekday names indexed from Monday; display timezone is fixed UTC+8.
var weekdayNames = [7]string{"一", "二", "三", "四", "五", "六", "日"}

var displayZone = time.FixedZone("Asia/Taipei", 8*60*60)

// Reporter runs the extractor over every configured endpoint and renders the
// grouped multi-section report.
type Reporter struct {
	cfg    config.WeatherConfig
	client *Client
	logger *zap.Logger
	tele   *telemetry.Telemetry
	now    func() time.Time
}

func NewReporter(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Reporter {
	return &Reporter{
		cfg:    cfg,
		client: NewClient(cfg),
		logger: logger,
		tele:   tele,
		now:    time.Now,
	}
}

// BuildReport assembles the full forecast message. It always returns a
// user-visible string: a degraded run yields a diagnostic, never an empty
// message or an error.
func (r *Reporter) BuildReport(ctx context.Context) string {
	ctx, span := r.tele.GetTracer().Start(ctx, "forecast.BuildReport")
	defer span.End()

	cache := r.collect(ctx)

	span.SetAttributes(
		attribute.Int("endpoints", len(r.cfg.Endpoints)),
		attribute.Int("areas_extracted", len(cache)),
	)

	if len(cache) == 0 {
		r.logger.Warn("No forecast data extracted from any endpoint")
		return emptyDiagnostic
	}

	return r.render(cache)
}

// collect merges the extraction results of every endpoint into a name-keyed
// cache. A failing endpoint is skipped; later extractions of the same
// normalized name overwrite earlier ones.
func (r *Reporter) collect(ctx context.Context) map[string]AreaForecast {
	cache := make(map[string]AreaForecast)

	for _, endpoint := range r.cfg.Endpoints {
		payload, err := r.client.FetchDataset(ctx, endpoint.Dataset, endpoint.Areas)
		if err != nil {
			r.logger.Warn("Skipping unavailable forecast endpoint",
				zap.String("dataset", endpoint.Dataset),
				zap.Error(err))
			continue
		}

		for _, area := range endpoint.Areas {
			forecast, ok := ExtractArea(payload, area)
			if !ok {
				r.logger.Debug("Area not extractable from payload",
					zap.String("dataset", endpoint.Dataset),
					zap.String("area", area))
				continue
			}
			cache[forecast.Name] = forecast
		}

		r.logger.Info("Forecast endpoint processed",
			zap.String("dataset", endpoint.Dataset),
			zap.Int("areas_requested", len(endpoint.Areas)))
	}

	return cache
}

func (r *Reporter) render(cache map[string]AreaForecast) string {
	now := r.now().In(displayZone)
	weekday := weekdayNames[(int(now.Weekday())+6)%7]

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (週%s)\n", reportTitle, now.Format("2006/01/02"), weekday)

	for _, group := range r.cfg.Groups {
		var lines []string
		for _, name := range group.Areas {
			if forecast, ok := cache[Normalize(name)]; ok {
				lines = append(lines, forecast.Line())
			}
		}
		if len(lines) == 0 {
			continue
		}

		b.WriteString("\n")
		if group.Title != "" {
			fmt.Fprintf(&b, "【%s】\n", group.Title)
		}
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(reportSignOff)

	return b.String()
}
