package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/internal/notifier"
)

const runTimeout = 2 * time.Minute

// Scheduler gates the two notification modes by time of day: the weather
// report in the morning, the price notice in the afternoon window.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  *notifier.Notifier
	cfg       config.ScheduleConfig
	logger    *zap.Logger
}

func New(cfg config.ScheduleConfig, n *notifier.Notifier, logger *zap.Logger) *Scheduler {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("Unknown schedule timezone, falling back to UTC+8",
			zap.String("timezone", cfg.Timezone),
			zap.Error(err))
		location = time.FixedZone(cfg.Timezone, 8*60*60)
	}

	return &Scheduler{
		scheduler: gocron.NewScheduler(location),
		notifier:  n,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers both daily jobs and starts the scheduler asynchronously.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.cfg.WeatherAt).Do(s.runWeather); err != nil {
		return err
	}

	if _, err := s.scheduler.Every(1).Day().At(s.cfg.PriceAt).Do(s.runPrice); err != nil {
		return err
	}

	s.logger.Info("Scheduler started",
		zap.String("weather_at", s.cfg.WeatherAt),
		zap.String("price_at", s.cfg.PriceAt),
		zap.String("timezone", s.cfg.Timezone))

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runWeather() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := s.notifier.RunWeather(ctx, false); err != nil {
		s.logger.Error("Scheduled weather run failed", zap.Error(err))
	}
}

func (s *Scheduler) runPrice() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := s.notifier.RunPrice(ctx, false); err != nil {
		s.logger.Error("Scheduled price run failed", zap.Error(err))
	}
}

func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
