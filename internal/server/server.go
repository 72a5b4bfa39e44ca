package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/internal/notifier"
	"github.com/cylin-tw/line-daily-push/internal/server/handlers"
	"github.com/cylin-tw/line-daily-push/internal/server/middlewares"
	"github.com/cylin-tw/line-daily-push/pkg/telemetry"
)

// Server is the admin surface of the notifier: health probes, manual run
// triggers, and message previews. Scheduled runs do not go through it.
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *zap.Logger
}

func New(n *notifier.Notifier, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.Logging(logger))
	engine.Use(middlewares.Recovery(logger))
	engine.Use(middlewares.Tracing(tele))

	s := &Server{
		engine: engine,
		logger: logger,
	}

	runs := handlers.NewRunHandler(n, logger)
	health := handlers.NewHealthHandler()

	api := engine.Group("/api/v1")
	api.POST("/run/price", runs.TriggerPrice)
	api.POST("/run/weather", runs.TriggerWeather)
	api.GET("/preview/price", runs.PreviewPrice)
	api.GET("/preview/weather", runs.PreviewWeather)
	api.GET("/status", runs.Status)

	engine.GET("/health", health.Health)
	engine.GET("/health/live", health.Liveness)
	engine.GET("/health/ready", health.Readiness)

	return s
}

func (s *Server) Start() error {
	cfg := config.GetConfig()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	s.logger.Info("Starting admin server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
