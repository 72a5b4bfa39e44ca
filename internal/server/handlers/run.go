package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/notifier"
	"github.com/cylin-tw/line-daily-push/internal/server/middlewares"
)

// RunHandler exposes the manual-test path: trigger a notification run now,
// or preview the message it would send without dispatching.
type RunHandler struct {
	notifier *notifier.Notifier
	logger   *zap.Logger
}

func NewRunHandler(n *notifier.Notifier, logger *zap.Logger) *RunHandler {
	return &RunHandler{
		notifier: n,
		logger:   logger,
	}
}

func (h *RunHandler) TriggerPrice(c *gin.Context) {
	h.execute(c, notifier.ModePrice, false)
}

func (h *RunHandler) TriggerWeather(c *gin.Context) {
	h.execute(c, notifier.ModeWeather, false)
}

func (h *RunHandler) PreviewPrice(c *gin.Context) {
	h.execute(c, notifier.ModePrice, true)
}

func (h *RunHandler) PreviewWeather(c *gin.Context) {
	h.execute(c, notifier.ModeWeather, true)
}

func (h *RunHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Runs: h.notifier.LastRuns()})
}

func (h *RunHandler) execute(c *gin.Context, mode string, dryRun bool) {
	ctx := c.Request.Context()
	log := h.logger.With(
		zap.String("request_id", c.GetString(middlewares.RequestIDKey)),
		zap.String("mode", mode))

	var (
		message string
		err     error
	)
	switch mode {
	case notifier.ModePrice:
		message, err = h.notifier.RunPrice(ctx, dryRun)
	default:
		message, err = h.notifier.RunWeather(ctx, dryRun)
	}

	if err != nil {
		log.Warn("Manual run failed", zap.Error(err))

		status := http.StatusBadGateway
		code := "RUN_FAILED"
		if errors.Is(err, notifier.ErrMissingCredential) {
			status = http.StatusPreconditionFailed
			code = "MISSING_CREDENTIAL"
		}

		c.JSON(status, ErrorResponse{
			Error:   "notification run failed",
			Code:    code,
			Details: err.Error(),
		})
		return
	}

	log.Info("Manual run completed", zap.Bool("dry_run", dryRun))

	c.JSON(http.StatusOK, RunResponse{
		Mode:       mode,
		DryRun:     dryRun,
		Message:    message,
		Dispatched: !dryRun,
	})
}
