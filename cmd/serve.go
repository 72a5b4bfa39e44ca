package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/internal/notifier"
	"github.com/cylin-tw/line-daily-push/internal/scheduler"
	"github.com/cylin-tw/line-daily-push/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the admin server",
	Long: `Start the daily notification scheduler (weather in the morning, stock
price in the afternoon) together with the HTTP admin surface for health
checks and manual runs.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting daily push service",
		zap.String("environment", cfg.Environment),
		zap.Bool("scheduler_enabled", cfg.Schedule.Enabled),
		zap.Bool("admin_server_enabled", cfg.Server.Enabled))

	n := notifier.New(cfg, log, tele)

	var sched *scheduler.Scheduler
	if cfg.Schedule.Enabled {
		sched = scheduler.New(cfg.Schedule, n, log)
		if err := sched.Start(); err != nil {
			log.Error("Failed to start scheduler", zap.Error(err))
			return err
		}
		defer sched.Stop()
	}

	if !cfg.Server.Enabled {
		<-cmd.Context().Done()
		log.Info("Shutting down")
		return nil
	}

	srv := server.New(n, log, tele)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Admin server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down")

		if err := srv.Shutdown(); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Shutdown complete")
		return nil
	}
}
