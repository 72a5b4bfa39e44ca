package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/pkg/logger"
	"github.com/cylin-tw/line-daily-push/pkg/telemetry"
)

var (
	configPath string
	log        *zap.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dailypush",
		Short: "Daily stock price and weather push notifier",
		Long: `A scheduled notification bot that pushes the TSMC stock price and a
multi-district weather forecast to LINE recipients. Quotes go through a
primary/secondary source fallback chain; the forecast pipeline tolerates the
upstream API's shifting payload schemas.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(serveCmd)
	cmd.AddCommand(runCmd)

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if log != nil {
			log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		}
		cancel()
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	config.SetConfig(cfg)

	log, err = logger.New(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	tele, err = telemetry.New(context.Background(), cfg.Telemetry)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
		tele, _ = telemetry.New(context.Background(), config.TelemetryConfig{Enabled: false})
	}

	return nil
}
