package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
	"github.com/cylin-tw/line-daily-push/internal/notifier"
)

var (
	runMode string
	dryRun  bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Execute one notification run and exit",
		Long: `Run a single notification cycle in the given mode. With --dry-run the
message is printed instead of being pushed, which is the local test path.`,
		RunE: runOnce,
	}
)

func init() {
	runCmd.Flags().StringVarP(&runMode, "mode", "m", "", "notification mode: price or weather")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "build the message without dispatching it")
	_ = runCmd.MarkFlagRequired("mode")
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	n := notifier.New(cfg, log, tele)

	var (
		message string
		err     error
	)
	switch runMode {
	case notifier.ModePrice:
		message, err = n.RunPrice(cmd.Context(), dryRun)
	case notifier.ModeWeather:
		message, err = n.RunWeather(cmd.Context(), dryRun)
	default:
		return fmt.Errorf("unknown mode %q (expected price or weather)", runMode)
	}

	if err != nil {
		log.Error("Run failed", zap.String("mode", runMode), zap.Error(err))
		return err
	}

	if dryRun {
		fmt.Println(message)
	}

	return nil
}
