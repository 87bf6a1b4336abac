package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdulbitspilani/mlopsgate/internal/inference"
	"github.com/abdulbitspilani/mlopsgate/internal/monitor"
	"github.com/abdulbitspilani/mlopsgate/internal/notify"
)

var (
	monURL        string
	monTestDir    string
	monMaxPer     int
	monBaseline   string
	monHistory    string
	monDSN        string
	monOutput     string
	monThresholds map[string]string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Score the test set against the live endpoint and flag drift",
	RunE: func(cmd *cobra.Command, args []string) error {
		if monURL != "" {
			cfg.API.BaseURL = monURL
		}
		if monTestDir != "" {
			cfg.Monitor.TestDir = monTestDir
		}
		if cmd.Flags().Changed("max-per-class") {
			cfg.Monitor.MaxPerClass = monMaxPer
		}
		if monBaseline != "" {
			cfg.Monitor.Baseline = monBaseline
		}
		if monHistory != "" {
			cfg.Monitor.HistoryFile = monHistory
		}
		if monDSN != "" {
			cfg.Monitor.DatabaseURL = monDSN
		}
		for metric, raw := range monThresholds {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				return fmt.Errorf("threshold %s=%q is not a non-negative number", metric, raw)
			}
			cfg.Monitor.Thresholds[metric] = v
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		items, err := monitor.LoadDataset(cfg.Monitor.TestDir, cfg.Monitor.MaxPerClass)
		if err != nil {
			return err
		}

		store, err := openStore(cmd.Context(), cfg.Monitor.DatabaseURL, cfg.Monitor.HistoryFile)
		if err != nil {
			return err
		}
		defer store.Close()

		m := &monitor.Monitor{
			Logger:      log,
			Predictor:   inference.NewClient(cfg.API.BaseURL, cfg.API.Timeout),
			Store:       store,
			Concurrency: cfg.Monitor.Concurrency,
			Thresholds:  cfg.Monitor.Thresholds,
			BaselineID:  cfg.Monitor.Baseline,
		}

		report, err := m.Run(cmd.Context(), items)
		if err != nil {
			return err
		}

		if monOutput == "json" {
			if err := report.RenderJSON(os.Stdout); err != nil {
				return err
			}
		} else {
			report.Render(os.Stdout)
		}

		if report.Drifted {
			alertDrift(cmd, report)
			return fmt.Errorf("model drift detected: %w", errGateFailed)
		}
		return nil
	},
}

func alertDrift(cmd *cobra.Command, report *monitor.Report) {
	channels := notify.Multi{
		&notify.Log{Logger: log},
		notify.NewSlack(cfg.Notify.SlackWebhook),
	}
	text := notify.DriftText(report.Verdicts)
	if err := channels.Send(cmd.Context(), "Model drift detected", text); err != nil {
		log.Warn("monitor_notify_error", zap.Error(err))
	}
}

func init() {
	monitorCmd.Flags().StringVar(&monURL, "url", "", "base URL of the model API (overrides config)")
	monitorCmd.Flags().StringVar(&monTestDir, "test-dir", "", "labeled evaluation set directory (overrides config)")
	monitorCmd.Flags().IntVar(&monMaxPer, "max-per-class", 0, "cap of images scored per class, 0 = all")
	monitorCmd.Flags().StringVar(&monBaseline, "baseline", "", "pin a stored snapshot id as baseline (default: most recent snapshot)")
	monitorCmd.Flags().StringVar(&monHistory, "history", "", "snapshot history file (overrides config)")
	monitorCmd.Flags().StringVar(&monDSN, "dsn", "", "postgres DSN for the history store (overrides the file store)")
	monitorCmd.Flags().StringVarP(&monOutput, "output", "o", "text", "report format: text or json")
	monitorCmd.Flags().StringToStringVar(&monThresholds, "threshold", nil, "per-metric threshold override, e.g. --threshold accuracy=0.05")
	rootCmd.AddCommand(monitorCmd)
}
