package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdulbitspilani/mlopsgate/internal/inference"
	"github.com/abdulbitspilani/mlopsgate/internal/smoke"
)

var (
	smokeURL      string
	smokeFailFast bool
	smokeOutput   string
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run the post-deploy smoke battery and gate on the verdict",
	RunE: func(cmd *cobra.Command, args []string) error {
		if smokeURL != "" {
			cfg.API.BaseURL = smokeURL
		}
		if cmd.Flags().Changed("fail-fast") {
			cfg.Smoke.FailFast = smokeFailFast
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		client := inference.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
		runner := &smoke.Runner{
			Logger:   log,
			Checkers: smoke.BuildCheckers(cfg, client, log),
			Backoff:  cfg.Smoke.RetryBackoff,
			FailFast: cfg.Smoke.FailFast,
			BaseURL:  cfg.API.BaseURL,
		}

		report, err := runner.Run(cmd.Context(), smoke.BuildSuite(cfg))
		if err != nil {
			return err
		}

		// the full report always goes out before the exit code is decided
		if smokeOutput == "json" {
			if err := report.RenderJSON(os.Stdout); err != nil {
				return err
			}
		} else {
			report.Render(os.Stdout)
		}

		if !report.OverallPassed {
			log.Warn("smoke_gate_failed",
				zap.Int("failed", report.FailedCount),
				zap.Int("total", report.Total),
			)
			return fmt.Errorf("%d of %d checks failed: %w", report.FailedCount, report.Total, errGateFailed)
		}
		return nil
	},
}

func init() {
	smokeCmd.Flags().StringVar(&smokeURL, "url", "", "base URL of the model API (overrides config)")
	smokeCmd.Flags().BoolVar(&smokeFailFast, "fail-fast", false, "stop at the first required failure instead of running all checks")
	smokeCmd.Flags().StringVarP(&smokeOutput, "output", "o", "text", "report format: text or json")
	rootCmd.AddCommand(smokeCmd)
}
