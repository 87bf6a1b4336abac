package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdulbitspilani/mlopsgate/internal/config"
	"github.com/abdulbitspilani/mlopsgate/internal/history"
	"github.com/abdulbitspilani/mlopsgate/internal/history/postgres"
	"github.com/abdulbitspilani/mlopsgate/internal/logging"
)

// errGateFailed marks a run that completed and reported, but whose verdict
// should fail the pipeline. Everything else non-nil is a configuration
// error and maps to exit code 2.
var errGateFailed = errors.New("gate failed")

var (
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "mlopsgate",
	Short:         "Deployment validation and model drift monitoring for the cats-vs-dogs stack",
	Long: `mlopsgate gates CI/CD promotion of the image-classifier deployment:
the smoke command probes the deployed stack and fails the pipeline when a
required check breaks; the monitor command scores a labeled test set
against the live endpoint and flags accuracy/confidence drift versus a
stored baseline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		log, err = logging.NewLogger(cfg.Log.Dir, cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default mlopsgate.yaml in the working directory)")
}

// Execute runs the command tree and maps the outcome to the process exit
// code: 0 ok, 1 gate failed (checks failed or drift detected), 2
// configuration error.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errGateFailed):
		return 1
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return 2
	}
}

// openStore picks the history backend: postgres when a DSN is configured,
// the JSON Lines file otherwise.
func openStore(ctx context.Context, dsn, path string) (history.Store, error) {
	if dsn != "" {
		store, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("history store %s: %w", dsn, err)
		}
		return store, nil
	}
	return history.NewFileStore(path)
}
