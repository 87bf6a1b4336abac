package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdulbitspilani/mlopsgate/internal/stubserver"
)

var stubAddr string

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Serve a local stand-in for the model API (health, predict, metrics)",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := stubserver.NewServer(log, cfg.Smoke.Classes)
		httpSrv := &http.Server{
			Addr:    stubAddr,
			Handler: srv.Router(),
		}

		errCh := make(chan error, 1)
		go func() { errCh <- httpSrv.ListenAndServe() }()
		log.Info("stub_listening", zap.String("addr", stubAddr))

		select {
		case <-cmd.Context().Done():
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	},
}

func init() {
	stubCmd.Flags().StringVar(&stubAddr, "addr", ":8000", "listen address")
	rootCmd.AddCommand(stubCmd)
}
