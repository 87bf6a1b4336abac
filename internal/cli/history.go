package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	histFile   string
	histDSN    string
	histOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the stored performance snapshots",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all snapshots, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if histFile != "" {
			cfg.Monitor.HistoryFile = histFile
		}
		if histDSN != "" {
			cfg.Monitor.DatabaseURL = histDSN
		}

		store, err := openStore(cmd.Context(), cfg.Monitor.DatabaseURL, cfg.Monitor.HistoryFile)
		if err != nil {
			return err
		}
		defer store.Close()

		snaps, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		if histOutput == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snaps)
		}
		if len(snaps) == 0 {
			fmt.Println("history is empty")
			return nil
		}
		for _, s := range snaps {
			fmt.Printf("%s  %s  samples=%d errors=%d accuracy=%.2f%% mean_confidence=%.3f\n",
				s.Timestamp.Format("2006-01-02 15:04:05"), s.ID,
				s.SampleCount, s.ErrorCount, s.Accuracy*100, s.MeanConfidence)
		}
		return nil
	},
}

func init() {
	historyCmd.PersistentFlags().StringVar(&histFile, "history", "", "snapshot history file (overrides config)")
	historyCmd.PersistentFlags().StringVar(&histDSN, "dsn", "", "postgres DSN for the history store")
	historyCmd.PersistentFlags().StringVarP(&histOutput, "output", "o", "text", "output format: text or json")
	historyCmd.AddCommand(historyListCmd)
	rootCmd.AddCommand(historyCmd)
}
