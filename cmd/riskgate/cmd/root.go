package cmd

import (
	"os"

	"github.com/rustyeddy/riskgate/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskgate",
	Short: "Trading-risk gatekeeper: position sizing and account-protection rules",
	Long: `Riskgate validates proposed trades against a configurable set of
account-protection rules before they reach a brokerage.

It provides:
  - Risk-bounded position sizing from entry/stop/equity
  - Loss limits, trade-count caps, cooldowns and exposure checks
  - Day-keyed trading statistics with a per-trade outcome journal
  - A Prometheus metrics endpoint for monitoring decisions`,
}

var dbPath string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "path to the riskgate SQLite database")
}

func defaultDBPath() string {
	if p := os.Getenv("RISKGATE_DB"); p != "" {
		return p
	}
	return "./riskgate.sqlite"
}

func openKV() (*store.SQLite, error) {
	return store.NewSQLite(dbPath)
}
