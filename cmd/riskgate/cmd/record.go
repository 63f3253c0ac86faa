package cmd

import (
	"fmt"

	"github.com/rustyeddy/riskgate/journal"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a completed trade's realized outcome",
	Long: `Fold a filled trade's realized P&L into today's statistics and
append it to the trade journal. Call this after the brokerage confirms
the fill.

Examples:
  riskgate record --symbol AAPL --pnl 125.50 --pnl-pct 0.42
  riskgate record --symbol TSLA --pnl -80 --pnl-pct -0.27`,
	RunE: runRecord,
}

var (
	recordSymbol string
	recordPnL    float64
	recordPnLPct float64
)

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&recordSymbol, "symbol", "", "symbol of the completed trade")
	recordCmd.Flags().Float64Var(&recordPnL, "pnl", 0, "realized P&L in account currency (required)")
	recordCmd.Flags().Float64Var(&recordPnLPct, "pnl-pct", 0, "realized P&L as percent of equity")
	recordCmd.MarkFlagRequired("pnl")
}

func runRecord(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer kv.Close()

	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	recorder := risk.NewRecorder(risk.NewStatsStore(kv), j)
	stats, err := recorder.Record(recordSymbol, recordPnL, recordPnLPct)
	if err != nil {
		return fmt.Errorf("record trade: %w", err)
	}

	fmt.Printf("✓ Recorded trade (pnl $%.2f)\n\n", recordPnL)
	printStats(stats)
	return nil
}
