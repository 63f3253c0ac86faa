package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show or clear daily trading statistics",
	Long: `Display the day-keyed trading aggregates the validator reads.

Examples:
  riskgate stats
  riskgate stats --day 2026-08-29
  riskgate stats clear`,
	RunE: runStatsShow,
}

var statsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear a day's statistics",
	Args:  cobra.NoArgs,
	RunE:  runStatsClear,
}

var statsDay string

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsClearCmd)

	statsCmd.PersistentFlags().StringVar(&statsDay, "day", "", "day to operate on, YYYY-MM-DD (default today)")
}

func runStatsShow(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer kv.Close()

	statsStore := risk.NewStatsStore(kv)
	day := statsDay
	if day == "" {
		day = statsStore.Today()
	}

	stats, err := statsStore.Get(day)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	printStats(stats)
	return nil
}

func runStatsClear(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer kv.Close()

	statsStore := risk.NewStatsStore(kv)
	day := statsDay
	if day == "" {
		day = statsStore.Today()
	}

	stats, err := statsStore.Clear(day)
	if err != nil {
		return fmt.Errorf("clear stats: %w", err)
	}

	fmt.Printf("✓ Cleared statistics for %s\n", stats.Date)
	return nil
}

func printStats(stats risk.DayStats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{"Date", stats.Date},
		{"Trades", stats.Trades},
		{"Realized P&L", fmt.Sprintf("$%.2f (%.2f%%)", stats.RealizedPnL, stats.RealizedPnLPct)},
		{"Wins / Losses", fmt.Sprintf("%d / %d", stats.Wins, stats.Losses)},
	})
	if !stats.LastTradeAt.IsZero() {
		t.AppendRow(table.Row{"Last trade", stats.LastTradeAt.Format("15:04:05")})
	}
	if !stats.LastWinAt.IsZero() {
		t.AppendRow(table.Row{"Last win", stats.LastWinAt.Format("15:04:05")})
	}
	if !stats.LastLossAt.IsZero() {
		t.AppendRow(table.Row{"Last loss", stats.LastLossAt.Format("15:04:05")})
	}
	t.Render()
}
