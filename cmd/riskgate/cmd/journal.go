package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rustyeddy/riskgate/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded trade outcomes",
	Long: `Query the per-trade outcome log.

Subcommands:
  today - List outcomes recorded today
  day   - List outcomes recorded on a specific day

Examples:
  riskgate journal today
  riskgate journal day 2026-08-29`,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List outcomes recorded today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List outcomes recorded on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	loc := time.Local
	return listJournalDay(time.Now().In(loc).Format("2006-01-02"), loc)
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listJournalDay(args[0], time.Local)
}

func listJournalDay(day string, loc *time.Location) error {
	start, end, err := dayBounds(loc, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	outcomes, err := j.ListOutcomesBetween(start, end)
	if err != nil {
		return fmt.Errorf("query outcomes: %w", err)
	}
	if len(outcomes) == 0 {
		fmt.Printf("No outcomes recorded on %s\n", day)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Time", "Symbol", "P&L", "P&L %", "ID"})
	for _, o := range outcomes {
		t.AppendRow(table.Row{
			o.RecordedAt.In(loc).Format("15:04:05"),
			o.Symbol,
			fmt.Sprintf("%.2f", o.PnL),
			fmt.Sprintf("%.2f%%", o.PnLPct),
			o.ID,
		})
	}
	t.Render()
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
