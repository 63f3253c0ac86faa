package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a proposed trade against the risk rules",
	Long: `Run the full rule battery against a proposed trade and print every
violation and warning, the sized order and the exposure metrics.

The command exits non-zero when the trade is denied, so it can gate
order-submission scripts directly.

Examples:
  riskgate validate --symbol AAPL --entry 100 --stop 95 --equity 100000
  riskgate validate --symbol NVDA --entry 800 --stop 780 --equity 250000 \
      --sector tech --positions open-positions.json`,
	RunE: runValidate,
}

var (
	validateSymbol    string
	validateSide      string
	validateEntry     float64
	validateStop      float64
	validateEquity    float64
	validateSector    string
	validatePositions string
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateSymbol, "symbol", "", "symbol of the proposed trade (required)")
	validateCmd.Flags().StringVar(&validateSide, "side", "buy", "trade side: buy or sell")
	validateCmd.Flags().Float64Var(&validateEntry, "entry", 0, "entry price (required)")
	validateCmd.Flags().Float64Var(&validateStop, "stop", 0, "stop-loss price (required)")
	validateCmd.Flags().Float64Var(&validateEquity, "equity", 0, "account equity (required)")
	validateCmd.Flags().StringVar(&validateSector, "sector", "", "sector tag for concentration checks")
	validateCmd.Flags().StringVar(&validatePositions, "positions", "", "JSON file with the open position snapshot")
	validateCmd.MarkFlagRequired("symbol")
	validateCmd.MarkFlagRequired("entry")
	validateCmd.MarkFlagRequired("stop")
	validateCmd.MarkFlagRequired("equity")
}

func runValidate(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer kv.Close()

	cfg, err := risk.NewConfigStore(kv).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var src risk.PositionSource
	if validatePositions != "" {
		src = positionFile(validatePositions)
	}

	validator := risk.NewValidator(risk.NewStatsStore(kv))
	res, err := validator.ValidateFrom(risk.TradeRequest{
		Symbol: validateSymbol,
		Side:   validateSide,
		Entry:  validateEntry,
		Stop:   validateStop,
		Equity: validateEquity,
		Sector: validateSector,
	}, cfg, src)
	if err != nil {
		// Fail closed: a trade we could not judge is a trade we deny.
		return fmt.Errorf("validation unavailable, denying trade: %w", err)
	}

	printValidation(res)

	if !res.Allowed {
		cmd.SilenceUsage = true
		return fmt.Errorf("trade denied: %d violation(s)", len(res.Violations))
	}
	return nil
}

// positionFile reads the open-position snapshot from a JSON file.
type positionFile string

func (p positionFile) OpenPositions() ([]risk.Position, error) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return nil, fmt.Errorf("read positions file: %w", err)
	}
	var positions []risk.Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return nil, fmt.Errorf("parse positions file: %w", err)
	}
	return positions, nil
}

func printValidation(res risk.Validation) {
	if res.Allowed {
		fmt.Println("✓ Trade allowed")
	} else {
		fmt.Println("✗ Trade denied")
	}

	if len(res.Violations) > 0 || len(res.Warnings) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Severity", "Rule", "Message"})
		for _, c := range res.Violations {
			t.AppendRow(table.Row{"violation", c.Rule, c.Message})
		}
		for _, c := range res.Warnings {
			t.AppendRow(table.Row{"warning", c.Rule, c.Message})
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 3, WidthMax: 60, Align: text.AlignLeft},
		})
		t.Render()
	}

	fmt.Printf("\nSizing: qty=%d value=$%.2f risk=$%.2f (%.2f%%) stop-distance=%.4f\n",
		res.Sizing.Quantity, res.Sizing.PositionValue, res.Sizing.RiskDollars,
		res.Sizing.RiskPct, res.Sizing.StopDistance)
	fmt.Printf("Exposure: %.1f%% → %.1f%%   Risk: %.2f%% → %.2f%%   Today: $%.2f (%.2f%%)   Trades left: %d\n",
		res.Metrics.CurrentExposurePct, res.Metrics.ProjectedExposurePct,
		res.Metrics.CurrentRiskPct, res.Metrics.ProjectedRiskPct,
		res.Metrics.TodayPnL, res.Metrics.TodayPnLPct, res.Metrics.TradesRemaining)
}
