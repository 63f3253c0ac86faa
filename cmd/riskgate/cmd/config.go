package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/riskgate/risk"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the risk configuration",
	Long: `Manage the persisted risk configuration.

Subcommands:
  show  - Print the effective configuration (defaults + overrides)
  set   - Save one or more parameter overrides
  reset - Discard all overrides and return to the built-in defaults
  init  - Write the defaults to a YAML file for editing

Examples:
  riskgate config show
  riskgate config set max_trades_per_day=6 daily_loss_limit_pct=2.5
  riskgate config set halt_trading=true
  riskgate config reset`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set key=value [key=value ...]",
	Short: "Save parameter overrides",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runConfigSet,
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard overrides, back to defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigReset,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to a YAML file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configInitOutput string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "riskgate.yaml", "output config file path")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer kv.Close()

	cfg, err := risk.NewConfigStore(kv).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return printConfigYAML(cfg)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		patch[key] = parseValue(raw)
	}

	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer kv.Close()

	cfg, err := risk.NewConfigStore(kv).Save(patch)
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Saved %d override(s)\n\n", len(patch))
	return printConfigYAML(cfg)
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	kv, err := openKV()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer kv.Close()

	cfg, err := risk.NewConfigStore(kv).Reset()
	if err != nil {
		return fmt.Errorf("reset config: %w", err)
	}

	fmt.Println("✓ Configuration reset to defaults")
	return printConfigYAML(cfg)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(risk.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configInitOutput, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	return nil
}

// parseValue interprets raw as JSON (numbers, bools) and falls back to a
// plain string, so "6", "2.5", "true" and "09:30" all do the right thing.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}

func printConfigYAML(cfg risk.RiskConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
