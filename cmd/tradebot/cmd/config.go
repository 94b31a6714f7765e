package cmd

import (
	"fmt"

	"github.com/quantarc/tradebot/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for the trading bot.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  tradebot config init --output tradebot.yaml
  tradebot config validate --file tradebot.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "tradebot.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  tradebot live --config %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	mode := "live"
	if cfg.Execution.PaperMode {
		mode = "paper"
	}
	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Strategy: %s %s (fast=%d slow=%d alloc=%.2f)\n",
		cfg.Strategy.Symbol, cfg.Strategy.Interval, cfg.Strategy.FastWindow, cfg.Strategy.SlowWindow, cfg.Strategy.Allocation)
	fmt.Printf("  Execution: %s mode, %d orders/min, max qty %d, daily loss cap %.2f\n",
		mode, cfg.Execution.MaxOrdersPerMinute, cfg.Execution.MaxQtyPerOrder, cfg.Execution.MaxDailyLoss)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
