package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradebot",
	Short: "An equities trading bot with SMA backtesting and a live risk governor",
	Long: `Tradebot is a trading research and execution platform written in Go.

It provides tools for:
  - Backtesting SMA crossover strategies against historical candles
  - Running a supervised live trading session with risk controls
  - Rate limiting and daily-loss kill-switch enforcement
  - Journaling trades and equity curves to SQLite or CSV
  - Loading candle data from CSV, ZIP and XZ archives`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
