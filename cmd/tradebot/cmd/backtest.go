package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/quantarc/tradebot/backtest"
	"github.com/quantarc/tradebot/market/data"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run an SMA crossover backtest against historical candles",
	Long: `Backtest replays historical candle data through the SMA crossover
strategy and reports trades, the equity curve and summary metrics.

The data file may be a plain CSV (time,open,high,low,close[,volume]),
a JSON candle dump, a ZIP archive of CSVs, or an XZ-compressed CSV.

Example:
  tradebot backtest --data data/reliance.csv --fast 10 --slow 30`,
	RunE: runBacktest,
}

var (
	btDataPath   string
	btSymbol     string
	btInterval   string
	btFast       int
	btSlow       int
	btAllocation float64
	btCapital    float64
	btFrom       string
	btTo         string
	btOutput     string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btDataPath, "data", "d", "", "path to candle data (.csv, .json, .zip, .xz) (required)")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "RELIANCE.NS", "symbol label for the report")
	backtestCmd.Flags().StringVarP(&btInterval, "interval", "i", "5m", "candle interval label")
	backtestCmd.Flags().IntVar(&btFast, "fast", 10, "fast SMA window")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 30, "slow SMA window")
	backtestCmd.Flags().Float64Var(&btAllocation, "allocation", 1.0, "fraction of capital per position (0,1]")
	backtestCmd.Flags().Float64VarP(&btCapital, "capital", "c", 100_000, "starting capital")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "start time (RFC3339), default unbounded")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "end time (RFC3339), default unbounded")
	backtestCmd.Flags().StringVarP(&btOutput, "output", "o", "", "write full JSON result to file (default: summary to stdout)")

	backtestCmd.MarkFlagRequired("data")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	from, to, err := parseRange(btFrom, btTo)
	if err != nil {
		return err
	}

	engine := backtest.NewEngine(&data.FileSource{Path: btDataPath})

	result, err := engine.Run(context.Background(), backtest.Request{
		Symbol:   btSymbol,
		Interval: btInterval,
		From:     from,
		To:       to,
		Params: backtest.Params{
			FastWindow: btFast,
			SlowWindow: btSlow,
			Allocation: btAllocation,
			Capital:    btCapital,
		},
	})
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	if result.NoData {
		fmt.Println("No candle data in the requested range.")
		return nil
	}

	if btOutput != "" {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		if err := os.WriteFile(btOutput, out, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		fmt.Printf("Wrote full result to %s\n", btOutput)
	}

	fmt.Printf("Backtest Complete: %s %s (%d candles)\n", result.Symbol, result.Interval, result.CandlesCount)
	fmt.Printf("  Trades:       %d\n", result.Metrics.TradeCount)
	fmt.Printf("  Win Rate:     %.1f%%\n", result.Metrics.WinRate*100)
	fmt.Printf("  Sharpe:       %.3f\n", result.Metrics.SharpeRatio)
	fmt.Printf("  Max Drawdown: %.2f%%\n", result.Metrics.MaxDrawdown*100)
	if n := len(result.EquityCurve); n > 0 {
		fmt.Printf("  Final Equity: %.2f\n", result.EquityCurve[n-1].Equity)
	}
	return nil
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromStr != "" {
		from, err = time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return from, to, fmt.Errorf("bad --from %q: %w", fromStr, err)
		}
	}
	if toStr != "" {
		to, err = time.Parse(time.RFC3339, toStr)
		if err != nil {
			return from, to, fmt.Errorf("bad --to %q: %w", toStr, err)
		}
	}
	return from, to, nil
}
