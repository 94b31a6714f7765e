package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantarc/tradebot/broker"
	"github.com/quantarc/tradebot/config"
	"github.com/quantarc/tradebot/exec"
	"github.com/quantarc/tradebot/journal"
	"github.com/quantarc/tradebot/market"
	"github.com/quantarc/tradebot/market/data"
	"github.com/quantarc/tradebot/strategies"
	"github.com/quantarc/tradebot/stream"
	"github.com/spf13/cobra"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run a supervised live trading session",
	Long: `Live starts the risk governor, subscribes to the tick feed and routes
SMA crossover signals through order validation, rate limiting and the
daily-loss kill switch. In paper mode (the default) orders are simulated
and journaled instead of being dispatched.

Press Ctrl-C to stop the session cleanly.

Example:
  tradebot live --config tradebot.yaml --data data/reliance.csv`,
	RunE: runLive,
}

var (
	liveConfigPath string
	liveDataPath   string
)

func init() {
	rootCmd.AddCommand(liveCmd)

	liveCmd.Flags().StringVarP(&liveConfigPath, "config", "f", "", "path to config file (YAML or JSON); defaults + env when omitted")
	liveCmd.Flags().StringVarP(&liveDataPath, "data", "d", "", "candle file used as the polling fallback price source")
}

func runLive(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if liveConfigPath != "" {
		cfg, err = config.LoadFromFile(liveConfigPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var j journal.Journal
	if cfg.Journal.Type == "csv" {
		j, err = journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	} else {
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	var bars *data.FileSource
	if liveDataPath != "" {
		bars = &data.FileSource{Path: liveDataPath}
	}

	b, err := broker.NewPaper(bars, j)
	if err != nil {
		return fmt.Errorf("create broker: %w", err)
	}

	gov, err := exec.NewGovernor(b, j, exec.Options{
		PaperMode:           cfg.Execution.PaperMode,
		MaxQtyPerOrder:      cfg.Execution.MaxQtyPerOrder,
		AllowedSymbolSuffix: cfg.Execution.AllowedSymbolSuffix,
		MaxOrdersPerMinute:  cfg.Execution.MaxOrdersPerMinute,
	})
	if err != nil {
		return fmt.Errorf("create governor: %w", err)
	}

	strat, err := strategies.NewSMACross(cfg.Strategy.FastWindow, cfg.Strategy.SlowWindow)
	if err != nil {
		return fmt.Errorf("create strategy: %w", err)
	}

	outcome := gov.Start(exec.RunParams{
		StrategyID:   strat.Name(),
		Capital:      cfg.Strategy.Capital,
		MaxDailyLoss: cfg.Execution.MaxDailyLoss,
		Allocation:   cfg.Strategy.Allocation,
	})
	if !outcome.OK {
		return fmt.Errorf("start live run: %s", outcome.Status)
	}

	mode := "LIVE"
	if cfg.Execution.PaperMode {
		mode = "PAPER"
	}
	fmt.Printf("Live session started [%s]\n", mode)
	fmt.Printf("  Symbol:         %s (%s)\n", cfg.Strategy.Symbol, cfg.Strategy.Interval)
	fmt.Printf("  Strategy:       %s\n", strat.Name())
	fmt.Printf("  Max Daily Loss: %.2f\n", cfg.Execution.MaxDailyLoss)
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var feedBars market.BarSource
	if bars != nil {
		feedBars = bars
	}
	feed := stream.NewWSFeed(cfg.Stream.URL, cfg.Strategy.Symbol, cfg.Strategy.Interval, feedBars)

	ticks := make(chan stream.Tick, 64)
	feedDone := make(chan error, 1)
	go func() {
		feedDone <- feed.Run(ctx, ticks)
		close(ticks)
	}()

	trade(ctx, gov, strat, cfg, ticks)

	if out := gov.Stop(); out.OK {
		fmt.Println("Live session stopped.")
	}
	if err := <-feedDone; err != nil {
		return fmt.Errorf("tick feed: %w", err)
	}
	return nil
}

// trade consumes ticks until the context ends or the governor kills the
// run, submitting orders on crossover signals.
func trade(ctx context.Context, gov *exec.Governor, strat *strategies.SMACross, cfg *config.Config, ticks <-chan stream.Tick) {
	var qty int64

	for {
		select {
		case <-ctx.Done():
			return
		case tick, ok := <-ticks:
			if !ok {
				return
			}
			if !gov.Running() {
				fmt.Println("Risk governor stopped the run (daily loss limit).")
				return
			}

			sig := strat.OnBar(tick.Price, qty > 0)
			switch sig {
			case strategies.SignalEnter:
				want := int64(cfg.Strategy.Capital * cfg.Strategy.Allocation / tick.Price)
				if want <= 0 {
					continue
				}
				res := gov.SubmitOrder(ctx, broker.OrderRequest{
					Symbol:     cfg.Strategy.Symbol,
					Side:       "BUY",
					Qty:        want,
					Price:      tick.Price,
					StrategyID: strat.Name(),
				})
				if res.OK {
					qty = want
					fmt.Printf("BUY  %d %s @ %.2f (%s)\n", want, cfg.Strategy.Symbol, tick.Price, res.Reason)
				} else {
					fmt.Printf("BUY rejected: %s\n", res.Reason)
				}

			case strategies.SignalExit:
				res := gov.SubmitOrder(ctx, broker.OrderRequest{
					Symbol:     cfg.Strategy.Symbol,
					Side:       "SELL",
					Qty:        qty,
					Price:      tick.Price,
					StrategyID: strat.Name(),
				})
				if res.OK {
					fmt.Printf("SELL %d %s @ %.2f (%s)\n", qty, cfg.Strategy.Symbol, tick.Price, res.Reason)
					qty = 0
				} else {
					fmt.Printf("SELL rejected: %s\n", res.Reason)
				}
			}
		}
	}
}
