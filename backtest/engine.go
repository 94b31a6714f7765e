package backtest

import (
	"context"
	"fmt"
	"log"

	"github.com/quantarc/tradebot/market"
	"github.com/quantarc/tradebot/strategies"
)

// Engine runs SMA-crossover simulations against a bar source.
//
// The engine is synchronous and deterministic: identical bars and params
// always produce identical trades, equity curve, and metrics. Data-source
// failures never surface as errors; they degrade to a NoData result.
type Engine struct {
	source market.BarSource
}

func NewEngine(source market.BarSource) *Engine {
	return &Engine{source: source}
}

// Run fetches bars for the request and simulates the strategy across them
// in timestamp order. Invalid strategy parameters are a configuration
// error and the only way Run fails.
func (e *Engine) Run(ctx context.Context, req Request) (Result, error) {
	params := req.Params
	if params.Capital <= 0 {
		params.Capital = 100_000
	}

	strat, err := strategies.NewSMACross(params.FastWindow, params.SlowWindow)
	if err != nil {
		return Result{}, fmt.Errorf("backtest: %w", err)
	}

	bars := e.fetch(ctx, req)

	res := Result{
		Symbol:       req.Symbol,
		Interval:     req.Interval,
		Trades:       []Trade{},
		EquityCurve:  []EquityPoint{},
		CandlesCount: len(bars),
	}
	if len(bars) == 0 {
		res.NoData = true
		return res, nil
	}

	ledger := NewLedger(params.Capital, params.Allocation)

	for _, bar := range bars {
		sig := strat.OnBar(bar.Close, ledger.InPosition())

		// Bars before both windows are warm carry no defined signal and
		// are excluded from the simulation entirely.
		if !strat.Ready() {
			continue
		}

		switch sig {
		case strategies.SignalEnter:
			ledger.Enter(bar)
		case strategies.SignalExit:
			ledger.Exit(bar, "Crossdown")
		}

		ledger.MarkToMarket(bar)
	}

	// Guarantee every trade is closed before metrics are computed.
	if ledger.InPosition() {
		ledger.Exit(bars[len(bars)-1], "EndOfData")
	}

	res.Trades = ledger.Trades()
	res.EquityCurve = ledger.Equity()
	res.Metrics = ComputeMetrics(res.Trades, res.EquityCurve)
	return res, nil
}

// fetch pulls bars from the source, collapsing any failure to an empty
// sequence. The engine never raises for data problems.
func (e *Engine) fetch(ctx context.Context, req Request) []market.Bar {
	if e.source == nil {
		return nil
	}
	bars, err := e.source.GetBars(ctx, req.Symbol, req.Interval, req.From, req.To)
	if err != nil {
		log.Printf("backtest: get bars %s/%s: %v", req.Symbol, req.Interval, err)
		return nil
	}
	return bars
}
