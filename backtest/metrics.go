package backtest

import "math"

// annualize scales the per-bar sharpe ratio to a yearly figure, using the
// usual 252 trading-day convention.
var annualize = math.Sqrt(252)

// Metrics summarizes a run. All values derive from the closed trade set
// and equity curve; an empty run yields the zero value, never an error.
type Metrics struct {
	TradeCount  int     `json:"trade_count"`
	WinRate     float64 `json:"win_rate"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// ComputeMetrics derives summary metrics from closed trades and the
// equity curve.
func ComputeMetrics(trades []Trade, equity []EquityPoint) Metrics {
	return Metrics{
		TradeCount:  len(trades),
		WinRate:     winRate(trades),
		SharpeRatio: sharpeRatio(equity),
		MaxDrawdown: maxDrawdown(equity),
	}
}

func winRate(trades []Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.PnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades))
}

// sharpeRatio is the mean of per-bar equity percentage returns over their
// standard deviation, annualized by sqrt(252). Fewer than two points or a
// flat return series yields 0 rather than a division by zero.
func sharpeRatio(equity []EquityPoint) float64 {
	if len(equity) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (equity[i].Equity-prev)/prev)
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * annualize
}

// maxDrawdown is the deepest peak-to-trough decline of the equity curve,
// as a non-positive fraction of the running peak. 0 when the curve never
// drew down or has no data.
func maxDrawdown(equity []EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0].Equity
	worst := 0.0
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := (p.Equity - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}
