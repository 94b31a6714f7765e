package backtest

import (
	"time"
)

// Trade is one round trip produced by a simulation. Every trade in a
// Result is closed: the engine force-closes any open position at the last
// bar.
type Trade struct {
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	Side       string    `json:"side"`
	Qty        int64     `json:"qty"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	PnL        float64   `json:"pnl"`
	Reason     string    `json:"reason"`
}

// EquityPoint is the mark-to-market account value at one simulated bar.
type EquityPoint struct {
	Time   time.Time `json:"timestamp"`
	Equity float64   `json:"equity"`
}

// Params are the strategy inputs for a run.
type Params struct {
	FastWindow int     `json:"fast_window" yaml:"fast_window"`
	SlowWindow int     `json:"slow_window" yaml:"slow_window"`
	Allocation float64 `json:"allocation" yaml:"allocation"` // fraction of cash per entry, (0,1]
	Capital    float64 `json:"capital" yaml:"capital"`
}

// Request identifies the bar range and strategy parameters for one run.
type Request struct {
	Symbol   string
	Interval string
	From     time.Time
	To       time.Time
	Params   Params
}

// Result is the structured outcome of a run. A failed or empty bar fetch
// yields NoData=true with zeroed trades/equity/metrics; it is a normal
// reportable outcome, not an error.
type Result struct {
	Symbol       string        `json:"symbol"`
	Interval     string        `json:"interval"`
	Trades       []Trade       `json:"trades"`
	EquityCurve  []EquityPoint `json:"equity_curve"`
	Metrics      Metrics       `json:"metrics"`
	CandlesCount int           `json:"candles_count"`
	NoData       bool          `json:"no_data,omitempty"`
}
