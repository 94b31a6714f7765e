package journal

import "time"

// Trade lifecycle states.
const (
	StatusOpen      = "OPEN"
	StatusClosed    = "CLOSED"
	StatusSimulated = "SIMULATED"
)

// TradeRecord is one row in the trade store. Records are append-only:
// backtests and paper fills write them, the risk governor reads them back
// to compute today's realized pnl.
type TradeRecord struct {
	TradeID    string
	StrategyID string
	Symbol     string
	Side       string // BUY or SELL
	Qty        int64
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	Status     string
	EntryTime  time.Time
	ExitTime   time.Time
}

// EquitySnapshot is one point on a recorded equity curve.
type EquitySnapshot struct {
	Time   time.Time
	Equity float64
}

// Journal is the minimal trade-store surface the rest of the system needs.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error

	// DailyRealizedPnL sums the pnl of trades closed on the trading day
	// containing now (UTC).
	DailyRealizedPnL(now time.Time) (float64, error)

	Close() error
}
