package backtest

import (
	"math"
	"time"

	"github.com/quantarc/tradebot/market"
)

// Ledger tracks cash, the open position, realized trades, and the
// per-bar mark-to-market equity curve. One position at a time; entries
// deploy a configurable fraction of current cash at the bar close.
type Ledger struct {
	cash       float64
	allocation float64

	pos    openPosition
	trades []Trade
	equity []EquityPoint
}

type openPosition struct {
	open       bool
	qty        int64
	entryPrice float64
	entryTime  time.Time
}

// NewLedger starts a ledger with the given capital and allocation
// fraction. Allocation outside (0,1] falls back to 1.
func NewLedger(capital, allocation float64) *Ledger {
	if allocation <= 0 || allocation > 1 {
		allocation = 1.0
	}
	return &Ledger{
		cash:       capital,
		allocation: allocation,
	}
}

// Enter opens a position at the bar close, sizing by
// floor(cash*allocation/close). A non-positive size (insufficient
// capital) makes the entry a no-op and reports false.
func (l *Ledger) Enter(bar market.Bar) bool {
	if l.pos.open || bar.Close <= 0 {
		return false
	}

	deploy := l.cash * l.allocation
	qty := int64(math.Floor(deploy / bar.Close))
	if qty <= 0 {
		return false
	}

	l.cash -= float64(qty) * bar.Close
	l.pos = openPosition{
		open:       true,
		qty:        qty,
		entryPrice: bar.Close,
		entryTime:  bar.Time,
	}
	return true
}

// Exit closes the open position at the bar close, realizing
// pnl = (exit - entry) * qty. No-op when flat.
func (l *Ledger) Exit(bar market.Bar, reason string) {
	if !l.pos.open {
		return
	}

	qty := l.pos.qty
	l.cash += float64(qty) * bar.Close

	l.trades = append(l.trades, Trade{
		EntryTime:  l.pos.entryTime,
		ExitTime:   bar.Time,
		Side:       "BUY",
		Qty:        qty,
		EntryPrice: l.pos.entryPrice,
		ExitPrice:  bar.Close,
		PnL:        (bar.Close - l.pos.entryPrice) * float64(qty),
		Reason:     reason,
	})
	l.pos = openPosition{}
}

// MarkToMarket appends one equity point for the bar:
// cash plus the open position valued at the bar close.
func (l *Ledger) MarkToMarket(bar market.Bar) {
	eq := l.cash
	if l.pos.open {
		eq += float64(l.pos.qty) * bar.Close
	}
	l.equity = append(l.equity, EquityPoint{Time: bar.Time, Equity: eq})
}

// InPosition reports whether a position is currently open.
func (l *Ledger) InPosition() bool { return l.pos.open }

// Cash returns the uninvested balance.
func (l *Ledger) Cash() float64 { return l.cash }

// Trades returns the realized (closed) trades in entry order.
func (l *Ledger) Trades() []Trade { return l.trades }

// Equity returns the mark-to-market curve, one point per simulated bar.
func (l *Ledger) Equity() []EquityPoint { return l.equity }
