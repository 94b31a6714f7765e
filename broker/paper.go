package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/quantarc/tradebot/journal"
	"github.com/quantarc/tradebot/market"
	"github.com/quantarc/tradebot/pkg/id"
)

// Paper simulates order execution: every order "fills" immediately at the
// requested price and is appended to the journal with SIMULATED status.
// Bars are delegated to a real bar source so paper runs see live data.
type Paper struct {
	bars    market.BarSource
	journal journal.Journal
	now     func() time.Time
}

// NewPaper builds a paper broker. The journal is required; the bar source
// may be nil for order-only use.
func NewPaper(bars market.BarSource, j journal.Journal) (*Paper, error) {
	if j == nil {
		return nil, fmt.Errorf("paper broker: journal is required")
	}
	return &Paper{bars: bars, journal: j, now: time.Now}, nil
}

func (p *Paper) GetBars(ctx context.Context, symbol, interval string, from, to time.Time) ([]market.Bar, error) {
	if p.bars == nil {
		return nil, nil
	}
	return p.bars.GetBars(ctx, symbol, interval, from, to)
}

// IsAuthenticated is always true for paper trading; there is no session.
func (p *Paper) IsAuthenticated() bool { return true }

func (p *Paper) PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	tradeID := id.New()
	now := p.now().UTC()

	rec := journal.TradeRecord{
		TradeID:    tradeID,
		StrategyID: req.StrategyID,
		Symbol:     req.Symbol,
		Side:       req.Side,
		Qty:        req.Qty,
		EntryPrice: req.Price,
		ExitPrice:  req.Price,
		PnL:        0,
		Status:     journal.StatusSimulated,
		EntryTime:  now,
		ExitTime:   now,
	}
	if err := p.journal.RecordTrade(rec); err != nil {
		return OrderResult{}, fmt.Errorf("paper broker: record fill: %w", err)
	}

	return OrderResult{
		OrderID:   "PAPER-" + tradeID,
		TradeID:   tradeID,
		Status:    "SIMULATED",
		Simulated: true,
	}, nil
}
