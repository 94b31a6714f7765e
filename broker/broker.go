package broker

import (
	"context"
	"time"

	"github.com/quantarc/tradebot/market"
)

// Broker is the single capability interface every adapter implements:
// historical bars, session state, and order placement. Adapters that
// cannot support an operation should fail at construction, not per call.
type Broker interface {
	GetBars(ctx context.Context, symbol, interval string, from, to time.Time) ([]market.Bar, error)
	IsAuthenticated() bool
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

// OrderRequest is the order payload submitted through the risk governor.
type OrderRequest struct {
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"` // BUY or SELL
	Qty        int64   `json:"qty"`
	Price      float64 `json:"price"`
	StrategyID string  `json:"strategy_id,omitempty"`
}

// OrderResult is the broker's acknowledgment of a placed order.
type OrderResult struct {
	OrderID   string
	TradeID   string
	Status    string // e.g. PLACED, SIMULATED
	Simulated bool
}
