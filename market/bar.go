package market

import (
	"context"
	"time"
)

// Bar is one OHLCV sample for a fixed interval. Bars in a sequence are
// ordered by Time ascending with unique timestamps.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// BarSource supplies historical bars for a symbol/interval/range.
//
// Implementations normalize whatever shape the upstream returns into []Bar
// and must return an empty slice (not an error) when the upstream fails or
// has no data for the range.
type BarSource interface {
	GetBars(ctx context.Context, symbol, interval string, from, to time.Time) ([]Bar, error)
}
