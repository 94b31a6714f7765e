package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantarc/tradebot/market"
)

// stubSource serves a fixed bar sequence, or a fetch error.
type stubSource struct {
	bars []market.Bar
	err  error
}

func (s *stubSource) GetBars(ctx context.Context, symbol, interval string, from, to time.Time) ([]market.Bar, error) {
	return s.bars, s.err
}

func barsFromCloses(closes ...float64) []market.Bar {
	base := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time: base.Add(time.Duration(i) * time.Minute),
			Open: c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return bars
}

func TestRunRejectsBadWindows(t *testing.T) {
	t.Parallel()

	e := NewEngine(&stubSource{bars: barsFromCloses(1, 2, 3)})

	for _, p := range []Params{
		{FastWindow: 0, SlowWindow: 3},
		{FastWindow: 3, SlowWindow: 3},
		{FastWindow: 5, SlowWindow: 2},
	} {
		_, err := e.Run(context.Background(), Request{Symbol: "X", Params: p})
		assert.Error(t, err, "params %+v", p)
	}
}

func TestRunNoData(t *testing.T) {
	t.Parallel()

	params := Params{FastWindow: 2, SlowWindow: 3, Allocation: 1}

	t.Run("empty bars", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(&stubSource{})
		res, err := e.Run(context.Background(), Request{Symbol: "RELIANCE.NS", Params: params})
		require.NoError(t, err)
		assert.True(t, res.NoData)
		assert.Empty(t, res.Trades)
		assert.Empty(t, res.EquityCurve)
		assert.Equal(t, Metrics{}, res.Metrics)
		assert.Equal(t, 0, res.CandlesCount)
	})

	t.Run("source failure is not an error", func(t *testing.T) {
		t.Parallel()
		e := NewEngine(&stubSource{err: errors.New("upstream down")})
		res, err := e.Run(context.Background(), Request{Symbol: "RELIANCE.NS", Params: params})
		require.NoError(t, err)
		assert.True(t, res.NoData)
	})
}

func TestRunShorterThanSlowWindow(t *testing.T) {
	t.Parallel()

	e := NewEngine(&stubSource{bars: barsFromCloses(10, 11)})
	res, err := e.Run(context.Background(), Request{
		Symbol: "TCS.NS",
		Params: Params{FastWindow: 2, SlowWindow: 3},
	})
	require.NoError(t, err)

	assert.False(t, res.NoData)
	assert.Equal(t, 2, res.CandlesCount)
	assert.Empty(t, res.Trades)
	assert.Empty(t, res.EquityCurve)
}

func TestRunReferenceScenario(t *testing.T) {
	t.Parallel()

	// closes [10,11,12,9,8,13,14], fast=2, slow=3:
	// entry at 12, exit at 9, re-entry at 13, forced close at 14.
	bars := barsFromCloses(10, 11, 12, 9, 8, 13, 14)
	e := NewEngine(&stubSource{bars: bars})

	res, err := e.Run(context.Background(), Request{
		Symbol:   "INFY.NS",
		Interval: "1m",
		Params:   Params{FastWindow: 2, SlowWindow: 3, Allocation: 1, Capital: 100_000},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, res.CandlesCount)
	require.Len(t, res.Trades, 2)

	t1 := res.Trades[0]
	assert.Equal(t, int64(8333), t1.Qty) // floor(100000/12)
	assert.Equal(t, 12.0, t1.EntryPrice)
	assert.Equal(t, 9.0, t1.ExitPrice)
	assert.InDelta(t, (9.0-12.0)*8333, t1.PnL, 1e-9)
	assert.True(t, t1.ExitTime.After(t1.EntryTime))

	t2 := res.Trades[1]
	assert.Equal(t, int64(5769), t2.Qty) // floor(75001/13)
	assert.Equal(t, 13.0, t2.EntryPrice)
	assert.Equal(t, 14.0, t2.ExitPrice)
	assert.InDelta(t, (14.0-13.0)*5769, t2.PnL, 1e-9)
	assert.Equal(t, "EndOfData", t2.Reason)
	assert.False(t, t2.ExitTime.IsZero(), "forced close must stamp exit time")

	// one equity point per bar with defined averages: 7 - 3 + 1
	require.Len(t, res.EquityCurve, 5)
	wantEquity := []float64{100_000, 75_001, 75_001, 75_001, 80_770}
	for i, want := range wantEquity {
		assert.InDelta(t, want, res.EquityCurve[i].Equity, 1e-9, "equity[%d]", i)
	}

	assert.Equal(t, 2, res.Metrics.TradeCount)
	assert.InDelta(t, 0.5, res.Metrics.WinRate, 1e-9)
	assert.InDelta(t, -0.24999, res.Metrics.MaxDrawdown, 1e-9)
	assert.Less(t, res.Metrics.SharpeRatio, 0.0)
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	bars := barsFromCloses(10, 11, 12, 9, 8, 13, 14, 12, 15, 16, 11, 10)
	req := Request{
		Symbol: "SBIN.NS",
		Params: Params{FastWindow: 2, SlowWindow: 4, Allocation: 0.5, Capital: 50_000},
	}

	a, err := NewEngine(&stubSource{bars: bars}).Run(context.Background(), req)
	require.NoError(t, err)
	b, err := NewEngine(&stubSource{bars: bars}).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRunSinglePositionInvariant(t *testing.T) {
	t.Parallel()

	// A long up-then-down sawtooth: every entry must be matched by an exit
	// before the next entry.
	closes := []float64{10, 12, 14, 12, 10, 12, 14, 12, 10, 12, 14, 12, 10}
	e := NewEngine(&stubSource{bars: barsFromCloses(closes...)})

	res, err := e.Run(context.Background(), Request{
		Symbol: "HDFC.NS",
		Params: Params{FastWindow: 2, SlowWindow: 3},
	})
	require.NoError(t, err)

	for i := 1; i < len(res.Trades); i++ {
		prev, cur := res.Trades[i-1], res.Trades[i]
		assert.False(t, cur.EntryTime.Before(prev.ExitTime),
			"trade %d overlaps previous position", i)
	}
	for _, tr := range res.Trades {
		assert.False(t, tr.ExitTime.IsZero())
		assert.Positive(t, tr.Qty)
	}
}
