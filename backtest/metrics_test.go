package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func equityCurve(values ...float64) []EquityPoint {
	base := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	pts := make([]EquityPoint, len(values))
	for i, v := range values {
		pts[i] = EquityPoint{Time: base.Add(time.Duration(i) * time.Minute), Equity: v}
	}
	return pts
}

func TestComputeMetricsEmpty(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(nil, nil)
	assert.Equal(t, Metrics{}, m)
}

func TestWinRate(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		{PnL: 100},
		{PnL: -50},
		{PnL: 0}, // scratch trades do not count as wins
		{PnL: 25},
	}
	m := ComputeMetrics(trades, nil)
	assert.Equal(t, 4, m.TradeCount)
	assert.InDelta(t, 0.5, m.WinRate, 1e-9)
	assert.GreaterOrEqual(t, m.WinRate, 0.0)
	assert.LessOrEqual(t, m.WinRate, 1.0)
}

func TestSharpeRatio(t *testing.T) {
	t.Parallel()

	t.Run("fewer than two points", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, sharpeRatio(nil))
		assert.Equal(t, 0.0, sharpeRatio(equityCurve(100_000)))
	})

	t.Run("zero variance", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, sharpeRatio(equityCurve(100_000, 100_000, 100_000)))
	})

	t.Run("known series", func(t *testing.T) {
		t.Parallel()
		// returns: +0.10, -0.05
		got := sharpeRatio(equityCurve(100, 110, 104.5))

		mean := (0.10 - 0.05) / 2
		variance := (math.Pow(0.10-mean, 2) + math.Pow(-0.05-mean, 2)) / 2
		want := mean / math.Sqrt(variance) * math.Sqrt(252)

		assert.InDelta(t, want, got, 1e-9)
	})

	t.Run("positive drift positive sharpe", func(t *testing.T) {
		t.Parallel()
		got := sharpeRatio(equityCurve(100, 101, 103, 104, 108))
		assert.Positive(t, got)
	})
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	t.Run("no data", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, maxDrawdown(nil))
	})

	t.Run("monotonic rise never draws down", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, maxDrawdown(equityCurve(100, 110, 120)))
	})

	t.Run("trough after peak", func(t *testing.T) {
		t.Parallel()
		// peak 120, trough 90 -> -0.25
		dd := maxDrawdown(equityCurve(100, 120, 90, 110))
		assert.InDelta(t, -0.25, dd, 1e-9)
	})

	t.Run("later deeper trough wins", func(t *testing.T) {
		t.Parallel()
		// first dip -10%, then peak 200 trough 100 -> -50%
		dd := maxDrawdown(equityCurve(100, 90, 200, 100))
		assert.InDelta(t, -0.5, dd, 1e-9)
	})

	t.Run("always non-positive", func(t *testing.T) {
		t.Parallel()
		curves := [][]float64{
			{100}, {100, 150, 75}, {50, 40, 60, 30}, {1, 1, 1},
		}
		for _, c := range curves {
			assert.LessOrEqual(t, maxDrawdown(equityCurve(c...)), 0.0)
		}
	})
}
