package strategies

import (
	"fmt"

	"github.com/quantarc/tradebot/indicators"
)

// SMACross signals entries and exits from the relative order of a fast
// and a slow simple moving average of closing prices:
//   - enter when fast > slow and no position is open
//   - exit when fast < slow and a position is open
//
// Equality produces no signal, which gives the rule a little hysteresis
// against flat stretches. No signal fires before both windows have filled.
type SMACross struct {
	fastPeriod int
	slowPeriod int

	fast *indicators.SMA
	slow *indicators.SMA
}

// NewSMACross builds the crossover strategy. Window sizes must be strictly
// positive with fast < slow; anything else is a configuration error.
func NewSMACross(fastPeriod, slowPeriod int) (*SMACross, error) {
	if fastPeriod <= 0 || slowPeriod <= 0 {
		return nil, fmt.Errorf("sma-cross: windows must be positive (fast=%d slow=%d)", fastPeriod, slowPeriod)
	}
	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("sma-cross: fast window must be smaller than slow (fast=%d slow=%d)", fastPeriod, slowPeriod)
	}
	return &SMACross{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
		fast:       indicators.NewSMA(fastPeriod),
		slow:       indicators.NewSMA(slowPeriod),
	}, nil
}

func (s *SMACross) Name() string {
	return fmt.Sprintf("sma-cross(%d,%d)", s.fastPeriod, s.slowPeriod)
}

// Warmup is the slow window: both averages are defined from that bar on.
func (s *SMACross) Warmup() int {
	return s.slowPeriod
}

func (s *SMACross) Reset() {
	s.fast.Reset()
	s.slow.Reset()
}

// Fast returns the current fast average (0 before warmup).
func (s *SMACross) Fast() float64 { return s.fast.Value() }

// Slow returns the current slow average (0 before warmup).
func (s *SMACross) Slow() float64 { return s.slow.Value() }

// Ready reports whether both windows have filled.
func (s *SMACross) Ready() bool {
	return s.fast.Ready() && s.slow.Ready()
}

func (s *SMACross) OnBar(close float64, inPosition bool) Signal {
	s.fast.Update(close)
	s.slow.Update(close)

	if !s.Ready() {
		return SignalNone
	}

	fast, slow := s.fast.Value(), s.slow.Value()
	switch {
	case !inPosition && fast > slow:
		return SignalEnter
	case inPosition && fast < slow:
		return SignalExit
	default:
		return SignalNone
	}
}
