package indicators

import "fmt"

// SMA is a streaming Simple Moving Average over closing prices.
//
// It keeps a fixed-size ring of the last `period` closes plus a running
// sum, so each Update is O(1) regardless of the window length.
type SMA struct {
	period int
	ring   []float64
	head   int
	count  int
	sum    float64
}

// NewSMA creates a streaming SMA with the given period.
func NewSMA(period int) *SMA {
	if period <= 0 {
		panic(fmt.Sprintf("indicators: SMA period must be positive, got %d", period))
	}
	return &SMA{
		period: period,
		ring:   make([]float64, period),
	}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("SMA(%d)", s.period)
}

// Warmup reports how many bars are needed before Value is defined.
func (s *SMA) Warmup() int {
	return s.period
}

func (s *SMA) Reset() {
	s.head = 0
	s.count = 0
	s.sum = 0
	for i := range s.ring {
		s.ring[i] = 0
	}
}

// Update pushes the next closing price into the window.
func (s *SMA) Update(close float64) {
	if s.count == s.period {
		s.sum -= s.ring[s.head]
	} else {
		s.count++
	}
	s.ring[s.head] = close
	s.sum += close
	s.head = (s.head + 1) % s.period
}

// Ready reports whether a full window has accumulated.
func (s *SMA) Ready() bool {
	return s.count >= s.period
}

// Value returns the current average, or 0 before the window is full.
func (s *SMA) Value() float64 {
	if !s.Ready() {
		return 0
	}
	return s.sum / float64(s.period)
}
