package strategies

// Signal is the action a strategy requests for the current bar.
type Signal int

const (
	SignalNone Signal = iota
	SignalEnter
	SignalExit
)

func (s Signal) String() string {
	switch s {
	case SignalEnter:
		return "enter"
	case SignalExit:
		return "exit"
	default:
		return "none"
	}
}

// BarStrategy is the minimal interface a bar-driven strategy must
// implement. OnBar is called once per bar in timestamp order with the
// bar's closing price and whether a position is currently open.
type BarStrategy interface {
	Name() string

	// Warmup reports how many bars must accumulate before the strategy
	// can emit signals. Bars before warmup are excluded from simulation.
	Warmup() int

	Reset()
	OnBar(close float64, inPosition bool) Signal
}
