package exec

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/quantarc/tradebot/broker"
	"github.com/quantarc/tradebot/journal"
)

// Live-run lifecycle states.
type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateStopping
)

// Machine-readable reason strings returned to callers.
const (
	ReasonStarted        = "started"
	ReasonAlreadyRunning = "already_running"
	ReasonStopped        = "stopped"
	ReasonNotRunning     = "not_running"
	ReasonQtyInvalid     = "qty_invalid"
	ReasonSymbolMissing  = "symbol_missing"
	ReasonSymbolBlocked  = "symbol_not_allowed"
	ReasonDailyLossLimit = "daily_loss_limit"
	ReasonRateLimited    = "rate_limited"
	ReasonNotAuthed      = "not_authenticated"
)

// Options configures the governor. Zero values get safe defaults.
type Options struct {
	PaperMode           bool
	MaxQtyPerOrder      int64
	AllowedSymbolSuffix string // e.g. ".NS"; empty allows any symbol
	MaxOrdersPerMinute  int
	PollInterval        time.Duration
	StopTimeout         time.Duration
}

func (o *Options) defaults() {
	if o.MaxQtyPerOrder <= 0 {
		o.MaxQtyPerOrder = 1000
	}
	if o.MaxOrdersPerMinute <= 0 {
		o.MaxOrdersPerMinute = 5
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = 5 * time.Second
	}
}

// RunParams describe one live run.
type RunParams struct {
	StrategyID   string
	Capital      float64
	MaxDailyLoss float64 // positive cap; 0 disables the kill switch
	Allocation   float64
}

// Outcome is the structured result of a lifecycle call.
type Outcome struct {
	OK     bool
	Status string
}

// SubmitResult is the structured result of an order submission.
type SubmitResult struct {
	OK     bool
	Reason string
	Order  broker.OrderResult
}

// Governor owns the live-run lifecycle and gates every outbound order
// through validation and rate limiting. A background loop polls realized
// daily pnl from the trade store and kills the run when the configured
// daily loss is breached.
type Governor struct {
	broker  broker.Broker
	journal journal.Journal
	limiter *RateLimiter
	opts    Options
	now     func() time.Time

	mu    sync.Mutex
	state runState
	run   RunParams
	stop  chan struct{}
	done  chan struct{}
}

// NewGovernor wires the governor to its collaborators. A nil broker or
// journal is a configuration error: live gating cannot work without them.
func NewGovernor(b broker.Broker, j journal.Journal, opts Options) (*Governor, error) {
	if b == nil {
		return nil, fmt.Errorf("governor: broker is required")
	}
	if j == nil {
		return nil, fmt.Errorf("governor: trade journal is required")
	}
	opts.defaults()

	return &Governor{
		broker:  b,
		journal: j,
		limiter: NewRateLimiter(opts.MaxOrdersPerMinute),
		opts:    opts,
		now:     time.Now,
	}, nil
}

// Running reports whether a live run is active.
func (g *Governor) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == stateRunning
}

// Start transitions Idle -> Running and spawns the monitoring loop.
// A second Start while running is a no-op reporting already_running.
func (g *Governor) Start(params RunParams) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != stateIdle {
		return Outcome{OK: false, Status: ReasonAlreadyRunning}
	}

	g.state = stateRunning
	g.run = params
	g.stop = make(chan struct{})
	g.done = make(chan struct{})

	go g.monitor(params, g.stop, g.done)

	log.Printf("governor: live run started strategy=%s capital=%.2f max_daily_loss=%.2f",
		params.StrategyID, params.Capital, params.MaxDailyLoss)
	return Outcome{OK: true, Status: ReasonStarted}
}

// Stop transitions Running -> Stopping -> Idle, signalling the loop and
// waiting a bounded time for it to exit. Stopping an idle governor
// reports not_running; it is safe to call after the kill switch has
// already stopped the run.
func (g *Governor) Stop() Outcome {
	g.mu.Lock()
	if g.state != stateRunning {
		g.mu.Unlock()
		return Outcome{OK: false, Status: ReasonNotRunning}
	}
	g.state = stateStopping
	close(g.stop)
	done := g.done
	g.mu.Unlock()

	select {
	case <-done:
	case <-time.After(g.opts.StopTimeout):
		log.Printf("governor: monitor loop did not exit within %v", g.opts.StopTimeout)
	}

	g.mu.Lock()
	g.state = stateIdle
	g.run = RunParams{}
	g.mu.Unlock()

	log.Printf("governor: live run stopped")
	return Outcome{OK: true, Status: ReasonStopped}
}

// monitor is the per-run background loop. Each tick it reads today's
// realized pnl from the trade store; a breach of the daily loss cap is
// fatal to the run and never auto-restarts. Any other tick error is
// logged and the loop continues.
func (g *Governor) monitor(params RunParams, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(g.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if params.MaxDailyLoss <= 0 {
				continue
			}
			pnl, err := g.journal.DailyRealizedPnL(g.now().UTC())
			if err != nil {
				log.Printf("governor: daily pnl read: %v", err)
				continue
			}
			if pnl < -params.MaxDailyLoss {
				log.Printf("governor: daily loss %.2f breached cap %.2f, killing live run", pnl, params.MaxDailyLoss)
				g.selfStop()
				return
			}
		}
	}
}

// selfStop moves the state machine back to Idle from inside the loop
// (kill-switch path). A concurrent external Stop still completes: it
// waits on done and re-asserts Idle.
func (g *Governor) selfStop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == stateRunning {
		g.state = stateIdle
		g.run = RunParams{}
	}
}

// SubmitOrder validates the payload and, depending on mode, simulates or
// dispatches it. Validation failures, rate limiting, and authentication
// failures reject the order with a machine-readable reason; broker errors
// are surfaced verbatim. No order failure is fatal to the live run.
func (g *Governor) SubmitOrder(ctx context.Context, req broker.OrderRequest) SubmitResult {
	if reason, ok := g.validate(req); !ok {
		return SubmitResult{OK: false, Reason: reason}
	}

	if g.opts.PaperMode {
		res, err := g.broker.PlaceOrder(ctx, req)
		if err != nil {
			return SubmitResult{OK: false, Reason: err.Error()}
		}
		return SubmitResult{OK: true, Reason: "simulated", Order: res}
	}

	if !g.limiter.Allow() {
		return SubmitResult{OK: false, Reason: ReasonRateLimited}
	}
	if !g.broker.IsAuthenticated() {
		return SubmitResult{OK: false, Reason: ReasonNotAuthed}
	}

	// The timestamp counts from the dispatch attempt, whether or not the
	// broker accepts the order.
	g.limiter.Record()

	res, err := g.broker.PlaceOrder(ctx, req)
	if err != nil {
		return SubmitResult{OK: false, Reason: err.Error()}
	}
	return SubmitResult{OK: true, Reason: "placed", Order: res}
}

// validate applies the mode-independent order checks: quantity bounds,
// symbol suffix policy, and the configured daily-loss cap.
func (g *Governor) validate(req broker.OrderRequest) (string, bool) {
	if req.Qty <= 0 || req.Qty > g.opts.MaxQtyPerOrder {
		return ReasonQtyInvalid, false
	}

	sym := strings.TrimSpace(req.Symbol)
	if sym == "" {
		return ReasonSymbolMissing, false
	}
	if g.opts.AllowedSymbolSuffix != "" && !strings.HasSuffix(sym, g.opts.AllowedSymbolSuffix) {
		return ReasonSymbolBlocked, false
	}

	g.mu.Lock()
	lossCap := g.run.MaxDailyLoss
	g.mu.Unlock()
	if lossCap > 0 {
		pnl, err := g.journal.DailyRealizedPnL(g.now().UTC())
		if err != nil {
			log.Printf("governor: daily pnl read: %v", err)
		} else if pnl <= -lossCap {
			return ReasonDailyLossLimit, false
		}
	}

	return "", true
}
