package stream

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quantarc/tradebot/market"
)

// Tick is one price update from the live feed.
type Tick struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
}

// Feed delivers ticks for a symbol until the context is cancelled.
type Feed interface {
	Run(ctx context.Context, out chan<- Tick) error
}

// WSFeed reads ticks from an exchange websocket. When the websocket is
// unavailable it degrades to polling the bar source for the latest close
// once per interval, so live runs keep seeing prices during outages.
type WSFeed struct {
	URL      string
	Symbol   string
	Interval string

	// Fallback polling source; nil disables the fallback.
	Bars market.BarSource

	PollEvery time.Duration
	dial      func(url string) (wsConn, error)
}

// wsConn is the slice of *websocket.Conn the feed needs; narrowed for
// test doubles.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	Close() error
}

// NewWSFeed builds a feed for one symbol. An empty URL means
// polling-only.
func NewWSFeed(url, symbol, interval string, bars market.BarSource) *WSFeed {
	return &WSFeed{
		URL:       url,
		Symbol:    symbol,
		Interval:  interval,
		Bars:      bars,
		PollEvery: time.Second,
		dial: func(url string) (wsConn, error) {
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			return conn, err
		},
	}
}

// Run streams ticks into out until ctx is done. It returns nil on
// cancellation; an error only when neither the websocket nor a fallback
// source is usable.
func (f *WSFeed) Run(ctx context.Context, out chan<- Tick) error {
	if f.URL != "" {
		err := f.runWebsocket(ctx, out)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		log.Printf("stream: websocket failed (%v), falling back to polling", err)
	}
	return f.runPolling(ctx, out)
}

func (f *WSFeed) runWebsocket(ctx context.Context, out chan<- Tick) error {
	conn, err := f.dial(f.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Close the socket when the context ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var tick Tick
		if err := json.Unmarshal(msg, &tick); err != nil {
			log.Printf("stream: bad tick payload: %v", err)
			continue
		}
		if tick.Time.IsZero() {
			tick.Time = time.Now().UTC()
		}

		select {
		case out <- tick:
		case <-ctx.Done():
			return nil
		}
	}
}

// runPolling emits the latest bar close once per PollEvery.
func (f *WSFeed) runPolling(ctx context.Context, out chan<- Tick) error {
	if f.Bars == nil {
		return ErrNoSource
	}

	ticker := time.NewTicker(f.PollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			bars, err := f.Bars.GetBars(ctx, f.Symbol, f.Interval, time.Time{}, time.Time{})
			if err != nil || len(bars) == 0 {
				continue
			}
			last := bars[len(bars)-1]

			select {
			case out <- Tick{Symbol: f.Symbol, Price: last.Close, Time: last.Time}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
