package data

import (
	"context"
	"log"
	"time"

	"github.com/quantarc/tradebot/market"
)

// FileSource serves bars from a local file, implementing market.BarSource
// for backtests against downloaded history. The symbol and interval
// parameters are accepted but not used to select data; one FileSource maps
// to one instrument's file.
//
// Fetch problems are logged and reported as an empty sequence so the
// backtest engine sees "no data" rather than an error.
type FileSource struct {
	Path string
}

func (s *FileSource) GetBars(ctx context.Context, symbol, interval string, from, to time.Time) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil
	}

	bars, err := LoadFile(s.Path)
	if err != nil {
		log.Printf("barsource: load %s: %v", s.Path, err)
		return nil, nil
	}

	out := bars[:0]
	for _, b := range bars {
		if !from.IsZero() && b.Time.Before(from) {
			continue
		}
		if !to.IsZero() && b.Time.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
