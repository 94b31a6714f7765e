package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// CSVJournal appends trade and equity rows to flat files. It satisfies
// Journal for backtest reporting; DailyRealizedPnL tallies from an
// in-memory mirror of written trades since CSV has no query path.
type CSVJournal struct {
	mu     sync.Mutex
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File

	written []TradeRecord
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := tw.Write([]string{"trade_id", "strategy_id", "symbol", "side", "qty", "entry_price", "exit_price", "pnl", "status", "entry_time", "exit_time"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"time", "equity"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{trades: tw, equity: ew, tf: tf, ef: ef}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.trades.Write([]string{
		t.TradeID,
		t.StrategyID,
		t.Symbol,
		t.Side,
		strconv.FormatInt(t.Qty, 10),
		f(t.EntryPrice),
		f(t.ExitPrice),
		f(t.PnL),
		t.Status,
		t.EntryTime.Format(time.RFC3339),
		t.ExitTime.Format(time.RFC3339),
	}); err != nil {
		return err
	}
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}

	j.written = append(j.written, t)
	return nil
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.equity.Write([]string{e.Time.Format(time.RFC3339), f(e.Equity)}); err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) DailyRealizedPnL(now time.Time) (float64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	total := 0.0
	for _, t := range j.written {
		if t.Status == StatusOpen {
			continue
		}
		if t.ExitTime.Before(dayStart) || !t.ExitTime.Before(dayEnd) {
			continue
		}
		total += t.PnL
	}
	return total, nil
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return fmt.Errorf("close equity file: %w", err)
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
