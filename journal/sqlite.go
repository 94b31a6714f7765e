package journal

import (
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the on-disk trade store.
//
// Writes are serialized with a mutex: paper fills from the live path and
// backtest persists can land concurrently, and sqlite handles nested
// writers poorly.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, strategy_id, symbol, side, qty, entry_price, exit_price, pnl, status, entry_time, exit_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.StrategyID, t.Symbol, t.Side, t.Qty,
		t.EntryPrice, t.ExitPrice, t.PnL, t.Status, t.EntryTime, t.ExitTime,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`INSERT INTO equity (time, equity) VALUES (?, ?)`, e.Time, e.Equity)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
