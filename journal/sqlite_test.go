package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func closedTrade(id string, pnl float64, exit time.Time) TradeRecord {
	return TradeRecord{
		TradeID:    id,
		Symbol:     "RELIANCE.NS",
		Side:       "BUY",
		Qty:        10,
		EntryPrice: 100,
		ExitPrice:  100 + pnl/10,
		PnL:        pnl,
		Status:     StatusClosed,
		EntryTime:  exit.Add(-time.Hour),
		ExitTime:   exit,
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','equity')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())
	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
}

func TestSQLiteRecordAndGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)

	exit := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	rec := closedTrade("T1", 250, exit)
	rec.StrategyID = "sma-cross(2,3)"
	require.NoError(t, j.RecordTrade(rec))

	got, err := j.GetTrade("T1")
	require.NoError(t, err)
	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Equal(t, rec.Qty, got.Qty)
	assert.Equal(t, rec.StrategyID, got.StrategyID)
	assert.InDelta(t, 250.0, got.PnL, 1e-9)
	assert.True(t, got.ExitTime.Equal(exit))

	_, err = j.GetTrade("missing")
	assert.Error(t, err)
}

func TestSQLiteDailyRealizedPnL(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	now := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)

	require.NoError(t, j.RecordTrade(closedTrade("T1", -120, now.Add(-2*time.Hour))))
	require.NoError(t, j.RecordTrade(closedTrade("T2", 40, now.Add(-time.Hour))))
	// previous day: excluded
	require.NoError(t, j.RecordTrade(closedTrade("T3", -999, now.Add(-24*time.Hour))))
	// still open: excluded
	open := closedTrade("T4", -500, now)
	open.Status = StatusOpen
	require.NoError(t, j.RecordTrade(open))

	total, err := j.DailyRealizedPnL(now)
	require.NoError(t, err)
	assert.InDelta(t, -80.0, total, 1e-9)
}

func TestSQLiteDailyRealizedPnLEmpty(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	total, err := j.DailyRealizedPnL(time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestSQLiteListTradesClosedBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	base := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	require.NoError(t, j.RecordTrade(closedTrade("A", 10, base)))
	require.NoError(t, j.RecordTrade(closedTrade("B", 20, base.Add(time.Hour))))
	require.NoError(t, j.RecordTrade(closedTrade("C", 30, base.Add(3*time.Hour))))

	recs, err := j.ListTradesClosedBetween(base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].TradeID)
	assert.Equal(t, "B", recs[1].TradeID)
}
