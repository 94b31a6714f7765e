package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	var rec TradeRecord

	row := j.db.QueryRow(`
		SELECT trade_id, strategy_id, symbol, side, qty, entry_price, exit_price, pnl, status, entry_time, exit_time
		FROM trades
		WHERE trade_id = ?`, tradeID)

	err := row.Scan(
		&rec.TradeID,
		&rec.StrategyID,
		&rec.Symbol,
		&rec.Side,
		&rec.Qty,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.PnL,
		&rec.Status,
		&rec.EntryTime,
		&rec.ExitTime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns closed trades whose exit_time is within
// [start, end), ordered by exit time.
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, strategy_id, symbol, side, qty, entry_price, exit_price, pnl, status, entry_time, exit_time
		FROM trades
		WHERE status != ? AND exit_time >= ? AND exit_time < ?
		ORDER BY exit_time ASC`, StatusOpen, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.TradeID,
			&rec.StrategyID,
			&rec.Symbol,
			&rec.Side,
			&rec.Qty,
			&rec.EntryPrice,
			&rec.ExitPrice,
			&rec.PnL,
			&rec.Status,
			&rec.EntryTime,
			&rec.ExitTime,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DailyRealizedPnL sums the pnl of non-open trades closed on the UTC
// trading day containing now. The risk governor polls this every tick, so
// it stays a single aggregate query.
func (j *SQLite) DailyRealizedPnL(now time.Time) (float64, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var total sql.NullFloat64
	err := j.db.QueryRow(`
		SELECT SUM(pnl) FROM trades
		WHERE status != ? AND exit_time >= ? AND exit_time < ?`,
		StatusOpen, dayStart, dayEnd,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Float64, nil
}
