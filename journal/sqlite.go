package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const Schema = `
CREATE TABLE IF NOT EXISTS trade_log (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	pnl REAL NOT NULL,
	pnl_pct REAL NOT NULL,
	recorded_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trade_log_recorded_at ON trade_log(recorded_at);
`

type SQLite struct {
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

func (j *SQLite) RecordOutcome(o TradeOutcome) error {
	_, err := j.db.Exec(`
		INSERT INTO trade_log (id, symbol, pnl, pnl_pct, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Symbol, o.PnL, o.PnLPct, o.RecordedAt,
	)
	return err
}

// GetOutcome returns a single outcome by ID.
func (j *SQLite) GetOutcome(id string) (TradeOutcome, error) {
	var o TradeOutcome

	row := j.db.QueryRow(`
		SELECT id, symbol, pnl, pnl_pct, recorded_at
		FROM trade_log
		WHERE id = ?`, id)

	err := row.Scan(&o.ID, &o.Symbol, &o.PnL, &o.PnLPct, &o.RecordedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeOutcome{}, fmt.Errorf("outcome %q not found", id)
		}
		return TradeOutcome{}, err
	}
	return o, nil
}

// ListOutcomesBetween returns outcomes recorded within [start, end).
func (j *SQLite) ListOutcomesBetween(start, end time.Time) ([]TradeOutcome, error) {
	rows, err := j.db.Query(`
		SELECT id, symbol, pnl, pnl_pct, recorded_at
		FROM trade_log
		WHERE recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeOutcome
	for rows.Next() {
		var o TradeOutcome
		if err := rows.Scan(&o.ID, &o.Symbol, &o.PnL, &o.PnLPct, &o.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
