// Package journal keeps a per-trade log of realized outcomes alongside the
// daily aggregates, so individual trades stay auditable after the day's
// counters roll up.
package journal

import "time"

// TradeOutcome is one completed trade's realized result.
type TradeOutcome struct {
	ID         string
	Symbol     string
	PnL        float64
	PnLPct     float64
	RecordedAt time.Time
}

type Journal interface {
	RecordOutcome(TradeOutcome) error
	ListOutcomesBetween(start, end time.Time) ([]TradeOutcome, error)
	Close() error
}
