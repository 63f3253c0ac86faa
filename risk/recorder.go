package risk

import (
	"fmt"

	"github.com/rustyeddy/riskgate/journal"
	"github.com/rustyeddy/riskgate/metrics"
	"github.com/rustyeddy/riskgate/pkg/id"
)

// Recorder folds completed trades into the daily statistics. When a journal
// is attached, each outcome also gets its own ULID-keyed log row.
type Recorder struct {
	stats   *StatsStore
	journal journal.Journal
}

// NewRecorder returns a recorder writing through stats. j may be nil to
// skip the per-trade log.
func NewRecorder(stats *StatsStore, j journal.Journal) *Recorder {
	return &Recorder{stats: stats, journal: j}
}

// Record adds one completed trade's realized outcome to today's record.
// Zero pnl counts as neither win nor loss.
func (r *Recorder) Record(symbol string, pnl, pnlPct float64) (DayStats, error) {
	now := r.stats.now()
	day := r.stats.Today()

	updated, err := r.stats.Update(day, func(d *DayStats) {
		d.Trades++
		d.RealizedPnL += pnl
		d.RealizedPnLPct += pnlPct
		d.LastTradeAt = now
		switch {
		case pnl > 0:
			d.Wins++
			d.LastWinAt = now
		case pnl < 0:
			d.Losses++
			d.LastLossAt = now
		}
	})
	if err != nil {
		return DayStats{}, err
	}

	if r.journal != nil {
		out := journal.TradeOutcome{
			ID:         id.New(),
			Symbol:     symbol,
			PnL:        pnl,
			PnLPct:     pnlPct,
			RecordedAt: now,
		}
		if err := r.journal.RecordOutcome(out); err != nil {
			return updated, fmt.Errorf("journal outcome: %w", err)
		}
	}

	metrics.TradeRecorded(pnl)
	return updated, nil
}
