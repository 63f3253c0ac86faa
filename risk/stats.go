package risk

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rustyeddy/riskgate/store"
)

const statsKeyPrefix = "risk/stats/"

// DayStats aggregates one calendar day of completed trades. Records are
// lazily created zeroed; wins+losses never exceeds Trades.
type DayStats struct {
	Date           string    `json:"date"`
	Trades         int       `json:"trades"`
	RealizedPnL    float64   `json:"realized_pnl"`
	RealizedPnLPct float64   `json:"realized_pnl_pct"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	LastTradeAt    time.Time `json:"last_trade_at"`
	LastWinAt      time.Time `json:"last_win_at"`
	LastLossAt     time.Time `json:"last_loss_at"`
}

// StatsStore persists DayStats keyed by wall-clock date (YYYY-MM-DD) in the
// store's location. Mutations to a given day are serialized with a per-day
// mutex: the read-merge-write in Update is atomic with respect to other
// callers of this store, so concurrent submissions cannot lose counts.
type StatsStore struct {
	kv    store.KeyValueStore
	loc   *time.Location
	nowFn func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStatsStore(kv store.KeyValueStore) *StatsStore {
	return &StatsStore{
		kv:    kv,
		loc:   time.Local,
		nowFn: time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

// SetLocation pins the midnight boundary to loc (e.g. exchange-local time).
func (s *StatsStore) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// SetClock replaces the wall clock, letting tests pin the trading day.
func (s *StatsStore) SetClock(now func() time.Time) {
	if now != nil {
		s.nowFn = now
	}
}

func (s *StatsStore) now() time.Time { return s.nowFn().In(s.loc) }

// Today returns the current day key.
func (s *StatsStore) Today() string {
	return s.now().Format("2006-01-02")
}

// Get returns the stats for day, or a fresh zeroed record if none exist.
func (s *StatsStore) Get(day string) (DayStats, error) {
	lock := s.dayLock(day)
	lock.Lock()
	defer lock.Unlock()
	return s.load(day)
}

// Update applies mutate to the day's record under the per-day lock and
// persists the result.
func (s *StatsStore) Update(day string, mutate func(*DayStats)) (DayStats, error) {
	lock := s.dayLock(day)
	lock.Lock()
	defer lock.Unlock()

	stats, err := s.load(day)
	if err != nil {
		return DayStats{}, err
	}
	mutate(&stats)
	stats.Date = day

	raw, err := json.Marshal(stats)
	if err != nil {
		return DayStats{}, fmt.Errorf("encode stats %s: %w", day, err)
	}
	if err := s.kv.Set(statsKeyPrefix+day, raw); err != nil {
		return DayStats{}, fmt.Errorf("persist stats %s: %w", day, err)
	}
	return stats, nil
}

// Clear removes the persisted record for day and returns a fresh zeroed one.
func (s *StatsStore) Clear(day string) (DayStats, error) {
	lock := s.dayLock(day)
	lock.Lock()
	defer lock.Unlock()

	if err := s.kv.Delete(statsKeyPrefix + day); err != nil {
		return DayStats{}, fmt.Errorf("clear stats %s: %w", day, err)
	}
	return DayStats{Date: day}, nil
}

func (s *StatsStore) load(day string) (DayStats, error) {
	raw, ok, err := s.kv.Get(statsKeyPrefix + day)
	if err != nil {
		return DayStats{}, fmt.Errorf("read stats %s: %w", day, err)
	}
	if !ok {
		return DayStats{Date: day}, nil
	}
	var stats DayStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return DayStats{}, fmt.Errorf("decode stats %s: %w", day, err)
	}
	stats.Date = day
	return stats, nil
}

func (s *StatsStore) dayLock(day string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[day]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[day] = lock
	}
	return lock
}
