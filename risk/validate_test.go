package risk

import (
	"errors"
	"testing"
	"time"

	"github.com/rustyeddy/riskgate/store"
	"github.com/stretchr/testify/assert"
)

// 10:30 on a Thursday, inside the default 09:30-16:00 window.
var testNow = time.Date(2026, 3, 5, 10, 30, 0, 0, time.UTC)

func newTestValidator(t *testing.T, now time.Time) (*Validator, *StatsStore, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	stats := NewStatsStore(mem)
	stats.SetLocation(time.UTC)
	stats.SetClock(func() time.Time { return now })

	return NewValidator(stats), stats, mem
}

// cleanRequest sizes to 100 shares worth $10k against $100k equity under the
// default config, with no caps or minimums triggered.
func cleanRequest() TradeRequest {
	return TradeRequest{
		Symbol: "AAPL",
		Side:   "buy",
		Entry:  100,
		Stop:   90,
		Equity: 100000,
	}
}

func hasRule(checks []Check, rule string) bool {
	for _, c := range checks {
		if c.Rule == rule {
			return true
		}
	}
	return false
}

func TestValidateAllowsCleanTrade(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)

	res, err := v.Validate(cleanRequest(), DefaultConfig())
	assert.NoError(t, err)

	assert.True(t, res.Allowed)
	assert.Empty(t, res.Violations)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 100, res.Sizing.Quantity)
	assert.InDelta(t, 1000, res.Sizing.RiskDollars, 1e-9)
	assert.Equal(t, 10, res.Metrics.TradesRemaining)
}

func TestValidateEmergencyHalt(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	cfg := DefaultConfig()
	cfg.HaltTrading = true

	res, err := v.Validate(cleanRequest(), cfg)
	assert.NoError(t, err)

	assert.False(t, res.Allowed)
	assert.True(t, hasRule(res.Violations, RuleEmergencyHalt))
}

func TestValidateDailyLossLimit(t *testing.T) {
	t.Parallel()

	v, stats, _ := newTestValidator(t, testNow)
	_, err := stats.Update(stats.Today(), func(d *DayStats) {
		d.Trades = 4
		d.RealizedPnLPct = -2.5
	})
	assert.NoError(t, err)

	res, err := v.Validate(cleanRequest(), DefaultConfig())
	assert.NoError(t, err)

	assert.False(t, res.Allowed)
	assert.True(t, hasRule(res.Violations, RuleDailyLossLimit))
	for _, c := range res.Violations {
		if c.Rule == RuleDailyLossLimit {
			assert.Contains(t, c.Message, "-2.50%")
			assert.Contains(t, c.Message, "2.00%")
		}
	}
	assert.InDelta(t, -2.5, res.Metrics.TodayPnLPct, 1e-9)
}

func TestValidateMaxDailyTrades(t *testing.T) {
	t.Parallel()

	v, stats, _ := newTestValidator(t, testNow)
	_, err := stats.Update(stats.Today(), func(d *DayStats) { d.Trades = 10 })
	assert.NoError(t, err)

	res, err := v.Validate(cleanRequest(), DefaultConfig())
	assert.NoError(t, err)

	assert.False(t, res.Allowed)
	assert.True(t, hasRule(res.Violations, RuleMaxDailyTrades))
	assert.Zero(t, res.Metrics.TradesRemaining)
}

func TestValidateCooldowns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		seed     func(d *DayStats)
		cfg      func(c *RiskConfig)
		rule     string
		contains string
	}{
		{
			name:     "recent trade",
			seed:     func(d *DayStats) { d.LastTradeAt = testNow.Add(-30 * time.Second) },
			cfg:      func(c *RiskConfig) {},
			rule:     RuleTradeCooldown,
			contains: "wait 30s",
		},
		{
			name:     "recent loss",
			seed:     func(d *DayStats) { d.LastLossAt = testNow.Add(-100 * time.Second) },
			cfg:      func(c *RiskConfig) {},
			rule:     RuleLossCooldown,
			contains: "wait 3m20s",
		},
		{
			name: "recent win",
			seed: func(d *DayStats) { d.LastWinAt = testNow.Add(-60 * time.Second) },
			cfg:  func(c *RiskConfig) { c.CooldownAfterWinSec = 120 },
			rule: RuleWinCooldown,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v, stats, _ := newTestValidator(t, testNow)
			_, err := stats.Update(stats.Today(), tc.seed)
			assert.NoError(t, err)

			cfg := DefaultConfig()
			tc.cfg(&cfg)

			res, err := v.Validate(cleanRequest(), cfg)
			assert.NoError(t, err)

			assert.False(t, res.Allowed)
			assert.True(t, hasRule(res.Violations, tc.rule))
			if tc.contains != "" {
				for _, c := range res.Violations {
					if c.Rule == tc.rule {
						assert.Contains(t, c.Message, tc.contains)
					}
				}
			}
		})
	}
}

func TestValidateCooldownExpired(t *testing.T) {
	t.Parallel()

	v, stats, _ := newTestValidator(t, testNow)
	_, err := stats.Update(stats.Today(), func(d *DayStats) {
		d.LastTradeAt = testNow.Add(-90 * time.Second)
		d.LastLossAt = testNow.Add(-10 * time.Minute)
	})
	assert.NoError(t, err)

	res, err := v.Validate(cleanRequest(), DefaultConfig())
	assert.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestValidateMaxConcurrentPositions(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	req := cleanRequest()
	for _, sym := range []string{"MSFT", "GOOG", "AMZN", "NVDA", "META"} {
		req.Positions = append(req.Positions, Position{Symbol: sym, Side: "long"})
	}

	res, err := v.Validate(req, DefaultConfig())
	assert.NoError(t, err)

	assert.False(t, res.Allowed)
	assert.True(t, hasRule(res.Violations, RuleMaxPositions))
}

func TestValidateDuplicatePositionWarns(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	req := cleanRequest()
	req.Positions = []Position{{Symbol: "aapl", Side: "long", MarketValue: 5000}}

	res, err := v.Validate(req, DefaultConfig())
	assert.NoError(t, err)

	assert.True(t, res.Allowed)
	assert.True(t, hasRule(res.Warnings, RuleDuplicatePosition))
}

func TestValidateExposureCap(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	req := cleanRequest()
	req.Positions = []Position{
		{Symbol: "MSFT", MarketValue: 20000},
		{Symbol: "GOOG", MarketValue: 15000},
	}

	res, err := v.Validate(req, DefaultConfig())
	assert.NoError(t, err)

	assert.False(t, res.Allowed)
	assert.True(t, hasRule(res.Violations, RuleMaxExposure))
	assert.InDelta(t, 35, res.Metrics.CurrentExposurePct, 1e-9)
	assert.InDelta(t, 45, res.Metrics.ProjectedExposurePct, 1e-9)
}

func TestValidateConcurrentRiskCap(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	cfg := DefaultConfig()
	cfg.MaxConcurrentRiskPct = 0.5

	res, err := v.Validate(cleanRequest(), cfg)
	assert.NoError(t, err)

	assert.False(t, res.Allowed)
	assert.True(t, hasRule(res.Violations, RuleConcurrentRisk))
	assert.InDelta(t, 1, res.Metrics.ProjectedRiskPct, 1e-9)
}

func TestValidateSectorExposureWarns(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	req := cleanRequest()
	req.Sector = "tech"
	req.Positions = []Position{
		{Symbol: "MSFT", MarketValue: 25000, Sector: "Tech"},
	}

	res, err := v.Validate(req, DefaultConfig())
	assert.NoError(t, err)

	assert.True(t, res.Allowed)
	assert.True(t, hasRule(res.Warnings, RuleSectorExposure))
}

func TestValidateMinPositionValue(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	cfg := DefaultConfig()
	cfg.MinPositionUSD = 20000

	res, err := v.Validate(cleanRequest(), cfg)
	assert.NoError(t, err)

	assert.False(t, res.Allowed)
	assert.True(t, hasRule(res.Violations, RuleMinPositionSize))
}

func TestValidateSizingErrorDenies(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	req := cleanRequest()
	req.Stop = req.Entry

	res, err := v.Validate(req, DefaultConfig())
	assert.NoError(t, err)

	assert.False(t, res.Allowed)
	assert.True(t, hasRule(res.Violations, RulePositionSizing))
}

func TestValidateRiskPctClamped(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	cfg := DefaultConfig()
	cfg.RiskPerTradePct = 5

	res, err := v.Validate(cleanRequest(), cfg)
	assert.NoError(t, err)
	assert.InDelta(t, cfg.MaxRiskPct, res.Sizing.RiskPct, 1e-9)

	cfg.RiskPerTradePct = 0.01
	res, err = v.Validate(cleanRequest(), cfg)
	assert.NoError(t, err)
	assert.InDelta(t, cfg.MinRiskPct, res.Sizing.RiskPct, 1e-9)
}

func TestValidateTradingHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		now      time.Time
		cfg      func(c *RiskConfig)
		warns    bool
		contains string
	}{
		{
			name:     "after close",
			now:      time.Date(2026, 3, 5, 17, 0, 0, 0, time.UTC),
			cfg:      func(c *RiskConfig) {},
			warns:    true,
			contains: "after market close",
		},
		{
			name:  "after close allowed",
			now:   time.Date(2026, 3, 5, 17, 0, 0, 0, time.UTC),
			cfg:   func(c *RiskConfig) { c.AllowAfterHours = true },
			warns: false,
		},
		{
			name:     "pre-market",
			now:      time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC),
			cfg:      func(c *RiskConfig) {},
			warns:    true,
			contains: "before market open",
		},
		{
			name:  "pre-market allowed",
			now:   time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC),
			cfg:   func(c *RiskConfig) { c.AllowPreMarket = true },
			warns: false,
		},
		{
			name:  "inside window",
			now:   testNow,
			cfg:   func(c *RiskConfig) {},
			warns: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v, _, _ := newTestValidator(t, tc.now)
			cfg := DefaultConfig()
			tc.cfg(&cfg)

			res, err := v.Validate(cleanRequest(), cfg)
			assert.NoError(t, err)

			assert.True(t, res.Allowed)
			assert.Equal(t, tc.warns, hasRule(res.Warnings, RuleTradingHours))
			if tc.contains != "" {
				for _, c := range res.Warnings {
					if c.Rule == RuleTradingHours {
						assert.Contains(t, c.Message, tc.contains)
					}
				}
			}
		})
	}
}

func TestValidateAccumulatesAllViolations(t *testing.T) {
	t.Parallel()

	v, stats, _ := newTestValidator(t, testNow)
	_, err := stats.Update(stats.Today(), func(d *DayStats) {
		d.Trades = 10
		d.RealizedPnLPct = -3
	})
	assert.NoError(t, err)

	cfg := DefaultConfig()
	cfg.HaltTrading = true

	res, err := v.Validate(cleanRequest(), cfg)
	assert.NoError(t, err)

	assert.False(t, res.Allowed)
	assert.True(t, hasRule(res.Violations, RuleEmergencyHalt))
	assert.True(t, hasRule(res.Violations, RuleDailyLossLimit))
	assert.True(t, hasRule(res.Violations, RuleMaxDailyTrades))
}

type stubSource struct {
	positions []Position
	err       error
}

func (s stubSource) OpenPositions() ([]Position, error) { return s.positions, s.err }

func TestValidateFrom(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	src := stubSource{positions: []Position{
		{Symbol: "MSFT", MarketValue: 20000},
		{Symbol: "GOOG", MarketValue: 15000},
	}}

	res, err := v.ValidateFrom(cleanRequest(), DefaultConfig(), src)
	assert.NoError(t, err)
	assert.True(t, hasRule(res.Violations, RuleMaxExposure))
}

func TestValidateFromSourceError(t *testing.T) {
	t.Parallel()

	v, _, _ := newTestValidator(t, testNow)
	src := stubSource{err: errors.New("broker down")}

	_, err := v.ValidateFrom(cleanRequest(), DefaultConfig(), src)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "open positions")
}

func TestValidateStatsReadFailure(t *testing.T) {
	t.Parallel()

	v, _, mem := newTestValidator(t, testNow)
	mem.FailNext = errors.New("disk gone")

	_, err := v.Validate(cleanRequest(), DefaultConfig())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "statistics")
}
