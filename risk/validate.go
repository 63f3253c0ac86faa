package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/riskgate/metrics"
)

// Rule names, stable identifiers surfaced in violations and warnings.
const (
	RuleEmergencyHalt     = "Emergency Halt"
	RuleDailyLossLimit    = "Daily Loss Limit"
	RuleMaxDailyTrades    = "Max Daily Trades"
	RuleTradeCooldown     = "Trade Cooldown"
	RuleLossCooldown      = "Loss Cooldown"
	RuleWinCooldown       = "Win Cooldown"
	RuleMaxPositions      = "Max Concurrent Positions"
	RuleDuplicatePosition = "Duplicate Position"
	RulePositionSizing    = "Position Sizing"
	RuleMinPositionSize   = "Min Position Size"
	RuleMaxExposure       = "Max Total Exposure"
	RuleConcurrentRisk    = "Max Concurrent Risk"
	RuleSectorExposure    = "Sector Exposure"
	RuleTradingHours      = "Trading Hours"
)

// existingPositionRiskFactor conservatively models each open position's
// at-risk capital as a fraction of its market value; the engine does not
// see the stops of positions it did not size.
const existingPositionRiskFactor = 0.005

// Check is one rule outcome: a blocking violation or an advisory warning.
type Check struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// TradeRequest is a proposed trade plus the context needed to judge it.
type TradeRequest struct {
	Symbol    string
	Side      string
	Entry     float64
	Stop      float64
	Equity    float64
	Positions []Position
	Sector    string
}

// Metrics is the snapshot of the quantities the checks were computed from,
// so callers can render them without recomputation.
type Metrics struct {
	CurrentExposurePct   float64 `json:"current_exposure_pct"`
	ProjectedExposurePct float64 `json:"projected_exposure_pct"`
	CurrentRiskPct       float64 `json:"current_risk_pct"`
	ProjectedRiskPct     float64 `json:"projected_risk_pct"`
	TodayPnL             float64 `json:"today_pnl"`
	TodayPnLPct          float64 `json:"today_pnl_pct"`
	TradesRemaining      int     `json:"trades_remaining"`
}

// Validation is the full decision for one proposed trade.
// Allowed is true exactly when Violations is empty.
type Validation struct {
	Allowed    bool       `json:"allowed"`
	Violations []Check    `json:"violations"`
	Warnings   []Check    `json:"warnings"`
	Sizing     SizeResult `json:"sizing"`
	Metrics    Metrics    `json:"metrics"`
}

// Validator runs the ordered rule battery against a proposed trade.
type Validator struct {
	stats *StatsStore
}

func NewValidator(stats *StatsStore) *Validator {
	return &Validator{stats: stats}
}

// Validate runs every check and accumulates all failures; it never
// short-circuits, so the caller sees the complete diagnostic picture in one
// call. A persistence failure reading today's statistics is returned as an
// error, distinct from any rule outcome — callers should treat it as
// fail-closed.
func (v *Validator) Validate(req TradeRequest, cfg RiskConfig) (Validation, error) {
	now := v.stats.now()

	today, err := v.stats.Get(v.stats.Today())
	if err != nil {
		return Validation{}, fmt.Errorf("load today's statistics: %w", err)
	}

	var res Validation
	deny := func(rule, format string, args ...any) {
		res.Violations = append(res.Violations, Check{Rule: rule, Message: fmt.Sprintf(format, args...)})
	}
	warn := func(rule, format string, args ...any) {
		res.Warnings = append(res.Warnings, Check{Rule: rule, Message: fmt.Sprintf(format, args...)})
	}

	// 1. Emergency halt
	if cfg.HaltTrading {
		deny(RuleEmergencyHalt, "trading is halted by the emergency stop")
	}

	// 2. Daily loss limit
	if cfg.DailyLossLimitPct > 0 && today.RealizedPnLPct <= -cfg.DailyLossLimitPct {
		deny(RuleDailyLossLimit, "daily loss limit hit: %.2f%% realized today (limit %.2f%%)",
			today.RealizedPnLPct, cfg.DailyLossLimitPct)
	}

	// 3. Trade count cap
	if cfg.MaxTradesPerDay > 0 && today.Trades >= cfg.MaxTradesPerDay {
		deny(RuleMaxDailyTrades, "%d trades today, max is %d", today.Trades, cfg.MaxTradesPerDay)
	}

	// 4-6. Cooldowns
	if remaining, ok := cooldownRemaining(now, today.LastTradeAt, cfg.MinSecondsBetweenTrades); ok {
		deny(RuleTradeCooldown, "last trade too recent, wait %s", remaining)
	}
	if remaining, ok := cooldownRemaining(now, today.LastLossAt, cfg.CooldownAfterLossSec); ok {
		deny(RuleLossCooldown, "cooling down after a loss, wait %s", remaining)
	}
	if remaining, ok := cooldownRemaining(now, today.LastWinAt, cfg.CooldownAfterWinSec); ok {
		deny(RuleWinCooldown, "cooling down after a win, wait %s", remaining)
	}

	// 7. Concurrent position cap
	if cfg.MaxConcurrentPositions > 0 && len(req.Positions) >= cfg.MaxConcurrentPositions {
		deny(RuleMaxPositions, "%d positions open, max is %d", len(req.Positions), cfg.MaxConcurrentPositions)
	}

	// 8. Same-symbol overlap is advisory only
	for _, p := range req.Positions {
		if strings.EqualFold(p.Symbol, req.Symbol) {
			warn(RuleDuplicatePosition, "position already open in %s (%s)", p.Symbol, p.Side)
			break
		}
	}

	// 9. Position sizing
	riskPct := clamp(cfg.RiskPerTradePct, cfg.MinRiskPct, cfg.MaxRiskPct)
	res.Sizing = Size(req.Entry, req.Stop, req.Equity, riskPct, cfg.MaxPositionPct)
	switch {
	case res.Sizing.Error != "":
		deny(RulePositionSizing, "%s", res.Sizing.Error)
	case res.Sizing.Quantity == 0:
		deny(RulePositionSizing, "computed quantity is zero")
	}
	if res.Sizing.Warning != "" {
		warn(RulePositionSizing, "%s", res.Sizing.Warning)
	}

	// 10. Minimum position value
	if res.Sizing.Error == "" && cfg.MinPositionUSD > 0 && res.Sizing.PositionValue < cfg.MinPositionUSD {
		deny(RuleMinPositionSize, "position value $%.2f below minimum $%.2f",
			res.Sizing.PositionValue, cfg.MinPositionUSD)
	}

	// 11-12. Exposure and concurrent risk projections
	var openValue, sectorValue float64
	for _, p := range req.Positions {
		openValue += p.MarketValue
		if req.Sector != "" && strings.EqualFold(p.Sector, req.Sector) {
			sectorValue += p.MarketValue
		}
	}
	if req.Equity > 0 {
		res.Metrics.CurrentExposurePct = openValue / req.Equity * 100
		res.Metrics.ProjectedExposurePct = (openValue + res.Sizing.PositionValue) / req.Equity * 100

		openRisk := openValue * existingPositionRiskFactor
		res.Metrics.CurrentRiskPct = openRisk / req.Equity * 100
		res.Metrics.ProjectedRiskPct = (openRisk + res.Sizing.RiskDollars) / req.Equity * 100

		if cfg.MaxTotalExposurePct > 0 && res.Metrics.ProjectedExposurePct > cfg.MaxTotalExposurePct {
			deny(RuleMaxExposure, "projected exposure %.1f%% exceeds max %.1f%%",
				res.Metrics.ProjectedExposurePct, cfg.MaxTotalExposurePct)
		}
		if cfg.MaxConcurrentRiskPct > 0 && res.Metrics.ProjectedRiskPct > cfg.MaxConcurrentRiskPct {
			deny(RuleConcurrentRisk, "projected concurrent risk %.2f%% exceeds max %.2f%%",
				res.Metrics.ProjectedRiskPct, cfg.MaxConcurrentRiskPct)
		}

		// 13. Sector concentration is advisory
		if req.Sector != "" && cfg.MaxSectorExposurePct > 0 {
			projectedSector := (sectorValue + res.Sizing.PositionValue) / req.Equity * 100
			if projectedSector > cfg.MaxSectorExposurePct {
				warn(RuleSectorExposure, "projected %s exposure %.1f%% exceeds cap %.1f%%",
					req.Sector, projectedSector, cfg.MaxSectorExposurePct)
			}
		}
	}

	// 14. Trading hours are advisory; paper and manual-review flows proceed
	if reason, outside := outsideTradingHours(now, cfg); outside {
		warn(RuleTradingHours, "%s", reason)
	}

	res.Metrics.TodayPnL = today.RealizedPnL
	res.Metrics.TodayPnLPct = today.RealizedPnLPct
	if cfg.MaxTradesPerDay > 0 {
		if remaining := cfg.MaxTradesPerDay - today.Trades; remaining > 0 {
			res.Metrics.TradesRemaining = remaining
		}
	}

	res.Allowed = len(res.Violations) == 0

	metrics.Validation(res.Allowed)
	for _, c := range res.Violations {
		metrics.Violation(c.Rule)
	}
	return res, nil
}

// ValidateFrom fills the request's position snapshot from src, then runs the
// rule battery. A failing source is returned as an error, same as a
// statistics read failure.
func (v *Validator) ValidateFrom(req TradeRequest, cfg RiskConfig, src PositionSource) (Validation, error) {
	if src != nil {
		positions, err := src.OpenPositions()
		if err != nil {
			return Validation{}, fmt.Errorf("load open positions: %w", err)
		}
		req.Positions = positions
	}
	return v.Validate(req, cfg)
}

// cooldownRemaining reports how much of a cooldown window starting at since
// is still ahead of now. A zero window or zero since disables the check.
func cooldownRemaining(now, since time.Time, windowSec int) (time.Duration, bool) {
	if windowSec <= 0 || since.IsZero() {
		return 0, false
	}
	elapsed := now.Sub(since)
	window := time.Duration(windowSec) * time.Second
	if elapsed >= window {
		return 0, false
	}
	return (window - elapsed).Round(time.Second), true
}

func clamp(v, lo, hi float64) float64 {
	if lo > 0 && v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
