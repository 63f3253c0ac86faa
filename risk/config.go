package risk

// RiskConfig is the full set of account-protection parameters. Every field
// has a built-in default; persisted overrides are overlaid field by field on
// load, so fields added later inherit their default without migration.
type RiskConfig struct {
	// Position sizing
	RiskPerTradePct float64 `json:"risk_per_trade_pct" yaml:"risk_per_trade_pct"`
	MinRiskPct      float64 `json:"min_risk_pct" yaml:"min_risk_pct"`
	MaxRiskPct      float64 `json:"max_risk_pct" yaml:"max_risk_pct"`
	MaxPositionPct  float64 `json:"max_position_pct" yaml:"max_position_pct"`
	MinPositionUSD  float64 `json:"min_position_usd" yaml:"min_position_usd"`

	// Daily circuit breakers
	DailyLossLimitPct float64 `json:"daily_loss_limit_pct" yaml:"daily_loss_limit_pct"`
	MaxTradesPerDay   int     `json:"max_trades_per_day" yaml:"max_trades_per_day"`

	// Exposure caps
	MaxConcurrentPositions   int     `json:"max_concurrent_positions" yaml:"max_concurrent_positions"`
	MaxTotalExposurePct      float64 `json:"max_total_exposure_pct" yaml:"max_total_exposure_pct"`
	MaxConcurrentRiskPct     float64 `json:"max_concurrent_risk_pct" yaml:"max_concurrent_risk_pct"`
	MaxSectorExposurePct     float64 `json:"max_sector_exposure_pct" yaml:"max_sector_exposure_pct"`
	MaxCorrelatedExposurePct float64 `json:"max_correlated_exposure_pct" yaml:"max_correlated_exposure_pct"`

	// Cooldowns (seconds)
	CooldownAfterLossSec    int `json:"cooldown_after_loss_sec" yaml:"cooldown_after_loss_sec"`
	CooldownAfterWinSec     int `json:"cooldown_after_win_sec" yaml:"cooldown_after_win_sec"`
	MinSecondsBetweenTrades int `json:"min_seconds_between_trades" yaml:"min_seconds_between_trades"`

	// Trading window, local HH:MM
	TradingStart    string `json:"trading_start" yaml:"trading_start"`
	TradingEnd      string `json:"trading_end" yaml:"trading_end"`
	AllowPreMarket  bool   `json:"allow_pre_market" yaml:"allow_pre_market"`
	AllowAfterHours bool   `json:"allow_after_hours" yaml:"allow_after_hours"`

	// Kill switches
	HaltTrading      bool `json:"halt_trading" yaml:"halt_trading"`
	PaperTradingOnly bool `json:"paper_trading_only" yaml:"paper_trading_only"`
}

// DefaultConfig returns the built-in defaults. A fresh Load and a Reset both
// produce exactly this value.
func DefaultConfig() RiskConfig {
	return RiskConfig{
		RiskPerTradePct: 1.0,
		MinRiskPct:      0.25,
		MaxRiskPct:      2.0,
		MaxPositionPct:  10,
		MinPositionUSD:  1000,

		DailyLossLimitPct: 2.0,
		MaxTradesPerDay:   10,

		MaxConcurrentPositions:   5,
		MaxTotalExposurePct:      40,
		MaxConcurrentRiskPct:     5,
		MaxSectorExposurePct:     30,
		MaxCorrelatedExposurePct: 20,

		CooldownAfterLossSec:    300,
		CooldownAfterWinSec:     0,
		MinSecondsBetweenTrades: 60,

		TradingStart:    "09:30",
		TradingEnd:      "16:00",
		AllowPreMarket:  false,
		AllowAfterHours: false,

		HaltTrading:      false,
		PaperTradingOnly: true,
	}
}
