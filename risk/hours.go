package risk

import (
	"fmt"
	"time"
)

// outsideTradingHours reports whether now falls outside the configured
// window and the matching extended-hours flag is off. Unparseable window
// bounds disable the check.
func outsideTradingHours(now time.Time, cfg RiskConfig) (string, bool) {
	start, err := minutesOfDay(cfg.TradingStart)
	if err != nil {
		return "", false
	}
	end, err := minutesOfDay(cfg.TradingEnd)
	if err != nil {
		return "", false
	}

	cur := now.Hour()*60 + now.Minute()
	switch {
	case cur < start:
		if cfg.AllowPreMarket {
			return "", false
		}
		return fmt.Sprintf("before market open (%s) and pre-market trading is disabled", cfg.TradingStart), true
	case cur >= end:
		if cfg.AllowAfterHours {
			return "", false
		}
		return fmt.Sprintf("after market close (%s) and after-hours trading is disabled", cfg.TradingEnd), true
	default:
		return "", false
	}
}

func minutesOfDay(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
