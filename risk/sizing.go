package risk

import (
	"fmt"
	"math"
)

// SizeResult is the outcome of a position-sizing calculation. Error and a
// successful size are mutually exclusive, but a zero quantity can appear on
// either path, so callers should inspect Error rather than Quantity alone.
type SizeResult struct {
	Quantity      int     `json:"quantity"`
	RiskDollars   float64 `json:"risk_dollars"`
	RiskPct       float64 `json:"risk_pct"`
	PositionValue float64 `json:"position_value"`
	StopDistance  float64 `json:"stop_distance"`
	Warning       string  `json:"warning,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// Size turns entry/stop/equity and the risk parameters into a sized order.
//
//	qty = floor(equity*riskPct/100 / |entry-stop|)
//
// capped so the position value never exceeds equity*maxPositionPct/100.
// Pure: no I/O, no clock, deterministic for any input. Invalid inputs are
// reported through the Error field, never a panic or Go error.
func Size(entry, stop, equity, riskPct, maxPositionPct float64) SizeResult {
	if entry <= 0 || stop <= 0 || equity <= 0 {
		return SizeResult{Error: "invalid parameters: entry, stop and equity must be positive"}
	}
	if entry == stop {
		return SizeResult{Error: "stop distance is zero"}
	}

	stopDistance := math.Abs(entry - stop)
	riskDollars := equity * riskPct / 100
	qty := math.Floor(riskDollars / stopDistance)

	res := SizeResult{
		Quantity:     int(qty),
		RiskDollars:  riskDollars,
		RiskPct:      riskPct,
		StopDistance: stopDistance,
	}

	maxPositionDollars := equity * maxPositionPct / 100
	maxQty := math.Floor(maxPositionDollars / entry)
	if qty > maxQty {
		res.Quantity = int(maxQty)
		res.Warning = fmt.Sprintf("size capped by max position %.1f%% of equity", maxPositionPct)
	}
	res.PositionValue = float64(res.Quantity) * entry
	return res
}
