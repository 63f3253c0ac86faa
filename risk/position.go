package risk

// Position is a read-only snapshot of one open position, supplied by an
// external position source. The engine never mutates positions.
type Position struct {
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	Quantity      float64 `json:"quantity"`
	MarketValue   float64 `json:"market_value"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
	Sector        string  `json:"sector,omitempty"`
}

// PositionSource supplies the caller's currently open positions. Any
// collaborator able to produce the snapshot qualifies; no transport is
// mandated.
type PositionSource interface {
	OpenPositions() ([]Position, error)
}
