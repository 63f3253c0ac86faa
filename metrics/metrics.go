// Package metrics exposes Prometheus instrumentation for the risk engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	validationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgate_validations_total",
			Help: "Trade validations by outcome",
		},
		[]string{"outcome"},
	)

	violationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgate_violations_total",
			Help: "Rule violations by rule name",
		},
		[]string{"rule"},
	)

	tradesRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "riskgate_trades_recorded_total",
			Help: "Completed trades folded into daily statistics",
		},
	)

	lastTradePnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "riskgate_last_trade_pnl",
			Help: "Realized P&L of the most recently recorded trade",
		},
	)
)

func init() {
	prometheus.MustRegister(validationsTotal)
	prometheus.MustRegister(violationsTotal)
	prometheus.MustRegister(tradesRecordedTotal)
	prometheus.MustRegister(lastTradePnL)
}

// Validation records one validate call's outcome.
func Validation(allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "denied"
	}
	validationsTotal.WithLabelValues(outcome).Inc()
}

// Violation records one failed rule.
func Violation(rule string) {
	violationsTotal.WithLabelValues(rule).Inc()
}

// TradeRecorded records one completed trade's realized P&L.
func TradeRecorded(pnl float64) {
	tradesRecordedTotal.Inc()
	lastTradePnL.Set(pnl)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
