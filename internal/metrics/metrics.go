package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one process. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	ProviderRequests *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	PortfolioValue   prometheus.Gauge
	PortfolioRisk    prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Subsystem: "price_cache",
			Name:      "hits_total",
			Help:      "Price lookups served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Subsystem: "price_cache",
			Name:      "misses_total",
			Help:      "Price lookups that required a fetch.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinel",
			Subsystem: "provider",
			Name:      "requests_total",
			Help:      "Requests sent to market data providers.",
		}, []string{"source", "outcome"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sentinel",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of analysis passes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinel",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "code"}),
		PortfolioValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinel",
			Name:      "portfolio_value",
			Help:      "Current value of the portfolio from the last analysis.",
		}),
		PortfolioRisk: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinel",
			Name:      "portfolio_risk_score",
			Help:      "Value-weighted portfolio risk score from the last analysis.",
		}),
	}
	m.Registry.MustRegister(
		m.CacheHits, m.CacheMisses, m.ProviderRequests, m.AnalysisDuration,
		m.HTTPRequests, m.PortfolioValue, m.PortfolioRisk,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

// ProviderRequest counts one provider call as "ok" or "error".
func (m *Metrics) ProviderRequest(source string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderRequests.WithLabelValues(source, outcome).Inc()
}

// ObserveAnalysis records the time elapsed since start for operation.
func (m *Metrics) ObserveAnalysis(operation string, start time.Time) {
	if m != nil {
		m.AnalysisDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) HTTPRequest(route, code string) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(route, code).Inc()
	}
}

// SetPortfolio publishes the latest portfolio value and risk score.
func (m *Metrics) SetPortfolio(value, risk float64) {
	if m != nil {
		m.PortfolioValue.Set(value)
		m.PortfolioRisk.Set(risk)
	}
}
