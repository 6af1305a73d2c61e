// Package metrics exposes Prometheus collectors for quote activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quotebox"

// Sync outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the quote collectors. A nil *Metrics records nothing.
type Metrics struct {
	quotesAdded    prometheus.Counter
	quotesImported prometheus.Counter
	quotesShown    *prometheus.CounterVec
	quoteCount     prometheus.Gauge
	syncs          *prometheus.CounterVec
	syncDuration   prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		quotesAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_added_total",
			Help:      "Quotes added through the add form.",
		}),
		quotesImported: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_imported_total",
			Help:      "Quotes appended by imports.",
		}),
		quotesShown: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_shown_total",
			Help:      "Random quotes shown, by category.",
		}, []string{"category"}),
		quoteCount: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "quotes",
			Help:      "Number of quotes in the list.",
		}),
		syncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syncs_total",
			Help:      "Sync attempts, by outcome.",
		}, []string{"outcome"}),
		syncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of sync attempts.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// QuoteAdded records a successful add and the new list size.
func (m *Metrics) QuoteAdded(total int) {
	if m == nil {
		return
	}

	m.quotesAdded.Inc()
	m.quoteCount.Set(float64(total))
}

// QuotesImported records an import of n quotes and the new list size.
func (m *Metrics) QuotesImported(n, total int) {
	if m == nil {
		return
	}

	m.quotesImported.Add(float64(n))
	m.quoteCount.Set(float64(total))
}

// QuoteShown records a displayed quote.
func (m *Metrics) QuoteShown(category string) {
	if m == nil {
		return
	}

	m.quotesShown.WithLabelValues(category).Inc()
}

// QuoteCount sets the list size gauge.
func (m *Metrics) QuoteCount(total int) {
	if m == nil {
		return
	}

	m.quoteCount.Set(float64(total))
}

// SyncFinished records a sync attempt.
func (m *Metrics) SyncFinished(outcome string, took time.Duration) {
	if m == nil {
		return
	}

	m.syncs.WithLabelValues(outcome).Inc()
	m.syncDuration.Observe(took.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
