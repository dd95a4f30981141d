package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
)

// Enrichment outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeDisabled = "disabled"
)

// Unlock attempt results.
const (
	UnlockGranted = "granted"
	UnlockDenied  = "denied"
)

var linksDesc = prometheus.NewDesc(
	"linkvault_links",
	"Number of saved links per smart folder",
	[]string{"folder"},
	nil,
)

// LinksCollector is a custom Prometheus collector that reads the collection
// on each scrape.
type LinksCollector struct {
	load func(ctx context.Context) []domain.LinkRecord
}

// Describe sends the metric descriptor to the channel.
func (c *LinksCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- linksDesc
}

// Collect summarizes the collection and emits one gauge per folder.
func (c *LinksCollector) Collect(ch chan<- prometheus.Metric) {
	counts := domain.Summarize(c.load(context.Background()))
	for folder, n := range map[string]int{
		string(domain.FolderAll):       counts.All,
		string(domain.FolderFavorites): counts.Favorites,
		string(domain.FolderUnread):    counts.Unread,
		"enriched":                     counts.Enriched,
	} {
		ch <- prometheus.MustNewConstMetric(linksDesc, prometheus.GaugeValue, float64(n), folder)
	}
}

// Metrics owns a dedicated registry, so tests and several servers in one
// process never collide on the global one.
type Metrics struct {
	registry    *prometheus.Registry
	enrichments *prometheus.CounterVec
	unlocks     *prometheus.CounterVec
}

// New registers the links collector, the counters and the Go runtime
// collectors. load is called on every scrape.
func New(load func(ctx context.Context) []domain.LinkRecord) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		enrichments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkvault_enrichments_total",
			Help: "AI enrichment calls by outcome",
		}, []string{"outcome"}),
		unlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linkvault_unlock_attempts_total",
			Help: "Unlock attempts by result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		&LinksCollector{load: load},
		m.enrichments,
		m.unlocks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveEnrichment counts one enrichment call. Safe on a nil receiver.
func (m *Metrics) ObserveEnrichment(outcome string) {
	if m == nil {
		return
	}
	m.enrichments.WithLabelValues(outcome).Inc()
}

// ObserveUnlock counts one unlock attempt. Safe on a nil receiver.
func (m *Metrics) ObserveUnlock(granted bool) {
	if m == nil {
		return
	}
	result := UnlockDenied
	if granted {
		result = UnlockGranted
	}
	m.unlocks.WithLabelValues(result).Inc()
}

// Registry returns the registry (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
