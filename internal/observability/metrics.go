package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "site_details"

// Metrics holds the Prometheus counters and histograms for a site details run.
// They live on a private registry so a push carries only run metrics.
type Metrics struct {
	registry *prometheus.Registry

	SitesFetched  *prometheus.CounterVec // labels: source
	SitesDropped  *prometheus.CounterVec // labels: source
	BuildDuration prometheus.Histogram

	// Timezone enrichment outcomes. labels: outcome={resolved,unresolvable,resolver_failed,offset_failed}
	TimezoneOutcomes *prometheus.CounterVec

	// Solar queries. labels: kind={sunrise,sunset}, outcome={success,error}
	SolarQueries *prometheus.CounterVec

	SitesLoaded *prometheus.CounterVec // labels: sink
	LoadErrors  *prometheus.CounterVec // labels: sink

	LastSuccess prometheus.Gauge
}

// NewMetrics creates all run metrics on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SitesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sites_fetched_total",
			Help:      "Sites decoded from the source.",
		}, []string{"source"}),
		SitesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sites_dropped_total",
			Help:      "Source records discarded during decoding.",
		}, []string{"source"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registry_build_duration_seconds",
			Help:      "Duration of a fetch and registry build.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		TimezoneOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timezone_lookups_total",
			Help:      "Timezone enrichment results by outcome.",
		}, []string{"outcome"}),
		SolarQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solar_queries_total",
			Help:      "Sunrise and sunset computations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		SitesLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sites_loaded_total",
			Help:      "Sites handed to each sink.",
		}, []string{"sink"}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Sink failures.",
		}, []string{"sink"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	m.registry.MustRegister(
		m.SitesFetched,
		m.SitesDropped,
		m.BuildDuration,
		m.TimezoneOutcomes,
		m.SolarQueries,
		m.SitesLoaded,
		m.LoadErrors,
		m.LastSuccess,
	)

	return m
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Push sends the run metrics to a Prometheus Pushgateway under job,
// replacing the job's previous metrics.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
