package pipeline

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"github.com/couchcryptid/flux-site-etl/internal/observability"
)

// SolarEvent computes a sunrise or sunset for a registry site and records
// the outcome.
func SolarEvent(reg *domain.Registry, name string, q domain.SolarQuery, logger *slog.Logger, metrics *observability.Metrics) (time.Time, error) {
	t, err := reg.SolarEvent(name, q, logger)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.SolarQueries.WithLabelValues(string(q.Kind), outcome).Inc()
	return t, err
}
