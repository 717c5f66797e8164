package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"github.com/couchcryptid/flux-site-etl/internal/observability"
)

// Source fetches and decodes site records from a remote system.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (domain.SourceData, error)
}

// Loader writes a built registry to a destination.
type Loader interface {
	Name() string
	Load(ctx context.Context, reg *domain.Registry) error
}

// Pipeline runs one fetch, enrich and load cycle.
type Pipeline struct {
	builder *Builder
	loaders []Loader
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline. Loaders run in order after the registry is built.
func New(builder *Builder, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		builder: builder,
		loaders: loaders,
		logger:  logger,
		metrics: metrics,
	}
}

// Run builds the registry and hands it to every loader. A build failure
// aborts the run. Loader failures do not stop the remaining loaders; they
// are joined into the returned error alongside the registry.
func (p *Pipeline) Run(ctx context.Context) (*domain.Registry, error) {
	reg, err := p.builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, l := range p.loaders {
		if err := ctx.Err(); err != nil {
			return reg, err
		}
		if err := l.Load(ctx, reg); err != nil {
			p.logger.Error("load failed", "sink", l.Name(), "error", err)
			p.metrics.LoadErrors.WithLabelValues(l.Name()).Inc()
			errs = append(errs, fmt.Errorf("load %s: %w", l.Name(), err))
			continue
		}
		p.metrics.SitesLoaded.WithLabelValues(l.Name()).Add(float64(reg.Len()))
	}
	if len(errs) > 0 {
		return reg, errors.Join(errs...)
	}

	p.metrics.LastSuccess.Set(float64(domain.Now().Unix()))
	p.logger.Info("run complete", "source", reg.Source(), "sites", reg.Len(), "sinks", len(p.loaders))
	return reg, nil
}

// Builder fetches from a source and assembles a timezone-enriched registry.
type Builder struct {
	source   Source
	resolver *domain.TimezoneResolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewBuilder creates a Builder for source.
func NewBuilder(source Source, resolver *domain.TimezoneResolver, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{
		source:   source,
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
	}
}

// Build fetches the source and returns a new registry. Every call produces
// an independent registry; offsets are evaluated at one reference instant
// taken from the domain clock.
func (b *Builder) Build(ctx context.Context) (*domain.Registry, error) {
	start := time.Now()
	ref := domain.Now()

	data, err := b.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", b.source.Name(), err)
	}
	b.metrics.SitesFetched.WithLabelValues(data.Source).Add(float64(len(data.Sites)))
	b.metrics.SitesDropped.WithLabelValues(data.Source).Add(float64(data.Dropped))

	sites := make([]domain.Site, 0, len(data.Sites))
	for _, site := range data.Sites {
		enriched, out := domain.EnrichWithTimezone(site, b.resolver, ref, b.logger)
		b.metrics.TimezoneOutcomes.WithLabelValues(outcomeLabel(out)).Inc()
		sites = append(sites, enriched)
	}

	reg := domain.NewRegistry(data, sites, ref)
	b.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	b.logger.Info("registry built",
		"source", reg.Source(),
		"rule", reg.Rule().Name(),
		"sites", reg.Len(),
		"dropped", data.Dropped,
		"reference_time", ref,
	)
	return reg, nil
}

func outcomeLabel(out domain.ZoneOutcome) string {
	if out.Status == domain.ZoneResolved && out.OffsetErr != nil {
		return "offset_failed"
	}
	return out.Status.String()
}
