package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/flux-site-etl/internal/adapter/sheets"
	"github.com/couchcryptid/flux-site-etl/internal/adapter/sparql"
	"github.com/couchcryptid/flux-site-etl/internal/adapter/tzlookup"
	"github.com/couchcryptid/flux-site-etl/internal/config"
	"github.com/couchcryptid/flux-site-etl/internal/domain"
	"github.com/couchcryptid/flux-site-etl/internal/observability"
	"github.com/couchcryptid/flux-site-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"
)

// app carries the state shared by all subcommands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	// pushMetrics is set by commands that build a registry.
	pushMetrics bool
}

func rootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "sitedetails",
		Short:         "Flux tower site metadata: export, sunrise/sunset and data paths",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return a.initialize()
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		return a.finish(cmd.Context())
	}

	rootCmd.AddCommand(
		exportCommand(a),
		sitesCommand(a),
		sunCommand(a),
		pathCommand(a),
	)

	return rootCmd
}

func (a *app) initialize() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	a.logger = sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	a.metrics = observability.NewMetrics()
	return nil
}

// finish pushes run metrics when a Pushgateway is configured.
func (a *app) finish(ctx context.Context) error {
	if !a.pushMetrics || a.cfg.PushgatewayURL == "" {
		return nil
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.metrics.Push(pushCtx, a.cfg.PushgatewayURL, a.cfg.MetricsJob); err != nil {
		// Metrics are best effort and never fail a run.
		a.logger.Warn("metrics push failed", "url", a.cfg.PushgatewayURL, "error", err)
	}
	return nil
}

func (a *app) source() (pipeline.Source, error) {
	switch a.cfg.Source {
	case config.SourceSPARQL:
		return sparql.NewClient(sparql.Config{
			Endpoint: a.cfg.SPARQLEndpoint,
			Timeout:  a.cfg.SPARQLTimeout,
		}, a.logger), nil
	case config.SourceSheets:
		return sheets.NewClient(sheets.Config{
			CredentialsFile: a.cfg.CredentialsFile,
			SheetKey:        a.cfg.SheetKey,
			Worksheet:       a.cfg.Worksheet,
		}, a.logger), nil
	}
	return nil, fmt.Errorf("source %q: %w", a.cfg.Source, domain.ErrInvalidArgument)
}

func (a *app) builder() (*pipeline.Builder, error) {
	src, err := a.source()
	if err != nil {
		return nil, err
	}
	finder, err := tzlookup.New()
	if err != nil {
		return nil, err
	}
	a.pushMetrics = true
	return pipeline.NewBuilder(src, domain.NewTimezoneResolver(finder), a.logger, a.metrics), nil
}

// registry builds a registry without loading it anywhere.
func (a *app) registry(ctx context.Context) (*domain.Registry, error) {
	b, err := a.builder()
	if err != nil {
		return nil, err
	}
	return b.Build(ctx)
}
