package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Site sources.
const (
	SourceSPARQL = "sparql"
	SourceSheets = "sheets"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	// Source selects where site metadata is read from: sparql or sheets.
	Source string

	SPARQLEndpoint string
	SPARQLTimeout  time.Duration

	// Google Sheets source.
	CredentialsFile string
	SheetKey        string
	Worksheet       string

	PathsFile        string
	DefaultElevation float64

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Site publishing is enabled when brokers are configured.
	KafkaBrokers   []string
	KafkaSiteTopic string

	// Metrics are pushed after a run when a Pushgateway URL is configured.
	PushgatewayURL string
	MetricsJob     string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sparqlTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("SPARQL_TIMEOUT", "30s"))
	if err != nil || sparqlTimeout <= 0 {
		return nil, errors.New("invalid SPARQL_TIMEOUT")
	}

	elevation, err := parseDefaultElevation()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Source:           strings.ToLower(sharedcfg.EnvOrDefault("SITE_SOURCE", SourceSPARQL)),
		SPARQLEndpoint:   os.Getenv("SPARQL_ENDPOINT"),
		SPARQLTimeout:    sparqlTimeout,
		CredentialsFile:  sharedcfg.EnvOrDefault("GOOGLE_CREDENTIALS_FILE", "client_secrets.json"),
		SheetKey:         sharedcfg.EnvOrDefault("SHEET_KEY", "19RUT2otvKF6sgk-ShxZHlSJSJyl74QMBMi6runm4Bd8"),
		Worksheet:        sharedcfg.EnvOrDefault("SHEET_WORKSHEET", "Flux Towers"),
		PathsFile:        sharedcfg.EnvOrDefault("PATHS_FILE", "paths.ini"),
		DefaultElevation: elevation,
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		KafkaBrokers:     sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSiteTopic:   sharedcfg.EnvOrDefault("KAFKA_SITE_TOPIC", "flux-sites"),
		PushgatewayURL:   os.Getenv("PUSHGATEWAY_URL"),
		MetricsJob:       sharedcfg.EnvOrDefault("METRICS_JOB", "site_details"),
	}

	if cfg.Source != SourceSPARQL && cfg.Source != SourceSheets {
		return nil, fmt.Errorf("invalid SITE_SOURCE %q: must be %s or %s", cfg.Source, SourceSPARQL, SourceSheets)
	}

	return cfg, nil
}

// PublishEnabled reports whether sites are published to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDefaultElevation() (float64, error) {
	s := os.Getenv("DEFAULT_ELEVATION")
	if s == "" {
		return 100, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("invalid DEFAULT_ELEVATION: must be a number of metres")
	}
	return v, nil
}
