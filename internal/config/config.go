package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultSourceURL is the BOM station listing archive.
const DefaultSourceURL = "ftp://ftp.bom.gov.au/anon2/home/ncc/metadata/sitelists/stations.zip"

// UserAgent is sent on every HTTP request the job makes.
const UserAgent = "station-catalog-etl (+https://github.com/couchcryptid/station-catalog-etl)"

// Config holds all job settings, populated from environment variables.
type Config struct {
	SourceURL   string
	FeedBaseURL string
	OutputDir   string
	ScratchDir  string

	FetchTimeout time.Duration
	ProbeTimeout time.Duration
	RunTimeout   time.Duration

	// StrictParse turns malformed listing fields into a fatal error instead of
	// nulling them.
	StrictParse bool

	LogLevel  string
	LogFormat string

	// Optional catalog publishing. Disabled when KafkaBrokers is empty.
	KafkaBrokers      []string
	KafkaCatalogTopic string

	// Optional Prometheus Pushgateway. Disabled when empty.
	PushgatewayURL string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "2m")
	if err != nil {
		return nil, err
	}
	probeTimeout, err := parseDuration("PROBE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	runTimeout, err := parseDuration("RUN_TIMEOUT", "30m")
	if err != nil {
		return nil, err
	}

	strict, err := parseBool("STRICT_PARSE")
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		SourceURL:         sharedcfg.EnvOrDefault("STATIONS_SOURCE_URL", DefaultSourceURL),
		FeedBaseURL:       sharedcfg.EnvOrDefault("FEED_BASE_URL", "http://www.bom.gov.au/fwo"),
		OutputDir:         sharedcfg.EnvOrDefault("OUTPUT_DIR", "inst/extdata"),
		ScratchDir:        sharedcfg.EnvOrDefault("SCRATCH_DIR", os.TempDir()),
		FetchTimeout:      fetchTimeout,
		ProbeTimeout:      probeTimeout,
		RunTimeout:        runTimeout,
		StrictParse:       strict,
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		KafkaBrokers:      brokers,
		KafkaCatalogTopic: sharedcfg.EnvOrDefault("KAFKA_CATALOG_TOPIC", "station-catalog"),
		PushgatewayURL:    os.Getenv("PUSHGATEWAY_URL"),
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("STATIONS_SOURCE_URL is required")
	}
	if cfg.FeedBaseURL == "" {
		return nil, errors.New("FEED_BASE_URL is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaCatalogTopic == "" {
		return nil, errors.New("KAFKA_CATALOG_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether catalog publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBool(key string) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
