package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all watch-service settings, populated from environment
// variables. One-shot CLI commands take their inputs as flags instead.
type Config struct {
	// WatchDir is polled for decoded BUFR dump files.
	WatchDir string
	// OutputDir receives one .geojson document per feature, plus the
	// per-input observations CSV when CSVEnabled is set.
	OutputDir    string
	PollInterval time.Duration
	Workers      int
	CSVEnabled   bool

	// Kafka publishing is optional: features are published only when
	// brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// KafkaEnabled reports whether converted features should also be published
// to Kafka.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	pollInterval, err := parsePositiveDuration("POLL_INTERVAL", "10s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	workers, err := parsePositiveInt("WORKERS", 4)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		WatchDir:        os.Getenv("WATCH_DIR"),
		OutputDir:       os.Getenv("OUTPUT_DIR"),
		PollInterval:    pollInterval,
		Workers:         workers,
		CSVEnabled:      EnvOrDefault("CSV_ENABLED", "false") == "true",
		KafkaBrokers:    ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      os.Getenv("KAFKA_TOPIC"),
		HTTPAddr:        EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.WatchDir == "" {
		return nil, errors.New("WATCH_DIR is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if !cfg.KafkaEnabled() && cfg.KafkaTopic != "" {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_TOPIC is set")
	}

	return cfg, nil
}

// EnvOrDefault returns the value of key, or def when key is unset or empty.
func EnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBrokers splits a comma-separated broker list, trimming whitespace
// and dropping empty entries.
func ParseBrokers(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	s := EnvOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive duration", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: want a positive integer", key, s)
	}
	return n, nil
}
