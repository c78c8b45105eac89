package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Catalog modes.
const (
	CatalogModeLive   = "live"
	CatalogModeSample = "sample"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	LogFile         string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// NeoWs catalog configuration.
	NeoWsBaseURL string
	NeoWsAPIKey  string
	NeoWsTimeout time.Duration
	CatalogMode  string

	// Simulation history configuration.
	HistoryPath      string
	HistoryInMemory  bool
	HistoryQueueSize int
	HistoryLimit     int

	// Optional Kafka publisher; disabled when KafkaBrokers is empty.
	KafkaBrokers         []string
	KafkaSimulationTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first; variables already set win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	neowsTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NEOWS_TIMEOUT", "10s"))
	if err != nil || neowsTimeout <= 0 {
		return nil, errors.New("invalid NEOWS_TIMEOUT")
	}

	historyInMemory, err := strconv.ParseBool(sharedcfg.EnvOrDefault("HISTORY_IN_MEMORY", "false"))
	if err != nil {
		return nil, errors.New("invalid HISTORY_IN_MEMORY")
	}

	queueSize, err := parseIntInRange("HISTORY_QUEUE_SIZE", 256, 1, 65536)
	if err != nil {
		return nil, err
	}

	historyLimit, err := parseIntInRange("HISTORY_LIMIT", 50, 1, 500)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		LogFile:         os.Getenv("LOG_FILE"),
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     splitList(sharedcfg.EnvOrDefault("CORS_ORIGINS", "*")),

		NeoWsBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("NEOWS_BASE_URL", "https://api.nasa.gov/neo/rest/v1"), "/"),
		NeoWsAPIKey:  sharedcfg.EnvOrDefault("NEOWS_API_KEY", "DEMO_KEY"),
		NeoWsTimeout: neowsTimeout,
		CatalogMode:  strings.ToLower(sharedcfg.EnvOrDefault("NEOWS_MODE", CatalogModeLive)),

		HistoryPath:      sharedcfg.EnvOrDefault("HISTORY_PATH", "data/history"),
		HistoryInMemory:  historyInMemory,
		HistoryQueueSize: queueSize,
		HistoryLimit:     historyLimit,

		KafkaSimulationTopic: sharedcfg.EnvOrDefault("KAFKA_SIMULATION_TOPIC", "impact-simulations"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); strings.TrimSpace(brokers) != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.CatalogMode != CatalogModeLive && cfg.CatalogMode != CatalogModeSample {
		return nil, fmt.Errorf("invalid NEOWS_MODE %q: must be live or sample", cfg.CatalogMode)
	}
	if cfg.CatalogMode == CatalogModeLive && cfg.NeoWsAPIKey == "" {
		return nil, errors.New("NEOWS_API_KEY is required in live mode")
	}
	if !cfg.HistoryInMemory && cfg.HistoryPath == "" {
		return nil, errors.New("HISTORY_PATH is required unless HISTORY_IN_MEMORY is true")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaSimulationTopic == "" {
		return nil, errors.New("KAFKA_SIMULATION_TOPIC is required when KAFKA_BROKERS is set")
	}
	if len(cfg.CORSOrigins) == 0 {
		return nil, errors.New("CORS_ORIGINS must name at least one origin")
	}

	return cfg, nil
}

// KafkaEnabled reports whether simulation records are also published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseIntInRange(name string, def, lo, hi int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer between %d and %d", name, lo, hi)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
