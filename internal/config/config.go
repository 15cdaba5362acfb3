// Package config loads service settings from the environment. A .env file
// in the working directory is honored for local development; real
// deployments set variables directly.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DatabaseURL string

	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaReadingsTopic string

	OpenWeatherKey  string
	StormGlassKey   string
	ProviderTimeout time.Duration

	// LiveEnrichLimit caps how many beaches per listing request get live
	// provider fan-outs; the rest receive simulated readings.
	LiveEnrichLimit int

	// Per-provider cache TTLs.
	TideTTL    time.Duration
	WeatherTTL time.Duration
	MarineTTL  time.Duration
	QualityTTL time.Duration
}

// EnvOrDefault returns the variable's value, or def when unset or empty.
func EnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := EnvOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

// parseBrokers splits a comma-separated broker list, dropping empties.
func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	providerTimeout, err := parseDuration("PROVIDER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	liveEnrichLimit, err := parseInt("LIVE_ENRICH_LIMIT", 15)
	if err != nil {
		return nil, err
	}

	tideTTL, err := parseDuration("TIDE_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	weatherTTL, err := parseDuration("WEATHER_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	marineTTL, err := parseDuration("MARINE_CACHE_TTL", "15m")
	if err != nil {
		return nil, err
	}
	qualityTTL, err := parseDuration("QUALITY_CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}

	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       parseBrokers(EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReadingsTopic: EnvOrDefault("KAFKA_READINGS_TOPIC", "beach-readings"),

		OpenWeatherKey:  os.Getenv("OPENWEATHER_API_KEY"),
		StormGlassKey:   os.Getenv("STORMGLASS_API_KEY"),
		ProviderTimeout: providerTimeout,

		LiveEnrichLimit: liveEnrichLimit,

		TideTTL:    tideTTL,
		WeatherTTL: weatherTTL,
		MarineTTL:  marineTTL,
		QualityTTL: qualityTTL,
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}
