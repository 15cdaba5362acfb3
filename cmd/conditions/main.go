package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	kafkaadapter "github.com/beachhui/conditions/internal/adapter/kafka"
	"github.com/beachhui/conditions/internal/adapter/noaa"
	"github.com/beachhui/conditions/internal/adapter/openweather"
	"github.com/beachhui/conditions/internal/adapter/stormglass"
	"github.com/beachhui/conditions/internal/aggregator"
	"github.com/beachhui/conditions/internal/api"
	"github.com/beachhui/conditions/internal/config"
	"github.com/beachhui/conditions/internal/observability"
	"github.com/beachhui/conditions/internal/quota"
	"github.com/beachhui/conditions/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	tracker := quota.NewTracker(clock, quota.DefaultLimits)

	coops := noaa.NewCoopsClient(cfg.ProviderTimeout, clock, tracker, logger)
	buoys := noaa.NewBuoyClient(cfg.ProviderTimeout, tracker, logger)
	grid := noaa.NewGridClient(cfg.ProviderTimeout, tracker, logger)
	weather := openweather.NewClient(cfg.OpenWeatherKey, cfg.ProviderTimeout, tracker, logger)
	marine := stormglass.NewClient(cfg.StormGlassKey, cfg.ProviderTimeout, tracker, logger)

	var sink aggregator.Sink
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaReadingsTopic, logger)
		sink = publisher
		logger.Info("reading publishing enabled", "topic", cfg.KafkaReadingsTopic)
	} else {
		logger.Info("reading publishing disabled")
	}

	agg := aggregator.New(aggregator.Deps{
		Tides:    coops,
		Buoys:    buoys,
		Forecast: grid,
		Weather:  weather,
		Marine:   marine,
		Repo:     st,
		Sink:     sink,
		Clock:    clock,
		Logger:   logger,
		Metrics:  metrics,
		Timeout:  cfg.ProviderTimeout,
		TTL: aggregator.TTLs{
			Tide:    cfg.TideTTL,
			Weather: cfg.WeatherTTL,
			Marine:  cfg.MarineTTL,
			Quality: cfg.QualityTTL,
		},
	})

	srv := api.NewServer(agg, st, tracker, clock, logger, metrics, cfg.LiveEnrichLimit)

	if err := srv.Run(ctx, cfg.HTTPAddr, cfg.ShutdownTimeout); err != nil {
		logger.Error("http server error", "error", err)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	logger.Info("shutdown complete")
}
