// Command probe runs a single live aggregation pass for one beach and
// prints the merged conditions as JSON. Useful for checking provider
// keys, quotas, and station resolution against real upstreams.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/probe -slug waikiki-beach
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/beachhui/conditions/internal/adapter/noaa"
	"github.com/beachhui/conditions/internal/adapter/openweather"
	"github.com/beachhui/conditions/internal/adapter/stormglass"
	"github.com/beachhui/conditions/internal/aggregator"
	"github.com/beachhui/conditions/internal/config"
	"github.com/beachhui/conditions/internal/observability"
	"github.com/beachhui/conditions/internal/quota"
	"github.com/beachhui/conditions/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	slug := flag.String("slug", "waikiki-beach", "beach slug to aggregate")
	verbose := flag.Bool("v", false, "log provider fetches")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	metrics := observability.NewMetricsForTesting()
	clock := clockwork.NewRealClock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer st.Close()

	tracker := quota.NewTracker(clock, quota.DefaultLimits)

	agg := aggregator.New(aggregator.Deps{
		Tides:    noaa.NewCoopsClient(cfg.ProviderTimeout, clock, tracker, logger),
		Buoys:    noaa.NewBuoyClient(cfg.ProviderTimeout, tracker, logger),
		Forecast: noaa.NewGridClient(cfg.ProviderTimeout, tracker, logger),
		Weather:  openweather.NewClient(cfg.OpenWeatherKey, cfg.ProviderTimeout, tracker, logger),
		Marine:   stormglass.NewClient(cfg.StormGlassKey, cfg.ProviderTimeout, tracker, logger),
		Repo:     st,
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

	beach, conditions, err := agg.GetComprehensive(ctx, *slug)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", *slug, err)
	}

	out := struct {
		Beach      store.Beach   `json:"beach"`
		Conditions any           `json:"conditions"`
		Quota      []quota.Usage `json:"quota"`
	}{beach, conditions, tracker.AllUsage()}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
