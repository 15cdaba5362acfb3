// Package aggregator runs the fan-out, merge, derive, persist cycle that
// turns the upstream source fetches into one Conditions object per beach.
package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/beachhui/conditions/internal/adapter/kafka"
	"github.com/beachhui/conditions/internal/cache"
	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/observability"
	"github.com/beachhui/conditions/internal/quota"
	"github.com/beachhui/conditions/internal/store"
)

// TideSource provides CO-OPS station observations and predictions.
type TideSource interface {
	Tides(ctx context.Context, stationID string, days int) (domain.TideData, error)
	Currents(ctx context.Context, stationID string) (domain.CurrentData, error)
	WaterTemperature(ctx context.Context, stationID string) (float64, error)
	Meteorology(ctx context.Context, stationID string) (domain.StationMet, error)
}

// BuoySource provides the nearest NDBC buoy observation.
type BuoySource interface {
	Nearest(ctx context.Context, lat, lon float64) (domain.BuoyReport, error)
}

// ForecastSource provides weather.gov gridpoint marine forecasts.
type ForecastSource interface {
	MarineForecast(ctx context.Context, lat, lon float64) (domain.GridForecast, error)
}

// WeatherSource provides OpenWeather current conditions and forecasts.
type WeatherSource interface {
	Weather(ctx context.Context, lat, lon float64) (domain.Weather, error)
}

// MarineSource provides StormGlass marine point data.
type MarineSource interface {
	Marine(ctx context.Context, lat, lon float64) (domain.Marine, error)
}

// Repository is the slice of the store the aggregator needs.
type Repository interface {
	BeachBySlug(ctx context.Context, slug string) (store.Beach, error)
	LatestReading(ctx context.Context, beachID int64) (store.Reading, error)
	ActiveAdvisories(ctx context.Context, beachID int64) ([]store.Advisory, error)
	InsertReading(ctx context.Context, r store.Reading) (int64, error)
	InsertStatusHistory(ctx context.Context, beachID int64, status domain.Status, score int, at time.Time) error
}

// Sink receives every merged reading. Nil disables publishing.
type Sink interface {
	Publish(ctx context.Context, event kafka.ReadingEvent) error
}

// TTLs are the per-source cache lifetimes.
type TTLs struct {
	Tide    time.Duration
	Weather time.Duration
	Marine  time.Duration
	Quality time.Duration
}

// Deps wires an Aggregator. Sink is optional; everything else is required.
type Deps struct {
	Tides    TideSource
	Buoys    BuoySource
	Forecast ForecastSource
	Weather  WeatherSource
	Marine   MarineSource
	Repo     Repository
	Sink     Sink
	Clock    clockwork.Clock
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Timeout  time.Duration
	TTL      TTLs
}

// Aggregator merges all sources into Conditions objects. It never returns
// an upstream failure to the caller; failed sources degrade field groups
// to estimated or fallback values instead.
type Aggregator struct {
	tides    TideSource
	buoys    BuoySource
	forecast ForecastSource
	weather  WeatherSource
	marine   MarineSource
	repo     Repository
	sink     Sink
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
	timeout  time.Duration
	ttl      TTLs
	ready    atomic.Bool

	tideCache      *cache.Cache[domain.TideData]
	currentCache   *cache.Cache[domain.CurrentData]
	waterTempCache *cache.Cache[float64]
	buoyCache      *cache.Cache[domain.BuoyReport]
	gridCache      *cache.Cache[domain.GridForecast]
	weatherCache   *cache.Cache[domain.Weather]
	marineCache    *cache.Cache[domain.Marine]
	metCache       *cache.Cache[domain.StationMet]
}

// New creates an Aggregator with empty caches.
func New(d Deps) *Aggregator {
	return &Aggregator{
		tides:    d.Tides,
		buoys:    d.Buoys,
		forecast: d.Forecast,
		weather:  d.Weather,
		marine:   d.Marine,
		repo:     d.Repo,
		sink:     d.Sink,
		clock:    d.Clock,
		logger:   d.Logger,
		metrics:  d.Metrics,
		timeout:  d.Timeout,
		ttl:      d.TTL,

		tideCache:      cache.New[domain.TideData](d.Clock),
		currentCache:   cache.New[domain.CurrentData](d.Clock),
		waterTempCache: cache.New[float64](d.Clock),
		buoyCache:      cache.New[domain.BuoyReport](d.Clock),
		gridCache:      cache.New[domain.GridForecast](d.Clock),
		weatherCache:   cache.New[domain.Weather](d.Clock),
		marineCache:    cache.New[domain.Marine](d.Clock),
		metCache:       cache.New[domain.StationMet](d.Clock),
	}
}

// CheckReadiness returns nil once at least one aggregation pass has merged
// live data, or an error describing why the service is not yet ready.
func (a *Aggregator) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("no aggregation pass has merged live data yet")
	}
	return nil
}

// GetComprehensive looks up a beach by slug and runs a full aggregation
// pass for it. The only error it returns is a beach lookup failure.
func (a *Aggregator) GetComprehensive(ctx context.Context, slug string) (store.Beach, domain.Conditions, error) {
	beach, err := a.repo.BeachBySlug(ctx, slug)
	if err != nil {
		return store.Beach{}, domain.Conditions{}, err
	}
	return beach, a.GetBeachData(ctx, beach), nil
}

// GetBeachData runs one fan-out, merge, persist cycle for a beach. It
// always returns a fully-populated Conditions object.
func (a *Aggregator) GetBeachData(ctx context.Context, beach store.Beach) domain.Conditions {
	start := a.clock.Now()

	station, _ := domain.NearestTideStation(beach.Lat, beach.Lon)

	last, lastErr := a.repo.LatestReading(ctx, beach.ID)
	if lastErr != nil && !errors.Is(lastErr, store.ErrNotFound) {
		a.logger.Warn("latest reading lookup failed", "beach", beach.Slug, "error", lastErr)
	}

	advisories := a.advisoryTitles(ctx, beach)

	f := a.fanOut(ctx, beach.Lat, beach.Lon, station.ID)

	failed := 0
	for _, s := range f.settled() {
		if s.err != nil {
			failed++
			a.logger.Warn("source fetch failed", "provider", s.provider, "beach", beach.Slug, "error", s.err)
		}
	}
	switch {
	case failed == len(f.settled()):
		a.metrics.AggregationsFallback.Inc()
	case failed > 0:
		a.metrics.AggregationsPartial.Inc()
		a.ready.Store(true)
	default:
		a.ready.Store(true)
	}

	c := merge(beach, f, last, lastErr == nil, advisories, a.clock.Now())
	a.metrics.AggregationDuration.Observe(a.clock.Since(start).Seconds())

	a.persist(ctx, beach, c)
	return c
}

func (a *Aggregator) advisoryTitles(ctx context.Context, beach store.Beach) []string {
	advisories, err := a.repo.ActiveAdvisories(ctx, beach.ID)
	if err != nil {
		a.logger.Warn("advisory lookup failed", "beach", beach.Slug, "error", err)
		return nil
	}
	titles := make([]string, 0, len(advisories))
	for _, adv := range advisories {
		titles = append(titles, adv.Title)
	}
	return titles
}

// fanout holds the settled result of every source fetch. Each field is
// written by exactly one goroutine before Wait returns.
type fanout struct {
	tide       domain.TideData
	tideErr    error
	current    domain.CurrentData
	currentErr error
	waterTempF float64
	waterErr   error
	buoy       domain.BuoyReport
	buoyErr    error
	grid       domain.GridForecast
	gridErr    error
	weather    domain.Weather
	weatherErr error
	marine     domain.Marine
	marineErr  error
	met        domain.StationMet
	metErr     error
}

type settledFetch struct {
	provider string
	err      error
}

func (f *fanout) settled() []settledFetch {
	return []settledFetch{
		{"noaa-tides", f.tideErr},
		{"noaa-currents", f.currentErr},
		{"noaa-watertemp", f.waterErr},
		{"ndbc", f.buoyErr},
		{"noaa-grid", f.gridErr},
		{"noaa-met", f.metErr},
		{"openweather", f.weatherErr},
		{"stormglass", f.marineErr},
	}
}

// fanOut launches every source fetch concurrently and waits for all of
// them to settle. No fetch failure cancels another.
func (a *Aggregator) fanOut(ctx context.Context, lat, lon float64, stationID string) fanout {
	var f fanout
	var wg sync.WaitGroup

	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		f.tide, f.tideErr = fetchCached(ctx, a, a.tideCache, "noaa-tides", cache.Key("tide", lat, lon), a.ttl.Tide,
			func(ctx context.Context) (domain.TideData, error) { return a.tides.Tides(ctx, stationID, 2) })
	})
	run(func() {
		f.current, f.currentErr = fetchCached(ctx, a, a.currentCache, "noaa-currents", cache.Key("current", lat, lon), a.ttl.Tide,
			func(ctx context.Context) (domain.CurrentData, error) { return a.tides.Currents(ctx, stationID) })
	})
	run(func() {
		f.waterTempF, f.waterErr = fetchCached(ctx, a, a.waterTempCache, "noaa-watertemp", cache.Key("watertemp", lat, lon), a.ttl.Quality,
			func(ctx context.Context) (float64, error) { return a.tides.WaterTemperature(ctx, stationID) })
	})
	run(func() {
		f.buoy, f.buoyErr = fetchCached(ctx, a, a.buoyCache, "ndbc", cache.Key("buoy", lat, lon), a.ttl.Marine,
			func(ctx context.Context) (domain.BuoyReport, error) { return a.buoys.Nearest(ctx, lat, lon) })
	})
	run(func() {
		f.grid, f.gridErr = fetchCached(ctx, a, a.gridCache, "noaa-grid", cache.Key("grid", lat, lon), a.ttl.Marine,
			func(ctx context.Context) (domain.GridForecast, error) { return a.forecast.MarineForecast(ctx, lat, lon) })
	})
	run(func() {
		f.weather, f.weatherErr = fetchCached(ctx, a, a.weatherCache, "openweather", cache.Key("weather", lat, lon), a.ttl.Weather,
			func(ctx context.Context) (domain.Weather, error) { return a.weather.Weather(ctx, lat, lon) })
	})
	run(func() {
		f.marine, f.marineErr = fetchCached(ctx, a, a.marineCache, "stormglass", cache.Key("marine", lat, lon), a.ttl.Marine,
			func(ctx context.Context) (domain.Marine, error) { return a.marine.Marine(ctx, lat, lon) })
	})
	run(func() {
		f.met, f.metErr = fetchCached(ctx, a, a.metCache, "noaa-met", cache.Key("stationmet", lat, lon), a.ttl.Weather,
			func(ctx context.Context) (domain.StationMet, error) { return a.tides.Meteorology(ctx, stationID) })
	})

	wg.Wait()
	return f
}

// fetchCached serves a fetch from cache when fresh, otherwise calls the
// source with the provider timeout and caches the result on success.
func fetchCached[T any](ctx context.Context, a *Aggregator, c *cache.Cache[T], provider, key string, maxAge time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key, maxAge); ok {
		a.metrics.CacheLookups.WithLabelValues(provider, "hit").Inc()
		return v, nil
	}
	a.metrics.CacheLookups.WithLabelValues(provider, "miss").Inc()

	fctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := a.clock.Now()
	v, err := fn(fctx)
	a.metrics.FetchDuration.WithLabelValues(provider).Observe(a.clock.Since(start).Seconds())
	if err != nil {
		outcome := "error"
		if errors.Is(err, quota.ErrExhausted) {
			outcome = "refused"
		}
		a.metrics.FetchRequests.WithLabelValues(provider, outcome).Inc()
		return v, err
	}
	a.metrics.FetchRequests.WithLabelValues(provider, "success").Inc()
	c.Set(key, v)
	return v, nil
}

// persist writes the reading and status history best-effort and publishes
// to the sink when one is configured. Failures are logged and swallowed;
// a broken database never breaks a conditions response.
func (a *Aggregator) persist(ctx context.Context, beach store.Beach, c domain.Conditions) {
	payload, err := json.Marshal(c)
	if err != nil {
		a.logger.Error("marshal reading failed", "beach", beach.Slug, "error", err)
		a.metrics.PersistErrors.Inc()
		return
	}

	reading := store.Reading{
		BeachID:       beach.ID,
		WaveHeightFt:  c.WaveHeightFt,
		WindMph:       c.WindMph,
		WaterTempF:    c.WaterTempF,
		TideFt:        c.TideFt,
		BacteriaLevel: c.BacteriaLevel,
		SafetyScore:   c.SafetyScore,
		Status:        c.Status,
		Payload:       payload,
		RecordedAt:    c.GeneratedAt,
	}
	if _, err := a.repo.InsertReading(ctx, reading); err != nil {
		a.logger.Error("insert reading failed", "beach", beach.Slug, "error", err)
		a.metrics.PersistErrors.Inc()
	} else {
		a.metrics.ReadingsPersisted.Inc()
	}

	if err := a.repo.InsertStatusHistory(ctx, beach.ID, c.Status, c.SafetyScore, c.GeneratedAt); err != nil {
		a.logger.Error("insert status history failed", "beach", beach.Slug, "error", err)
		a.metrics.PersistErrors.Inc()
	}

	if a.sink == nil {
		return
	}
	event := kafka.ReadingEvent{
		BeachSlug:   beach.Slug,
		BeachName:   beach.Name,
		Island:      beach.Island,
		Conditions:  c,
		PublishedAt: c.GeneratedAt,
	}
	if err := a.sink.Publish(ctx, event); err != nil {
		a.logger.Error("publish reading failed", "beach", beach.Slug, "error", err)
		a.metrics.PersistErrors.Inc()
	} else {
		a.metrics.ReadingsPublished.Inc()
	}
}
