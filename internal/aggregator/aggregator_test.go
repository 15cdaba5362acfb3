package aggregator_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beachhui/conditions/internal/adapter/kafka"
	"github.com/beachhui/conditions/internal/aggregator"
	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/observability"
	"github.com/beachhui/conditions/internal/store"
)

// --- mocks ---

type mockSources struct {
	mu    sync.Mutex
	calls map[string]int

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

func (m *mockSources) called(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

func (m *mockSources) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockSources) Tides(_ context.Context, _ string, _ int) (domain.TideData, error) {
	m.called("tides")
	return m.tide, m.tideErr
}

func (m *mockSources) Currents(_ context.Context, _ string) (domain.CurrentData, error) {
	m.called("currents")
	return m.current, m.currentErr
}

func (m *mockSources) WaterTemperature(_ context.Context, _ string) (float64, error) {
	m.called("watertemp")
	return m.waterTempF, m.waterErr
}

func (m *mockSources) Meteorology(_ context.Context, _ string) (domain.StationMet, error) {
	m.called("met")
	return m.met, m.metErr
}

func (m *mockSources) Nearest(_ context.Context, _, _ float64) (domain.BuoyReport, error) {
	m.called("buoy")
	return m.buoy, m.buoyErr
}

func (m *mockSources) MarineForecast(_ context.Context, _, _ float64) (domain.GridForecast, error) {
	m.called("grid")
	return m.grid, m.gridErr
}

func (m *mockSources) Weather(_ context.Context, _, _ float64) (domain.Weather, error) {
	m.called("weather")
	return m.weather, m.weatherErr
}

func (m *mockSources) Marine(_ context.Context, _, _ float64) (domain.Marine, error) {
	m.called("marine")
	return m.marine, m.marineErr
}

type mockRepo struct {
	beach      store.Beach
	beachErr   error
	last       store.Reading
	lastErr    error
	advisories []store.Advisory

	readings []store.Reading
	history  []domain.Status
}

func (m *mockRepo) BeachBySlug(_ context.Context, _ string) (store.Beach, error) {
	return m.beach, m.beachErr
}

func (m *mockRepo) LatestReading(_ context.Context, _ int64) (store.Reading, error) {
	return m.last, m.lastErr
}

func (m *mockRepo) ActiveAdvisories(_ context.Context, _ int64) ([]store.Advisory, error) {
	return m.advisories, nil
}

func (m *mockRepo) InsertReading(_ context.Context, r store.Reading) (int64, error) {
	m.readings = append(m.readings, r)
	return int64(len(m.readings)), nil
}

func (m *mockRepo) InsertStatusHistory(_ context.Context, _ int64, status domain.Status, _ int, _ time.Time) error {
	m.history = append(m.history, status)
	return nil
}

type mockSink struct {
	events []kafka.ReadingEvent
}

func (m *mockSink) Publish(_ context.Context, event kafka.ReadingEvent) error {
	m.events = append(m.events, event)
	return nil
}

func testBeach() store.Beach {
	return store.Beach{ID: 1, Slug: "waikiki-beach", Name: "Waikiki Beach", Island: "oahu", Lat: 21.2761, Lon: -157.8267}
}

func liveSources() *mockSources {
	return &mockSources{
		tide: domain.TideData{
			CurrentFt: 1.2,
			State:     domain.TideRising,
			NextHigh:  domain.TidePrediction{Time: time.Date(2025, 7, 13, 2, 0, 0, 0, time.UTC), Height: 2.1, High: true},
			NextLow:   domain.TidePrediction{Time: time.Date(2025, 7, 13, 8, 0, 0, 0, time.UTC), Height: 0.3},
		},
		current:    domain.CurrentData{SpeedKts: 0.4, DirectionDeg: 90},
		waterTempF: 79,
		buoy:       domain.BuoyReport{StationID: "51201", WaveHeightFt: 3.1, DominantPeriodSec: 11, WindMph: 11, WaterTempF: 77},
		grid:       domain.GridForecast{WaveHeightFt: 3.4, WindMph: 12, AirTempF: 82},
		weather: domain.Weather{
			AirTempF: 84, HumidityPct: 65, PressureMb: 1016, VisibilityMi: 9,
			CloudCoverPct: 30, UVIndex: 9, WindMph: 14, WindDirDeg: 60, WindGustMph: 19,
		},
		marine: domain.Marine{
			WaveHeightFt: 4.2, WavePeriodSec: 9, WaveDirectionDeg: 310,
			SwellHeightFt: 3.5, SwellPeriodSec: 12, SwellDirectionDeg: 320,
			WaterTempF: 80, VisibilityMi: 18,
		},
		met: domain.StationMet{WindMph: 10, WindDirDeg: 45, WindGustMph: 13, PressureMb: 1014, AirTempF: 81},
	}
}

func newTestAggregator(src *mockSources, repo *mockRepo, sink aggregator.Sink) *aggregator.Aggregator {
	ttl := aggregator.TTLs{
		Tide:    5 * time.Minute,
		Weather: 10 * time.Minute,
		Marine:  15 * time.Minute,
		Quality: time.Hour,
	}
	return aggregator.New(aggregator.Deps{
		Tides:    src,
		Buoys:    src,
		Forecast: src,
		Weather:  src,
		Marine:   src,
		Repo:     repo,
		Sink:     sink,
		Clock:    clockwork.NewFakeClockAt(time.Date(2025, 7, 12, 21, 0, 0, 0, time.UTC)),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:  observability.NewMetricsForTesting(),
		Timeout:  5 * time.Second,
		TTL:      ttl,
	})
}

func TestGetBeachDataAllSourcesLive(t *testing.T) {
	src := liveSources()
	repo := &mockRepo{beach: testBeach(), lastErr: store.ErrNotFound}
	sink := &mockSink{}
	agg := newTestAggregator(src, repo, sink)

	c := agg.GetBeachData(context.Background(), testBeach())

	assert.InDelta(t, 4.2, c.WaveHeightFt, 0.001)
	assert.InDelta(t, 3.5, c.SwellHeightFt, 0.001)
	assert.InDelta(t, 14, c.WindMph, 0.001)
	assert.InDelta(t, 79, c.WaterTempF, 0.001)
	assert.InDelta(t, 18, c.WaterClarityMi, 0.001)
	assert.InDelta(t, 1.2, c.TideFt, 0.001)
	assert.Equal(t, domain.TideRising, c.TideState)
	assert.InDelta(t, 1.8, c.TidalRangeFt, 0.001)
	assert.InDelta(t, 9, c.UVIndex, 0.001)
	assert.Equal(t, "very_high", c.UVLevel)
	assert.Equal(t, "Extra protection needed - seek shade", c.UVRecommendation)
	assert.Equal(t, "Moderate breeze from ENE", c.WindDescription)

	// wave 4.2 (-20), wind 14 (-5), uv 9 (-10)
	assert.Equal(t, 65, c.SafetyScore)
	assert.Equal(t, domain.StatusCaution, c.Status)
	assert.Equal(t, domain.RiskLow, c.RipCurrentRisk)
	assert.Equal(t, domain.RatingExcellent, c.Activities.Surfing)

	want := domain.SourceMap{
		"ocean":   {Provider: "stormglass", Provenance: domain.ProvenanceMeasured},
		"wind":    {Provider: "openweather", Provenance: domain.ProvenanceMeasured},
		"water":   {Provider: "noaa", Provenance: domain.ProvenanceMeasured},
		"tide":    {Provider: "noaa", Provenance: domain.ProvenanceMeasured},
		"current": {Provider: "noaa", Provenance: domain.ProvenanceMeasured},
		"weather": {Provider: "openweather", Provenance: domain.ProvenanceMeasured},
		"uv":      {Provider: "openweather", Provenance: domain.ProvenanceMeasured},
		"quality": {Provider: "none", Provenance: domain.ProvenanceFallback},
	}
	if diff := cmp.Diff(want, c.Sources); diff != "" {
		t.Errorf("sources mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, repo.readings, 1)
	assert.Equal(t, 65, repo.readings[0].SafetyScore)
	assert.NotEmpty(t, repo.readings[0].Payload)
	require.Len(t, repo.history, 1)
	assert.Equal(t, domain.StatusCaution, repo.history[0])
	require.Len(t, sink.events, 1)
	assert.Equal(t, "waikiki-beach", sink.events[0].BeachSlug)

	assert.NoError(t, agg.CheckReadiness(context.Background()))
}

func TestGetBeachDataPartialFailure(t *testing.T) {
	src := liveSources()
	src.marineErr = errors.New("stormglass 402")
	src.weatherErr = errors.New("openweather 401")
	src.gridErr = errors.New("gridpoint 503")
	repo := &mockRepo{beach: testBeach(), lastErr: store.ErrNotFound}
	agg := newTestAggregator(src, repo, nil)

	c := agg.GetBeachData(context.Background(), testBeach())

	// ocean and wind degrade to the buoy; tide stays measured.
	assert.InDelta(t, 3.1, c.WaveHeightFt, 0.001)
	assert.InDelta(t, 11, c.WindMph, 0.001)
	assert.Equal(t, domain.FieldSource{Provider: "ndbc", Provenance: domain.ProvenanceEstimated}, c.Sources["ocean"])
	assert.Equal(t, domain.FieldSource{Provider: "ndbc", Provenance: domain.ProvenanceEstimated}, c.Sources["wind"])
	assert.Equal(t, domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceMeasured}, c.Sources["tide"])
	assert.Equal(t, domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceMeasured}, c.Sources["water"])

	// weather group degrades to the tide station's met sensors; UV has no
	// backup source and falls back.
	assert.Equal(t, domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceEstimated}, c.Sources["weather"])
	assert.InDelta(t, 81, c.AirTempF, 0.001)
	assert.InDelta(t, 1014, c.PressureMb, 0.001)
	assert.Equal(t, domain.FieldSource{Provider: "none", Provenance: domain.ProvenanceFallback}, c.Sources["uv"])
	assert.InDelta(t, 8, c.UVIndex, 0.001)

	require.Len(t, repo.readings, 1)
}

func TestGetBeachDataStationMetBackfillsWind(t *testing.T) {
	down := errors.New("connection refused")
	src := liveSources()
	src.weatherErr = down
	src.gridErr = down
	src.buoyErr = down
	src.marineErr = down
	repo := &mockRepo{beach: testBeach(), lastErr: store.ErrNotFound}
	agg := newTestAggregator(src, repo, nil)

	c := agg.GetBeachData(context.Background(), testBeach())

	assert.InDelta(t, 10, c.WindMph, 0.001)
	assert.Equal(t, "NE", c.WindDirection)
	assert.InDelta(t, 13, c.WindGustMph, 0.001)
	assert.Equal(t, domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceMeasured}, c.Sources["wind"])

	assert.InDelta(t, 81, c.AirTempF, 0.001)
	assert.InDelta(t, 1014, c.PressureMb, 0.001)
	assert.Equal(t, domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceEstimated}, c.Sources["weather"])
}

func TestGetBeachDataAllSourcesDown(t *testing.T) {
	down := errors.New("connection refused")
	src := &mockSources{
		tideErr: down, currentErr: down, waterErr: down, buoyErr: down,
		gridErr: down, weatherErr: down, marineErr: down, metErr: down,
	}
	repo := &mockRepo{beach: testBeach(), lastErr: store.ErrNotFound}
	agg := newTestAggregator(src, repo, nil)

	c := agg.GetBeachData(context.Background(), testBeach())

	assert.InDelta(t, 3, c.WaveHeightFt, 0.001)
	assert.InDelta(t, 75, c.WaterTempF, 0.001)
	assert.InDelta(t, 80, c.AirTempF, 0.001)
	assert.Equal(t, 90, c.SafetyScore)
	assert.Equal(t, domain.StatusGood, c.Status)
	for _, group := range []string{"ocean", "wind", "water", "tide", "current", "weather", "uv", "quality"} {
		assert.Equal(t, domain.ProvenanceFallback, c.Sources[group].Provenance, group)
	}

	// fallback passes still persist and never flip readiness
	require.Len(t, repo.readings, 1)
	assert.Error(t, agg.CheckReadiness(context.Background()))
}

func TestGetBeachDataLastReadingFallback(t *testing.T) {
	down := errors.New("connection refused")
	src := &mockSources{
		tideErr: down, currentErr: down, waterErr: down, buoyErr: down,
		gridErr: down, weatherErr: down, marineErr: down, metErr: down,
	}
	repo := &mockRepo{
		beach: testBeach(),
		last: store.Reading{
			BeachID: 1, WaveHeightFt: 5.5, WindMph: 18, WaterTempF: 76, TideFt: 0.8,
			BacteriaLevel: domain.BacteriaCaution,
		},
	}
	agg := newTestAggregator(src, repo, nil)

	c := agg.GetBeachData(context.Background(), testBeach())

	assert.InDelta(t, 5.5, c.WaveHeightFt, 0.001)
	assert.InDelta(t, 18, c.WindMph, 0.001)
	assert.InDelta(t, 76, c.WaterTempF, 0.001)
	assert.InDelta(t, 0.8, c.TideFt, 0.001)
	assert.Equal(t, domain.BacteriaCaution, c.BacteriaLevel)
	for _, group := range []string{"ocean", "wind", "water", "tide", "quality"} {
		assert.Equal(t, domain.FieldSource{Provider: "history", Provenance: domain.ProvenanceEstimated}, c.Sources[group], group)
	}
}

func TestGetBeachDataAdvisoriesLowerScore(t *testing.T) {
	src := liveSources()
	repo := &mockRepo{
		beach:   testBeach(),
		lastErr: store.ErrNotFound,
		advisories: []store.Advisory{
			{BeachID: 1, Title: "Box Jellyfish Warning", Status: "active"},
			{BeachID: 1, Title: "Shark Sighting Reported", Status: "active"},
		},
	}
	agg := newTestAggregator(src, repo, nil)

	c := agg.GetBeachData(context.Background(), testBeach())

	assert.Equal(t, []string{"Box Jellyfish Warning", "Shark Sighting Reported"}, c.ActiveAdvisories)
	assert.Equal(t, 45, c.SafetyScore) // 65 minus 10 per advisory
	assert.Equal(t, domain.StatusDangerous, c.Status)
	assert.True(t, c.Warnings.Jellyfish)
	assert.True(t, c.Warnings.SharkSighting)
	assert.False(t, c.Warnings.SealPresent)
}

func TestGetBeachDataServesSecondPassFromCache(t *testing.T) {
	src := liveSources()
	repo := &mockRepo{beach: testBeach(), lastErr: store.ErrNotFound}
	agg := newTestAggregator(src, repo, nil)

	first := agg.GetBeachData(context.Background(), testBeach())
	second := agg.GetBeachData(context.Background(), testBeach())

	for _, name := range []string{"tides", "currents", "watertemp", "buoy", "grid", "weather", "marine", "met"} {
		assert.Equal(t, 1, src.callCount(name), name)
	}
	assert.Equal(t, first.WaveHeightFt, second.WaveHeightFt)
	assert.Len(t, repo.readings, 2)
}

func TestGetComprehensiveUnknownBeach(t *testing.T) {
	repo := &mockRepo{beachErr: store.ErrNotFound}
	agg := newTestAggregator(liveSources(), repo, nil)

	_, _, err := agg.GetComprehensive(context.Background(), "no-such-beach")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetComprehensiveReturnsBeach(t *testing.T) {
	repo := &mockRepo{beach: testBeach(), lastErr: store.ErrNotFound}
	agg := newTestAggregator(liveSources(), repo, nil)

	beach, c, err := agg.GetComprehensive(context.Background(), "waikiki-beach")
	require.NoError(t, err)
	assert.Equal(t, "Waikiki Beach", beach.Name)
	assert.Equal(t, domain.StatusCaution, c.Status)
}
