package noaa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beachhui/conditions/internal/quota"
)

func layered(values ...float64) map[string]any {
	vs := make([]map[string]any, len(values))
	for i, v := range values {
		vs[i] = map[string]any{"value": v}
	}
	return map[string]any{"values": vs}
}

func TestGridClient_MarineForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/points/21.6400,-158.0600":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"properties": map[string]any{"gridId": "HFO", "gridX": 140, "gridY": 122},
			})
		case "/gridpoints/HFO/140,122":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"properties": map[string]any{
					"waveHeight":    layered(1.8, 1.6),
					"wavePeriod":    layered(11),
					"windSpeed":     layered(24.0),
					"windGust":      layered(33.0),
					"windDirection": layered(60),
					"visibility":    layered(16093.4),
					"pressure":      layered(1016),
					"temperature":   layered(27),
					"dewpoint":      layered(21),

					"primarySwellHeight":      layered(1.5),
					"primarySwellPeriod":      layered(13),
					"primarySwellDirection":   layered(320),
					"secondarySwellHeight":    layered(0.6),
					"secondarySwellPeriod":    layered(7),
					"secondarySwellDirection": layered(50),
				},
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	gate := &openGate{}
	c := NewGridClient(5*time.Second, gate, testLogger())
	c.baseURL = srv.URL

	forecast, err := c.MarineForecast(context.Background(), 21.64, -158.06)
	require.NoError(t, err)

	assert.InDelta(t, 5.91, forecast.WaveHeightFt, 0.01) // 1.8m, newest layer
	assert.Equal(t, 11.0, forecast.WavePeriodSec)
	assert.InDelta(t, 14.91, forecast.WindMph, 0.01) // 24 km/h
	assert.InDelta(t, 10.0, forecast.VisibilityMi, 0.01)
	assert.InDelta(t, 80.6, forecast.AirTempF, 0.01)
	assert.Equal(t, 1016.0, forecast.PressureMb)

	require.Len(t, forecast.Swells, 2)
	assert.InDelta(t, 4.92, forecast.Swells[0].HeightFt, 0.01)
	assert.Equal(t, 13.0, forecast.Swells[0].PeriodSec)
	assert.Equal(t, 320.0, forecast.Swells[0].DirectionDeg)
	assert.InDelta(t, 1.97, forecast.Swells[1].HeightFt, 0.01)

	assert.Equal(t, 2, gate.recorded)
}

func TestGridClient_NoSwellData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/points/21.2761,-157.8267" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"properties": map[string]any{"gridId": "HFO", "gridX": 151, "gridY": 108},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"properties": map[string]any{"waveHeight": layered(0.9)},
		})
	}))
	defer srv.Close()

	c := NewGridClient(5*time.Second, &openGate{}, testLogger())
	c.baseURL = srv.URL

	forecast, err := c.MarineForecast(context.Background(), 21.2761, -157.8267)
	require.NoError(t, err)
	assert.Empty(t, forecast.Swells)
	assert.InDelta(t, 2.95, forecast.WaveHeightFt, 0.01)
	assert.Zero(t, forecast.AirTempF, "empty temperature series must not read as 32F")
	assert.Zero(t, forecast.DewPointF)
}

func TestGridClient_PointLookupFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewGridClient(5*time.Second, &openGate{}, testLogger())
	c.baseURL = srv.URL

	_, err := c.MarineForecast(context.Background(), 21.2761, -157.8267)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestGridClient_QuotaRefused(t *testing.T) {
	c := NewGridClient(5*time.Second, closedGate{}, testLogger())
	_, err := c.MarineForecast(context.Background(), 21.2761, -157.8267)
	assert.ErrorIs(t, err, quota.ErrExhausted)
}
