package noaa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/quota"
)

func testCoopsClient(baseURL string, clock clockwork.Clock, gate Gate) *CoopsClient {
	c := NewCoopsClient(5*time.Second, clock, gate, testLogger())
	c.baseURL = baseURL
	return c
}

func TestCoopsClient_Tides(t *testing.T) {
	// Fake clock pinned mid-morning local time.
	now := time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1612340", q.Get("station"))
		assert.Equal(t, "MLLW", q.Get("datum"))
		assert.Equal(t, "english", q.Get("units"))
		assert.Equal(t, "lst_ldt", q.Get("time_zone"))
		assert.Equal(t, "json", q.Get("format"))

		switch q.Get("product") {
		case "water_level":
			assert.Equal(t, "latest", q.Get("date"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{{"t": "2025-07-09 09:54", "v": "1.213"}},
			})
		case "predictions":
			assert.Equal(t, "20250709", q.Get("begin_date"))
			assert.Equal(t, "20250711", q.Get("end_date"))
			assert.Equal(t, "hilo", q.Get("interval"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"predictions": []map[string]string{
					{"t": "2025-07-09 04:12", "v": "0.31", "type": "L"},
					{"t": "2025-07-09 09:48", "v": "2.04", "type": "H"},
					{"t": "2025-07-09 16:33", "v": "0.18", "type": "L"},
					{"t": "2025-07-09 22:51", "v": "1.87", "type": "H"},
				},
			})
		default:
			t.Errorf("unexpected product %q", q.Get("product"))
		}
	}))
	defer srv.Close()

	gate := &openGate{}
	c := testCoopsClient(srv.URL, clock, gate)

	tide, err := c.Tides(context.Background(), "1612340", 2)
	require.NoError(t, err)

	assert.Equal(t, 1.213, tide.CurrentFt)
	require.Len(t, tide.Predictions, 4)
	// The 09:48 high is the most recent past event.
	assert.Equal(t, domain.TideFalling, tide.State)
	assert.Equal(t, 1.87, tide.NextHigh.Height)
	assert.Equal(t, 0.18, tide.NextLow.Height)
	assert.Equal(t, 2, gate.recorded, "one unit per datagetter call")
}

func TestCoopsClient_Currents(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC))

	t.Run("latest observation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "currents", r.URL.Query().Get("product"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{{"t": "2025-07-09 09:48", "s": "1.4", "d": "238", "b": "3"}},
			})
		}))
		defer srv.Close()

		cur, err := testCoopsClient(srv.URL, clock, &openGate{}).Currents(context.Background(), "1612340")
		require.NoError(t, err)
		assert.Equal(t, 1.4, cur.SpeedKts)
		assert.Equal(t, 238.0, cur.DirectionDeg)
		assert.Equal(t, 3, cur.Bin)
	})

	t.Run("station without current meter", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		}))
		defer srv.Close()

		cur, err := testCoopsClient(srv.URL, clock, &openGate{}).Currents(context.Background(), "1630000")
		require.NoError(t, err)
		assert.Zero(t, cur.SpeedKts)
		assert.Equal(t, 1, cur.Bin)
	})
}

func TestCoopsClient_WaterTemperature(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC))

	t.Run("sensor present", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "water_temperature", r.URL.Query().Get("product"))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{{"t": "2025-07-09 09:54", "v": "79.3"}},
			})
		}))
		defer srv.Close()

		temp, err := testCoopsClient(srv.URL, clock, &openGate{}).WaterTemperature(context.Background(), "1612340")
		require.NoError(t, err)
		assert.Equal(t, 79.3, temp)
	})

	t.Run("sensorless station falls back to hawaii typical", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		}))
		defer srv.Close()

		temp, err := testCoopsClient(srv.URL, clock, &openGate{}).WaterTemperature(context.Background(), "1621480")
		require.NoError(t, err)
		assert.Equal(t, 75.0, temp)
	})
}

func TestCoopsClient_Meteorology(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("product") {
		case "wind":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{{"t": "2025-07-09 09:54", "s": "12.3", "d": "62", "g": "17.8"}},
			})
		case "air_pressure":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{{"t": "2025-07-09 09:54", "v": "1015.8"}},
			})
		case "air_temperature":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]string{{"t": "2025-07-09 09:54", "v": "84.1"}},
			})
		default:
			t.Errorf("unexpected product %q", r.URL.Query().Get("product"))
		}
	}))
	defer srv.Close()

	met, err := testCoopsClient(srv.URL, clock, &openGate{}).Meteorology(context.Background(), "1612340")
	require.NoError(t, err)
	assert.Equal(t, 12.3, met.WindMph)
	assert.Equal(t, 62.0, met.WindDirDeg)
	assert.Equal(t, 17.8, met.WindGustMph)
	assert.Equal(t, 1015.8, met.PressureMb)
	assert.Equal(t, 84.1, met.AirTempF)
}

func TestCoopsClient_QuotaRefused(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC))
	c := testCoopsClient("http://unreachable.invalid", clock, closedGate{})

	_, err := c.Tides(context.Background(), "1612340", 2)
	assert.ErrorIs(t, err, quota.ErrExhausted)
}
