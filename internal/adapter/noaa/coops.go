// Package noaa wraps the three NOAA surfaces the service reads: the
// CO-OPS datagetter (tides, currents, station sensors), the weather.gov
// gridpoint forecast, and NDBC realtime2 buoy reports. All responses are
// normalized to internal units (feet, mph, knots, Fahrenheit, miles).
package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/quota"
)

// Provider is the quota bucket all NOAA surfaces share.
const Provider = "noaa"

// Gate is the quota decision surface the clients consult before each
// outbound call.
type Gate interface {
	Allow(provider string) bool
	Record(provider string)
}

// CoopsClient reads the CO-OPS datagetter API.
type CoopsClient struct {
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	gate       Gate
	logger     *slog.Logger
}

// NewCoopsClient creates a CO-OPS client.
func NewCoopsClient(timeout time.Duration, clock clockwork.Clock, gate Gate, logger *slog.Logger) *CoopsClient {
	return &CoopsClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter",
		clock:      clock,
		gate:       gate,
		logger:     logger,
	}
}

// baseParams are shared by every datagetter product.
func baseParams(stationID, product string) url.Values {
	return url.Values{
		"station":   {stationID},
		"product":   {product},
		"units":     {"english"},
		"time_zone": {"lst_ldt"},
		"format":    {"json"},
	}
}

func (c *CoopsClient) get(ctx context.Context, params url.Values, out any) error {
	if !c.gate.Allow(Provider) {
		return fmt.Errorf("coops %s: %w", params.Get("product"), quota.ErrExhausted)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("coops %s request: %w", params.Get("product"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("coops API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode coops response: %w", err)
	}
	c.gate.Record(Provider)
	return nil
}

// CO-OPS datagetter response types.

type observationResponse struct {
	Data []struct {
		T string `json:"t"`
		V string `json:"v"`
		S string `json:"s"`
		D string `json:"d"`
		B string `json:"b"`
	} `json:"data"`
}

type predictionsResponse struct {
	Predictions []struct {
		T    string `json:"t"`
		V    string `json:"v"`
		Type string `json:"type"`
	} `json:"predictions"`
}

// coopsTime is the datagetter's local-time layout.
const coopsTime = "2006-01-02 15:04"

// Tides fetches the latest water level plus two days of high/low
// predictions, and derives the tide phase from them.
func (c *CoopsClient) Tides(ctx context.Context, stationID string, days int) (domain.TideData, error) {
	now := c.clock.Now()

	var current observationResponse
	params := baseParams(stationID, "water_level")
	params.Set("datum", "MLLW")
	params.Set("date", "latest")
	if err := c.get(ctx, params, &current); err != nil {
		return domain.TideData{}, err
	}

	var preds predictionsResponse
	params = baseParams(stationID, "predictions")
	params.Set("datum", "MLLW")
	params.Set("begin_date", now.Format("20060102"))
	params.Set("end_date", now.AddDate(0, 0, days).Format("20060102"))
	params.Set("interval", "hilo")
	if err := c.get(ctx, params, &preds); err != nil {
		return domain.TideData{}, err
	}

	tide := domain.TideData{}
	if len(current.Data) > 0 {
		tide.CurrentFt, _ = strconv.ParseFloat(current.Data[0].V, 64)
	}
	for _, p := range preds.Predictions {
		t, err := time.ParseInLocation(coopsTime, p.T, now.Location())
		if err != nil {
			c.logger.Warn("skipping unparseable tide prediction", "station", stationID, "time", p.T)
			continue
		}
		height, _ := strconv.ParseFloat(p.V, 64)
		tide.Predictions = append(tide.Predictions, domain.TidePrediction{
			Time:   t,
			Height: height,
			High:   p.Type == "H",
		})
	}
	tide.State = domain.DeriveTideState(tide.Predictions, now)
	tide.NextHigh, tide.NextLow = domain.NextTides(tide.Predictions, now)
	return tide, nil
}

// Currents fetches the latest coastal current observation. Stations
// without a current meter return an empty observation, not an error.
func (c *CoopsClient) Currents(ctx context.Context, stationID string) (domain.CurrentData, error) {
	var resp observationResponse
	params := baseParams(stationID, "currents")
	params.Set("date", "latest")
	if err := c.get(ctx, params, &resp); err != nil {
		return domain.CurrentData{}, err
	}
	if len(resp.Data) == 0 {
		return domain.CurrentData{Bin: 1, Observed: c.clock.Now()}, nil
	}

	obs := resp.Data[0]
	cur := domain.CurrentData{Bin: 1}
	cur.SpeedKts, _ = strconv.ParseFloat(obs.S, 64)
	cur.DirectionDeg, _ = strconv.ParseFloat(obs.D, 64)
	if bin, err := strconv.Atoi(obs.B); err == nil {
		cur.Bin = bin
	}
	if t, err := time.ParseInLocation(coopsTime, obs.T, c.clock.Now().Location()); err == nil {
		cur.Observed = t
	}
	return cur, nil
}

// latestValue fetches a single-sensor product and returns its newest
// reading, or fallback when the station lacks the sensor.
func (c *CoopsClient) latestValue(ctx context.Context, stationID, product string, fallback float64) (float64, error) {
	var resp observationResponse
	params := baseParams(stationID, product)
	params.Set("date", "latest")
	if err := c.get(ctx, params, &resp); err != nil {
		return fallback, err
	}
	if len(resp.Data) == 0 {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(resp.Data[0].V, 64)
	if err != nil {
		return fallback, nil
	}
	return v, nil
}

// hawaiiWaterTempF is the fallback when a station has no temperature sensor.
const hawaiiWaterTempF = 75

// WaterTemperature reads the station's water temperature in Fahrenheit.
func (c *CoopsClient) WaterTemperature(ctx context.Context, stationID string) (float64, error) {
	return c.latestValue(ctx, stationID, "water_temperature", hawaiiWaterTempF)
}

type windResponse struct {
	Data []struct {
		T string `json:"t"`
		S string `json:"s"`
		D string `json:"d"`
		G string `json:"g"`
	} `json:"data"`
}

// Meteorology fetches wind, air pressure, and air temperature in one pass.
// Individual missing sensors leave zero values rather than failing the
// bundle.
func (c *CoopsClient) Meteorology(ctx context.Context, stationID string) (domain.StationMet, error) {
	var met domain.StationMet

	var wind windResponse
	params := baseParams(stationID, "wind")
	params.Set("date", "latest")
	if err := c.get(ctx, params, &wind); err != nil {
		return met, err
	}
	if len(wind.Data) > 0 {
		met.WindMph, _ = strconv.ParseFloat(wind.Data[0].S, 64)
		met.WindDirDeg, _ = strconv.ParseFloat(wind.Data[0].D, 64)
		met.WindGustMph, _ = strconv.ParseFloat(wind.Data[0].G, 64)
	}

	pressure, err := c.latestValue(ctx, stationID, "air_pressure", 0)
	if err != nil {
		return met, err
	}
	met.PressureMb = pressure

	temp, err := c.latestValue(ctx, stationID, "air_temperature", 0)
	if err != nil {
		return met, err
	}
	met.AirTempF = temp
	return met, nil
}
