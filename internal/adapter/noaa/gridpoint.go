package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/quota"
)

// GridClient reads the weather.gov gridpoint forecast, which carries the
// marine fields (wave height, swell components, visibility) for Hawaii
// coastal grid cells.
type GridClient struct {
	httpClient *http.Client
	baseURL    string
	gate       Gate
	logger     *slog.Logger
}

// NewGridClient creates a weather.gov client.
func NewGridClient(timeout time.Duration, gate Gate, logger *slog.Logger) *GridClient {
	return &GridClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.weather.gov",
		gate:       gate,
		logger:     logger,
	}
}

// weather.gov response types. Gridpoint properties arrive as layered
// time-series; only the newest value of each is read.

type pointResponse struct {
	Properties struct {
		GridID string `json:"gridId"`
		GridX  int    `json:"gridX"`
		GridY  int    `json:"gridY"`
	} `json:"properties"`
}

type layeredValue struct {
	Values []struct {
		Value float64 `json:"value"`
	} `json:"values"`
}

// latest returns the newest value in a layered series, or 0.
func (l layeredValue) latest() float64 {
	if len(l.Values) == 0 {
		return 0
	}
	return l.Values[0].Value
}

// latestTempF converts the newest Celsius value to Fahrenheit. An empty
// series stays 0, never 32, so downstream absence checks still work.
func (l layeredValue) latestTempF() float64 {
	if len(l.Values) == 0 {
		return 0
	}
	return domain.CelsiusToFahrenheit(l.Values[0].Value)
}

type gridpointResponse struct {
	Properties struct {
		WaveHeight    layeredValue `json:"waveHeight"`
		WavePeriod    layeredValue `json:"wavePeriod"`
		WindSpeed     layeredValue `json:"windSpeed"`
		WindGust      layeredValue `json:"windGust"`
		WindDirection layeredValue `json:"windDirection"`
		Visibility    layeredValue `json:"visibility"`
		Pressure      layeredValue `json:"pressure"`
		Temperature   layeredValue `json:"temperature"`
		Dewpoint      layeredValue `json:"dewpoint"`

		PrimarySwellHeight      layeredValue `json:"primarySwellHeight"`
		PrimarySwellPeriod      layeredValue `json:"primarySwellPeriod"`
		PrimarySwellDirection   layeredValue `json:"primarySwellDirection"`
		SecondarySwellHeight    layeredValue `json:"secondarySwellHeight"`
		SecondarySwellPeriod    layeredValue `json:"secondarySwellPeriod"`
		SecondarySwellDirection layeredValue `json:"secondarySwellDirection"`
	} `json:"properties"`
}

func (c *GridClient) getJSON(ctx context.Context, url string, out any) error {
	if !c.gate.Allow(Provider) {
		return fmt.Errorf("weather.gov: %w", quota.ErrExhausted)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather.gov request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("weather.gov API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode weather.gov response: %w", err)
	}
	c.gate.Record(Provider)
	return nil
}

// MarineForecast resolves the coordinate to its forecast grid cell, then
// extracts the newest marine values from the cell's raw forecast. Metric
// upstream units are converted here: wave and swell heights arrive in
// meters, wind in km/h, visibility in meters.
func (c *GridClient) MarineForecast(ctx context.Context, lat, lon float64) (domain.GridForecast, error) {
	var point pointResponse
	pointURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.baseURL, lat, lon)
	if err := c.getJSON(ctx, pointURL, &point); err != nil {
		return domain.GridForecast{}, err
	}

	var grid gridpointResponse
	gridURL := fmt.Sprintf("%s/gridpoints/%s/%d,%d",
		c.baseURL, point.Properties.GridID, point.Properties.GridX, point.Properties.GridY)
	if err := c.getJSON(ctx, gridURL, &grid); err != nil {
		return domain.GridForecast{}, err
	}

	p := grid.Properties
	forecast := domain.GridForecast{
		WaveHeightFt:  domain.MetersToFeet(p.WaveHeight.latest()),
		WavePeriodSec: p.WavePeriod.latest(),
		WindMph:       domain.KmToMiles(p.WindSpeed.latest()),
		WindGustMph:   domain.KmToMiles(p.WindGust.latest()),
		WindDirDeg:    p.WindDirection.latest(),
		VisibilityMi:  domain.MetersToMiles(p.Visibility.latest()),
		PressureMb:    p.Pressure.latest(),
		AirTempF:      p.Temperature.latestTempF(),
		DewPointF:     p.Dewpoint.latestTempF(),
	}

	if h := p.PrimarySwellHeight.latest(); h > 0 {
		forecast.Swells = append(forecast.Swells, domain.Swell{
			HeightFt:     domain.MetersToFeet(h),
			PeriodSec:    p.PrimarySwellPeriod.latest(),
			DirectionDeg: p.PrimarySwellDirection.latest(),
		})
	}
	if h := p.SecondarySwellHeight.latest(); h > 0 {
		forecast.Swells = append(forecast.Swells, domain.Swell{
			HeightFt:     domain.MetersToFeet(h),
			PeriodSec:    p.SecondarySwellPeriod.latest(),
			DirectionDeg: p.SecondarySwellDirection.latest(),
		})
	}
	return forecast, nil
}
