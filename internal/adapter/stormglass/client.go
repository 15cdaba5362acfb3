// Package stormglass wraps the StormGlass v2 marine point-forecast API.
// StormGlass aggregates several models per parameter; this client prefers
// the NOAA-sourced value and falls back to StormGlass's own blend.
package stormglass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/quota"
)

// Provider is the quota bucket name. The free tier allows 50 calls a day,
// which makes this the scarcest provider in the system.
const Provider = "stormglass"

// Gate is the quota decision surface consulted before each outbound call.
type Gate interface {
	Allow(provider string) bool
	Record(provider string)
}

// requestParams are the marine parameters requested on every point call.
var requestParams = []string{
	"waveHeight", "wavePeriod", "waveDirection",
	"swellHeight", "swellPeriod", "swellDirection",
	"secondarySwellHeight", "secondarySwellPeriod", "secondarySwellDirection",
	"windWaveHeight", "windWavePeriod", "windWaveDirection",
	"waterTemperature", "currentSpeed", "currentDirection",
	"visibility", "seaLevel", "iceCover",
}

// Client reads the StormGlass weather point endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	gate       Gate
	logger     *slog.Logger
}

// NewClient creates a StormGlass client.
func NewClient(apiKey string, timeout time.Duration, gate Gate, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.stormglass.io/v2",
		gate:       gate,
		logger:     logger,
	}
}

// hour is one forecast hour; every parameter maps model source to value.
type hour map[string]map[string]float64

type pointResponse struct {
	Hours []hour `json:"hours"`
}

// pick returns the parameter's NOAA value, falling back to the sg blend,
// then to def.
func (h hour) pick(param string, def float64) float64 {
	sources, ok := h[param]
	if !ok {
		return def
	}
	if v, ok := sources["noaa"]; ok {
		return v
	}
	if v, ok := sources["sg"]; ok {
		return v
	}
	return def
}

// hawaiiWaterTempF is the fallback when StormGlass has no water
// temperature for the point.
const hawaiiWaterTempF = 78

// Marine fetches the current marine picture for a coordinate. StormGlass
// reports SI units; everything is converted to internal units here.
func (c *Client) Marine(ctx context.Context, lat, lon float64) (domain.Marine, error) {
	if c.apiKey == "" {
		return domain.Marine{}, fmt.Errorf("stormglass: no API key configured")
	}
	if !c.gate.Allow(Provider) {
		return domain.Marine{}, fmt.Errorf("stormglass: %w", quota.ErrExhausted)
	}

	params := url.Values{
		"lat":    {fmt.Sprintf("%.4f", lat)},
		"lng":    {fmt.Sprintf("%.4f", lon)},
		"params": {strings.Join(requestParams, ",")},
	}
	u := fmt.Sprintf("%s/weather/point?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Marine{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Marine{}, fmt.Errorf("stormglass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Marine{}, fmt.Errorf("stormglass API error: status %d: %s", resp.StatusCode, body)
	}

	var point pointResponse
	if err := json.NewDecoder(resp.Body).Decode(&point); err != nil {
		return domain.Marine{}, fmt.Errorf("decode stormglass response: %w", err)
	}
	if len(point.Hours) == 0 {
		return domain.Marine{}, fmt.Errorf("stormglass: response contains no forecast hours")
	}
	c.gate.Record(Provider)

	now := point.Hours[0]
	m := domain.Marine{
		WaveHeightFt:     domain.MetersToFeet(now.pick("waveHeight", 0)),
		WavePeriodSec:    now.pick("wavePeriod", 0),
		WaveDirectionDeg: now.pick("waveDirection", 0),

		SwellHeightFt:     domain.MetersToFeet(now.pick("swellHeight", 0)),
		SwellPeriodSec:    now.pick("swellPeriod", 0),
		SwellDirectionDeg: now.pick("swellDirection", 0),

		SecondarySwellHeightFt:     domain.MetersToFeet(now.pick("secondarySwellHeight", 0)),
		SecondarySwellPeriodSec:    now.pick("secondarySwellPeriod", 0),
		SecondarySwellDirectionDeg: now.pick("secondarySwellDirection", 0),

		WindWaveHeightFt:     domain.MetersToFeet(now.pick("windWaveHeight", 0)),
		WindWavePeriodSec:    now.pick("windWavePeriod", 0),
		WindWaveDirectionDeg: now.pick("windWaveDirection", 0),

		CurrentSpeedKts: domain.MpsToKnots(now.pick("currentSpeed", 0)),
		CurrentDirDeg:   now.pick("currentDirection", 0),
		VisibilityMi:    domain.KmToMiles(now.pick("visibility", 16.09)),
		SeaLevelFt:      domain.MetersToFeet(now.pick("seaLevel", 0)),
	}

	if temp, ok := now["waterTemperature"]; ok && len(temp) > 0 {
		m.WaterTempF = domain.CelsiusToFahrenheit(now.pick("waterTemperature", 0))
	} else {
		m.WaterTempF = hawaiiWaterTempF
	}
	return m, nil
}
