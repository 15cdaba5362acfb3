// Package openweather wraps the OpenWeather 2.5 REST API: current
// weather, the 5-day/3-hour forecast, the UV index, and air pollution.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/quota"
)

// Provider is the quota bucket for all OpenWeather endpoints.
const Provider = "openweather"

// Gate is the quota decision surface consulted before each outbound call.
type Gate interface {
	Allow(provider string) bool
	Record(provider string)
}

// Client reads the OpenWeather API. Requests use imperial units, so
// temperatures arrive in Fahrenheit and wind in mph.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	gate       Gate
	logger     *slog.Logger
}

// NewClient creates an OpenWeather client.
func NewClient(apiKey string, timeout time.Duration, gate Gate, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://api.openweathermap.org/data/2.5",
		gate:       gate,
		logger:     logger,
	}
}

// OpenWeather response types.

type currentResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Visibility float64 `json:"visibility"` // meters
	Clouds     struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    float64 `json:"temp"`
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Rain struct {
			ThreeHour float64 `json:"3h"`
		} `json:"rain"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
	} `json:"list"`
}

type uvResponse struct {
	Value float64 `json:"value"`
}

type airPollutionResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components struct {
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
			O3   float64 `json:"o3"`
			NO2  float64 `json:"no2"`
			SO2  float64 `json:"so2"`
			CO   float64 `json:"co"`
		} `json:"components"`
	} `json:"list"`
}

func (c *Client) get(ctx context.Context, endpoint string, lat, lon float64, imperial bool, out any) error {
	if !c.gate.Allow(Provider) {
		return fmt.Errorf("openweather %s: %w", endpoint, quota.ErrExhausted)
	}

	params := url.Values{
		"lat":   {fmt.Sprintf("%.4f", lat)},
		"lon":   {fmt.Sprintf("%.4f", lon)},
		"appid": {c.apiKey},
	}
	if imperial {
		params.Set("units", "imperial")
	}

	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openweather %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode openweather response: %w", err)
	}
	c.gate.Record(Provider)
	return nil
}

// forecastSteps caps the hourly series at 48 hours of 3-hour steps.
const forecastSteps = 16

// Weather fetches current conditions, the forecast, air quality, and the
// UV index, and merges them into one picture. The UV and air-pollution
// endpoints are best-effort: if either fails the merged result simply
// lacks that field, because neither justifies failing the whole provider.
func (c *Client) Weather(ctx context.Context, lat, lon float64) (domain.Weather, error) {
	var current currentResponse
	if err := c.get(ctx, "weather", lat, lon, true, &current); err != nil {
		return domain.Weather{}, err
	}

	w := domain.Weather{
		AirTempF:      current.Main.Temp,
		FeelsLikeF:    current.Main.FeelsLike,
		HumidityPct:   current.Main.Humidity,
		PressureMb:    current.Main.Pressure,
		VisibilityMi:  domain.MetersToMiles(current.Visibility),
		CloudCoverPct: current.Clouds.All,
		PrecipIn:      current.Rain.OneHour / 25.4, // upstream reports mm
		WindMph:       current.Wind.Speed,
		WindDirDeg:    current.Wind.Deg,
		WindGustMph:   current.Wind.Gust,
	}

	var forecast forecastResponse
	if err := c.get(ctx, "forecast", lat, lon, true, &forecast); err != nil {
		return domain.Weather{}, err
	}
	steps := forecast.List
	if len(steps) > forecastSteps {
		steps = steps[:forecastSteps]
	}
	for _, item := range steps {
		w.Hourly = append(w.Hourly, domain.HourlyForecast{
			Time:          time.Unix(item.Dt, 0).UTC(),
			TempF:         item.Main.Temp,
			PrecipIn:      item.Rain.ThreeHour / 25.4,
			WindMph:       item.Wind.Speed,
			CloudCoverPct: item.Clouds.All,
		})
	}

	var all []domain.HourlyForecast
	for _, item := range forecast.List {
		all = append(all, domain.HourlyForecast{
			Time:     time.Unix(item.Dt, 0).UTC(),
			TempF:    item.Main.Temp,
			PrecipIn: item.Rain.ThreeHour / 25.4,
			WindMph:  item.Wind.Speed,
		})
	}
	// Forecast days are Hawaii-local days, not UTC ones.
	w.Daily = domain.AggregateDaily(all, domain.HawaiiLocation())

	var uv uvResponse
	if err := c.get(ctx, "uvi", lat, lon, false, &uv); err != nil {
		c.logger.Warn("uv index unavailable", "error", err)
	} else {
		w.UVIndex = uv.Value
	}

	var air airPollutionResponse
	if err := c.get(ctx, "air_pollution", lat, lon, false, &air); err != nil {
		c.logger.Warn("air quality unavailable", "error", err)
	} else if len(air.List) > 0 {
		entry := air.List[0]
		w.AirQuality = domain.AirQuality{
			AQI:  entry.Main.AQI,
			PM25: entry.Components.PM25,
			PM10: entry.Components.PM10,
			O3:   entry.Components.O3,
			NO2:  entry.Components.NO2,
			SO2:  entry.Components.SO2,
			CO:   entry.Components.CO,
		}
	}

	return w, nil
}

// UVIndex fetches just the UV index, for callers that do not need the
// full weather picture.
func (c *Client) UVIndex(ctx context.Context, lat, lon float64) (float64, error) {
	var uv uvResponse
	if err := c.get(ctx, "uvi", lat, lon, false, &uv); err != nil {
		return 0, err
	}
	return uv.Value, nil
}
