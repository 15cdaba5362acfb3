package noaa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/quota"
)

// ParseError describes a malformed NDBC realtime2 report. Malformed rows
// are never silently zeroed; callers decide whether to fall back.
type ParseError struct {
	StationID string
	Line      int
	Reason    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing buoy %s report line %d: %s", e.StationID, e.Line, e.Reason)
}

// BuoyClient reads NDBC realtime2 text reports.
type BuoyClient struct {
	httpClient *http.Client
	baseURL    string
	gate       Gate
	logger     *slog.Logger
}

// NewBuoyClient creates an NDBC client.
func NewBuoyClient(timeout time.Duration, gate Gate, logger *slog.Logger) *BuoyClient {
	return &BuoyClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://www.ndbc.noaa.gov/data/realtime2",
		gate:       gate,
		logger:     logger,
	}
}

// Nearest fetches the latest observation from the buoy closest to the
// coordinate.
func (c *BuoyClient) Nearest(ctx context.Context, lat, lon float64) (domain.BuoyReport, error) {
	buoy, _ := domain.NearestBuoy(lat, lon)
	return c.Report(ctx, buoy)
}

// Report fetches and parses one buoy's realtime2 report.
func (c *BuoyClient) Report(ctx context.Context, buoy domain.Station) (domain.BuoyReport, error) {
	if !c.gate.Allow(Provider) {
		return domain.BuoyReport{}, fmt.Errorf("ndbc %s: %w", buoy.ID, quota.ErrExhausted)
	}

	url := fmt.Sprintf("%s/%s.txt", c.baseURL, buoy.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.BuoyReport{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BuoyReport{}, fmt.Errorf("ndbc request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.BuoyReport{}, fmt.Errorf("ndbc API error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.BuoyReport{}, fmt.Errorf("read ndbc response: %w", err)
	}
	c.gate.Record(Provider)

	report, err := ParseReport(buoy, string(body))
	if err != nil {
		return domain.BuoyReport{}, err
	}
	return report, nil
}

// missing is NDBC's sentinel for an absent measurement.
const missing = "MM"

// field returns the named column as a float, or 0 for missing columns.
// NDBC drops sensors from reports freely, so absence is normal.
func field(row map[string]string, name string) float64 {
	raw, ok := row[name]
	if !ok || raw == missing {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// tempField converts a Celsius column to Fahrenheit. A missing column
// stays 0, never 32, so downstream absence checks still work.
func tempField(row map[string]string, name string) float64 {
	raw, ok := row[name]
	if !ok || raw == missing {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return domain.CelsiusToFahrenheit(v)
}

// ParseReport parses an NDBC realtime2 text report. The format is two
// header rows (column names, then units) followed by observation rows
// newest-first, whitespace-separated.
func ParseReport(buoy domain.Station, text string) (domain.BuoyReport, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 3 {
		return domain.BuoyReport{}, &ParseError{StationID: buoy.ID, Line: len(lines), Reason: "report shorter than headers plus one observation"}
	}

	headers := strings.Fields(strings.TrimPrefix(lines[0], "#"))
	latest := strings.Fields(lines[2])
	if len(latest) != len(headers) {
		return domain.BuoyReport{}, &ParseError{
			StationID: buoy.ID,
			Line:      3,
			Reason:    fmt.Sprintf("observation has %d columns, header has %d", len(latest), len(headers)),
		}
	}

	row := make(map[string]string, len(headers))
	for i, h := range headers {
		row[h] = latest[i]
	}

	observed, err := parseBuoyTime(row)
	if err != nil {
		return domain.BuoyReport{}, &ParseError{StationID: buoy.ID, Line: 3, Reason: err.Error()}
	}

	return domain.BuoyReport{
		StationID: buoy.ID,
		Name:      buoy.Name,
		Lat:       buoy.Lat,
		Lon:       buoy.Lon,

		WaveHeightFt:      domain.MetersToFeet(field(row, "WVHT")),
		DominantPeriodSec: field(row, "DPD"),
		AveragePeriodSec:  field(row, "APD"),
		MeanWaveDirDeg:    field(row, "MWD"),

		WindMph:     domain.MpsToMph(field(row, "WSPD")),
		WindDirDeg:  field(row, "WDIR"),
		WindGustMph: domain.MpsToMph(field(row, "GST")),

		WaterTempF:   tempField(row, "WTMP"),
		AirTempF:     tempField(row, "ATMP"),
		DewPointF:    tempField(row, "DEWP"),
		PressureMb:   field(row, "PRES"),
		VisibilityMi: field(row, "VIS") * 1.15078, // nmi to statute miles
		TideFt:       field(row, "TIDE"),

		Observed: observed,
	}, nil
}

// parseBuoyTime assembles the observation timestamp from the report's
// five date columns. NDBC reports in UTC.
func parseBuoyTime(row map[string]string) (time.Time, error) {
	names := []string{"YY", "MM", "DD", "hh", "mm"}
	parts := make([]int, len(names))
	for i, name := range names {
		raw, ok := row[name]
		if !ok {
			return time.Time{}, fmt.Errorf("missing %s column", name)
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad %s value %q", name, raw)
		}
		parts[i] = v
	}
	return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, time.UTC), nil
}
