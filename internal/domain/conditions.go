package domain

import "time"

// TideState describes where the water level is heading.
type TideState string

const (
	TideHigh    TideState = "high"
	TideLow     TideState = "low"
	TideRising  TideState = "rising"
	TideFalling TideState = "falling"
)

// RiskLevel grades rip-current risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Rating grades how well a beach suits an activity right now.
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingFair      Rating = "fair"
	RatingPoor      Rating = "poor"
	RatingDangerous Rating = "dangerous"
	RatingFlat      Rating = "flat" // surf only
)

// CrowdLevel is the estimated busyness bucket.
type CrowdLevel string

const (
	CrowdEmpty    CrowdLevel = "empty"
	CrowdLight    CrowdLevel = "light"
	CrowdModerate CrowdLevel = "moderate"
	CrowdCrowded  CrowdLevel = "crowded"
	CrowdPacked   CrowdLevel = "packed"
)

// BacteriaLevel is the water-quality advisory bucket from DOH sampling.
type BacteriaLevel string

const (
	BacteriaSafe    BacteriaLevel = "safe"
	BacteriaCaution BacteriaLevel = "caution"
	BacteriaUnsafe  BacteriaLevel = "unsafe"
)

// Status is the traffic-light summary shown on beach cards.
type Status string

const (
	StatusGood      Status = "good"
	StatusCaution   Status = "caution"
	StatusDangerous Status = "dangerous"
)

// Provenance says how trustworthy a merged field group is.
type Provenance string

const (
	// ProvenanceMeasured: a live upstream provider supplied the value.
	ProvenanceMeasured Provenance = "measured"
	// ProvenanceEstimated: derived from a neighboring signal (e.g. buoy
	// wave height standing in for the break, clarity inferred from swell).
	ProvenanceEstimated Provenance = "estimated"
	// ProvenanceFallback: every provider failed; Hawaii-typical default.
	ProvenanceFallback Provenance = "fallback"
)

// FieldSource records which provider authored a field group and how.
type FieldSource struct {
	Provider   string     `json:"provider"`
	Provenance Provenance `json:"provenance"`
}

// SourceMap keys field groups ("ocean", "wind", "water", "tide", "current",
// "weather", "uv", "quality") to their provenance.
type SourceMap map[string]FieldSource

// TidePrediction is one high or low water event from CO-OPS hilo predictions.
type TidePrediction struct {
	Time   time.Time `json:"time"`
	Height float64   `json:"height"` // feet above MLLW
	High   bool      `json:"high"`
}

// TideData is the normalized CO-OPS tide picture for one station.
type TideData struct {
	CurrentFt   float64          `json:"currentFt"`
	State       TideState        `json:"state"`
	NextHigh    TidePrediction   `json:"nextHigh"`
	NextLow     TidePrediction   `json:"nextLow"`
	Predictions []TidePrediction `json:"predictions"`
}

// WaveData describes sea state, normalized to feet/seconds/degrees.
type WaveData struct {
	HeightFt     float64 `json:"heightFt"`
	PeriodSec    float64 `json:"periodSec"`
	DirectionDeg float64 `json:"directionDeg"`

	SwellHeightFt     float64 `json:"swellHeightFt"`
	SwellPeriodSec    float64 `json:"swellPeriodSec"`
	SwellDirectionDeg float64 `json:"swellDirectionDeg"`

	WindWaveHeightFt  float64 `json:"windWaveHeightFt"`
	WindWavePeriodSec float64 `json:"windWavePeriodSec"`
	AveragePeriodSec  float64 `json:"averagePeriodSec"`
}

// CurrentData is one coastal current observation.
type CurrentData struct {
	SpeedKts     float64   `json:"speedKts"`
	DirectionDeg float64   `json:"directionDeg"`
	Bin          int       `json:"bin"`
	DepthFt      float64   `json:"depthFt"`
	Observed     time.Time `json:"observed"`
}

// BuoyReport is one parsed NDBC realtime2 observation row, unit-normalized.
type BuoyReport struct {
	StationID string  `json:"stationId"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`

	WaveHeightFt      float64 `json:"waveHeightFt"`
	DominantPeriodSec float64 `json:"dominantPeriodSec"`
	AveragePeriodSec  float64 `json:"averagePeriodSec"`
	MeanWaveDirDeg    float64 `json:"meanWaveDirDeg"`

	WindMph     float64 `json:"windMph"`
	WindDirDeg  float64 `json:"windDirDeg"`
	WindGustMph float64 `json:"windGustMph"`

	WaterTempF   float64 `json:"waterTempF"`
	AirTempF     float64 `json:"airTempF"`
	DewPointF    float64 `json:"dewPointF"`
	PressureMb   float64 `json:"pressureMb"`
	VisibilityMi float64 `json:"visibilityMi"`
	TideFt       float64 `json:"tideFt"`

	Observed time.Time `json:"observed"`
}

// StationMet bundles a CO-OPS station's meteorological sensors.
type StationMet struct {
	WindMph     float64 `json:"windMph"`
	WindDirDeg  float64 `json:"windDirDeg"`
	WindGustMph float64 `json:"windGustMph"`
	PressureMb  float64 `json:"pressureMb"`
	AirTempF    float64 `json:"airTempF"`
}

// Swell is one swell component from a gridpoint or marine forecast.
type Swell struct {
	HeightFt     float64 `json:"heightFt"`
	PeriodSec    float64 `json:"periodSec"`
	DirectionDeg float64 `json:"directionDeg"`
}

// GridForecast holds the latest values extracted from a weather.gov
// gridpoint raw forecast.
type GridForecast struct {
	WaveHeightFt  float64 `json:"waveHeightFt"`
	WavePeriodSec float64 `json:"wavePeriodSec"`
	WindMph       float64 `json:"windMph"`
	WindGustMph   float64 `json:"windGustMph"`
	WindDirDeg    float64 `json:"windDirDeg"`
	VisibilityMi  float64 `json:"visibilityMi"`
	PressureMb    float64 `json:"pressureMb"`
	AirTempF      float64 `json:"airTempF"`
	DewPointF     float64 `json:"dewPointF"`
	Seas          string  `json:"seas,omitempty"`
	Swells        []Swell `json:"swells,omitempty"`
}

// HourlyForecast is one 3-hour forecast step.
type HourlyForecast struct {
	Time          time.Time `json:"time"`
	TempF         float64   `json:"tempF"`
	PrecipIn      float64   `json:"precipIn"`
	WindMph       float64   `json:"windMph"`
	CloudCoverPct float64   `json:"cloudCoverPct"`
}

// DailyForecast is one aggregated forecast day.
type DailyForecast struct {
	Date        time.Time `json:"date"`
	TempMinF    float64   `json:"tempMinF"`
	TempMaxF    float64   `json:"tempMaxF"`
	PrecipIn    float64   `json:"precipIn"`
	WindMph     float64   `json:"windMph"`
	Description string    `json:"description"`
}

// AirQuality holds OpenWeather air-pollution components.
type AirQuality struct {
	AQI  int     `json:"aqi"`
	PM25 float64 `json:"pm25"`
	PM10 float64 `json:"pm10"`
	O3   float64 `json:"o3"`
	NO2  float64 `json:"no2"`
	SO2  float64 `json:"so2"`
	CO   float64 `json:"co"`
}

// Weather is the normalized OpenWeather picture for one point.
type Weather struct {
	AirTempF      float64 `json:"airTempF"`
	FeelsLikeF    float64 `json:"feelsLikeF"`
	HumidityPct   float64 `json:"humidityPct"`
	PressureMb    float64 `json:"pressureMb"`
	VisibilityMi  float64 `json:"visibilityMi"`
	CloudCoverPct float64 `json:"cloudCoverPct"`
	PrecipIn      float64 `json:"precipIn"`
	UVIndex       float64 `json:"uvIndex"`

	WindMph     float64 `json:"windMph"`
	WindDirDeg  float64 `json:"windDirDeg"`
	WindGustMph float64 `json:"windGustMph"`

	AirQuality AirQuality       `json:"airQuality"`
	Hourly     []HourlyForecast `json:"hourly,omitempty"`
	Daily      []DailyForecast  `json:"daily,omitempty"`
}

// Marine is the normalized StormGlass marine point picture.
type Marine struct {
	WaveHeightFt     float64 `json:"waveHeightFt"`
	WavePeriodSec    float64 `json:"wavePeriodSec"`
	WaveDirectionDeg float64 `json:"waveDirectionDeg"`

	SwellHeightFt     float64 `json:"swellHeightFt"`
	SwellPeriodSec    float64 `json:"swellPeriodSec"`
	SwellDirectionDeg float64 `json:"swellDirectionDeg"`

	SecondarySwellHeightFt     float64 `json:"secondarySwellHeightFt"`
	SecondarySwellPeriodSec    float64 `json:"secondarySwellPeriodSec"`
	SecondarySwellDirectionDeg float64 `json:"secondarySwellDirectionDeg"`

	WindWaveHeightFt     float64 `json:"windWaveHeightFt"`
	WindWavePeriodSec    float64 `json:"windWavePeriodSec"`
	WindWaveDirectionDeg float64 `json:"windWaveDirectionDeg"`

	WaterTempF      float64 `json:"waterTempF"`
	CurrentSpeedKts float64 `json:"currentSpeedKts"`
	CurrentDirDeg   float64 `json:"currentDirDeg"`
	VisibilityMi    float64 `json:"visibilityMi"`
	SeaLevelFt      float64 `json:"seaLevelFt"`
}

// SunTimes are the day's light boundaries in beach-local time.
type SunTimes struct {
	FirstLight time.Time `json:"firstLight"`
	Sunrise    time.Time `json:"sunrise"`
	Sunset     time.Time `json:"sunset"`
	LastLight  time.Time `json:"lastLight"`
}

// Warnings are the boolean safety flags derived from merged conditions.
type Warnings struct {
	HighSurf      bool `json:"highSurf"`
	StrongCurrent bool `json:"strongCurrent"`
	UVExtreme     bool `json:"uvExtreme"`
	Jellyfish     bool `json:"jellyfish"`
	SharkSighting bool `json:"sharkSighting"`
	SealPresent   bool `json:"sealPresent"`
}

// ActivityRatings rates the five tracked activities independently.
type ActivityRatings struct {
	Swimming   Rating `json:"swimming"`
	Surfing    Rating `json:"surfing"`
	Snorkeling Rating `json:"snorkeling"`
	Diving     Rating `json:"diving"`
	Fishing    Rating `json:"fishing"`
}

// Conditions is the full merged picture for one beach at one moment. It is
// a value object rebuilt on every aggregation pass; it has no identity and
// is never partially populated — missing upstream data degrades individual
// field groups to estimated or fallback values, recorded in Sources.
type Conditions struct {
	// Ocean
	WaveHeightFt   float64 `json:"waveHeightFt"`
	WavePeriodSec  float64 `json:"wavePeriodSec"`
	WaveDirection  string  `json:"waveDirection"`
	SwellHeightFt  float64 `json:"swellHeightFt"`
	SwellPeriodSec float64 `json:"swellPeriodSec"`
	SwellDirection string  `json:"swellDirection"`

	// Wind
	WindMph         float64 `json:"windMph"`
	WindDirection   string  `json:"windDirection"`
	WindGustMph     float64 `json:"windGustMph"`
	WindDescription string  `json:"windDescription"`

	// Water
	WaterTempF     float64 `json:"waterTempF"`
	WaterClarityMi float64 `json:"waterClarityMi"`
	Salinity       float64 `json:"salinity"`
	PH             float64 `json:"ph"`

	// Tide
	TideFt       float64   `json:"tideFt"`
	TideState    TideState `json:"tideState"`
	NextHighTide time.Time `json:"nextHighTide"`
	NextLowTide  time.Time `json:"nextLowTide"`
	TidalRangeFt float64   `json:"tidalRangeFt"`

	// Currents
	CurrentSpeedKts  float64   `json:"currentSpeedKts"`
	CurrentDirection string    `json:"currentDirection"`
	RipCurrentRisk   RiskLevel `json:"ripCurrentRisk"`

	// Weather
	AirTempF      float64 `json:"airTempF"`
	HumidityPct   float64 `json:"humidityPct"`
	PressureMb    float64 `json:"pressureMb"`
	VisibilityMi  float64 `json:"visibilityMi"`
	PrecipIn      float64 `json:"precipIn"`
	CloudCoverPct float64 `json:"cloudCoverPct"`

	// UV and sun
	UVIndex          float64  `json:"uvIndex"`
	UVLevel          string   `json:"uvLevel"`
	UVRecommendation string   `json:"uvRecommendation"`
	Sun              SunTimes `json:"sun"`

	// Water quality
	BacteriaLevel BacteriaLevel `json:"bacteriaLevel"`
	Enterococcus  float64       `json:"enterococcus"` // CFU/100ml
	Turbidity     float64       `json:"turbidity"`
	AlgaePresent  bool          `json:"algaePresent"`

	// Safety
	Warnings    Warnings `json:"warnings"`
	SafetyScore int      `json:"safetyScore"`
	Status      Status   `json:"status"`

	// Amenities
	LifeguardOnDuty bool `json:"lifeguardOnDuty"`

	// Crowd
	CrowdLevel      CrowdLevel `json:"crowdLevel"`
	EstimatedPeople int        `json:"estimatedPeople"`

	// Forecasts
	Forecast3Hour  []HourlyForecast `json:"forecast3Hour,omitempty"`
	Forecast24Hour []HourlyForecast `json:"forecast24Hour,omitempty"`
	Forecast7Day   []DailyForecast  `json:"forecast7Day,omitempty"`

	// Advisories
	ActiveAdvisories []string `json:"activeAdvisories"`

	// Activities
	Activities ActivityRatings `json:"activities"`

	// Provenance per field group.
	Sources SourceMap `json:"sources"`

	GeneratedAt time.Time `json:"generatedAt"`
}
