package domain

import "time"

// nameSeed sums the byte values of a beach name. The same name always
// produces the same seed, so simulated conditions are stable across
// requests instead of flickering.
func nameSeed(name string) int {
	seed := 0
	for _, b := range []byte(name) {
		seed += int(b)
	}
	return seed
}

// SimulateConditions fabricates a plausible, deterministic reading for a
// beach that was not live-enriched. All derived metrics run through the
// same heuristics as measured data; Sources marks every field group as
// fallback.
func SimulateConditions(beachName string, lat, lon float64, now time.Time) Conditions {
	seed := nameSeed(beachName)

	waveHeight := 2 + float64(seed%40)/10 // 2.0 - 6.0 ft
	windSpeed := float64(5 + seed%20)     // 5 - 25 mph
	waterTemp := float64(74 + seed%8)     // 74 - 82 F
	uvIndex := float64(6 + seed%6)        // 6 - 12
	visibility := float64(8 + seed%7)     // 8 - 15 mi
	windDir := float64(45 + seed%315)
	tide := 1.5 + float64(seed%30)/10
	humidity := float64(60 + seed%25)

	in := SafetyInput{
		WaveHeightFt: waveHeight,
		WindMph:      windSpeed,
		UVIndex:      uvIndex,
		TideState:    TideRising,
	}
	score := SafetyScore(in)
	crowd, people := EstimateCrowd(now)

	c := Conditions{
		WaveHeightFt:   waveHeight,
		WavePeriodSec:  8,
		WaveDirection:  DegreesToCompass(windDir),
		SwellHeightFt:  waveHeight * 0.7,
		SwellPeriodSec: 10,
		SwellDirection: "NW",

		WindMph:         windSpeed,
		WindDirection:   DegreesToCompass(windDir),
		WindGustMph:     windSpeed * 1.3,
		WindDescription: WindDescription(windSpeed, DegreesToCompass(windDir)),

		WaterTempF:     waterTemp,
		WaterClarityMi: visibility,
		Salinity:       defaultSalinity,
		PH:             defaultPH,

		TideFt:    tide,
		TideState: TideRising,

		RipCurrentRisk: RipCurrentRisk(in),

		AirTempF:      waterTemp + 4,
		HumidityPct:   humidity,
		PressureMb:    defaultPressureMb,
		VisibilityMi:  visibility,
		CloudCoverPct: defaultCloudCoverPct,

		UVIndex:          uvIndex,
		UVLevel:          UVLevel(uvIndex),
		UVRecommendation: UVRecommendation(uvIndex),

		BacteriaLevel: BacteriaSafe,

		Warnings:    DeriveWarnings(in),
		SafetyScore: score,
		Status:      StatusForScore(score),

		LifeguardOnDuty: LifeguardOnDuty(now),
		CrowdLevel:      crowd,
		EstimatedPeople: people,

		ActiveAdvisories: []string{},
		Activities:       RateActivities(waveHeight, windSpeed, 0, visibility),
		GeneratedAt:      now,
	}
	c.Sources = fallbackSources()
	if sun, err := SunTimesFor(lat, lon, now); err == nil {
		c.Sun = sun
	}
	return c
}

// Hawaii-typical defaults used when every upstream provider fails. The
// service never shows "no data", only increasingly approximate data.
const (
	defaultWaveHeightFt  = 3
	defaultWaterTempF    = 75
	defaultAirTempF      = 80
	defaultPressureMb    = 1013
	defaultUVIndex       = 8
	defaultHumidityPct   = 70
	defaultCloudCoverPct = 20
	defaultVisibilityMi  = 10
	defaultSalinity      = 35
	defaultPH            = 8.2
)

func fallbackSources() SourceMap {
	groups := []string{"ocean", "wind", "water", "tide", "current", "weather", "uv", "quality"}
	m := make(SourceMap, len(groups))
	for _, g := range groups {
		m[g] = FieldSource{Provider: "none", Provenance: ProvenanceFallback}
	}
	return m
}

// FallbackConditions is the fully-populated object returned when all six
// parallel fetches fail.
func FallbackConditions(now time.Time) Conditions {
	in := SafetyInput{
		WaveHeightFt: defaultWaveHeightFt,
		UVIndex:      defaultUVIndex,
		TideState:    TideRising,
	}
	score := SafetyScore(in)
	crowd, people := EstimateCrowd(now)

	return Conditions{
		WaveHeightFt:   defaultWaveHeightFt,
		WavePeriodSec:  8,
		WaveDirection:  "NE",
		SwellHeightFt:  defaultWaveHeightFt * 0.7,
		SwellPeriodSec: 10,
		SwellDirection: "NW",

		WindMph:         10,
		WindDirection:   "NE",
		WindGustMph:     13,
		WindDescription: WindDescription(10, "NE"),

		WaterTempF:     defaultWaterTempF,
		WaterClarityMi: defaultVisibilityMi,
		Salinity:       defaultSalinity,
		PH:             defaultPH,

		TideFt:    1.5,
		TideState: TideRising,

		RipCurrentRisk: RipCurrentRisk(in),

		AirTempF:      defaultAirTempF,
		HumidityPct:   defaultHumidityPct,
		PressureMb:    defaultPressureMb,
		VisibilityMi:  defaultVisibilityMi,
		CloudCoverPct: defaultCloudCoverPct,

		UVIndex:          defaultUVIndex,
		UVLevel:          UVLevel(defaultUVIndex),
		UVRecommendation: UVRecommendation(defaultUVIndex),

		BacteriaLevel: BacteriaSafe,

		Warnings:    DeriveWarnings(in),
		SafetyScore: score,
		Status:      StatusForScore(score),

		LifeguardOnDuty: LifeguardOnDuty(now),
		CrowdLevel:      crowd,
		EstimatedPeople: people,

		ActiveAdvisories: []string{},
		Activities:       RateActivities(defaultWaveHeightFt, 10, 0, defaultVisibilityMi),
		Sources:          fallbackSources(),
		GeneratedAt:      now,
	}
}
