package aggregator

import (
	"math"
	"time"

	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/store"
)

const historyProvider = "history"

// merge folds the settled fetches into one Conditions object. Precedence
// per field group: named provider, then buoy, then station met sensors,
// then the last persisted reading, then Hawaii-typical defaults. Every
// group records its winning provider and provenance in Sources.
func merge(beach store.Beach, f fanout, last store.Reading, haveLast bool, advisories []string, now time.Time) domain.Conditions {
	c := domain.FallbackConditions(now)

	mergeOcean(&c, f, last, haveLast)
	mergeWind(&c, f, last, haveLast)
	mergeTide(&c, f, last, haveLast)
	mergeCurrent(&c, f)
	mergeWater(&c, f, last, haveLast)
	mergeWeather(&c, f)
	mergeUV(&c, f)
	mergeQuality(&c, last, haveLast)

	if f.marineErr == nil && f.marine.VisibilityMi > 0 {
		c.WaterClarityMi = f.marine.VisibilityMi
	} else {
		c.WaterClarityMi = domain.EstimateClarityMi(c.WaveHeightFt, c.SwellHeightFt)
	}

	if sun, err := domain.SunTimesFor(beach.Lat, beach.Lon, now); err == nil {
		c.Sun = sun
	}

	c.ActiveAdvisories = advisories
	if c.ActiveAdvisories == nil {
		c.ActiveAdvisories = []string{}
	}

	derive(&c, advisories)
	return c
}

func mergeOcean(c *domain.Conditions, f fanout, last store.Reading, haveLast bool) {
	switch {
	case f.marineErr == nil:
		m := f.marine
		c.WaveHeightFt = m.WaveHeightFt
		c.WavePeriodSec = m.WavePeriodSec
		c.WaveDirection = domain.DegreesToCompass(m.WaveDirectionDeg)
		c.SwellHeightFt = m.SwellHeightFt
		c.SwellPeriodSec = m.SwellPeriodSec
		c.SwellDirection = domain.DegreesToCompass(m.SwellDirectionDeg)
		c.Sources["ocean"] = domain.FieldSource{Provider: "stormglass", Provenance: domain.ProvenanceMeasured}
	case f.gridErr == nil && f.grid.WaveHeightFt > 0:
		g := f.grid
		c.WaveHeightFt = g.WaveHeightFt
		c.WavePeriodSec = g.WavePeriodSec
		if len(g.Swells) > 0 {
			c.SwellHeightFt = g.Swells[0].HeightFt
			c.SwellPeriodSec = g.Swells[0].PeriodSec
			c.SwellDirection = domain.DegreesToCompass(g.Swells[0].DirectionDeg)
		}
		c.Sources["ocean"] = domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceMeasured}
	case f.buoyErr == nil && f.buoy.WaveHeightFt > 0:
		b := f.buoy
		c.WaveHeightFt = b.WaveHeightFt
		c.WavePeriodSec = b.DominantPeriodSec
		c.WaveDirection = domain.DegreesToCompass(b.MeanWaveDirDeg)
		c.SwellHeightFt = b.WaveHeightFt * 0.7
		c.SwellPeriodSec = b.AveragePeriodSec
		c.Sources["ocean"] = domain.FieldSource{Provider: "ndbc", Provenance: domain.ProvenanceEstimated}
	case haveLast:
		c.WaveHeightFt = last.WaveHeightFt
		c.Sources["ocean"] = domain.FieldSource{Provider: historyProvider, Provenance: domain.ProvenanceEstimated}
	}
}

func mergeWind(c *domain.Conditions, f fanout, last store.Reading, haveLast bool) {
	switch {
	case f.weatherErr == nil:
		w := f.weather
		c.WindMph = w.WindMph
		c.WindDirection = domain.DegreesToCompass(w.WindDirDeg)
		c.WindGustMph = w.WindGustMph
		c.Sources["wind"] = domain.FieldSource{Provider: "openweather", Provenance: domain.ProvenanceMeasured}
	case f.gridErr == nil && f.grid.WindMph > 0:
		g := f.grid
		c.WindMph = g.WindMph
		c.WindDirection = domain.DegreesToCompass(g.WindDirDeg)
		c.WindGustMph = g.WindGustMph
		c.Sources["wind"] = domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceMeasured}
	case f.buoyErr == nil && f.buoy.WindMph > 0:
		b := f.buoy
		c.WindMph = b.WindMph
		c.WindDirection = domain.DegreesToCompass(b.WindDirDeg)
		c.WindGustMph = b.WindGustMph
		c.Sources["wind"] = domain.FieldSource{Provider: "ndbc", Provenance: domain.ProvenanceEstimated}
	case f.metErr == nil && f.met.WindMph > 0:
		m := f.met
		c.WindMph = m.WindMph
		c.WindDirection = domain.DegreesToCompass(m.WindDirDeg)
		c.WindGustMph = m.WindGustMph
		c.Sources["wind"] = domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceMeasured}
	case haveLast:
		c.WindMph = last.WindMph
		c.Sources["wind"] = domain.FieldSource{Provider: historyProvider, Provenance: domain.ProvenanceEstimated}
	}
}

func mergeTide(c *domain.Conditions, f fanout, last store.Reading, haveLast bool) {
	switch {
	case f.tideErr == nil:
		t := f.tide
		c.TideFt = t.CurrentFt
		c.TideState = t.State
		c.NextHighTide = t.NextHigh.Time
		c.NextLowTide = t.NextLow.Time
		if !t.NextHigh.Time.IsZero() && !t.NextLow.Time.IsZero() {
			c.TidalRangeFt = math.Abs(t.NextHigh.Height - t.NextLow.Height)
		}
		c.Sources["tide"] = domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceMeasured}
	case f.buoyErr == nil && f.buoy.TideFt != 0:
		c.TideFt = f.buoy.TideFt
		c.Sources["tide"] = domain.FieldSource{Provider: "ndbc", Provenance: domain.ProvenanceEstimated}
	case haveLast:
		c.TideFt = last.TideFt
		c.Sources["tide"] = domain.FieldSource{Provider: historyProvider, Provenance: domain.ProvenanceEstimated}
	}
}

func mergeCurrent(c *domain.Conditions, f fanout) {
	switch {
	case f.currentErr == nil && f.current.SpeedKts > 0:
		c.CurrentSpeedKts = f.current.SpeedKts
		c.CurrentDirection = domain.DegreesToCompass(f.current.DirectionDeg)
		c.Sources["current"] = domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceMeasured}
	case f.marineErr == nil && f.marine.CurrentSpeedKts > 0:
		c.CurrentSpeedKts = f.marine.CurrentSpeedKts
		c.CurrentDirection = domain.DegreesToCompass(f.marine.CurrentDirDeg)
		c.Sources["current"] = domain.FieldSource{Provider: "stormglass", Provenance: domain.ProvenanceMeasured}
	}
}

func mergeWater(c *domain.Conditions, f fanout, last store.Reading, haveLast bool) {
	switch {
	case f.waterErr == nil && f.waterTempF > 0:
		c.WaterTempF = f.waterTempF
		c.Sources["water"] = domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceMeasured}
	case f.marineErr == nil && f.marine.WaterTempF > 0:
		c.WaterTempF = f.marine.WaterTempF
		c.Sources["water"] = domain.FieldSource{Provider: "stormglass", Provenance: domain.ProvenanceMeasured}
	case f.buoyErr == nil && f.buoy.WaterTempF > 0:
		c.WaterTempF = f.buoy.WaterTempF
		c.Sources["water"] = domain.FieldSource{Provider: "ndbc", Provenance: domain.ProvenanceEstimated}
	case haveLast:
		c.WaterTempF = last.WaterTempF
		c.Sources["water"] = domain.FieldSource{Provider: historyProvider, Provenance: domain.ProvenanceEstimated}
	}
}

func mergeWeather(c *domain.Conditions, f fanout) {
	switch {
	case f.weatherErr == nil:
		w := f.weather
		c.AirTempF = w.AirTempF
		c.HumidityPct = w.HumidityPct
		c.PressureMb = w.PressureMb
		c.VisibilityMi = w.VisibilityMi
		c.PrecipIn = w.PrecipIn
		c.CloudCoverPct = w.CloudCoverPct
		c.Forecast3Hour = w.Hourly
		if len(w.Hourly) > 8 {
			c.Forecast24Hour = w.Hourly[:8]
		} else {
			c.Forecast24Hour = w.Hourly
		}
		c.Forecast7Day = w.Daily
		c.Sources["weather"] = domain.FieldSource{Provider: "openweather", Provenance: domain.ProvenanceMeasured}
	case f.gridErr == nil:
		g := f.grid
		if g.AirTempF != 0 {
			c.AirTempF = g.AirTempF
		}
		if g.PressureMb > 0 {
			c.PressureMb = g.PressureMb
		}
		if g.VisibilityMi > 0 {
			c.VisibilityMi = g.VisibilityMi
		}
		c.Sources["weather"] = domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceEstimated}
	case f.metErr == nil && (f.met.AirTempF != 0 || f.met.PressureMb > 0):
		m := f.met
		if m.AirTempF != 0 {
			c.AirTempF = m.AirTempF
		}
		if m.PressureMb > 0 {
			c.PressureMb = m.PressureMb
		}
		c.Sources["weather"] = domain.FieldSource{Provider: "noaa", Provenance: domain.ProvenanceEstimated}
	}
}

func mergeUV(c *domain.Conditions, f fanout) {
	if f.weatherErr == nil {
		c.UVIndex = f.weather.UVIndex
		c.Sources["uv"] = domain.FieldSource{Provider: "openweather", Provenance: domain.ProvenanceMeasured}
	}
}

func mergeQuality(c *domain.Conditions, last store.Reading, haveLast bool) {
	if haveLast && last.BacteriaLevel != "" {
		c.BacteriaLevel = last.BacteriaLevel
		c.Sources["quality"] = domain.FieldSource{Provider: historyProvider, Provenance: domain.ProvenanceEstimated}
	}
}

// derive recomputes every derived metric from the merged inputs.
func derive(c *domain.Conditions, advisories []string) {
	in := domain.SafetyInput{
		WaveHeightFt:    c.WaveHeightFt,
		WindMph:         c.WindMph,
		UVIndex:         c.UVIndex,
		CurrentSpeedKts: c.CurrentSpeedKts,
		TideState:       c.TideState,
		Advisories:      advisories,
	}
	c.SafetyScore = domain.SafetyScore(in)
	c.Status = domain.StatusForScore(c.SafetyScore)
	c.RipCurrentRisk = domain.RipCurrentRisk(in)
	c.Warnings = domain.DeriveWarnings(in)
	c.UVLevel = domain.UVLevel(c.UVIndex)
	c.UVRecommendation = domain.UVRecommendation(c.UVIndex)
	c.WindDescription = domain.WindDescription(c.WindMph, c.WindDirection)
	c.Activities = domain.RateActivities(c.WaveHeightFt, c.WindMph, c.CurrentSpeedKts, c.VisibilityMi)
}
