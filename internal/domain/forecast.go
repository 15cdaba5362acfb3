package domain

import "time"

// UVLevel buckets a UV index into the standard WHO exposure categories.
func UVLevel(index float64) string {
	switch {
	case index <= 2:
		return "low"
	case index <= 5:
		return "moderate"
	case index <= 7:
		return "high"
	case index <= 10:
		return "very_high"
	default:
		return "extreme"
	}
}

// UVRecommendation returns the protection advice shown next to the UV level.
func UVRecommendation(index float64) string {
	switch {
	case index <= 2:
		return "Minimal protection needed"
	case index <= 5:
		return "Wear sunscreen and hat"
	case index <= 7:
		return "Wear sunscreen, hat, and sunglasses"
	case index <= 10:
		return "Extra protection needed - seek shade"
	default:
		return "Avoid sun exposure 10am-4pm"
	}
}

// WindDescription renders a wind speed as a Beaufort-style phrase, with
// the compass direction when one is known.
func WindDescription(mph float64, direction string) string {
	var label string
	switch {
	case mph < 1:
		label = "Calm"
	case mph < 4:
		label = "Light air"
	case mph < 8:
		label = "Light breeze"
	case mph < 13:
		label = "Gentle breeze"
	case mph < 19:
		label = "Moderate breeze"
	case mph < 25:
		label = "Fresh breeze"
	case mph < 32:
		label = "Strong breeze"
	case mph < 39:
		label = "Near gale"
	default:
		label = "Gale"
	}
	if direction == "" || mph < 1 {
		return label
	}
	return label + " from " + direction
}

// SwellQuality classifies a swell component by period. Long-period energy
// travels from distant storms (ground swell); short-period chop is locally
// wind-driven.
func SwellQuality(periodSec float64) string {
	switch {
	case periodSec >= 10:
		return "ground_swell"
	case periodSec >= 7:
		return "mixed"
	default:
		return "wind_swell"
	}
}

// DeriveTideState infers the tide phase from high/low predictions around
// now. The most recent past event decides: after a high the water is
// falling, after a low it is rising. With no past event the default is
// rising.
func DeriveTideState(predictions []TidePrediction, now time.Time) TideState {
	var last *TidePrediction
	for i := range predictions {
		p := &predictions[i]
		if p.Time.After(now) {
			break
		}
		last = p
	}
	if last == nil {
		return TideRising
	}
	if last.High {
		return TideFalling
	}
	return TideRising
}

// NextTides returns the first upcoming high and low events after now.
// Either return may be the zero value when the prediction window ran out.
func NextTides(predictions []TidePrediction, now time.Time) (high, low TidePrediction) {
	for _, p := range predictions {
		if !p.Time.After(now) {
			continue
		}
		if p.High && high.Time.IsZero() {
			high = p
		}
		if !p.High && low.Time.IsZero() {
			low = p
		}
		if !high.Time.IsZero() && !low.Time.IsZero() {
			break
		}
	}
	return high, low
}

// maxForecastDays caps the aggregated daily forecast, matching the length
// of the upstream 5-day/3-hour product.
const maxForecastDays = 5

// AggregateDaily folds 3-hour forecast steps into per-day summaries: min
// and max temperature, summed precipitation, mean wind speed. Days appear
// in first-seen order, capped at five.
func AggregateDaily(hourly []HourlyForecast, loc *time.Location) []DailyForecast {
	if loc == nil {
		loc = time.UTC
	}

	type acc struct {
		day   DailyForecast
		wind  float64
		steps int
	}
	var order []string
	byDay := make(map[string]*acc)

	for _, h := range hourly {
		local := h.Time.In(loc)
		key := local.Format("2006-01-02")
		a, ok := byDay[key]
		if !ok {
			a = &acc{day: DailyForecast{
				Date:     time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
				TempMinF: h.TempF,
				TempMaxF: h.TempF,
			}}
			byDay[key] = a
			order = append(order, key)
		}
		if h.TempF < a.day.TempMinF {
			a.day.TempMinF = h.TempF
		}
		if h.TempF > a.day.TempMaxF {
			a.day.TempMaxF = h.TempF
		}
		a.day.PrecipIn += h.PrecipIn
		a.wind += h.WindMph
		a.steps++
	}

	days := make([]DailyForecast, 0, len(order))
	for _, key := range order {
		a := byDay[key]
		a.day.WindMph = a.wind / float64(a.steps)
		days = append(days, a.day)
		if len(days) == maxForecastDays {
			break
		}
	}
	return days
}
