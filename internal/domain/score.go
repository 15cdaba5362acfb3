package domain

import (
	"strings"
	"time"
)

// SafetyInput carries the merged signals the safety heuristics read. All
// values are in internal units (feet, mph, knots).
type SafetyInput struct {
	WaveHeightFt    float64
	WindMph         float64
	UVIndex         float64
	CurrentSpeedKts float64
	TideState       TideState
	Advisories      []string
}

// wavePenalty is graduated: only the deepest matching tier applies.
func wavePenalty(ft float64) int {
	switch {
	case ft > 8:
		return 40
	case ft > 6:
		return 30
	case ft > 4:
		return 20
	case ft > 3:
		return 10
	case ft > 2:
		return 5
	default:
		return 0
	}
}

func windPenalty(mph float64) int {
	switch {
	case mph > 25:
		return 25
	case mph > 20:
		return 15
	case mph > 15:
		return 10
	case mph > 10:
		return 5
	default:
		return 0
	}
}

func uvPenalty(index float64) int {
	switch {
	case index > 11:
		return 15
	case index > 8:
		return 10
	case index > 6:
		return 5
	default:
		return 0
	}
}

func currentPenalty(kts float64) int {
	switch {
	case kts > 2:
		return 15
	case kts > 1:
		return 10
	default:
		return 0
	}
}

// SafetyScore starts from 100 and subtracts graduated penalties for surf,
// wind, UV, current and active advisories. The result is clamped to [0,100].
func SafetyScore(in SafetyInput) int {
	score := 100
	score -= wavePenalty(in.WaveHeightFt)
	score -= windPenalty(in.WindMph)
	score -= uvPenalty(in.UVIndex)
	score -= currentPenalty(in.CurrentSpeedKts)
	score -= 10 * len(in.Advisories)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// StatusForScore maps a safety score onto the traffic-light summary.
func StatusForScore(score int) Status {
	switch {
	case score >= 80:
		return StatusGood
	case score >= 50:
		return StatusCaution
	default:
		return StatusDangerous
	}
}

// RipCurrentRisk sums integer risk points from surf height, tide phase and
// measured current speed, then buckets the total.
func RipCurrentRisk(in SafetyInput) RiskLevel {
	risk := 0
	switch {
	case in.WaveHeightFt > 6:
		risk += 3
	case in.WaveHeightFt > 4:
		risk += 2
	case in.WaveHeightFt > 2:
		risk++
	}
	if in.TideState == TideFalling || in.TideState == TideLow {
		risk++
	}
	switch {
	case in.CurrentSpeedKts > 2:
		risk += 2
	case in.CurrentSpeedKts > 1:
		risk++
	}
	switch {
	case risk >= 5:
		return RiskHigh
	case risk >= 3:
		return RiskModerate
	default:
		return RiskLow
	}
}

// activityRule is one rung of a rating ladder. Rules are evaluated in order;
// the first rule whose predicate passes wins, so each ladder ends with a
// catch-all.
type activityRule struct {
	rating Rating
	match  func(waveFt, windMph, currentKts, visibilityMi float64) bool
}

var swimmingLadder = []activityRule{
	{RatingExcellent, func(w, wind, _, _ float64) bool { return w < 2 && wind < 15 }},
	{RatingGood, func(w, wind, _, _ float64) bool { return w < 3 && wind < 20 }},
	{RatingFair, func(w, _, _, _ float64) bool { return w < 4 }},
	{RatingPoor, func(w, _, _, _ float64) bool { return w < 6 }},
	{RatingDangerous, func(_, _, _, _ float64) bool { return true }},
}

// Surfing inverts the swimming ladder: a flat ocean is the worst outcome.
var surfingLadder = []activityRule{
	{RatingFlat, func(w, _, _, _ float64) bool { return w < 2 }},
	{RatingExcellent, func(w, _, _, _ float64) bool { return w >= 4 && w <= 8 }},
	{RatingGood, func(w, _, _, _ float64) bool { return w >= 3 && w <= 10 }},
	{RatingFair, func(w, _, _, _ float64) bool { return w >= 2 }},
	{RatingPoor, func(_, _, _, _ float64) bool { return true }},
}

var snorkelingLadder = []activityRule{
	{RatingExcellent, func(w, _, _, vis float64) bool { return w < 1.5 && vis > 15 }},
	{RatingGood, func(w, _, _, vis float64) bool { return w < 2 && vis > 10 }},
	{RatingFair, func(w, _, _, _ float64) bool { return w < 3 }},
	{RatingPoor, func(_, _, _, _ float64) bool { return true }},
}

var divingLadder = []activityRule{
	{RatingExcellent, func(w, _, cur, vis float64) bool { return w < 2 && cur < 1 && vis > 20 }},
	{RatingGood, func(w, _, _, vis float64) bool { return w < 3 && vis > 15 }},
	{RatingFair, func(w, _, _, _ float64) bool { return w < 4 }},
	{RatingPoor, func(_, _, _, _ float64) bool { return true }},
}

var fishingLadder = []activityRule{
	{RatingExcellent, func(w, wind, _, _ float64) bool { return wind < 15 && w < 3 }},
	{RatingGood, func(w, wind, _, _ float64) bool { return wind < 20 && w < 4 }},
	{RatingFair, func(_, wind, _, _ float64) bool { return wind < 25 }},
	{RatingPoor, func(_, _, _, _ float64) bool { return true }},
}

func rate(ladder []activityRule, waveFt, windMph, currentKts, visibilityMi float64) Rating {
	for _, rule := range ladder {
		if rule.match(waveFt, windMph, currentKts, visibilityMi) {
			return rule.rating
		}
	}
	return RatingPoor
}

// RateActivities evaluates all five ladders against the same merged inputs.
func RateActivities(waveFt, windMph, currentKts, visibilityMi float64) ActivityRatings {
	return ActivityRatings{
		Swimming:   rate(swimmingLadder, waveFt, windMph, currentKts, visibilityMi),
		Surfing:    rate(surfingLadder, waveFt, windMph, currentKts, visibilityMi),
		Snorkeling: rate(snorkelingLadder, waveFt, windMph, currentKts, visibilityMi),
		Diving:     rate(divingLadder, waveFt, windMph, currentKts, visibilityMi),
		Fishing:    rate(fishingLadder, waveFt, windMph, currentKts, visibilityMi),
	}
}

// DeriveWarnings raises the boolean safety flags. Hazard flags that have no
// sensor behind them (jellyfish, sharks, monk seals) are driven by a scan of
// active advisory titles rather than guessed.
func DeriveWarnings(in SafetyInput) Warnings {
	w := Warnings{
		HighSurf:      in.WaveHeightFt > 8,
		StrongCurrent: in.WaveHeightFt > 6 || in.WindMph > 25,
		UVExtreme:     in.UVIndex >= 11,
	}
	for _, adv := range in.Advisories {
		title := strings.ToLower(adv)
		if strings.Contains(title, "jellyfish") {
			w.Jellyfish = true
		}
		if strings.Contains(title, "shark") {
			w.SharkSighting = true
		}
		if strings.Contains(title, "seal") {
			w.SealPresent = true
		}
	}
	return w
}

// crowdPeople maps a crowd bucket to a rough headcount for display.
var crowdPeople = map[CrowdLevel]int{
	CrowdEmpty:    0,
	CrowdLight:    10,
	CrowdModerate: 50,
	CrowdCrowded:  150,
	CrowdPacked:   300,
}

// EstimateCrowd is a deterministic placeholder keyed on Hawaii local
// hour and weekday. There is no occupancy sensor behind it.
func EstimateCrowd(t time.Time) (CrowdLevel, int) {
	t = t.In(hawaiiLoc)
	hour := t.Hour()
	weekend := t.Weekday() == time.Saturday || t.Weekday() == time.Sunday

	var level CrowdLevel
	if weekend {
		switch {
		case hour >= 10 && hour <= 16:
			level = CrowdPacked
		case hour >= 8 && hour <= 18:
			level = CrowdCrowded
		default:
			level = CrowdModerate
		}
	} else {
		switch {
		case hour >= 11 && hour <= 14:
			level = CrowdCrowded
		case hour >= 9 && hour <= 17:
			level = CrowdModerate
		case hour >= 6 && hour <= 19:
			level = CrowdLight
		default:
			level = CrowdEmpty
		}
	}
	return level, crowdPeople[level]
}

// LifeguardOnDuty reflects the standard county tower schedule, in
// Hawaii local time.
func LifeguardOnDuty(t time.Time) bool {
	hour := t.In(hawaiiLoc).Hour()
	return hour >= 8 && hour < 17
}

// EstimateClarityMi infers snorkeling visibility when no provider measured
// it: calmer combined seas mean clearer water.
func EstimateClarityMi(waveFt, swellFt float64) float64 {
	combined := waveFt + swellFt
	switch {
	case combined < 2:
		return 25
	case combined < 4:
		return 15
	case combined < 6:
		return 8
	default:
		return 3
	}
}
