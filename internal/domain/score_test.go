package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafetyScore(t *testing.T) {
	t.Run("calm day scores perfect", func(t *testing.T) {
		score := SafetyScore(SafetyInput{WaveHeightFt: 2.5, WindMph: 8})
		assert.Equal(t, 95, score)
		assert.Equal(t, StatusGood, StatusForScore(score))
	})

	t.Run("gentle surf below every tier", func(t *testing.T) {
		score := SafetyScore(SafetyInput{WaveHeightFt: 1.8, WindMph: 8, UVIndex: 5})
		assert.Equal(t, 100, score)
	})

	t.Run("severe conditions clamp at zero", func(t *testing.T) {
		score := SafetyScore(SafetyInput{
			WaveHeightFt:    9,
			WindMph:         26,
			UVIndex:         12,
			CurrentSpeedKts: 2.5,
			Advisories:      []string{"High Surf Warning"},
		})
		// 100 - 40 - 25 - 15 - 15 - 10 = -5, clamped
		assert.Equal(t, 0, score)
		assert.Equal(t, StatusDangerous, StatusForScore(score))
	})

	t.Run("penalties are graduated not cumulative", func(t *testing.T) {
		// 7ft surf hits only the >6 tier.
		assert.Equal(t, 70, SafetyScore(SafetyInput{WaveHeightFt: 7}))
	})

	t.Run("each advisory costs ten points", func(t *testing.T) {
		advisories := []string{"Brown Water Advisory", "Box Jellyfish Warning"}
		assert.Equal(t, 80, SafetyScore(SafetyInput{WaveHeightFt: 1, Advisories: advisories}))
	})
}

func TestStatusForScore(t *testing.T) {
	assert.Equal(t, StatusGood, StatusForScore(80))
	assert.Equal(t, StatusCaution, StatusForScore(79))
	assert.Equal(t, StatusCaution, StatusForScore(50))
	assert.Equal(t, StatusDangerous, StatusForScore(49))
}

func TestRipCurrentRisk(t *testing.T) {
	tests := []struct {
		name string
		in   SafetyInput
		want RiskLevel
	}{
		{"flat water rising tide", SafetyInput{WaveHeightFt: 1, TideState: TideRising}, RiskLow},
		{"moderate surf on falling tide", SafetyInput{WaveHeightFt: 5, TideState: TideFalling}, RiskModerate},
		{"big surf with strong current", SafetyInput{WaveHeightFt: 7, CurrentSpeedKts: 2.5}, RiskHigh},
		{"low tide alone is not enough", SafetyInput{WaveHeightFt: 1, TideState: TideLow}, RiskLow},
		{"borderline sums to moderate", SafetyInput{WaveHeightFt: 3, TideState: TideLow, CurrentSpeedKts: 1.5}, RiskModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RipCurrentRisk(tt.in))
		})
	}
}

func TestRateActivities(t *testing.T) {
	t.Run("calm clear morning", func(t *testing.T) {
		got := RateActivities(1.2, 8, 0.5, 22)
		assert.Equal(t, RatingExcellent, got.Swimming)
		assert.Equal(t, RatingFlat, got.Surfing)
		assert.Equal(t, RatingExcellent, got.Snorkeling)
		assert.Equal(t, RatingExcellent, got.Diving)
		assert.Equal(t, RatingExcellent, got.Fishing)
	})

	t.Run("solid north swell", func(t *testing.T) {
		got := RateActivities(6, 12, 1.2, 8)
		assert.Equal(t, RatingDangerous, got.Swimming)
		assert.Equal(t, RatingExcellent, got.Surfing)
		assert.Equal(t, RatingPoor, got.Snorkeling)
		assert.Equal(t, RatingPoor, got.Diving)
		assert.Equal(t, RatingFair, got.Fishing)
	})

	t.Run("blown out afternoon", func(t *testing.T) {
		got := RateActivities(3.5, 27, 0.8, 12)
		assert.Equal(t, RatingFair, got.Swimming)
		assert.Equal(t, RatingGood, got.Surfing)
		assert.Equal(t, RatingPoor, got.Fishing)
	})

	t.Run("small but murky", func(t *testing.T) {
		got := RateActivities(1.8, 10, 0.3, 6)
		assert.Equal(t, RatingFair, got.Snorkeling)
		assert.Equal(t, RatingFair, got.Diving)
	})
}

func TestDeriveWarnings(t *testing.T) {
	t.Run("sensor driven flags", func(t *testing.T) {
		w := DeriveWarnings(SafetyInput{WaveHeightFt: 9, WindMph: 10, UVIndex: 11})
		assert.True(t, w.HighSurf)
		assert.True(t, w.StrongCurrent)
		assert.True(t, w.UVExtreme)
		assert.False(t, w.Jellyfish)
	})

	t.Run("wind alone triggers strong current", func(t *testing.T) {
		w := DeriveWarnings(SafetyInput{WaveHeightFt: 2, WindMph: 26})
		assert.False(t, w.HighSurf)
		assert.True(t, w.StrongCurrent)
	})

	t.Run("hazard flags come from advisory titles", func(t *testing.T) {
		w := DeriveWarnings(SafetyInput{Advisories: []string{
			"Box Jellyfish Warning",
			"Shark sighted at Makaha",
			"Hawaiian Monk Seal resting on shore",
		}})
		assert.True(t, w.Jellyfish)
		assert.True(t, w.SharkSighting)
		assert.True(t, w.SealPresent)
	})
}

func TestEstimateCrowd(t *testing.T) {
	hst := time.FixedZone("HST", -10*3600)

	t.Run("saturday midday is packed", func(t *testing.T) {
		level, people := EstimateCrowd(time.Date(2025, 7, 12, 12, 0, 0, 0, hst))
		assert.Equal(t, CrowdPacked, level)
		assert.Equal(t, 300, people)
	})

	t.Run("sunday early morning", func(t *testing.T) {
		level, _ := EstimateCrowd(time.Date(2025, 7, 13, 7, 0, 0, 0, hst))
		assert.Equal(t, CrowdModerate, level)
	})

	t.Run("weekday lunch rush", func(t *testing.T) {
		level, people := EstimateCrowd(time.Date(2025, 7, 9, 12, 30, 0, 0, hst))
		assert.Equal(t, CrowdCrowded, level)
		assert.Equal(t, 150, people)
	})

	t.Run("weekday pre-dawn is empty", func(t *testing.T) {
		level, people := EstimateCrowd(time.Date(2025, 7, 9, 4, 0, 0, 0, hst))
		assert.Equal(t, CrowdEmpty, level)
		assert.Equal(t, 0, people)
	})

	t.Run("UTC input converts to Hawaii local time", func(t *testing.T) {
		// Saturday 22:00 UTC is Saturday noon in Hawaii.
		noon := time.Date(2025, 7, 12, 22, 0, 0, 0, time.UTC)
		level, _ := EstimateCrowd(noon)
		assert.Equal(t, CrowdPacked, level)

		hstLevel, _ := EstimateCrowd(noon.In(hst))
		assert.Equal(t, hstLevel, level)
	})
}

func TestLifeguardOnDuty(t *testing.T) {
	hst := time.FixedZone("HST", -10*3600)
	assert.False(t, LifeguardOnDuty(time.Date(2025, 7, 9, 7, 59, 0, 0, hst)))
	assert.True(t, LifeguardOnDuty(time.Date(2025, 7, 9, 8, 0, 0, 0, hst)))
	assert.True(t, LifeguardOnDuty(time.Date(2025, 7, 9, 16, 59, 0, 0, hst)))
	assert.False(t, LifeguardOnDuty(time.Date(2025, 7, 9, 17, 0, 0, 0, hst)))

	// Noon HST expressed in UTC is still on duty.
	assert.True(t, LifeguardOnDuty(time.Date(2025, 7, 9, 22, 0, 0, 0, time.UTC)))
	// 22:00 HST expressed in UTC is off duty.
	assert.False(t, LifeguardOnDuty(time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)))
}

func TestEstimateClarityMi(t *testing.T) {
	assert.Equal(t, 25.0, EstimateClarityMi(0.5, 1))
	assert.Equal(t, 15.0, EstimateClarityMi(1.5, 1.5))
	assert.Equal(t, 8.0, EstimateClarityMi(3, 2))
	assert.Equal(t, 3.0, EstimateClarityMi(5, 3))
}
