package domain

// Unit conversions between the metric values upstream providers report and
// the imperial units the API serves. All are pure; NaN propagates, so
// callers parsing untrusted provider payloads substitute defaults before
// converting.

// MetersToFeet converts meters to feet.
func MetersToFeet(m float64) float64 {
	return m * 3.28084
}

// FeetToMeters converts feet to meters.
func FeetToMeters(ft float64) float64 {
	return ft / 3.28084
}

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// MpsToMph converts meters per second to miles per hour.
func MpsToMph(mps float64) float64 {
	return mps * 2.23694
}

// MpsToKnots converts meters per second to knots.
func MpsToKnots(mps float64) float64 {
	return mps * 1.94384
}

// MetersToMiles converts meters to statute miles.
func MetersToMiles(m float64) float64 {
	return m * 0.000621371
}

// KmToMiles converts kilometers to statute miles.
func KmToMiles(km float64) float64 {
	return km * 0.621371
}

// compassLabels are the 16 points clockwise from north.
var compassLabels = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// compassDegrees is the fixed inverse table. Round-tripping through
// DegreesToCompass is lossy: every degree in a 22.5° bucket maps back to
// the bucket center.
var compassDegrees = map[string]float64{
	"N": 0, "NNE": 22.5, "NE": 45, "ENE": 67.5,
	"E": 90, "ESE": 112.5, "SE": 135, "SSE": 157.5,
	"S": 180, "SSW": 202.5, "SW": 225, "WSW": 247.5,
	"W": 270, "WNW": 292.5, "NW": 315, "NNW": 337.5,
}

// DegreesToCompass maps a bearing onto one of 16 compass labels using
// 22.5°-wide buckets centered on each point. 360° wraps to N.
func DegreesToCompass(degrees float64) string {
	idx := int(degrees/22.5+0.5) % 16
	if idx < 0 {
		idx += 16
	}
	return compassLabels[idx]
}

// CompassToDegrees returns the bucket-center bearing for a compass label,
// or 0 for an unknown label.
func CompassToDegrees(compass string) float64 {
	return compassDegrees[compass]
}
