// Package domain models Hawaii beach conditions and the heuristics derived
// from them.
//
// # Data Sources
//
// Conditions are merged from several upstream providers, each owning a
// different slice of the picture:
//
//	NOAA CO-OPS    tide levels, hilo predictions, coastal currents, water
//	               temperature (datum MLLW, english units, station-keyed).
//	NOAA NDBC      offshore buoy observations, fixed-width text feed
//	               (realtime2), metric units converted on parse.
//	weather.gov    gridpoint raw forecasts: wave height/period, wind,
//	               visibility, swell components. No API key.
//	OpenWeather    current weather, 3-hourly forecast, UV index, air
//	               pollution. Key via query string, daily quota.
//	StormGlass     marine point weather (18 fixed parameters). Key via
//	               Authorization header, small daily quota.
//
// # Units
//
// Everything is normalized to the units Hawaii beachgoers read: feet, °F,
// mph, statute miles, knots for currents. Providers report metric; the
// converters in units.go do the translation at the parse boundary. Wind and
// wave directions are carried in degrees and rendered as 16-point compass
// labels (22.5° buckets).
//
// # Derived Metrics
//
// The scoring functions are deliberate heuristics, not physics:
//
//	Safety score   0-100, graduated penalties for wave height, wind, UV,
//	               current speed, and 10 points per active advisory.
//	               Thresholds: score ≥80 good, ≥50 caution, else dangerous.
//	Rip current    integer risk sum over wave height, tide phase, and
//	               current speed; ≥5 high, ≥3 moderate, else low.
//	Activities     per-activity ordered threshold ladders over wave height,
//	               wind, visibility and current. Surfing's ladder is
//	               inverted relative to swimming: the waves that empty the
//	               swim zone fill the lineup.
//	Crowd level    hour-of-day and weekend heuristic. There is no occupancy
//	               sensor; this is a placeholder the API labels as such.
//
// # Provenance
//
// Every merged field group carries a provenance: "measured" when a live
// provider supplied it, "estimated" when derived from a neighboring signal
// (buoy standing in for a surf break, clarity inferred from swell), and
// "fallback" when the Hawaii-typical default was used because every provider
// failed. The service never returns "no data" — it returns increasingly
// approximate data and says so.
package domain
