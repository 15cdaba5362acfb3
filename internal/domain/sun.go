package domain

import (
	"fmt"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// hawaiiTZ is the islands' single zone; Hawaii does not observe DST.
const hawaiiTZ = "Pacific/Honolulu"

// hawaiiLoc is resolved once. Hawaii never shifts, so a fixed UTC-10
// zone is an exact stand-in when zoneinfo is unavailable.
var hawaiiLoc = func() *time.Location {
	loc, err := time.LoadLocation(hawaiiTZ)
	if err != nil {
		return time.FixedZone("HST", -10*3600)
	}
	return loc
}()

// HawaiiLocation returns the Pacific/Honolulu location.
func HawaiiLocation() *time.Location { return hawaiiLoc }

// SunTimesFor computes the day's light boundaries for a coordinate,
// expressed in Hawaii local time. First and last light use civil twilight.
func SunTimesFor(lat, lon float64, date time.Time) (SunTimes, error) {
	loc, err := time.LoadLocation(hawaiiTZ)
	if err != nil {
		return SunTimes{}, fmt.Errorf("loading %s: %w", hawaiiTZ, err)
	}
	day := date.In(loc)
	observer := astral.Observer{Latitude: lat, Longitude: lon}

	dawn, err := astral.Dawn(observer, day, astral.DepressionCivil)
	if err != nil {
		return SunTimes{}, fmt.Errorf("computing dawn: %w", err)
	}
	sunrise, err := astral.Sunrise(observer, day)
	if err != nil {
		return SunTimes{}, fmt.Errorf("computing sunrise: %w", err)
	}
	sunset, err := astral.Sunset(observer, day)
	if err != nil {
		return SunTimes{}, fmt.Errorf("computing sunset: %w", err)
	}
	dusk, err := astral.Dusk(observer, day, astral.DepressionCivil)
	if err != nil {
		return SunTimes{}, fmt.Errorf("computing dusk: %w", err)
	}

	return SunTimes{
		FirstLight: dawn.In(loc),
		Sunrise:    sunrise.In(loc),
		Sunset:     sunset.In(loc),
		LastLight:  dusk.In(loc),
	}, nil
}
