package domain

import "math"

// Station is one fixed NOAA observation point.
type Station struct {
	ID     string
	Name   string
	Lat    float64
	Lon    float64
	Island string
}

// TideStations are the Hawaii CO-OPS water-level stations. The list is
// fixed and never empty; resolvers assume at least one candidate.
var TideStations = []Station{
	{ID: "1612340", Name: "Honolulu", Lat: 21.3067, Lon: -157.8670, Island: "oahu"},
	{ID: "1611400", Name: "Nawiliwili", Lat: 21.9544, Lon: -159.3561, Island: "kauai"},
	{ID: "1615680", Name: "Mokuoloe", Lat: 21.4311, Lon: -157.7900, Island: "oahu"},
	{ID: "1617760", Name: "Maunalua Bay", Lat: 21.2881, Lon: -157.7075, Island: "oahu"},
	{ID: "1619910", Name: "Barbers Point", Lat: 21.3089, Lon: -158.1250, Island: "oahu"},
	{ID: "1621480", Name: "Sand Island", Lat: 21.3286, Lon: -157.8658, Island: "oahu"},
	{ID: "1627412", Name: "Kahului Harbor", Lat: 20.8950, Lon: -156.4772, Island: "maui"},
	{ID: "1630000", Name: "Hilo", Lat: 19.7300, Lon: -155.0600, Island: "hawaii"},
	{ID: "1632200", Name: "Kawaihae", Lat: 20.0367, Lon: -155.8283, Island: "hawaii"},
}

// Buoys are the Hawaii NDBC wave buoys.
var Buoys = []Station{
	{ID: "51201", Name: "Waimea Bay", Lat: 21.67, Lon: -158.12, Island: "oahu"},
	{ID: "51202", Name: "Mokapu Point", Lat: 21.44, Lon: -157.67, Island: "oahu"},
	{ID: "51203", Name: "Kauai", Lat: 21.28, Lon: -160.57, Island: "kauai"},
	{ID: "51204", Name: "Hilo", Lat: 19.53, Lon: -154.95, Island: "hawaii"},
	{ID: "51205", Name: "Kona", Lat: 19.78, Lon: -156.04, Island: "hawaii"},
	{ID: "51206", Name: "Lanai", Lat: 20.79, Lon: -157.28, Island: "maui"},
	{ID: "51207", Name: "Barbers Point", Lat: 21.28, Lon: -158.12, Island: "oahu"},
}

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// nearest scans candidates for the minimum haversine distance. Exact ties
// keep the first-seen candidate.
func nearest(lat, lon float64, candidates []Station) (Station, float64) {
	best := candidates[0]
	bestDist := HaversineKm(lat, lon, best.Lat, best.Lon)
	for _, s := range candidates[1:] {
		if d := HaversineKm(lat, lon, s.Lat, s.Lon); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best, bestDist
}

// NearestTideStation returns the closest CO-OPS station and its distance in km.
func NearestTideStation(lat, lon float64) (Station, float64) {
	return nearest(lat, lon, TideStations)
}

// NearestBuoy returns the closest NDBC buoy and its distance in km.
func NearestBuoy(lat, lon float64) (Station, float64) {
	return nearest(lat, lon, Buoys)
}
