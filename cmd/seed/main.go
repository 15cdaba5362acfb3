// Command seed creates the database schema and upserts the beach catalog.
// It is idempotent: rerunning updates names and coordinates in place
// without touching readings or advisories.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/beachhui/conditions/internal/store"
)

var beaches = []store.Beach{
	{Slug: "waikiki-beach", Name: "Waikiki Beach", Island: "oahu", Lat: 21.2761, Lon: -157.8267, Description: "Honolulu's iconic south shore beach, gentle rollers over a shallow reef.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking", "rentals"}},
	{Slug: "lanikai-beach", Name: "Lanikai Beach", Island: "oahu", Lat: 21.3931, Lon: -157.7156, Description: "Calm turquoise water facing the Mokulua islets.", Amenities: []string{"none"}},
	{Slug: "ala-moana-beach", Name: "Ala Moana Beach Park", Island: "oahu", Lat: 21.2897, Lon: -157.8470, Description: "Protected lagoon swimming inside an outer reef.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking"}},
	{Slug: "sunset-beach", Name: "Sunset Beach", Island: "oahu", Lat: 21.6795, Lon: -158.0418, Description: "North Shore big-wave break in winter, swimmable in summer.", Amenities: []string{"lifeguard", "restrooms", "parking"}},
	{Slug: "waimea-bay", Name: "Waimea Bay", Island: "oahu", Lat: 21.6403, Lon: -158.0631, Description: "Deep-water winter surf bay with summer flat spells.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking"}},
	{Slug: "hanauma-bay", Name: "Hanauma Bay", Island: "oahu", Lat: 21.2690, Lon: -157.6938, Description: "Marine life conservation district, premier snorkeling.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking", "rentals"}},
	{Slug: "kailua-beach", Name: "Kailua Beach Park", Island: "oahu", Lat: 21.3972, Lon: -157.7270, Description: "Long windward beach popular for kayaking and kitesurfing.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking"}},
	{Slug: "sandy-beach", Name: "Sandy Beach", Island: "oahu", Lat: 21.2850, Lon: -157.6728, Description: "Powerful shorebreak, bodyboarding for experts only.", Amenities: []string{"lifeguard", "restrooms", "parking"}},
	{Slug: "ko-olina-lagoons", Name: "Ko Olina Lagoons", Island: "oahu", Lat: 21.3400, Lon: -158.1258, Description: "Four man-made lagoons with near-flat water year round.", Amenities: []string{"restrooms", "showers", "parking"}},
	{Slug: "haleiwa-beach", Name: "Haleiwa Beach Park", Island: "oahu", Lat: 21.5966, Lon: -158.1098, Description: "Sheltered corner of the North Shore near Haleiwa harbor.", Amenities: []string{"lifeguard", "restrooms", "parking"}},

	{Slug: "kaanapali-beach", Name: "Kaanapali Beach", Island: "maui", Lat: 20.9244, Lon: -156.6951, Description: "Three miles of resort-front sand ending at Black Rock.", Amenities: []string{"restrooms", "showers", "rentals"}},
	{Slug: "wailea-beach", Name: "Wailea Beach", Island: "maui", Lat: 20.6899, Lon: -156.4422, Description: "Crescent beach with gentle entries and morning snorkeling.", Amenities: []string{"restrooms", "showers", "parking"}},
	{Slug: "makena-big-beach", Name: "Makena Big Beach", Island: "maui", Lat: 20.6319, Lon: -156.4492, Description: "Wide undeveloped beach with a strong shorebreak.", Amenities: []string{"lifeguard", "parking"}},
	{Slug: "kapalua-bay", Name: "Kapalua Bay", Island: "maui", Lat: 20.9988, Lon: -156.6674, Description: "Sheltered bay between two lava points, reliable calm water.", Amenities: []string{"restrooms", "showers", "parking"}},
	{Slug: "baldwin-beach", Name: "Baldwin Beach Park", Island: "maui", Lat: 20.9133, Lon: -156.3924, Description: "North shore locals' beach with a shallow keiki pond.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking"}},
	{Slug: "napili-bay", Name: "Napili Bay", Island: "maui", Lat: 20.9946, Lon: -156.6672, Description: "Small sandy bay, turtles in the mornings.", Amenities: []string{"none"}},

	{Slug: "poipu-beach", Name: "Poipu Beach Park", Island: "kauai", Lat: 21.8733, Lon: -159.4547, Description: "South shore family beach with a natural wading pool.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking"}},
	{Slug: "hanalei-bay", Name: "Hanalei Bay", Island: "kauai", Lat: 22.2038, Lon: -159.5028, Description: "Two-mile crescent under the north shore peaks.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking"}},
	{Slug: "tunnels-beach", Name: "Tunnels Beach", Island: "kauai", Lat: 22.2249, Lon: -159.5668, Description: "Horseshoe reef, calm summer snorkeling, dangerous in winter.", Amenities: []string{"parking"}},
	{Slug: "lydgate-beach", Name: "Lydgate Beach Park", Island: "kauai", Lat: 22.0380, Lon: -159.3365, Description: "Rock-enclosed ocean pools safe in nearly all conditions.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking"}},

	{Slug: "hapuna-beach", Name: "Hapuna Beach", Island: "hawaii", Lat: 19.9930, Lon: -155.8247, Description: "Half mile of white sand on the Kohala coast.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking"}},
	{Slug: "magic-sands-beach", Name: "Magic Sands Beach", Island: "hawaii", Lat: 19.6076, Lon: -155.9731, Description: "Small Kona beach whose sand vanishes in high surf.", Amenities: []string{"lifeguard", "restrooms", "parking"}},
	{Slug: "punaluu-black-sand", Name: "Punaluu Black Sand Beach", Island: "hawaii", Lat: 19.1358, Lon: -155.5044, Description: "Black sand beach frequented by basking green sea turtles.", Amenities: []string{"restrooms", "parking"}},
	{Slug: "kahaluu-beach", Name: "Kahaluu Beach Park", Island: "hawaii", Lat: 19.5797, Lon: -155.9680, Description: "Shallow reef flat, Kona's easiest snorkel entry.", Amenities: []string{"lifeguard", "restrooms", "showers", "parking"}},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	st, err := store.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer st.Close()

	if err := st.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	for _, b := range beaches {
		id, err := st.UpsertBeach(ctx, b)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", b.Slug, err)
		}
		log.Printf("seeded %s (id %d)", b.Slug, id)
	}

	log.Printf("done: %d beaches", len(beaches))
	return nil
}
