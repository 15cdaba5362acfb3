// Package store provides Postgres persistence for beaches, readings,
// advisories, and status history, backed by a pgx connection pool.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beachhui/conditions/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Beach is one seeded beach. Beaches are created by seed data and rarely
// change afterwards.
type Beach struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Island      string    `json:"island"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Description string    `json:"description"`
	Amenities   []string  `json:"amenities"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Reading is one persisted conditions snapshot. Append-only; the newest
// row per beach drives "current conditions".
type Reading struct {
	ID            int64                `json:"id"`
	BeachID       int64                `json:"beachId"`
	WaveHeightFt  float64              `json:"waveHeightFt"`
	WindMph       float64              `json:"windMph"`
	WaterTempF    float64              `json:"waterTempF"`
	TideFt        float64              `json:"tideFt"`
	BacteriaLevel domain.BacteriaLevel `json:"bacteriaLevel"`
	SafetyScore   int                  `json:"safetyScore"`
	Status        domain.Status        `json:"status"`
	Payload       json.RawMessage      `json:"payload"`
	RecordedAt    time.Time            `json:"recordedAt"`
}

// Advisory is a safety advisory tied to a beach. Status transitions are
// managed externally; the aggregator only reads active ones.
type Advisory struct {
	ID        int64      `json:"id"`
	BeachID   int64      `json:"beachId"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	URL       *string    `json:"url,omitempty"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// schema is applied by the seeder; production deployments run the same
// statements via their migration tooling.
const schema = `
CREATE TABLE IF NOT EXISTS beaches (
    id          BIGSERIAL PRIMARY KEY,
    slug        TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    island      TEXT NOT NULL,
    lat         DOUBLE PRECISION NOT NULL,
    lon         DOUBLE PRECISION NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    amenities   TEXT[] NOT NULL DEFAULT '{}',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS readings (
    id             BIGSERIAL PRIMARY KEY,
    beach_id       BIGINT NOT NULL REFERENCES beaches(id),
    wave_height_ft DOUBLE PRECISION NOT NULL,
    wind_mph       DOUBLE PRECISION NOT NULL,
    water_temp_f   DOUBLE PRECISION NOT NULL,
    tide_ft        DOUBLE PRECISION NOT NULL,
    bacteria_level TEXT NOT NULL,
    safety_score   INTEGER NOT NULL,
    status         TEXT NOT NULL,
    payload        JSONB NOT NULL,
    recorded_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS readings_beach_recorded_idx
    ON readings (beach_id, recorded_at DESC);

CREATE TABLE IF NOT EXISTS advisories (
    id         BIGSERIAL PRIMARY KEY,
    beach_id   BIGINT NOT NULL REFERENCES beaches(id),
    title      TEXT NOT NULL,
    status     TEXT NOT NULL,
    url        TEXT,
    started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    ended_at   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS status_history (
    id           BIGSERIAL PRIMARY KEY,
    beach_id     BIGINT NOT NULL REFERENCES beaches(id),
    status       TEXT NOT NULL,
    safety_score INTEGER NOT NULL,
    recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

const listBeachesSQL = `
    SELECT id, slug, name, island, lat, lon, description, amenities, created_at
    FROM beaches
    ORDER BY name
`

// ListBeaches returns all seeded beaches ordered by name.
func (s *Store) ListBeaches(ctx context.Context) ([]Beach, error) {
	rows, err := s.pool.Query(ctx, listBeachesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	beaches := make([]Beach, 0)
	for rows.Next() {
		var b Beach
		if err := rows.Scan(
			&b.ID, &b.Slug, &b.Name, &b.Island, &b.Lat, &b.Lon,
			&b.Description, &b.Amenities, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		beaches = append(beaches, b)
	}
	return beaches, rows.Err()
}

const beachBySlugSQL = `
    SELECT id, slug, name, island, lat, lon, description, amenities, created_at
    FROM beaches
    WHERE slug = $1
`

// BeachBySlug fetches one beach, or ErrNotFound.
func (s *Store) BeachBySlug(ctx context.Context, slug string) (Beach, error) {
	var b Beach
	err := s.pool.QueryRow(ctx, beachBySlugSQL, slug).Scan(
		&b.ID, &b.Slug, &b.Name, &b.Island, &b.Lat, &b.Lon,
		&b.Description, &b.Amenities, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Beach{}, fmt.Errorf("beach %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return Beach{}, err
	}
	return b, nil
}

const upsertBeachSQL = `
    INSERT INTO beaches (slug, name, island, lat, lon, description, amenities)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    ON CONFLICT (slug) DO UPDATE SET
        name = EXCLUDED.name,
        island = EXCLUDED.island,
        lat = EXCLUDED.lat,
        lon = EXCLUDED.lon,
        description = EXCLUDED.description,
        amenities = EXCLUDED.amenities
    RETURNING id
`

// UpsertBeach inserts or refreshes a seeded beach, returning its id.
func (s *Store) UpsertBeach(ctx context.Context, b Beach) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, upsertBeachSQL,
		b.Slug, b.Name, b.Island, b.Lat, b.Lon, b.Description, b.Amenities,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting beach %q: %w", b.Slug, err)
	}
	return id, nil
}

const insertReadingSQL = `
    INSERT INTO readings
        (beach_id, wave_height_ft, wind_mph, water_temp_f, tide_ft,
         bacteria_level, safety_score, status, payload, recorded_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING id
`

// InsertReading appends one conditions snapshot.
func (s *Store) InsertReading(ctx context.Context, r Reading) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, insertReadingSQL,
		r.BeachID, r.WaveHeightFt, r.WindMph, r.WaterTempF, r.TideFt,
		r.BacteriaLevel, r.SafetyScore, r.Status, r.Payload, r.RecordedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting reading for beach %d: %w", r.BeachID, err)
	}
	return id, nil
}

const latestReadingSQL = `
    SELECT id, beach_id, wave_height_ft, wind_mph, water_temp_f, tide_ft,
           bacteria_level, safety_score, status, payload, recorded_at
    FROM readings
    WHERE beach_id = $1
    ORDER BY recorded_at DESC
    LIMIT 1
`

// LatestReading returns the newest snapshot for a beach, or ErrNotFound
// when none has been recorded yet.
func (s *Store) LatestReading(ctx context.Context, beachID int64) (Reading, error) {
	var r Reading
	err := s.pool.QueryRow(ctx, latestReadingSQL, beachID).Scan(
		&r.ID, &r.BeachID, &r.WaveHeightFt, &r.WindMph, &r.WaterTempF, &r.TideFt,
		&r.BacteriaLevel, &r.SafetyScore, &r.Status, &r.Payload, &r.RecordedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reading{}, fmt.Errorf("readings for beach %d: %w", beachID, ErrNotFound)
	}
	if err != nil {
		return Reading{}, err
	}
	return r, nil
}

const activeAdvisoriesSQL = `
    SELECT id, beach_id, title, status, url, started_at, ended_at
    FROM advisories
    WHERE beach_id = $1 AND status = 'active'
    ORDER BY started_at DESC
`

// ActiveAdvisories returns the beach's active advisories, newest first.
func (s *Store) ActiveAdvisories(ctx context.Context, beachID int64) ([]Advisory, error) {
	rows, err := s.pool.Query(ctx, activeAdvisoriesSQL, beachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	advisories := make([]Advisory, 0)
	for rows.Next() {
		var a Advisory
		if err := rows.Scan(&a.ID, &a.BeachID, &a.Title, &a.Status, &a.URL, &a.StartedAt, &a.EndedAt); err != nil {
			return nil, err
		}
		advisories = append(advisories, a)
	}
	return advisories, rows.Err()
}

const insertStatusHistorySQL = `
    INSERT INTO status_history (beach_id, status, safety_score, recorded_at)
    VALUES ($1, $2, $3, $4)
`

// InsertStatusHistory records the derived traffic-light status for trend
// queries.
func (s *Store) InsertStatusHistory(ctx context.Context, beachID int64, status domain.Status, score int, at time.Time) error {
	if _, err := s.pool.Exec(ctx, insertStatusHistorySQL, beachID, status, score, at); err != nil {
		return fmt.Errorf("inserting status history for beach %d: %w", beachID, err)
	}
	return nil
}
