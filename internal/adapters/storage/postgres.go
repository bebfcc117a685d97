package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"courtfinder/internal/domain"
)

// OpenPostgres opens and verifies a connection pool to the cache database.
func OpenPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// PostgresStore keeps cached sport data in a single key-value table:
//
//	CREATE TABLE sport_data_cache (
//	    sport_type   text PRIMARY KEY,
//	    payload      jsonb NOT NULL,
//	    last_updated timestamptz NOT NULL
//	);
//
// payload holds the whole CachedSportData blob and is authoritative; the
// last_updated column exists for operational queries only.
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore wraps an open database handle. The caller owns the
// handle's lifecycle (driver registration, pooling, Close).
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Get(ctx context.Context, sportType domain.SportType) (*domain.CachedSportData, error) {
	query := `
		SELECT payload
		FROM sport_data_cache
		WHERE sport_type = $1
	`
	var blob []byte
	err := s.DB.QueryRowContext(ctx, query, string(sportType)).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select cached sport data: %w", err)
	}
	var data domain.CachedSportData
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("unmarshal cached sport data: %w", err)
	}
	return &data, nil
}

func (s *PostgresStore) Put(ctx context.Context, data *domain.CachedSportData) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal cached sport data: %w", err)
	}
	lastUpdated, err := time.Parse(time.RFC3339, data.LastUpdated)
	if err != nil {
		lastUpdated = time.Now().UTC()
	}
	query := `
		INSERT INTO sport_data_cache (sport_type, payload, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (sport_type) DO UPDATE
		SET payload = EXCLUDED.payload, last_updated = EXCLUDED.last_updated
	`
	if _, err := s.DB.ExecContext(ctx, query, string(data.SportType), blob, lastUpdated); err != nil {
		return fmt.Errorf("upsert cached sport data: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sportType domain.SportType) error {
	query := `
		DELETE FROM sport_data_cache
		WHERE sport_type = $1
	`
	if _, err := s.DB.ExecContext(ctx, query, string(sportType)); err != nil {
		return fmt.Errorf("delete cached sport data: %w", err)
	}
	return nil
}
