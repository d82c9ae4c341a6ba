// Package corrections persists manually fixed addresses so the same
// bad geocode never has to be corrected twice. The store is optional:
// without a configured database the rest of the system runs unchanged.
package corrections

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Fix is one operator-confirmed coordinate for a normalized address.
type Fix struct {
	Address   string  `json:"address"` // normalized form, unique key
	District  string  `json:"district"`
	City      string  `json:"city"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Repository stores fixes in Postgres.
type Repository struct {
	db *sql.DB
}

// Open connects to the corrections database.
func Open(databaseURL string) (*Repository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open corrections database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect corrections database: %w", err)
	}
	return &Repository{db: db}, nil
}

// NewRepository wraps an existing connection, used by tests.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close releases the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save stores a fix. An address corrected earlier keeps its first
// recorded coordinate; saving it again is a no-op and reports false.
func (r *Repository) Save(ctx context.Context, fix Fix) (bool, error) {
	if fix.Address == "" {
		return false, fmt.Errorf("fix without normalized address")
	}

	query := `
		INSERT INTO corrected_addresses (normalized_address, district, city, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (normalized_address) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		fix.Address, fix.District, fix.City, fix.Latitude, fix.Longitude)
	if err != nil {
		return false, fmt.Errorf("save corrected address: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save corrected address: %w", err)
	}
	return inserted > 0, nil
}

// Find returns the stored fix for a normalized address, or nil when the
// address was never corrected.
func (r *Repository) Find(ctx context.Context, address string) (*Fix, error) {
	query := `
		SELECT normalized_address, district, city, latitude, longitude
		FROM corrected_addresses
		WHERE normalized_address = $1
	`
	var fix Fix
	err := r.db.QueryRowContext(ctx, query, address).Scan(
		&fix.Address, &fix.District, &fix.City, &fix.Latitude, &fix.Longitude)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find corrected address: %w", err)
	}
	return &fix, nil
}
