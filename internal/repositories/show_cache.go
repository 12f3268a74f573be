package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/freshcast/internal/models"
	"github.com/desertthunder/freshcast/internal/shared"
)

// ShowCacheRepository persists show resolutions in SQLite.
//
// Rows are unique per (query, market); duplicate inserts are treated as already-cached
// rather than failures. Implements tasks.ShowCache.
type ShowCacheRepository struct {
	db *sql.DB
}

// NewShowCacheRepository creates a ShowCacheRepository with the given database connection
func NewShowCacheRepository(db *sql.DB) *ShowCacheRepository {
	return &ShowCacheRepository{db: db}
}

// Get retrieves a cached resolution for the query in the given market.
// Returns (nil, nil) on a cache miss.
func (r *ShowCacheRepository) Get(query, market string) (*models.CachedShow, error) {
	row := r.db.QueryRow(`
		SELECT id, query, market, show_id, show_name, created_at, updated_at
		FROM show_cache
		WHERE query = ? AND market = ?
	`, query, market)

	cached, err := scanCachedShow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read show cache: %w", err)
	}

	return cached, nil
}

// Put inserts a resolution, generating its ID. An existing (query, market) row is left
// untouched; only genuine failures surface as errors.
func (r *ShowCacheRepository) Put(cached *models.CachedShow) error {
	if err := cached.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if cached.ID == "" {
		cached.ID = shared.GenerateID()
	}

	_, err := r.db.Exec(`
		INSERT INTO show_cache (id, query, market, show_id, show_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		cached.ID,
		cached.Query,
		cached.Market,
		cached.ShowID,
		cached.ShowName,
		cached.CreatedAt,
		cached.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache show: %w", err)
	}

	return nil
}

// List retrieves every cached resolution, oldest first.
func (r *ShowCacheRepository) List() ([]*models.CachedShow, error) {
	rows, err := r.db.Query(`
		SELECT id, query, market, show_id, show_name, created_at, updated_at
		FROM show_cache
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query show cache: %w", err)
	}
	defer rows.Close()

	var cached []*models.CachedShow
	for rows.Next() {
		c, err := scanCachedShow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan show cache row: %w", err)
		}
		cached = append(cached, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return cached, nil
}

// Clear removes every cached resolution and returns the number of rows deleted.
func (r *ShowCacheRepository) Clear() (int64, error) {
	result, err := r.db.Exec("DELETE FROM show_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear show cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCachedShow(s scanner) (*models.CachedShow, error) {
	var (
		cached    models.CachedShow
		createdAt time.Time
		updatedAt time.Time
	)

	err := s.Scan(&cached.ID, &cached.Query, &cached.Market, &cached.ShowID, &cached.ShowName, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	cached.CreatedAt = createdAt
	cached.UpdatedAt = updatedAt
	return &cached, nil
}
