// internal/indicators/store.go
package indicators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var Schema = []string{
	`CREATE TABLE IF NOT EXISTS country_indicators (
		country    CHAR(2) NOT NULL,
		code       TEXT NOT NULL,
		name       TEXT NOT NULL,
		category   TEXT NOT NULL,
		value      DOUBLE PRECISION NOT NULL,
		unit       TEXT NOT NULL DEFAULT '',
		source     TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (country, code)
	)`,
}

const indicatorColumns = `country, code, name, category, value, unit, source, updated_at`

const upsertIndicator = `
	INSERT INTO country_indicators (` + indicatorColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (country, code) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		value = EXCLUDED.value,
		unit = EXCLUDED.unit,
		source = EXCLUDED.source,
		updated_at = EXCLUDED.updated_at`

// Store persists indicators in PostgreSQL.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListByCountry(ctx context.Context, country string) ([]Indicator, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+indicatorColumns+` FROM country_indicators WHERE country = $1 ORDER BY code`,
		country)
	if err != nil {
		return nil, fmt.Errorf("list indicators for %s: %w", country, err)
	}
	defer rows.Close()

	var out []Indicator
	for rows.Next() {
		ind, err := scanIndicator(rows)
		if err != nil {
			return nil, fmt.Errorf("scan indicator: %w", err)
		}
		out = append(out, ind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate indicators: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, country, code string) (Indicator, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+indicatorColumns+` FROM country_indicators WHERE country = $1 AND code = $2`,
		country, code)
	ind, err := scanIndicator(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Indicator{}, fmt.Errorf("%w: %s/%s", ErrIndicatorNotFound, country, code)
	}
	if err != nil {
		return Indicator{}, fmt.Errorf("get indicator %s/%s: %w", country, code, err)
	}
	return ind, nil
}

// Countries lists every country with at least one stored indicator.
func (s *Store) Countries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT country FROM country_indicators ORDER BY country`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, ind Indicator) error {
	_, err := s.db.ExecContext(ctx, upsertIndicator, upsertArgs(ind)...)
	if err != nil {
		return fmt.Errorf("upsert indicator %s/%s: %w", ind.Country, ind.Code, err)
	}
	return nil
}

// Seed upserts all indicators in one transaction.
func (s *Store) Seed(ctx context.Context, inds []Indicator) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	for _, ind := range inds {
		if _, err := tx.ExecContext(ctx, upsertIndicator, upsertArgs(ind)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("seed indicator %s/%s: %w", ind.Country, ind.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func upsertArgs(ind Indicator) []interface{} {
	return []interface{}{
		ind.Country, ind.Code, ind.Name, string(ind.Category),
		ind.Value, ind.Unit, ind.Source, ind.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIndicator(row rowScanner) (Indicator, error) {
	var (
		ind      Indicator
		category string
	)
	err := row.Scan(&ind.Country, &ind.Code, &ind.Name, &category,
		&ind.Value, &ind.Unit, &ind.Source, &ind.UpdatedAt)
	if err != nil {
		return Indicator{}, err
	}
	ind.Category = Category(category)
	return ind, nil
}
