// Package db provides optional PostgreSQL storage for render history.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaSQL = `CREATE TABLE IF NOT EXISTS renders (
	id          UUID PRIMARY KEY,
	profile     TEXT NOT NULL DEFAULT '',
	output_path TEXT NOT NULL,
	layout      TEXT NOT NULL,
	sections    TEXT[] NOT NULL DEFAULT '{}',
	omitted     TEXT[] NOT NULL DEFAULT '{}',
	keywords    TEXT[] NOT NULL DEFAULT '{}',
	details     JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS renders_profile_created_idx ON renders (profile, created_at DESC);`

// EnsureSchema creates the renders table when it does not exist yet
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRender stores a render record and returns its ID. A zero ID is
// replaced with a fresh one.
func (db *DB) SaveRender(ctx context.Context, r *Render) (uuid.UUID, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	var details []byte
	if r.Details != nil {
		b, err := json.Marshal(r.Details)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal render details: %w", err)
		}
		details = b
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO renders (id, profile, output_path, layout, sections, omitted, keywords, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		r.ID, r.Profile, r.OutputPath, r.Layout,
		nonNil(r.Sections), nonNil(r.Omitted), nonNil(r.Keywords), details,
	).Scan(&r.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save render: %w", err)
	}
	return r.ID, nil
}

// GetRender retrieves a render by ID. A missing row returns nil, nil.
func (db *DB) GetRender(ctx context.Context, id uuid.UUID) (*Render, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+renderColumns+` FROM renders WHERE id = $1`, id)
	r, err := scanRender(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get render: %w", err)
	}
	return r, nil
}

// ListRenders retrieves renders with optional filters, newest first
func (db *DB) ListRenders(ctx context.Context, filters RenderFilters) ([]Render, error) {
	query, args := listRendersQuery(filters)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list renders: %w", err)
	}
	defer rows.Close()

	var renders []Render
	for rows.Next() {
		r, err := scanRender(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan render: %w", err)
		}
		renders = append(renders, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list renders: %w", err)
	}
	return renders, nil
}

// DeleteRender removes a single render record
func (db *DB) DeleteRender(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM renders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete render: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("render not found: %s", id)
	}
	return nil
}

const renderColumns = `id, profile, output_path, layout, sections, omitted, keywords, details, created_at`

func listRendersQuery(filters RenderFilters) (string, []any) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultListLimit
	}

	query := `SELECT ` + renderColumns + ` FROM renders WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Profile != "" {
		query += fmt.Sprintf(" AND profile = $%d", argNum)
		args = append(args, filters.Profile)
		argNum++
	}
	if filters.Layout != "" {
		query += fmt.Sprintf(" AND layout = $%d", argNum)
		args = append(args, filters.Layout)
		argNum++
	}
	if !filters.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argNum)
		args = append(args, filters.Since)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)
	return query, args
}

func scanRender(row pgx.Row) (*Render, error) {
	var r Render
	var details []byte
	if err := row.Scan(&r.ID, &r.Profile, &r.OutputPath, &r.Layout,
		&r.Sections, &r.Omitted, &r.Keywords, &details, &r.CreatedAt); err != nil {
		return nil, err
	}
	if len(details) > 0 {
		var d Details
		if err := json.Unmarshal(details, &d); err == nil {
			r.Details = &d
		}
	}
	return &r, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
