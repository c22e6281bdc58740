package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteConfig keeps every Set as a row; the newest row per segment is
// the current configuration.
type SQLiteConfig struct {
	db *sql.DB
}

func NewSQLiteConfig(db *sql.DB) *SQLiteConfig {
	return &SQLiteConfig{db: db}
}

func (s *SQLiteConfig) Set(ctx context.Context, segment, version, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO configurations (segment, version, content) VALUES (?, ?, ?)`,
		segment, version, content)
	if err != nil {
		return fmt.Errorf("inserting configuration: %w", err)
	}
	return nil
}

func (s *SQLiteConfig) Get(ctx context.Context, segment string) (Config, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, segment, version, content, CAST(strftime('%s', created_at) AS INTEGER)
		FROM configurations
		WHERE segment = ?
		ORDER BY id DESC
		LIMIT 1
	`, segment)

	c, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Config{}, ErrNotFound
	}
	if err != nil {
		return Config{}, fmt.Errorf("querying configuration: %w", err)
	}
	return c, nil
}

func (s *SQLiteConfig) History(ctx context.Context, segment string) ([]Config, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, segment, version, content, CAST(strftime('%s', created_at) AS INTEGER)
		FROM configurations
		WHERE segment = ?
		ORDER BY id DESC
	`, segment)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Config
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConfig(row scanner) (Config, error) {
	var c Config
	var unix int64
	if err := row.Scan(&c.ID, &c.Segment, &c.Version, &c.Content, &unix); err != nil {
		return Config{}, err
	}
	c.UpdatedAt = time.Unix(unix, 0).UTC()
	return c, nil
}
