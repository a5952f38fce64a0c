package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/veeti-k/sivupaja/internal/apperr"
)

// Asset represents a row in the assets table.
type Asset struct {
	Path        string
	ContentType string
	SourceURL   string
	Checksum    string
	Bytes       int64
	Width       int
	Height      int
	FetchedAt   time.Time
}

// TypeSummary aggregates the assets of one content type.
type TypeSummary struct {
	ContentType string
	Count       int
	Bytes       int64
	LastFetch   time.Time
}

// Timestamps are stored as RFC 3339 text so they survive aggregate
// expressions (MAX) without driver-specific type mapping.
const timeFormat = time.RFC3339Nano

// Record inserts or replaces an asset row.
func (db *DB) Record(a Asset) error {
	if a.FetchedAt.IsZero() {
		a.FetchedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO assets (path, content_type, source_url, checksum, bytes, width, height, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_type = excluded.content_type,
			source_url   = excluded.source_url,
			checksum     = excluded.checksum,
			bytes        = excluded.bytes,
			width        = excluded.width,
			height       = excluded.height,
			fetched_at   = excluded.fetched_at
	`, a.Path, a.ContentType, a.SourceURL, a.Checksum, a.Bytes, a.Width, a.Height,
		a.FetchedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("ledger: record asset: %w", err)
	}
	return nil
}

// Get returns the asset row for path, or apperr.ErrNotFound when absent.
func (db *DB) Get(path string) (*Asset, error) {
	row := db.conn.QueryRow(`
		SELECT path, content_type, source_url, checksum, bytes, width, height, fetched_at
		FROM assets WHERE path = ?
	`, path)
	a, err := scanAsset(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: get %s: %w", path, err)
	}
	return &a, nil
}

// List returns all asset rows for one content type, newest first.
func (db *DB) List(contentType string) ([]Asset, error) {
	rows, err := db.conn.Query(`
		SELECT path, content_type, source_url, checksum, bytes, width, height, fetched_at
		FROM assets WHERE content_type = ? ORDER BY fetched_at DESC, path
	`, contentType)
	if err != nil {
		return nil, fmt.Errorf("ledger: list: %w", err)
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Summary returns per-content-type aggregates, ordered by type name.
func (db *DB) Summary() ([]TypeSummary, error) {
	rows, err := db.conn.Query(`
		SELECT content_type, COUNT(*), COALESCE(SUM(bytes), 0), MAX(fetched_at)
		FROM assets GROUP BY content_type ORDER BY content_type
	`)
	if err != nil {
		return nil, fmt.Errorf("ledger: summary: %w", err)
	}
	defer rows.Close()

	var out []TypeSummary
	for rows.Next() {
		var s TypeSummary
		var last sql.NullString
		if err := rows.Scan(&s.ContentType, &s.Count, &s.Bytes, &last); err != nil {
			return nil, err
		}
		if last.Valid {
			s.LastFetch, _ = time.Parse(timeFormat, last.String)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanAsset(scan func(dest ...any) error) (Asset, error) {
	var a Asset
	var fetched string
	if err := scan(&a.Path, &a.ContentType, &a.SourceURL, &a.Checksum, &a.Bytes, &a.Width, &a.Height, &fetched); err != nil {
		return Asset{}, err
	}
	a.FetchedAt, _ = time.Parse(timeFormat, fetched)
	return a, nil
}
