package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Conversion statuses
const (
	StatusConverted = "converted"
	StatusFailed    = "failed"
)

// Conversion is one journal entry: a single attempt to convert a message file
type Conversion struct {
	ID          int64     `db:"id"`
	RunID       string    `db:"run_id"`
	SourcePath  string    `db:"source_path"`
	OutputPath  string    `db:"output_path"`
	Status      string    `db:"status"`
	Error       string    `db:"error"`
	HTMLSHA256  string    `db:"html_sha256"`
	PDFSize     int64     `db:"pdf_size"`
	ConvertedAt time.Time `db:"-"`
}

// conversionRow stores the timestamp as RFC 3339 text so it round-trips
// independently of driver time handling
type conversionRow struct {
	Conversion
	ConvertedAtText string `db:"converted_at"`
}

func (r conversionRow) conversion() (Conversion, error) {
	c := r.Conversion
	t, err := time.Parse(time.RFC3339Nano, r.ConvertedAtText)
	if err != nil {
		return c, fmt.Errorf("failed to parse converted_at %q: %w", r.ConvertedAtText, err)
	}
	c.ConvertedAt = t
	return c, nil
}

// RecordConversion inserts c and sets its ID. A zero ConvertedAt is set to now.
func (db *DB) RecordConversion(ctx context.Context, c *Conversion) error {
	if c.ConvertedAt.IsZero() {
		c.ConvertedAt = time.Now().UTC()
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO conversions (run_id, source_path, output_path, status, error, html_sha256, pdf_size, converted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.RunID, c.SourcePath, c.OutputPath, c.Status, c.Error, c.HTMLSHA256, c.PDFSize,
		c.ConvertedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record conversion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get conversion ID: %w", err)
	}
	c.ID = id
	return nil
}

// ListConversions returns the most recent entries, newest first
func (db *DB) ListConversions(ctx context.Context, limit int) ([]Conversion, error) {
	var rows []conversionRow
	err := db.SelectContext(ctx, &rows, `
		SELECT id, run_id, source_path, output_path, status, error, html_sha256, pdf_size, converted_at
		FROM conversions
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}

	conversions := make([]Conversion, 0, len(rows))
	for _, r := range rows {
		c, err := r.conversion()
		if err != nil {
			return nil, err
		}
		conversions = append(conversions, c)
	}
	return conversions, nil
}

// LastConversionTo returns the latest successful conversion that wrote
// outputPath, or nil if there is none
func (db *DB) LastConversionTo(ctx context.Context, outputPath string) (*Conversion, error) {
	var row conversionRow
	err := db.GetContext(ctx, &row, `
		SELECT id, run_id, source_path, output_path, status, error, html_sha256, pdf_size, converted_at
		FROM conversions
		WHERE output_path = ? AND status = ?
		ORDER BY id DESC
		LIMIT 1`, outputPath, StatusConverted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion for %s: %w", outputPath, err)
	}

	c, err := row.conversion()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountConversions returns the number of journal entries
func (db *DB) CountConversions(ctx context.Context) (int, error) {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM conversions"); err != nil {
		return 0, fmt.Errorf("failed to count conversions: %w", err)
	}
	return count, nil
}
