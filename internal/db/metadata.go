//-------------------------------------------------------------------------
//
// starschema - Star Schema Receipt Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/logging"
	"github.com/KonradKlein91/Project-Business-Intelligence/pkg/version"
)

const metadataTable = "star_metadata"

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS star_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// RunInfo describes one completed generation run.
type RunInfo struct {
	RunID       uuid.UUID
	Seed        uint64
	PricingMode string
	Receipts    int
	MaxItems    int
	Days        int
	Stores      int
	LineItems   int64
	GeneratedAt time.Time
}

// NewRunInfo returns a RunInfo with a fresh run identifier.
func NewRunInfo(seed uint64, pricingMode string) RunInfo {
	return RunInfo{
		RunID:       uuid.New(),
		Seed:        seed,
		PricingMode: pricingMode,
	}
}

// Values flattens the run into metadata key/value pairs.
func (r RunInfo) Values() map[string]string {
	return map[string]string{
		"run_id":       r.RunID.String(),
		"version":      version.Short(),
		"generated_at": r.GeneratedAt.UTC().Format(time.RFC3339),
		"seed":         strconv.FormatUint(r.Seed, 10),
		"pricing_mode": r.PricingMode,
		"receipts":     strconv.Itoa(r.Receipts),
		"max_items":    strconv.Itoa(r.MaxItems),
		"days":         strconv.Itoa(r.Days),
		"stores":       strconv.Itoa(r.Stores),
		"line_items":   strconv.FormatInt(r.LineItems, 10),
	}
}

// SaveMetadata saves generation metadata to the database.
func SaveMetadata(ctx context.Context, db DB, run RunInfo) error {
	if _, err := db.Exec(ctx, createMetadataTableSQL); err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	values := run.Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		_, err := db.Exec(ctx, `
            INSERT INTO star_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, values[key])
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("run_id", run.RunID.String()).
		Str("pricing_mode", run.PricingMode).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
// A missing table or key yields an empty string and no error.
func GetMetadataValue(ctx context.Context, db DB, key string) (string, error) {
	exists, err := MetadataExists(ctx, db)
	if err != nil || !exists {
		return "", err
	}

	var value string
	err = db.QueryRow(ctx, `
        SELECT value FROM star_metadata WHERE key = $1
    `, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, db DB) (map[string]string, error) {
	rows, err := db.Query(ctx, `SELECT key, value FROM star_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, db DB) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = current_schema() AND table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}
