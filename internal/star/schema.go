//-------------------------------------------------------------------------
//
// starschema - Star Schema Receipt Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package star

import (
	"context"
	"fmt"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/db"
)

// Table names, shared by the generator, renderer and verifier.
const (
	TableProduct  = "dim_product"
	TableTime     = "dim_time"
	TableLocation = "dim_location"
	TableReceipt  = "fact_receipt"
	TablePosition = "fact_receipt_position"
)

// Tables lists the schema tables in creation order.
var Tables = []string{TableProduct, TableTime, TableLocation, TableReceipt, TablePosition}

// Schema SQL for creating the star schema.
const createSchemaSQL = `
-- Product Dimension
CREATE TABLE IF NOT EXISTS dim_product (
    product_id   SERIAL PRIMARY KEY,
    product_name TEXT NOT NULL,
    unit_price   NUMERIC(10,2)
);

-- Time Dimension (one row per hour)
CREATE TABLE IF NOT EXISTS dim_time (
    time_id              SERIAL PRIMARY KEY,
    transaction_datetime TIMESTAMP NOT NULL,
    year                 INTEGER NOT NULL,
    month                INTEGER NOT NULL,
    day                  INTEGER NOT NULL,
    hour                 INTEGER NOT NULL,
    minute               INTEGER NOT NULL
);

-- Location Dimension
CREATE TABLE IF NOT EXISTS dim_location (
    location_id  SERIAL PRIMARY KEY,
    store_name   TEXT NOT NULL,
    address      TEXT NOT NULL,
    phone_number TEXT NOT NULL
);

-- Receipt Fact
CREATE TABLE IF NOT EXISTS fact_receipt (
    receipt_id         SERIAL PRIMARY KEY,
    time_id            INTEGER NOT NULL REFERENCES dim_time (time_id),
    location_id        INTEGER NOT NULL REFERENCES dim_location (location_id),
    receipt_number     TEXT UNIQUE,
    transaction_number TEXT UNIQUE,
    total_amount       NUMERIC(10,2),
    cash_given         NUMERIC(10,2),
    change_given       NUMERIC(10,2),
    tax_amount         NUMERIC(10,2),
    cashier_name       TEXT NOT NULL
);

-- Receipt Position Fact
CREATE TABLE IF NOT EXISTS fact_receipt_position (
    position_id SERIAL PRIMARY KEY,
    receipt_id  INTEGER NOT NULL REFERENCES fact_receipt (receipt_id),
    product_id  INTEGER NOT NULL REFERENCES dim_product (product_id),
    quantity    INTEGER NOT NULL,
    unit_price  NUMERIC(10,2) NOT NULL,
    total_price NUMERIC(10,2) NOT NULL
);
`

// Drop schema SQL
const dropSchemaSQL = `
DROP TABLE IF EXISTS fact_receipt_position CASCADE;
DROP TABLE IF EXISTS fact_receipt CASCADE;
DROP TABLE IF EXISTS dim_location CASCADE;
DROP TABLE IF EXISTS dim_time CASCADE;
DROP TABLE IF EXISTS dim_product CASCADE;
`

// CreateSchema creates the star schema tables if they do not exist.
func CreateSchema(ctx context.Context, conn db.DB) error {
	_, err := conn.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the star schema tables.
func DropSchema(ctx context.Context, conn db.DB) error {
	_, err := conn.Exec(ctx, dropSchemaSQL)
	return err
}

// CountRows returns the number of rows in one of the schema tables.
func CountRows(ctx context.Context, conn db.DB, table string) (int64, error) {
	known := false
	for _, t := range Tables {
		if t == table {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("unknown table: %s", table)
	}

	var n int64
	err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	return n, err
}

// ExistingRows counts the dimension and fact rows already stored. Tables
// that do not exist yet count as empty.
func ExistingRows(ctx context.Context, conn db.DB) (int64, error) {
	var total int64
	for _, table := range Tables {
		var exists bool
		err := conn.QueryRow(ctx, `SELECT to_regclass($1::text) IS NOT NULL`, table).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("failed to look up table %s: %w", table, err)
		}
		if !exists {
			continue
		}

		n, err := CountRows(ctx, conn, table)
		if err != nil {
			return 0, fmt.Errorf("failed to count %s: %w", table, err)
		}
		total += n
	}
	return total, nil
}
