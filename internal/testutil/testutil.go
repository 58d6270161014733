//-------------------------------------------------------------------------
//
// starschema - Star Schema Receipt Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides utilities for integration testing against a
// scratch PostgreSQL database.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/db"
)

const (
	// DefaultTestConnString is used when STARSCHEMA_TEST_CONN is unset.
	DefaultTestConnString = "postgres://postgres@localhost:5432/postgres"

	// TestDBPrefix is the prefix for scratch databases.
	TestDBPrefix = "star_test_"
)

// BaseConnString returns the maintenance connection string for tests.
func BaseConnString() string {
	if connStr := os.Getenv("STARSCHEMA_TEST_CONN"); connStr != "" {
		return connStr
	}
	return DefaultTestConnString
}

// SkipIfNoPostgres skips the test if PostgreSQL is not reachable and
// otherwise returns the base connection string.
func SkipIfNoPostgres(t *testing.T) string {
	t.Helper()

	connStr := BaseConnString()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		t.Skipf("PostgreSQL not available, skipping integration test: %v", err)
	}
	_ = conn.Close(ctx)
	return connStr
}

// NewTestDB creates a scratch database and returns a pool connected to it.
// The database is dropped when the test ends, unless the test failed.
func NewTestDB(t *testing.T, name string) *pgxpool.Pool {
	t.Helper()

	baseConnStr := SkipIfNoPostgres(t)

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		t.Fatalf("Failed to generate database name: %v", err)
	}
	dbName := TestDBPrefix + name + "_" + hex.EncodeToString(suffix)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := pgx.Connect(ctx, baseConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer admin.Close(ctx)

	if _, err := admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	testConnStr, err := withDatabase(baseConnStr, dbName)
	if err != nil {
		t.Fatalf("Failed to build test connection string: %v", err)
	}

	pool, err := db.Connect(ctx, testConnStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if t.Failed() {
			t.Logf("Test failed - keeping database %s for diagnostics", dbName)
			return
		}
		dropTestDB(t, baseConnStr, dbName)
	})

	return pool
}

// withDatabase swaps the database of a URL-style connection string.
func withDatabase(connStr, dbName string) (string, error) {
	u, err := url.Parse(connStr)
	if err != nil {
		return "", err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("unsupported connection string %q", connStr)
	}
	u.Path = "/" + dbName
	return u.String(), nil
}

func dropTestDB(t *testing.T, baseConnStr, dbName string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, err := pgx.Connect(ctx, baseConnStr)
	if err != nil {
		t.Logf("Warning: Failed to connect to drop test database: %v", err)
		return
	}
	defer admin.Close(ctx)

	_, _ = admin.Exec(ctx, `
        SELECT pg_terminate_backend(pid)
        FROM pg_stat_activity
        WHERE datname = $1 AND pid <> pg_backend_pid()
    `, dbName)

	if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Logf("Warning: Failed to drop test database: %v", err)
	}
}
