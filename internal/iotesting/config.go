// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gnames/megantax/internal/iodb"
	"github.com/gnames/megantax/pkg/config"
	"github.com/gnames/megantax/pkg/db"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "megantax_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Defaults can be changed by MEGANTAX_DATABASE_HOST, _PORT, _USER and
// _PASSWORD environment variables. The database name is always
// TestDatabaseName.
func GetTestConfig() *config.Config {
	cfg := config.New()
	var opts []config.Option
	if s := os.Getenv("MEGANTAX_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("MEGANTAX_DATABASE_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if s := os.Getenv("MEGANTAX_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("MEGANTAX_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts,
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptMappingBackend("postgres"),
	)
	cfg.Update(opts)
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// ConnectOrSkip returns a connected operator for the test database. The
// test is skipped in short mode or when PostgreSQL is not reachable.
// The connection is closed by t.Cleanup.
func ConnectOrSkip(t *testing.T) db.Operator {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, GetTestDatabaseConfig()); err != nil {
		t.Skipf("PostgreSQL test database is not available: %v", err)
	}
	t.Cleanup(func() { op.Close() })
	return op
}
