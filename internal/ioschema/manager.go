// Package ioschema creates the PostgreSQL schema of the mapping store.
// This is an impure I/O package that wraps GORM AutoMigrate
// functionality.
package ioschema

import (
	"context"

	"github.com/gnames/megantax/pkg/db"
	"github.com/gnames/megantax/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the schema.Manager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new schema.Manager.
func NewManager(op db.Operator) schema.Manager {
	return &manager{operator: op}
}

// Create creates or updates the database schema using
// GORM AutoMigrate. Also applies collation settings for
// accession and taxon id columns.
func (m *manager) Create(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	return m.setCollation(ctx)
}

// setCollation sets "C" collation on key columns, accessions and
// taxon ids are compared byte-wise.
func (m *manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()

	type columnDef struct {
		table, column string
		varchar       int
	}

	columns := []columnDef{
		{"mappings", "accession", 50},
		{"taxa", "taxid", 20},
	}

	qStr := `ALTER TABLE %s ALTER COLUMN %s ` +
		`TYPE VARCHAR(%d) COLLATE "C"`

	for _, col := range columns {
		q := formatCollationSQL(qStr, col.table,
			col.column, col.varchar)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(col.table, col.column, err)
		}
	}

	return nil
}
