package ioschema

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/pkg/errcode"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: %w",
			fn, errors.New("not connected to database")),
	}
}

// GORMConnectionError creates an error for GORM
// connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot connect to database with GORM

<em>How to fix:</em>
  1. Ensure database operator is connected
  2. Check <em>database</em> configuration`
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: gorm connection failed: %w", fn, err),
	}
}

// MigrateSchemaError creates an error for AutoMigrate
// failures.
func MigrateSchemaError(err error) error {
	msg := "Cannot create mapping tables in PostgreSQL"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: auto migrate failed: %w", fn, err),
	}
}

// CollationError creates an error for failed collation
// change of a column.
func CollationError(table, column string, err error) error {
	msg := "Cannot set collation for <em>%s.%s</em>"
	vars := []any{table, column}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot set collation %s.%s: %w",
			fn, table, column, err),
	}
}
