package iodb

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/pkg/errcode"
)

// ConnectionError is returned when database connection fails.
func ConnectionError(
	host string, port int, database, user string, err error,
) error {
	msg := `<title>Database Connection Failed</title>

<warning>Could not connect to PostgreSQL database.</warning>

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>

  3. Check <em>database</em> section of
     <em>~/.config/megantax/config.yaml</em>`
	vars := []any{host, port, host, user}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: failed to connect to %s:%d/%s: %w",
			fn, host, port, database, err),
	}
}

// NotConnectedError is returned when an operation needs a connection
// that was not established.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: %w",
			fn, errors.New("not connected to database")),
	}
}

// TableExistsCheckError is returned when table lookup fails.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot check table %s: %w",
			fn, table, err),
	}
}
