package iostore

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := "Cannot open mapping database <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn, path, err),
	}
}

func InitError(path string, err error) error {
	msg := "Cannot create tables in <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreInitError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot init schema: %w", fn, err),
	}
}

func UpsertError(table string, err error) error {
	msg := "Cannot save records to <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreUpsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot upsert into %s: %w", fn, table, err),
	}
}

func CountError(table string, err error) error {
	msg := "Cannot count records in <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreCountError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot count %s: %w", fn, table, err),
	}
}

func UnknownBackendError(backend string) error {
	msg := "Unknown mapping backend <em>%s</em>, use sqlite or postgres"
	vars := []any{backend}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreUnknownBackendError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w",
			fn, errors.New("unknown backend "+backend)),
	}
}

func AnalyzeError(store string, err error) error {
	msg := "Cannot update statistics of <em>%s</em>"
	vars := []any{store}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreAnalyzeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot analyze %s: %w", fn, store, err),
	}
}
