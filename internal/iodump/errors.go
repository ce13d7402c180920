package iodump

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/pkg/errcode"
)

func MalformedRecordError(path string, line int, err error) error {
	msg := "Malformed record in <em>%s</em> at line %d, " +
		"use <em>--skip-malformed</em> to ignore such records"
	vars := []any{path, line}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DumpMalformedRecordError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s line %d: %w",
			fn, path, line, err),
	}
}

func ReadError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DumpReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn, path, err),
	}
}
