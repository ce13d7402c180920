package ioload

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/pkg/errcode"
)

var (
	errMissingAccession = errors.New("header has no accession column")
	errMissingTaxID     = errors.New("header has no taxid column")
)

func HeaderError(path, header string, err error) error {
	msg := "Cannot find accession and taxid columns in <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LoadAccessionHeaderError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s header %q: %w",
			fn, path, header, err),
	}
}

func MapFileError(path string, line int, err error) error {
	msg := "Malformed map file <em>%s</em> at line %d"
	vars := []any{path, line}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LoadMapFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s line %d: %w", fn, path, line, err),
	}
}

func NrFileError(path string, err error) error {
	msg := "Cannot read nr accessions from <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LoadNrFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: nr %s: %w", fn, path, err),
	}
}
