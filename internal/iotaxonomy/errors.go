package iotaxonomy

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/pkg/errcode"
)

func EmptyTaxonomyError(path string) error {
	msg := "No taxa found in <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxonomyEmptyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: no taxa in %s", fn, path),
	}
}

func UnknownRootError(root string, err error) error {
	msg := "Root taxon <em>%s</em> is not in the tree"
	vars := []any{root}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxonomyUnknownRootError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: root %q: %w", fn, root, err),
	}
}

func NewickError(path string, err error) error {
	msg := "Cannot write tree to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxonomyNewickError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: newick %s: %w", fn, path, err),
	}
}

func MapFileError(path string, err error) error {
	msg := "Cannot write map to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxonomyMapFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: map %s: %w", fn, path, err),
	}
}

func CountMismatchError(tree, mapped int) error {
	msg := "Tree has %d taxa, map file has %d"
	vars := []any{tree, mapped}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxonomyCountMismatchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: tree %d, map %d",
			fn, tree, mapped),
	}
}

func ReportError(path string, err error) error {
	msg := "Cannot write report to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxonomyReportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: report %s: %w", fn, path, err),
	}
}

func CanonicalError(err error) error {
	msg := "Cannot canonicalize scientific names"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TaxonomyCanonicalError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: canonical names: %w", fn, err),
	}
}
