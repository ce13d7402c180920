// Package iodump streams records of NCBI taxonomy dump files.
// Files can be plain or gzipped.
package iodump

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/gnames/megantax/internal/iofs"
	"github.com/gnames/megantax/pkg/dump"
	"github.com/gnames/megantax/pkg/taxon"
)

const (
	// maxLine is the longest line accepted by the scanner.
	maxLine = 16 << 20

	// ctxCheck is how often (in lines) cancellation is checked.
	ctxCheck = 10_000
)

// Reader streams dump records to callbacks.
type Reader struct {
	skipMalformed bool
	diag          *taxon.Diagnostics
}

// New creates a Reader. With skipMalformed, malformed lines are counted
// in diag and skipped, otherwise the first one stops reading with an
// error. A nil diag is allowed when nothing is skipped.
func New(skipMalformed bool, diag *taxon.Diagnostics) *Reader {
	if diag == nil {
		diag = taxon.NewDiagnostics()
	}
	return &Reader{skipMalformed: skipMalformed, diag: diag}
}

// Nodes reads nodes.dmp at path and calls onRecord for every record
// in file order. Returns the number of records passed to onRecord.
func (r *Reader) Nodes(
	ctx context.Context,
	path string,
	onRecord func(dump.NodeRecord) error,
) (int, error) {
	return read(ctx, r, path, dump.ParseNode, onRecord)
}

// Names reads names.dmp at path and calls onRecord for every record
// in file order. Returns the number of records passed to onRecord.
func (r *Reader) Names(
	ctx context.Context,
	path string,
	onRecord func(dump.NameRecord) error,
) (int, error) {
	return read(ctx, r, path, dump.ParseName, onRecord)
}

func read[T any](
	ctx context.Context,
	r *Reader,
	path string,
	parse func(string) (T, error),
	onRecord func(T) error,
) (int, error) {
	f, err := iofs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var count int
	err = scanLines(ctx, f, path, func(line string, lineNum int) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		rec, err := parse(line)
		if err != nil {
			if !r.skipMalformed {
				return MalformedRecordError(path, lineNum, err)
			}
			r.diag.MalformedRecords++
			slog.Debug("Skipping malformed record",
				"file", path, "line", lineNum, "error", err)
			return nil
		}
		count++
		return onRecord(rec)
	})
	return count, err
}

// scanLines calls fn for every line of r, lines are numbered from 1.
// Errors of fn and cancellation are returned unchanged.
func scanLines(
	ctx context.Context,
	r io.Reader,
	path string,
	fn func(line string, lineNum int) error,
) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1<<20)
	scanner.Buffer(buf, maxLine)

	var lineNum int
	for scanner.Scan() {
		lineNum++
		if lineNum%ctxCheck == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(scanner.Text(), lineNum); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return ReadError(path, err)
	}
	return nil
}
