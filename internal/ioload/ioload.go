// Package ioload fills the accession mapping store from NCBI
// accession2taxid files and from map files written by the converter.
package ioload

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/megantax/internal/iofs"
	"github.com/gnames/megantax/pkg/config"
	"github.com/gnames/megantax/pkg/mapping"
)

const (
	// maxLine is the longest accepted input line.
	maxLine = 16 << 20
)

// Loader writes batches of records into a mapping store.
type Loader struct {
	store        mapping.Store
	batchSize    int
	keepExisting bool
	quiet        bool
}

// New creates a Loader for the store using mapping settings of cfg.
func New(cfg *config.Config, store mapping.Store) *Loader {
	return &Loader{
		store:        store,
		batchSize:    max(cfg.Mapping.BatchSize, 1),
		keepExisting: cfg.Mapping.KeepExisting,
	}
}

// Quiet disables progress bars.
func (l *Loader) Quiet() *Loader {
	l.quiet = true
	return l
}

// open opens path and, unless the loader is quiet, attaches a progress
// bar measuring bytes read from disk. The returned finish function stops
// the bar.
func (l *Loader) open(
	path, prefix string,
) (io.ReadCloser, func(), error) {
	var bar *pb.ProgressBar
	wrap := func(r io.Reader) io.Reader {
		if l.quiet {
			return r
		}
		var size int64
		if f, ok := r.(*os.File); ok {
			if fi, err := f.Stat(); err == nil {
				size = fi.Size()
			}
		}
		bar = pb.Full.Start64(size)
		bar.Set(pb.Bytes, true)
		bar.Set("prefix", prefix)
		bar.Set(pb.CleanOnFinish, true)
		return bar.NewProxyReader(r)
	}

	f, err := iofs.OpenWrapped(path, wrap)
	if err != nil {
		return nil, nil, err
	}
	finish := func() {
		if bar != nil {
			bar.Finish()
			bar = nil
		}
	}
	return f, finish, nil
}

func newScanner(r io.Reader) *bufio.Scanner {
	res := bufio.NewScanner(r)
	res.Buffer(make([]byte, 0, 1<<20), maxLine)
	return res
}

func (l *Loader) summary(what string, loaded, read int, dur time.Duration) {
	gn.Info("Loaded %s %s of %s into the mapping store. Elapsed time: <em>%s</em>",
		humanize.Comma(int64(loaded)),
		what,
		humanize.Comma(int64(read)),
		gnfmt.TimeString(dur.Seconds()),
	)
	slog.Info("Load complete",
		"what", what,
		"read", read,
		"loaded", loaded,
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
}

func trimLine(s string) string {
	return strings.TrimRight(s, "\r\n")
}
