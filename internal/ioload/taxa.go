package ioload

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnuuid"
	"github.com/gnames/megantax/internal/iofs"
	"github.com/gnames/megantax/pkg/mapping"
)

// TaxaStats summarizes a map file load.
type TaxaStats struct {
	Read    int
	Loaded  int
	Batches int
}

// parseMapLine parses "taxid<TAB>name<TAB>-1<TAB>level".
func parseMapLine(line string) (mapping.Taxon, error) {
	var res mapping.Taxon
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return res, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}
	if fields[0] == "" {
		return res, fmt.Errorf("empty taxon id")
	}
	level, err := strconv.Atoi(fields[3])
	if err != nil {
		return res, fmt.Errorf("level %q: %w", fields[3], err)
	}
	res.TaxID = fields[0]
	res.Name = fields[1]
	res.NameID = gnuuid.New(fields[1]).String()
	res.Level = level
	return res, nil
}

// LoadTaxa reads a map file and saves its taxa with UUIDs of their names.
func (l *Loader) LoadTaxa(ctx context.Context, path string) (*TaxaStats, error) {
	start := time.Now()
	f, finish, err := l.open(path, "Loading taxa: ")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer finish()

	stats := &TaxaStats{}
	flush := func(batch []mapping.Taxon) error {
		n, err := l.store.UpsertTaxa(ctx, batch)
		if err != nil {
			return err
		}
		stats.Loaded += n
		stats.Batches++
		return nil
	}

	batch := make([]mapping.Taxon, 0, min(l.batchSize, 100_000))
	scanner := newScanner(f)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := trimLine(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseMapLine(line)
		if err != nil {
			return nil, MapFileError(path, lineNum, err)
		}
		stats.Read++
		batch = append(batch, rec)
		if len(batch) == l.batchSize {
			if err = flush(batch); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, iofs.ReadFileError(path, err)
	}
	if len(batch) > 0 {
		if err = flush(batch); err != nil {
			return nil, err
		}
	}

	finish()
	l.summary("taxa", stats.Loaded, stats.Read, time.Since(start))
	return stats, nil
}
