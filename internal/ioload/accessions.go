package ioload

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/megantax/internal/iofs"
	"github.com/gnames/megantax/pkg/mapping"
	"golang.org/x/sync/errgroup"
)

// LoadStats summarizes an accession load.
type LoadStats struct {
	// Read is the number of data lines read.
	Read int

	// Loaded is the number of rows written to the store.
	Loaded int

	// Filtered is the number of records absent from the nr id list.
	Filtered int

	// Malformed is the number of skipped data lines.
	Malformed int

	// Batches is the number of committed transactions.
	Batches int
}

// layout holds column positions of an accession2taxid file.
type layout struct {
	accession, taxid int
}

// defaultLayout is used for files without a header.
var defaultLayout = layout{accession: 0, taxid: 1}

// parseHeader detects a header line and finds the accession and taxid
// columns in it. A versioned accession column is preferred. The second
// return value is false when the line is data.
func parseHeader(line string) (layout, bool, error) {
	if !strings.HasPrefix(line, "accession") {
		return defaultLayout, false, nil
	}

	res := layout{accession: -1, taxid: -1}
	plain := -1
	for i, col := range strings.Split(line, "\t") {
		switch strings.TrimSpace(col) {
		case "accession.version":
			res.accession = i
		case "accession":
			plain = i
		case "taxid":
			res.taxid = i
		}
	}
	if res.accession == -1 {
		res.accession = plain
	}
	if res.accession == -1 {
		return res, true, errMissingAccession
	}
	if res.taxid == -1 {
		return res, true, errMissingTaxID
	}
	return res, true, nil
}

func (l layout) parse(line string) (mapping.Accession, bool) {
	var res mapping.Accession
	fields := strings.Split(line, "\t")
	if len(fields) <= max(l.accession, l.taxid) {
		return res, false
	}
	acc := strings.TrimSpace(fields[l.accession])
	taxID, err := strconv.Atoi(strings.TrimSpace(fields[l.taxid]))
	if acc == "" || err != nil {
		return res, false
	}
	res.Accession = acc
	res.TaxID = taxID
	return res, true
}

// LoadAccessions streams an accession2taxid file (plain or gzipped) into
// the store in batches. If nrPath is not empty, only accessions listed in
// that file are loaded. A reader goroutine prepares batches while a writer
// goroutine commits them.
func (l *Loader) LoadAccessions(
	ctx context.Context,
	path, nrPath string,
) (*LoadStats, error) {
	start := time.Now()
	var nr map[string]struct{}
	var err error
	if nrPath != "" {
		if nr, err = l.readNR(ctx, nrPath); err != nil {
			return nil, err
		}
		slog.Info("Read nr accessions", "file", nrPath, "ids", len(nr))
	}

	f, finish, err := l.open(path, "Loading accessions: ")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stats := &LoadStats{}
	chBatch := make(chan []mapping.Accession, 1)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chBatch)
		return l.readAccessions(ctx, f, path, nr, stats, chBatch)
	})

	g.Go(func() error {
		for batch := range chBatch {
			n, err := l.store.UpsertAccessions(ctx, batch, l.keepExisting)
			if err != nil {
				return err
			}
			stats.Loaded += n
			stats.Batches++
			slog.Debug("Batch committed",
				"batch", stats.Batches, "records", len(batch), "written", n)
		}
		return nil
	})

	err = g.Wait()
	finish()
	if err != nil {
		return nil, err
	}

	if stats.Malformed > 0 {
		slog.Warn("Skipped malformed accession lines",
			"file", path, "count", stats.Malformed)
	}
	l.summary("accessions", stats.Loaded, stats.Read, time.Since(start))
	return stats, nil
}

// readAccessions owns Read, Filtered and Malformed fields of stats.
func (l *Loader) readAccessions(
	ctx context.Context,
	f io.Reader,
	path string,
	nr map[string]struct{},
	stats *LoadStats,
	chBatch chan<- []mapping.Accession,
) error {
	send := func(batch []mapping.Accession) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chBatch <- batch:
			return nil
		}
	}

	scanner := newScanner(f)
	lay := defaultLayout
	batch := make([]mapping.Accession, 0, l.batchSize)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := trimLine(scanner.Text())
		if lineNum == 1 {
			var isHeader bool
			var err error
			lay, isHeader, err = parseHeader(line)
			if err != nil {
				return HeaderError(path, line, err)
			}
			if isHeader {
				continue
			}
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		stats.Read++
		rec, ok := lay.parse(line)
		if !ok {
			stats.Malformed++
			slog.Debug("Skipping malformed accession line",
				"file", path, "line", lineNum)
			continue
		}
		if nr != nil {
			if _, ok := nr[rec.Accession]; !ok {
				stats.Filtered++
				continue
			}
		}

		batch = append(batch, rec)
		if len(batch) == l.batchSize {
			if err := send(batch); err != nil {
				return err
			}
			batch = make([]mapping.Accession, 0, l.batchSize)
		}
	}
	if err := scanner.Err(); err != nil {
		return iofs.ReadFileError(path, err)
	}

	if len(batch) > 0 {
		return send(batch)
	}
	return nil
}

// readNR collects accession ids from an nr id list. Lines may be FASTA
// headers or bare ids, only the first word of a line is used.
func (l *Loader) readNR(
	ctx context.Context,
	path string,
) (map[string]struct{}, error) {
	f, err := iofs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res := make(map[string]struct{})
	scanner := newScanner(f)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		if lineNum%100_000 == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}
		if id := nrID(scanner.Text()); id != "" {
			res[id] = struct{}{}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, NrFileError(path, err)
	}
	return res, nil
}

func nrID(line string) string {
	line = strings.TrimPrefix(strings.TrimSpace(line), ">")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
