package ioload_test

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnuuid"
	"github.com/gnames/megantax/internal/ioload"
	"github.com/gnames/megantax/internal/iostore"
	"github.com/gnames/megantax/pkg/config"
	"github.com/gnames/megantax/pkg/errcode"
	"github.com/gnames/megantax/pkg/mapping"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prot = `accession	accession.version	taxid	gi
A0A001	A0A001.1	9606	1
A0A002	A0A002.2	562	2
bad line
A0A003	A0A003.1	x	3
`

type env struct {
	cfg    *config.Config
	store  mapping.Store
	dbPath string
	dir    string
}

func setup(t *testing.T, opts ...config.Option) *env {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "megan-map.db")
	cfg := config.New()
	cfg.Update(append([]config.Option{
		config.OptMappingSQLitePath(dbPath),
	}, opts...))

	ctx := context.Background()
	st, err := iostore.New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Init(ctx))
	return &env{cfg: cfg, store: st, dbPath: dbPath, dir: dir}
}

func (e *env) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *env) loader() *ioload.Loader {
	return ioload.New(e.cfg, e.store).Quiet()
}

func (e *env) taxonomy(t *testing.T, acc string) int {
	t.Helper()
	db, err := sql.Open("sqlite", e.dbPath)
	require.NoError(t, err)
	defer db.Close()

	var res int
	err = db.QueryRow(
		"SELECT taxonomy FROM mappings WHERE accession = ?", acc,
	).Scan(&res)
	require.NoError(t, err)
	return res
}

func gzipped(t *testing.T, s string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.String()
}

func TestLoadAccessions(t *testing.T) {
	ctx := context.Background()
	e := setup(t, config.OptMappingBatchSize(1))
	path := e.write(t, "prot.accession2taxid.gz", gzipped(t, prot))

	stats, err := e.loader().LoadAccessions(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, &ioload.LoadStats{
		Read:      4,
		Loaded:    2,
		Malformed: 2,
		Batches:   2,
	}, stats)

	n, err := e.store.CountAccessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 9606, e.taxonomy(t, "A0A001.1"))
	assert.Equal(t, 562, e.taxonomy(t, "A0A002.2"))
}

func TestLoadAccessions_NoHeader(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	path := e.write(t, "ids.tsv", "P1\t10\nP2\t20\n\nP3\t30\n")

	stats, err := e.loader().LoadAccessions(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Read)
	assert.Equal(t, 3, stats.Loaded)
	assert.Equal(t, 1, stats.Batches)
	assert.Equal(t, 20, e.taxonomy(t, "P2"))
}

func TestLoadAccessions_NrFilter(t *testing.T) {
	ctx := context.Background()
	e := setup(t)
	path := e.write(t, "ids.tsv", "P1\t10\nP2\t20\nP3\t30\n")
	nr := e.write(t, "nr.id.txt", ">P1 some protein [Homo sapiens]\nP3\n\n")

	stats, err := e.loader().LoadAccessions(ctx, path, nr)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Read)
	assert.Equal(t, 1, stats.Filtered)
	assert.Equal(t, 2, stats.Loaded)

	n, err := e.store.CountAccessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoadAccessions_MissingNr(t *testing.T) {
	e := setup(t)
	path := e.write(t, "ids.tsv", "P1\t10\n")

	_, err := e.loader().LoadAccessions(context.Background(), path,
		filepath.Join(e.dir, "none.txt"))
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.ReadFileError, gnErr.Code)
}

func TestLoadAccessions_Header(t *testing.T) {
	tests := []struct {
		msg, header string
	}{
		{"no taxid", "accession\taccession.version\tgi"},
		{"truncated", "accession.ver"},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			e := setup(t)
			path := e.write(t, "prot.tsv", v.header+"\nA0A\tA0A.1\t1\t1\n")

			_, err := e.loader().LoadAccessions(context.Background(), path, "")
			var gnErr *gn.Error
			require.ErrorAs(t, err, &gnErr)
			assert.Equal(t, errcode.LoadAccessionHeaderError, gnErr.Code)
			assert.Equal(t, []any{path}, gnErr.Vars)

			n, err := e.store.CountAccessions(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, n)
		})
	}
}

func TestLoadAccessions_KeepExisting(t *testing.T) {
	ctx := context.Background()

	t.Run("keep", func(t *testing.T) {
		e := setup(t, config.OptMappingKeepExisting(true))
		first := e.write(t, "first.tsv", "P1\t10\n")
		second := e.write(t, "second.tsv", "P1\t99\nP2\t5\n")

		_, err := e.loader().LoadAccessions(ctx, first, "")
		require.NoError(t, err)
		stats, err := e.loader().LoadAccessions(ctx, second, "")
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Loaded)
		assert.Equal(t, 10, e.taxonomy(t, "P1"))
		assert.Equal(t, 5, e.taxonomy(t, "P2"))
	})

	t.Run("replace", func(t *testing.T) {
		e := setup(t)
		first := e.write(t, "first.tsv", "P1\t10\n")
		second := e.write(t, "second.tsv", "P1\t99\nP2\t5\n")

		_, err := e.loader().LoadAccessions(ctx, first, "")
		require.NoError(t, err)
		stats, err := e.loader().LoadAccessions(ctx, second, "")
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Loaded)
		assert.Equal(t, 99, e.taxonomy(t, "P1"))
	})
}

func TestLoadAccessions_Batches(t *testing.T) {
	ctx := context.Background()
	e := setup(t, config.OptMappingBatchSize(3))

	var sb strings.Builder
	for i := range 10 {
		fmt.Fprintf(&sb, "WP_%06d.1\t%d\n", i, i+1)
	}
	path := e.write(t, "prot.tsv", sb.String())

	stats, err := e.loader().LoadAccessions(ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Batches)
	assert.Equal(t, 10, stats.Loaded)
	assert.Equal(t, 10, e.taxonomy(t, "WP_000009.1"))
}

func TestLoadAccessions_Cancelled(t *testing.T) {
	e := setup(t)
	path := e.write(t, "ids.tsv", "P1\t10\nP2\t20\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.loader().LoadAccessions(ctx, path, "")
	assert.Error(t, err)
}

func TestLoadTaxa(t *testing.T) {
	ctx := context.Background()
	e := setup(t, config.OptMappingBatchSize(2))
	path := e.write(t, "ncbi.map",
		"1\troot\t-1\t0\n2\tBacteria\t-1\t1\n562\tEscherichia coli\t-1\t99\n")

	stats, err := e.loader().LoadTaxa(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, &ioload.TaxaStats{Read: 3, Loaded: 3, Batches: 2}, stats)

	db, err := sql.Open("sqlite", e.dbPath)
	require.NoError(t, err)
	defer db.Close()

	var name, nameID string
	var level int
	err = db.QueryRow(
		"SELECT name, name_id, level FROM taxa WHERE taxid = ?", "562",
	).Scan(&name, &nameID, &level)
	require.NoError(t, err)
	assert.Equal(t, "Escherichia coli", name)
	assert.Equal(t, gnuuid.New("Escherichia coli").String(), nameID)
	assert.Equal(t, 99, level)
}

func TestLoadTaxa_Malformed(t *testing.T) {
	e := setup(t)
	path := e.write(t, "ncbi.map", "1\troot\t-1\t0\n2\tBacteria\n")

	_, err := e.loader().LoadTaxa(context.Background(), path)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.LoadMapFileError, gnErr.Code)
	assert.Equal(t, []any{path, 2}, gnErr.Vars)
}
