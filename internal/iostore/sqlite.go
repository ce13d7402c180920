package iostore

import (
	"context"
	"database/sql"

	"github.com/gnames/megantax/pkg/mapping"
	"github.com/gnames/megantax/pkg/schema"
	_ "modernc.org/sqlite"
)

const (
	upsertAccessionSQL = `INSERT INTO mappings (accession, taxonomy)
VALUES (?, ?)
ON CONFLICT(accession) DO UPDATE SET taxonomy=excluded.taxonomy`

	insertAccessionSQL = `INSERT INTO mappings (accession, taxonomy)
VALUES (?, ?)
ON CONFLICT(accession) DO NOTHING`

	upsertTaxonSQL = `INSERT INTO taxa (taxid, name, name_id, level)
VALUES (?, ?, ?, ?)
ON CONFLICT(taxid) DO UPDATE SET
	name=excluded.name,
	name_id=excluded.name_id,
	level=excluded.level`
)

// sqliteStore implements mapping.Store on a MEGAN mapping database file.
type sqliteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) a SQLite mapping database with WAL mode
// enabled. Tables are created by Init.
func OpenSQLite(ctx context.Context, path string) (mapping.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	// one writer, batches are serialized anyway
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, q := range pragmas {
		if _, err := db.ExecContext(ctx, q); err != nil {
			db.Close()
			return nil, OpenError(path, err)
		}
	}

	return &sqliteStore{db: db, path: path}, nil
}

func (s *sqliteStore) Init(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InitError(s.path, err)
	}
	defer tx.Rollback()

	for _, q := range schema.SQLiteDDL() {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return InitError(s.path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return InitError(s.path, err)
	}
	return nil
}

func (s *sqliteStore) UpsertAccessions(
	ctx context.Context,
	recs []mapping.Accession,
	keepExisting bool,
) (int, error) {
	q := upsertAccessionSQL
	if keepExisting {
		q = insertAccessionSQL
	}

	return s.batch(ctx, "mappings", q, len(recs), func(stmt *sql.Stmt, i int) (sql.Result, error) {
		r := recs[i]
		return stmt.ExecContext(ctx, r.Accession, r.TaxID)
	})
}

func (s *sqliteStore) UpsertTaxa(
	ctx context.Context,
	recs []mapping.Taxon,
) (int, error) {
	return s.batch(ctx, "taxa", upsertTaxonSQL, len(recs), func(stmt *sql.Stmt, i int) (sql.Result, error) {
		r := recs[i]
		return stmt.ExecContext(ctx, r.TaxID, r.Name, r.NameID, r.Level)
	})
}

// batch runs a prepared statement n times in one transaction and returns
// the number of affected rows.
func (s *sqliteStore) batch(
	ctx context.Context,
	table, query string,
	n int,
	exec func(*sql.Stmt, int) (sql.Result, error),
) (int, error) {
	if n == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, UpsertError(table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, UpsertError(table, err)
	}
	defer stmt.Close()

	var count int64
	for i := range n {
		res, err := exec(stmt, i)
		if err != nil {
			return 0, UpsertError(table, err)
		}
		if aff, err := res.RowsAffected(); err == nil {
			count += aff
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, UpsertError(table, err)
	}
	return int(count), nil
}

func (s *sqliteStore) Analyze(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return AnalyzeError(s.path, err)
	}
	return nil
}

func (s *sqliteStore) CountAccessions(ctx context.Context) (int, error) {
	var res int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mappings").Scan(&res)
	if err != nil {
		return 0, CountError("mappings", err)
	}
	return res, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
