package iostore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/megantax/internal/iodb"
	"github.com/gnames/megantax/internal/ioschema"
	"github.com/gnames/megantax/pkg/config"
	"github.com/gnames/megantax/pkg/db"
	"github.com/gnames/megantax/pkg/mapping"
	"github.com/jackc/pgx/v5"
)

// pgStore implements mapping.Store in PostgreSQL. Batches are copied into
// a temporary table and merged into the target table in one transaction.
type pgStore struct {
	op db.Operator
}

// OpenPostgres connects to PostgreSQL and returns a mapping store.
func OpenPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) (mapping.Store, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return &pgStore{op: op}, nil
}

func (s *pgStore) Init(ctx context.Context) error {
	exists, err := s.op.TableExists(ctx, "mappings")
	if err != nil {
		return err
	}
	slog.Info("Creating PostgreSQL schema", "mappings_exists", exists)
	return ioschema.NewManager(s.op).Create(ctx)
}

func (s *pgStore) UpsertAccessions(
	ctx context.Context,
	recs []mapping.Accession,
	keepExisting bool,
) (int, error) {
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{i, r.Accession, r.TaxID}
	}

	onConflict := "DO UPDATE SET taxonomy = EXCLUDED.taxonomy"
	if keepExisting {
		onConflict = "DO NOTHING"
	}

	return s.merge(ctx, mergeQuery{
		table:   "mappings",
		tmpDDL:  "ord INT, accession VARCHAR(50), taxonomy INT",
		tmpCols: []string{"ord", "accession", "taxonomy"},
		key:     "accession",
		cols:    "accession, taxonomy",
		action:  onConflict,
	}, rows)
}

func (s *pgStore) UpsertTaxa(
	ctx context.Context,
	recs []mapping.Taxon,
) (int, error) {
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = []any{i, r.TaxID, r.Name, r.NameID, r.Level}
	}

	return s.merge(ctx, mergeQuery{
		table:   "taxa",
		tmpDDL:  "ord INT, taxid VARCHAR(20), name TEXT, name_id UUID, level INT",
		tmpCols: []string{"ord", "taxid", "name", "name_id", "level"},
		key:     "taxid",
		cols:    "taxid, name, name_id, level",
		action: "DO UPDATE SET name = EXCLUDED.name, " +
			"name_id = EXCLUDED.name_id, level = EXCLUDED.level",
	}, rows)
}

type mergeQuery struct {
	table   string
	tmpDDL  string
	tmpCols []string
	key     string
	cols    string
	action  string
}

// merge copies rows into a temporary table and inserts them into the
// target table. When a key repeats in a batch, the row with the largest
// ord wins.
func (s *pgStore) merge(
	ctx context.Context,
	q mergeQuery,
	rows [][]any,
) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	pool := s.op.Pool()
	if pool == nil {
		return 0, iodb.NotConnectedError()
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, UpsertError(q.table, err)
	}
	defer tx.Rollback(ctx)

	tmp := "tmp_" + q.table
	ddl := fmt.Sprintf("CREATE TEMP TABLE %s (%s) ON COMMIT DROP", tmp, q.tmpDDL)
	if _, err = tx.Exec(ctx, ddl); err != nil {
		return 0, UpsertError(q.table, err)
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{tmp},
		q.tmpCols,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, UpsertError(q.table, err)
	}

	insert := fmt.Sprintf(`INSERT INTO %[1]s (%[2]s)
SELECT DISTINCT ON (%[3]s) %[2]s FROM %[4]s
ORDER BY %[3]s, ord DESC
ON CONFLICT (%[3]s) %[5]s`,
		q.table, q.cols, q.key, tmp, q.action)
	tag, err := tx.Exec(ctx, insert)
	if err != nil {
		return 0, UpsertError(q.table, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, UpsertError(q.table, err)
	}
	return int(tag.RowsAffected()), nil
}

// Analyze runs VACUUM ANALYZE on the store tables. It cannot run inside
// a transaction.
func (s *pgStore) Analyze(ctx context.Context) error {
	pool := s.op.Pool()
	if pool == nil {
		return iodb.NotConnectedError()
	}

	start := time.Now()
	for _, table := range []string{"mappings", "taxa"} {
		if _, err := pool.Exec(ctx, "VACUUM ANALYZE "+table); err != nil {
			return AnalyzeError(table, err)
		}
	}
	slog.Info("VACUUM ANALYZE completed",
		"duration", time.Since(start).String())
	return nil
}

func (s *pgStore) CountAccessions(ctx context.Context) (int, error) {
	pool := s.op.Pool()
	if pool == nil {
		return 0, iodb.NotConnectedError()
	}

	var res int64
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM mappings").Scan(&res)
	if err != nil {
		return 0, CountError("mappings", err)
	}
	return int(res), nil
}

func (s *pgStore) Close() error {
	return s.op.Close()
}
