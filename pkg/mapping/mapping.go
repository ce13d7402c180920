// Package mapping defines the accession to taxonomy store MEGAN uses to
// assign reads to taxa, and the records loaded into it.
package mapping

import "context"

// Accession is one row of an accession2taxid file.
type Accession struct {
	// Accession is the sequence accession, versioned when available.
	Accession string

	// TaxID is the NCBI taxon id of the sequence.
	TaxID int
}

// Taxon is one line of a map file produced by the converter.
type Taxon struct {
	// TaxID is the NCBI taxon id.
	TaxID string

	// Name is the taxon name from the map file.
	Name string

	// NameID is UUID v5 generated from Name.
	NameID string

	// Level is MEGAN level of the taxon.
	Level int
}

// Store keeps accession and taxon records. Implementations commit every
// Upsert call as one transaction.
type Store interface {
	// Init creates missing tables. Existing tables and data are kept.
	Init(ctx context.Context) error

	// UpsertAccessions saves a batch of accessions. If keepExisting is
	// true, accessions already in the store are not changed, otherwise
	// their taxon ids are replaced. Within a batch the last record of an
	// accession wins. Returns the number of rows written.
	UpsertAccessions(
		ctx context.Context,
		recs []Accession,
		keepExisting bool,
	) (int, error)

	// UpsertTaxa saves a batch of taxa replacing existing ones.
	// Returns the number of rows written.
	UpsertTaxa(ctx context.Context, recs []Taxon) (int, error)

	// Analyze updates query planner statistics after bulk loads.
	Analyze(ctx context.Context) error

	// CountAccessions returns the number of accessions in the store.
	CountAccessions(ctx context.Context) (int, error)

	// Close releases resources of the store.
	Close() error
}
