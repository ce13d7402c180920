// Package schema provides database models of the MEGAN mapping store.
// The same models describe the SQLite file MEGAN reads (through `db`
// and `ddl` tags) and the PostgreSQL schema (through GORM tags).
package schema

// DDLGenerator defines how Go models generate SQLite DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Mapping connects a sequence accession to an NCBI taxon.
type Mapping struct {
	// Accession is a versioned accession (for example WP_003131952.1) or
	// an unversioned one when the source has no version column.
	Accession string `db:"accession" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:varchar(50)"`

	// Taxonomy is the NCBI taxon id of the accession.
	Taxonomy int `db:"taxonomy" ddl:"INT" gorm:"not null;index"`
}

// Taxon keeps the name and MEGAN level of an NCBI taxon, as written to
// the map file by the converter.
type Taxon struct {
	// TaxID is the NCBI taxon id.
	TaxID string `db:"taxid" ddl:"TEXT PRIMARY KEY" gorm:"column:taxid;primaryKey;type:varchar(20)"`

	// Name is the scientific name (or its canonical form).
	Name string `db:"name" ddl:"TEXT" gorm:"type:text"`

	// NameID is UUID v5 of the Name.
	NameID string `db:"name_id" ddl:"TEXT" gorm:"type:uuid;index"`

	// Level is MEGAN level derived from the rank.
	Level int `db:"level" ddl:"INT" gorm:"not null"`
}
