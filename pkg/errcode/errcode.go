package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	CreateFileError
	WriteFileError
	RenameFileError

	// Logging errors
	CreateLogFileError

	// Dump errors
	DumpMalformedRecordError
	DumpReadError

	// Taxonomy conversion errors
	TaxonomyEmptyError
	TaxonomyUnknownRootError
	TaxonomyNewickError
	TaxonomyMapFileError
	TaxonomyCountMismatchError
	TaxonomyReportError
	TaxonomyCanonicalError

	// Load errors
	LoadAccessionHeaderError
	LoadMapFileError
	LoadNrFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError

	// Schema errors
	SchemaGORMConnectionError
	SchemaMigrateError

	// Store errors
	StoreOpenError
	StoreInitError
	StoreUpsertError
	StoreCountError
	StoreUnknownBackendError
	StoreAnalyzeError
)
