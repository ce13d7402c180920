// Package config provides configuration management for megantax.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Taxonomy: output_dir, tree_file, map_file, max_depth, initial_depth,
//     collapse
//   - Mapping: backend, sqlite_path, batch_size
//   - Database: host, port, user, password, database, ssl_mode
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Taxonomy.NodesFile, NamesFile, ReportFile, SkipMalformed,
//     CanonicalNames (per-command)
//   - Mapping.KeepExisting (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use MEGANTAX_ prefix with underscores for nesting:
//
//	MEGANTAX_TAXONOMY_MAX_DEPTH=8
//	MEGANTAX_MAPPING_BACKEND=sqlite
//	MEGANTAX_DATABASE_HOST=localhost
//	MEGANTAX_LOG_LEVEL=info
//	MEGANTAX_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete megantax configuration.
type Config struct {
	// Taxonomy contains settings of the NCBI dump conversion.
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy" yaml:"taxonomy"`

	// Mapping contains settings of the accession mapping store.
	Mapping MappingConfig `mapstructure:"mapping" yaml:"mapping"`

	// Database contains PostgreSQL connection settings. They are used only
	// when Mapping.Backend is "postgres".
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// TaxonomyConfig contains settings of the `convert` command.
type TaxonomyConfig struct {
	// NodesFile is the path to NCBI nodes.dmp.
	NodesFile string `mapstructure:"nodes_file" yaml:"nodes_file"`

	// NamesFile is the path to NCBI names.dmp.
	NamesFile string `mapstructure:"names_file" yaml:"names_file"`

	// OutputDir is where the tree and map files are written.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// TreeFile is the name of the Newick output file.
	TreeFile string `mapstructure:"tree_file" yaml:"tree_file"`

	// MapFile is the name of the id/name/level output file.
	MapFile string `mapstructure:"map_file" yaml:"map_file"`

	// ReportFile, if set, receives a YAML summary of the conversion.
	ReportFile string `mapstructure:"report_file" yaml:"report_file"`

	// MaxDepth limits the depth of the emitted tree. Nodes at MaxDepth
	// become leaves. Zero means no limit.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	// InitialDepth is the depth assigned to the root node.
	InitialDepth int `mapstructure:"initial_depth" yaml:"initial_depth"`

	// Collapse determines how nodes cut by MaxDepth are rendered.
	// Valid values: "leaf", "count".
	Collapse string `mapstructure:"collapse" yaml:"collapse"`

	// SkipMalformed makes the converter count and skip malformed dump
	// lines instead of aborting.
	SkipMalformed bool `mapstructure:"skip_malformed" yaml:"skip_malformed"`

	// CanonicalNames replaces scientific names in the map file by their
	// simple canonical forms.
	CanonicalNames bool `mapstructure:"canonical_names" yaml:"canonical_names"`
}

// MappingConfig contains settings of the accession mapping store.
type MappingConfig struct {
	// Backend is the store implementation. Valid values: "sqlite", "postgres".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// SQLitePath is the path to the MEGAN mapping database file.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// BatchSize defines the number of records committed per transaction.
	// Larger batches are faster but use more memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// KeepExisting makes loaders keep rows that are already in the store.
	KeepExisting bool `mapstructure:"keep_existing" yaml:"keep_existing"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Taxonomy: TaxonomyConfig{
			NodesFile:    "nodes.dmp",
			NamesFile:    "names.dmp",
			OutputDir:    ".",
			TreeFile:     "ncbi.tre",
			MapFile:      "ncbi.map",
			InitialDepth: 1,
			Collapse:     "leaf",
		},
		Mapping: MappingConfig{
			Backend:    "sqlite",
			SQLitePath: "megan-map.db",
			BatchSize:  1_000_000,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "megantax",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
