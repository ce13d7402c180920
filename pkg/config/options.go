package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptTaxonomyNodesFile sets the path to nodes.dmp.
// Runtime-only field - not in ToOptions().
func OptTaxonomyNodesFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Nodes File", s) {
			c.Taxonomy.NodesFile = s
		}
	}
}

// OptTaxonomyNamesFile sets the path to names.dmp.
// Runtime-only field - not in ToOptions().
func OptTaxonomyNamesFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Names File", s) {
			c.Taxonomy.NamesFile = s
		}
	}
}

// OptTaxonomyOutputDir sets the directory for tree and map files.
func OptTaxonomyOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Directory", s) {
			c.Taxonomy.OutputDir = s
		}
	}
}

// OptTaxonomyTreeFile sets the name of the Newick output file.
func OptTaxonomyTreeFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Tree File", s) {
			c.Taxonomy.TreeFile = s
		}
	}
}

// OptTaxonomyMapFile sets the name of the map output file.
func OptTaxonomyMapFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Map File", s) {
			c.Taxonomy.MapFile = s
		}
	}
}

// OptTaxonomyReportFile sets the path of the YAML report.
// Runtime-only field - not in ToOptions().
func OptTaxonomyReportFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Report File", s) {
			c.Taxonomy.ReportFile = s
		}
	}
}

// OptTaxonomyMaxDepth sets the maximum depth of the emitted tree.
// Zero removes the limit.
func OptTaxonomyMaxDepth(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Max Depth", i) {
			c.Taxonomy.MaxDepth = i
		}
	}
}

// OptTaxonomyInitialDepth sets the depth assigned to the root.
func OptTaxonomyInitialDepth(i int) Option {
	return func(c *Config) {
		if isValidNonNegative("Initial Depth", i) {
			c.Taxonomy.InitialDepth = i
		}
	}
}

// OptTaxonomyCollapse sets how truncated nodes are rendered.
// Valid values: "leaf", "count".
func OptTaxonomyCollapse(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Taxonomy.Collapse", s) {
			c.Taxonomy.Collapse = s
		}
	}
}

// OptTaxonomySkipMalformed sets whether malformed dump lines are skipped.
// Runtime-only field - not in ToOptions().
func OptTaxonomySkipMalformed(b bool) Option {
	return func(c *Config) {
		c.Taxonomy.SkipMalformed = b
	}
}

// OptTaxonomyCanonicalNames sets whether map file names are canonicalized.
// Runtime-only field - not in ToOptions().
func OptTaxonomyCanonicalNames(b bool) Option {
	return func(c *Config) {
		c.Taxonomy.CanonicalNames = b
	}
}

// OptMappingBackend sets the mapping store implementation.
// Valid values: "sqlite", "postgres".
func OptMappingBackend(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Mapping.Backend", s) {
			c.Mapping.Backend = s
		}
	}
}

// OptMappingSQLitePath sets the path to the SQLite mapping database.
func OptMappingSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Mapping.SQLitePath = s
		}
	}
}

// OptMappingBatchSize sets the number of records committed per transaction.
func OptMappingBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Mapping.BatchSize = i
		}
	}
}

// OptMappingKeepExisting sets whether existing store rows survive a load.
// Runtime-only field - not in ToOptions().
func OptMappingKeepExisting(b bool) Option {
	return func(c *Config) {
		c.Mapping.KeepExisting = b
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
