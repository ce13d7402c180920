package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/megantax/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	home := "/home/user"

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(home, ".config", "megantax"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(home, ".config", "megantax", "config.yaml"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(home, ".local", "share", "megantax", "logs"),
		},
	}

	for _, v := range tests {
		res := v.fn(home)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Taxonomy defaults
		assert.Equal(t, "nodes.dmp", cfg.Taxonomy.NodesFile)
		assert.Equal(t, "names.dmp", cfg.Taxonomy.NamesFile)
		assert.Equal(t, ".", cfg.Taxonomy.OutputDir)
		assert.Equal(t, "ncbi.tre", cfg.Taxonomy.TreeFile)
		assert.Equal(t, "ncbi.map", cfg.Taxonomy.MapFile)
		assert.Equal(t, 0, cfg.Taxonomy.MaxDepth)
		assert.Equal(t, 1, cfg.Taxonomy.InitialDepth)
		assert.Equal(t, "leaf", cfg.Taxonomy.Collapse)
		assert.False(t, cfg.Taxonomy.SkipMalformed)
		assert.False(t, cfg.Taxonomy.CanonicalNames)
		assert.Empty(t, cfg.Taxonomy.ReportFile)

		// Mapping defaults
		assert.Equal(t, "sqlite", cfg.Mapping.Backend)
		assert.Equal(t, "megan-map.db", cfg.Mapping.SQLitePath)
		assert.Equal(t, 1_000_000, cfg.Mapping.BatchSize)
		assert.False(t, cfg.Mapping.KeepExisting)

		// Database defaults
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "megantax", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		// JobsNumber defaults to CPU count
		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})

	t.Run("output paths", func(t *testing.T) {
		assert.Equal(t, "ncbi.tre", cfg.TreePath())
		assert.Equal(t, "ncbi.map", cfg.MapPath())

		c := config.New()
		c.Update([]config.Option{config.OptTaxonomyOutputDir("/tmp/out")})
		assert.Equal(t, filepath.Join("/tmp/out", "ncbi.tre"), c.TreePath())
		assert.Equal(t, filepath.Join("/tmp/out", "ncbi.map"), c.MapPath())
	})
}

func TestOptionMaxDepth(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "sets depth", input: 8, expected: 8},
		{name: "zero removes limit", input: 0, expected: 0},
		{name: "ignores negative", input: -2, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptTaxonomyMaxDepth(3)})
			cfg.Update([]config.Option{config.OptTaxonomyMaxDepth(tt.input)})
			assert.Equal(t, tt.expected, cfg.Taxonomy.MaxDepth)
		})
	}
}

func TestOptionInitialDepth(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "sets depth", input: 3, expected: 3},
		{name: "accepts zero", input: 0, expected: 0},
		{name: "ignores negative", input: -1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptTaxonomyInitialDepth(tt.input)})
			assert.Equal(t, tt.expected, cfg.Taxonomy.InitialDepth)
		})
	}
}

func TestOptionEnums(t *testing.T) {
	tests := []struct {
		name     string
		opt      config.Option
		get      func(*config.Config) string
		expected string
	}{
		{
			name:     "collapse count",
			opt:      config.OptTaxonomyCollapse("count"),
			get:      func(c *config.Config) string { return c.Taxonomy.Collapse },
			expected: "count",
		},
		{
			name:     "collapse normalizes case",
			opt:      config.OptTaxonomyCollapse(" COUNT "),
			get:      func(c *config.Config) string { return c.Taxonomy.Collapse },
			expected: "count",
		},
		{
			name:     "collapse ignores invalid",
			opt:      config.OptTaxonomyCollapse("prune"),
			get:      func(c *config.Config) string { return c.Taxonomy.Collapse },
			expected: "leaf",
		},
		{
			name:     "backend postgres",
			opt:      config.OptMappingBackend("postgres"),
			get:      func(c *config.Config) string { return c.Mapping.Backend },
			expected: "postgres",
		},
		{
			name:     "backend ignores invalid",
			opt:      config.OptMappingBackend("mysql"),
			get:      func(c *config.Config) string { return c.Mapping.Backend },
			expected: "sqlite",
		},
		{
			name:     "ssl mode require",
			opt:      config.OptDatabaseSSLMode("REQUIRE"),
			get:      func(c *config.Config) string { return c.Database.SSLMode },
			expected: "require",
		},
		{
			name:     "ssl mode ignores invalid",
			opt:      config.OptDatabaseSSLMode("invalid"),
			get:      func(c *config.Config) string { return c.Database.SSLMode },
			expected: "disable",
		},
		{
			name:     "log level debug",
			opt:      config.OptLogLevel("DEBUG"),
			get:      func(c *config.Config) string { return c.Log.Level },
			expected: "debug",
		},
		{
			name:     "log level ignores invalid",
			opt:      config.OptLogLevel("trace"),
			get:      func(c *config.Config) string { return c.Log.Level },
			expected: "info",
		},
		{
			name:     "log format text",
			opt:      config.OptLogFormat("text"),
			get:      func(c *config.Config) string { return c.Log.Format },
			expected: "text",
		},
		{
			name:     "log format ignores invalid",
			opt:      config.OptLogFormat("xml"),
			get:      func(c *config.Config) string { return c.Log.Format },
			expected: "json",
		},
		{
			name:     "log destination stderr",
			opt:      config.OptLogDestination("stderr"),
			get:      func(c *config.Config) string { return c.Log.Destination },
			expected: "stderr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt})
			assert.Equal(t, tt.expected, tt.get(cfg))
		})
	}
}

func TestOptionStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "sets valid value", input: "/data/megan.db", expected: "/data/megan.db"},
		{name: "trims whitespace", input: "  /data/megan.db  ", expected: "/data/megan.db"},
		{name: "ignores empty string", input: "", expected: "megan-map.db"},
		{name: "ignores whitespace-only", input: "   ", expected: "megan-map.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptMappingSQLitePath(tt.input)})
			assert.Equal(t, tt.expected, cfg.Mapping.SQLitePath)
		})
	}
}

func TestOptionPositiveInts(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{name: "sets valid batch size", input: 10000, expected: 10000},
		{name: "ignores zero", input: 0, expected: 1_000_000},
		{name: "ignores negative", input: -1000, expected: 1_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptMappingBatchSize(tt.input)})
			assert.Equal(t, tt.expected, cfg.Mapping.BatchSize)
		})
	}

	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptJobsNumber(0),
		config.OptDatabasePort(-1),
	})
	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptTaxonomyNodesFile("dump/nodes.dmp"),
			config.OptTaxonomyNamesFile("dump/names.dmp"),
			config.OptTaxonomySkipMalformed(true),
			config.OptTaxonomyCanonicalNames(true),
			config.OptMappingKeepExisting(true),
			config.OptDatabaseHost("custom.host.com"),
			config.OptLogLevel("debug"),
			config.OptJobsNumber(16),
		}

		cfg.Update(opts)

		assert.Equal(t, "dump/nodes.dmp", cfg.Taxonomy.NodesFile)
		assert.Equal(t, "dump/names.dmp", cfg.Taxonomy.NamesFile)
		assert.True(t, cfg.Taxonomy.SkipMalformed)
		assert.True(t, cfg.Taxonomy.CanonicalNames)
		assert.True(t, cfg.Mapping.KeepExisting)
		assert.Equal(t, "custom.host.com", cfg.Database.Host)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 16, cfg.JobsNumber)

		// Unchanged fields keep defaults
		assert.Equal(t, "postgres", cfg.Database.Password)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptTaxonomyMaxDepth(4),
			config.OptTaxonomyMaxDepth(7),
		}

		cfg.Update(opts)

		assert.Equal(t, 7, cfg.Taxonomy.MaxDepth)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		opts := []config.Option{
			config.OptTaxonomyOutputDir("out"),
			config.OptTaxonomyTreeFile("tree.tre"),
			config.OptTaxonomyMapFile("tree.map"),
			config.OptTaxonomyMaxDepth(6),
			config.OptTaxonomyInitialDepth(0),
			config.OptTaxonomyCollapse("count"),
			config.OptMappingBackend("postgres"),
			config.OptMappingSQLitePath("other.db"),
			config.OptMappingBatchSize(5000),
			config.OptDatabaseHost("test.host.com"),
			config.OptDatabasePort(3306),
			config.OptDatabaseUser("testuser"),
			config.OptDatabasePassword("testpass"),
			config.OptDatabaseDatabase("testdb"),
			config.OptDatabaseSSLMode("require"),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(8),
		}
		original.Update(opts)

		newCfg := config.New()
		newCfg.Update(original.ToOptions())

		assert.Equal(t, original, newCfg)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptTaxonomyNodesFile("a/nodes.dmp"),
			config.OptTaxonomyNamesFile("a/names.dmp"),
			config.OptTaxonomyReportFile("report.yaml"),
			config.OptTaxonomySkipMalformed(true),
			config.OptTaxonomyCanonicalNames(true),
			config.OptMappingKeepExisting(true),
		})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())

		assert.Equal(t, "", newCfg.HomeDir)
		assert.Equal(t, "nodes.dmp", newCfg.Taxonomy.NodesFile)
		assert.Equal(t, "names.dmp", newCfg.Taxonomy.NamesFile)
		assert.Equal(t, "", newCfg.Taxonomy.ReportFile)
		assert.False(t, newCfg.Taxonomy.SkipMalformed)
		assert.False(t, newCfg.Taxonomy.CanonicalNames)
		assert.False(t, newCfg.Mapping.KeepExisting)
	})
}
