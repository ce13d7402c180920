/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/internal/iofs"
	"github.com/gnames/megantax/internal/iologger"
	megantax "github.com/gnames/megantax/pkg"
	"github.com/gnames/megantax/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: fmt.Sprintf("version: %s\nbuild:   %s",
		megantax.Version, megantax.Build),
	Use:   "megantax",
	Short: "Converts NCBI taxonomy for MEGAN",
	Long: `megantax converts NCBI taxonomy dump (nodes.dmp, names.dmp) into
the Newick tree and the map file used by MEGAN, and maintains the
accession to taxonomy mapping database (megan-map.db).

Commands:
  - convert: create tree and map files from NCBI taxonomy dump
  - create: create tables of the mapping database
  - load: load accessions or taxa into the mapping database

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (MEGANTAX_*)
  3. Config file (~/.config/megantax/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (mapping.backend → MEGANTAX_MAPPING_BACKEND).

    MEGANTAX_TAXONOMY_MAX_DEPTH     Maximum depth of the tree
    MEGANTAX_MAPPING_BACKEND        Mapping store (sqlite/postgres)
    MEGANTAX_MAPPING_SQLITE_PATH    Path to megan-map.db
    MEGANTAX_DATABASE_HOST          PostgreSQL host
    MEGANTAX_LOG_LEVEL              Log level (debug/info/warn/error)
    MEGANTAX_JOBS_NUMBER            Number of concurrent workers`,
	PersistentPreRunE: bootstrap,
	RunE:              runRoot,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	err = iologger.Init(config.LogDir(homeDir), defaultLog, false)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Flags shared by all commands override config and env vars
	cfg.Update(persistentFlagOptions(cmd))

	// Reconfigure logging with user's settings, keeping records made so far
	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Remove the automatic "megantax version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for megantax")

	addPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		getConvertCmd(),
		getCreateCmd(),
		getLoadCmd(),
	)
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	// Explicit names given to BindEnv do not get the prefix.
	v.SetEnvPrefix("MEGANTAX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Taxonomy configuration
	v.BindEnv("taxonomy.output_dir", "MEGANTAX_TAXONOMY_OUTPUT_DIR")
	v.BindEnv("taxonomy.tree_file", "MEGANTAX_TAXONOMY_TREE_FILE")
	v.BindEnv("taxonomy.map_file", "MEGANTAX_TAXONOMY_MAP_FILE")
	v.BindEnv("taxonomy.max_depth", "MEGANTAX_TAXONOMY_MAX_DEPTH")
	v.BindEnv("taxonomy.initial_depth", "MEGANTAX_TAXONOMY_INITIAL_DEPTH")
	v.BindEnv("taxonomy.collapse", "MEGANTAX_TAXONOMY_COLLAPSE")

	// Mapping configuration
	v.BindEnv("mapping.backend", "MEGANTAX_MAPPING_BACKEND")
	v.BindEnv("mapping.sqlite_path", "MEGANTAX_MAPPING_SQLITE_PATH")
	v.BindEnv("mapping.batch_size", "MEGANTAX_MAPPING_BATCH_SIZE")

	// Database configuration
	v.BindEnv("database.host", "MEGANTAX_DATABASE_HOST")
	v.BindEnv("database.port", "MEGANTAX_DATABASE_PORT")
	v.BindEnv("database.user", "MEGANTAX_DATABASE_USER")
	v.BindEnv("database.password", "MEGANTAX_DATABASE_PASSWORD")
	v.BindEnv("database.database", "MEGANTAX_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "MEGANTAX_DATABASE_SSL_MODE")

	// Log configuration
	v.BindEnv("log.level", "MEGANTAX_LOG_LEVEL")
	v.BindEnv("log.format", "MEGANTAX_LOG_FORMAT")
	v.BindEnv("log.destination", "MEGANTAX_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "MEGANTAX_JOBS_NUMBER")

	v.AutomaticEnv()
}
