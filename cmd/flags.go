package cmd

import (
	"github.com/gnames/megantax/pkg/config"
	"github.com/spf13/cobra"
)

// addPersistentFlags adds flags shared by all subcommands.
func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("backend", "b", "",
		"mapping store backend: sqlite or postgres")
	cmd.PersistentFlags().String("db", "",
		"path to the SQLite mapping database (megan-map.db)")
	cmd.PersistentFlags().IntP("jobs", "j", 0,
		"number of concurrent workers")
}

// persistentFlagOptions converts explicitly set persistent flags to
// config options.
func persistentFlagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	flags := cmd.Flags()

	if flags.Changed("backend") {
		s, _ := flags.GetString("backend")
		res = append(res, config.OptMappingBackend(s))
	}
	if flags.Changed("db") {
		s, _ := flags.GetString("db")
		res = append(res, config.OptMappingSQLitePath(s))
	}
	if flags.Changed("jobs") {
		i, _ := flags.GetInt("jobs")
		res = append(res, config.OptJobsNumber(i))
	}
	return res
}
