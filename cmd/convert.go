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
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gnames/gn"
	"github.com/gnames/megantax/internal/iotaxonomy"
	"github.com/gnames/megantax/pkg/config"
	"github.com/spf13/cobra"
)

// getConvertCmd returns the convert command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getConvertCmd() *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert [taxdump-dir | nodes.dmp names.dmp]",
		Short: "Convert NCBI taxonomy dump to MEGAN tree and map files",
		Long: `Convert NCBI taxonomy dump files to the files used by MEGAN.

This command:
  1. Reads scientific names from names.dmp
  2. Builds the taxonomic tree from nodes.dmp
  3. Assigns depth to every taxon reachable from the root
  4. Writes the tree of taxon ids in Newick format (ncbi.tre)
  5. Writes taxon id, name and MEGAN level of every taxon (ncbi.map)

Both files contain the same taxa. They appear only when conversion
succeeds. Dump files can be gzipped.

Arguments are either a directory with nodes.dmp and names.dmp, or paths
to both files. Without arguments the files are read from the current
directory.

Examples:
  megantax convert
  megantax convert taxdump
  megantax convert nodes.dmp names.dmp -o megan -d 8
  megantax convert taxdump --collapse count --report report.yaml`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runConvert(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	flags := convertCmd.Flags()
	flags.StringP("output-dir", "o", "",
		"directory for tree and map files")
	flags.IntP("max-depth", "d", 0,
		"maximum depth of the tree, 0 means no limit")
	flags.Int("initial-depth", 1, "depth assigned to the root")
	flags.StringP("collapse", "c", "",
		"rendering of nodes cut by max-depth: leaf or count")
	flags.BoolP("skip-malformed", "s", false,
		"skip malformed dump lines instead of stopping")
	flags.Bool("canonical", false,
		"use canonical forms of scientific names in the map file")
	flags.StringP("report", "r", "", "write YAML report to this file")

	return convertCmd
}

// dumpPaths returns paths to nodes.dmp and names.dmp from command
// arguments.
func dumpPaths(args []string) (string, string) {
	switch len(args) {
	case 1:
		return filepath.Join(args[0], "nodes.dmp"),
			filepath.Join(args[0], "names.dmp")
	case 2:
		return args[0], args[1]
	default:
		return "nodes.dmp", "names.dmp"
	}
}

func convertOptions(cmd *cobra.Command, args []string) []config.Option {
	flags := cmd.Flags()
	nodes, names := dumpPaths(args)
	res := []config.Option{
		config.OptTaxonomyNodesFile(nodes),
		config.OptTaxonomyNamesFile(names),
	}

	if flags.Changed("output-dir") {
		s, _ := flags.GetString("output-dir")
		res = append(res, config.OptTaxonomyOutputDir(s))
	}
	if flags.Changed("max-depth") {
		i, _ := flags.GetInt("max-depth")
		res = append(res, config.OptTaxonomyMaxDepth(i))
	}
	if flags.Changed("initial-depth") {
		i, _ := flags.GetInt("initial-depth")
		res = append(res, config.OptTaxonomyInitialDepth(i))
	}
	if flags.Changed("collapse") {
		s, _ := flags.GetString("collapse")
		res = append(res, config.OptTaxonomyCollapse(s))
	}
	if flags.Changed("report") {
		s, _ := flags.GetString("report")
		res = append(res, config.OptTaxonomyReportFile(s))
	}

	b, _ := flags.GetBool("skip-malformed")
	res = append(res, config.OptTaxonomySkipMalformed(b))
	b, _ = flags.GetBool("canonical")
	res = append(res, config.OptTaxonomyCanonicalNames(b))

	return res
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg.Update(convertOptions(cmd, args))

	gn.Info("Converting <em>%s</em> and <em>%s</em>",
		cfg.Taxonomy.NodesFile, cfg.Taxonomy.NamesFile)

	_, err := iotaxonomy.New(cfg).Convert(ctx)
	return err
}
