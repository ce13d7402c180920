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

	"github.com/gnames/gn"
	"github.com/gnames/megantax/internal/ioload"
	"github.com/gnames/megantax/internal/iostore"
	"github.com/gnames/megantax/pkg/config"
	"github.com/spf13/cobra"
)

// getLoadCmd returns the load command with its subcommands.
func getLoadCmd() *cobra.Command {
	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load data into the mapping database",
		Long: `Load accessions or taxa into the mapping database.

Tables are created automatically if they do not exist.

Examples:
  megantax load accessions prot.accession2taxid.gz
  megantax load taxa ncbi.map`,
	}
	loadCmd.PersistentFlags().Int("batch-size", 0,
		"number of records committed per transaction")

	loadCmd.AddCommand(getLoadAccessionsCmd(), getLoadTaxaCmd())
	return loadCmd
}

func getLoadAccessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accessions FILE",
		Short: "Load accession to taxon id mappings",
		Long: `Load an NCBI accession2taxid file (plain or gzipped) into the
mappings table.

If the first line starts with "accession", columns are found by their
names, "accession.version" is preferred to "accession". Otherwise the
file must have accession and taxon id in the first two columns.

With --nr only accessions listed in the given file are loaded. The file
may contain FASTA headers of the nr database or bare accessions.

Existing accessions get new taxon ids, unless --keep-existing is given.

Examples:
  megantax load accessions prot.accession2taxid.gz
  megantax load accessions prot.accession2taxid.gz --nr nr.id.txt
  megantax load accessions dead_prot.accession2taxid.gz -k`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLoadAccessions(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	cmd.Flags().StringP("nr", "n", "", "file with nr accessions to keep")
	cmd.Flags().BoolP("keep-existing", "k", false,
		"do not change accessions that are already in the database")
	return cmd
}

func getLoadTaxaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxa MAPFILE",
		Short: "Load taxa from a map file",
		Long: `Load taxa from a map file created by 'megantax convert' into the
taxa table. Every name gets a UUID v5 identifier.

Examples:
  megantax load taxa ncbi.map`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLoadTaxa(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	return cmd
}

func loadOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	flags := cmd.Flags()
	if flags.Changed("batch-size") {
		i, _ := flags.GetInt("batch-size")
		res = append(res, config.OptMappingBatchSize(i))
	}
	if flags.Lookup("keep-existing") != nil {
		b, _ := flags.GetBool("keep-existing")
		res = append(res, config.OptMappingKeepExisting(b))
	}
	return res
}

// withStore opens and initializes the mapping store for the duration
// of fn.
func withStore(
	cmd *cobra.Command,
	fn func(ctx context.Context, l *ioload.Loader) error,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg.Update(loadOptions(cmd))

	store, err := iostore.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err = store.Init(ctx); err != nil {
		return err
	}

	gn.Info("Loading into <em>%s</em>", iostore.Describe(cfg))
	if err = fn(ctx, ioload.New(cfg, store)); err != nil {
		return err
	}
	return store.Analyze(ctx)
}

func runLoadAccessions(cmd *cobra.Command, args []string) error {
	nr, _ := cmd.Flags().GetString("nr")
	return withStore(cmd, func(ctx context.Context, l *ioload.Loader) error {
		stats, err := l.LoadAccessions(ctx, args[0], nr)
		if err != nil {
			return err
		}
		if stats.Filtered > 0 {
			gn.Info("Accessions absent from nr: %d", stats.Filtered)
		}
		if stats.Malformed > 0 {
			gn.Warn("Malformed lines skipped: %d", stats.Malformed)
		}
		return nil
	})
}

func runLoadTaxa(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, l *ioload.Loader) error {
		_, err := l.LoadTaxa(ctx, args[0])
		return err
	})
}
