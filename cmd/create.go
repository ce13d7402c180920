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

	"github.com/gnames/gn"
	"github.com/gnames/megantax/internal/iostore"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create mapping database schema",
		Long: `Create tables of the accession mapping database.

For the sqlite backend this command opens (or creates) megan-map.db and
adds the mappings and taxa tables if they are missing. Tables of an
existing MEGAN database are kept with all their data and columns.

For the postgres backend the tables are created in PostgreSQL using
GORM AutoMigrate, key columns get "C" collation.

Examples:
  megantax create
  megantax create --db megan-map-Feb2022.db
  megantax create --backend postgres`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return createCmd
}

func runCreate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	store, err := iostore.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err = store.Init(ctx); err != nil {
		return err
	}

	count, err := store.CountAccessions(ctx)
	if err != nil {
		return err
	}

	gn.Info("Mapping database <em>%s</em> is ready, it has %d accessions",
		iostore.Describe(cfg), count)
	return nil
}
