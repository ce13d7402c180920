package cmd

import (
	"testing"

	"github.com/gnames/megantax/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetLoadCmd_Subcommands verifies load subcommands and their flags.
func TestGetLoadCmd_Subcommands(t *testing.T) {
	cmd := getLoadCmd()
	require.NotNil(t, cmd.PersistentFlags().Lookup("batch-size"))

	acc, _, err := cmd.Find([]string{"accessions"})
	require.NoError(t, err)
	assert.Equal(t, "accessions", acc.Name())
	require.NotNil(t, acc.Flags().Lookup("nr"))
	assert.Equal(t, "k", acc.Flags().Lookup("keep-existing").Shorthand)

	taxa, _, err := cmd.Find([]string{"taxa"})
	require.NoError(t, err)
	assert.Equal(t, "taxa", taxa.Name())
	assert.Error(t, taxa.Args(taxa, nil), "map file is required")
}

func TestLoadOptions(t *testing.T) {
	parse := func(t *testing.T, name string, args ...string) *cobra.Command {
		t.Helper()
		root := getLoadCmd()
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		require.NoError(t, cmd.ParseFlags(args))
		return cmd
	}

	t.Run("accessions", func(t *testing.T) {
		cmd := parse(t, "accessions", "--batch-size", "10", "-k")
		c := config.New()
		c.Update(loadOptions(cmd))
		assert.Equal(t, 10, c.Mapping.BatchSize)
		assert.True(t, c.Mapping.KeepExisting)
	})

	t.Run("taxa", func(t *testing.T) {
		cmd := parse(t, "taxa")
		c := config.New()
		c.Update(loadOptions(cmd))
		assert.Equal(t, 1_000_000, c.Mapping.BatchSize)
		assert.False(t, c.Mapping.KeepExisting)
	})
}
