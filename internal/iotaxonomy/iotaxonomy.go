// Package iotaxonomy converts NCBI taxonomy dump files into the Newick
// tree and the map file used by MEGAN.
package iotaxonomy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/megantax/internal/iodump"
	"github.com/gnames/megantax/internal/iofs"
	"github.com/gnames/megantax/pkg/config"
	"github.com/gnames/megantax/pkg/dump"
	"github.com/gnames/megantax/pkg/names"
	"github.com/gnames/megantax/pkg/taxon"
)

// progressStep is the number of records between progress reports.
const progressStep = 500_000

// Result summarizes a conversion.
type Result struct {
	// NodeRecords is the number of records read from nodes.dmp.
	NodeRecords int `yaml:"node_records"`

	// NameRecords is the number of records read from names.dmp.
	NameRecords int `yaml:"name_records"`

	// ScientificNames is the number of taxa with a scientific name.
	ScientificNames int `yaml:"scientific_names"`

	// Canonicalized is the number of names replaced by canonical forms.
	Canonicalized int `yaml:"canonicalized,omitempty"`

	// Taxa is the number of distinct taxa in the tree.
	Taxa int `yaml:"taxa"`

	// Root is the id of the root taxon.
	Root string `yaml:"root"`

	// MaxDepth is the depth of the deepest reachable taxon.
	MaxDepth int `yaml:"max_depth"`

	// Retained is the number of taxa written to both output files.
	Retained int `yaml:"retained"`

	// TreePath and MapPath are the written files.
	TreePath string `yaml:"tree_file"`
	MapPath  string `yaml:"map_file"`

	// Duration of the whole conversion.
	Duration time.Duration `yaml:"-"`

	// Diagnostics are non-fatal problems found in the input.
	Diagnostics *taxon.Diagnostics `yaml:"diagnostics"`
}

// Converter runs the conversion described by its configuration.
type Converter struct {
	cfg  *config.Config
	diag *taxon.Diagnostics

	// progress receives progress messages, nil disables them.
	progress func(msg string)

	// reported is true when a progress line is open on the terminal.
	reported bool
}

// New creates a Converter. Progress is reported to STDERR.
func New(cfg *config.Config) *Converter {
	return &Converter{
		cfg:      cfg,
		diag:     taxon.NewDiagnostics(),
		progress: progressReport,
	}
}

// Quiet disables progress output.
func (c *Converter) Quiet() *Converter {
	c.progress = nil
	return c
}

// Convert reads names and nodes, builds and annotates the tree and writes
// the tree and map files. Output files appear only when the whole run
// succeeds.
func (c *Converter) Convert(ctx context.Context) (*Result, error) {
	start := time.Now()
	tcfg := c.cfg.Taxonomy
	res := &Result{
		TreePath:    c.cfg.TreePath(),
		MapPath:     c.cfg.MapPath(),
		Diagnostics: c.diag,
	}
	rd := iodump.New(tcfg.SkipMalformed, c.diag)

	slog.Info("Reading names", "file", tcfg.NamesFile)
	idx := names.New()
	n, err := rd.Names(ctx, tcfg.NamesFile, func(rec dump.NameRecord) error {
		idx.Add(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.NameRecords = n
	res.ScientificNames = idx.Len()
	slog.Info("Names indexed",
		"records", n, "scientific_names", idx.Len())

	if tcfg.CanonicalNames {
		res.Canonicalized, err = c.canonicalize(ctx, idx)
		if err != nil {
			return nil, CanonicalError(err)
		}
		slog.Info("Names canonicalized", "changed", res.Canonicalized)
	}

	slog.Info("Building tree", "file", tcfg.NodesFile)
	bld := taxon.NewBuilder(
		taxon.OptDiagnostics(c.diag),
		taxon.OptProgress(progressStep, func(nodes int) {
			c.report(nodes, "taxa")
		}),
	)
	n, err = rd.Nodes(ctx, tcfg.NodesFile, bld.AddRecord)
	c.endProgress()
	if err != nil {
		return nil, err
	}
	res.NodeRecords = n

	tree := bld.Tree()
	if tree.Len() == 0 {
		return nil, EmptyTaxonomyError(tcfg.NodesFile)
	}
	res.Taxa = tree.Len()
	res.Root = tree.Root()
	slog.Info("Tree built", "records", n, "taxa", tree.Len())

	res.MaxDepth, err = tree.Annotate(tree.Root(), tcfg.InitialDepth)
	if err != nil {
		return nil, UnknownRootError(tree.Root(), err)
	}
	c.diag.DisconnectedNodes = tree.Unreachable()

	if err = ctx.Err(); err != nil {
		return nil, err
	}
	if err = c.write(tree, idx, res); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	if tcfg.ReportFile != "" {
		if err = writeReport(tcfg.ReportFile, c.cfg, res); err != nil {
			return nil, err
		}
	}

	c.summary(res)
	return res, nil
}

// write creates both output files. They are committed together after
// their taxa counts are confirmed to match.
func (c *Converter) write(
	tree *taxon.Tree,
	idx *names.Index,
	res *Result,
) error {
	if err := iofs.EnsureDir(c.cfg.Taxonomy.OutputDir); err != nil {
		return err
	}

	maxDepth := c.cfg.Taxonomy.MaxDepth
	if maxDepth == 0 {
		maxDepth = taxon.NoLimit
	}
	collapse := taxon.CollapseLeaf
	if c.cfg.Taxonomy.Collapse == "count" {
		collapse = taxon.CollapseCount
	}

	tf, err := iofs.CreateTemp(res.TreePath)
	if err != nil {
		return err
	}
	defer tf.Discard()

	treeCount, err := tree.WriteNewick(tf, taxon.NewickOptions{
		MaxDepth: maxDepth,
		Collapse: collapse,
	})
	if err != nil {
		return NewickError(res.TreePath, err)
	}

	mf, err := iofs.CreateTemp(res.MapPath)
	if err != nil {
		return err
	}
	defer mf.Discard()

	mapRes, err := tree.WriteMap(mf, idx, taxon.MapOptions{
		MaxDepth: maxDepth,
		OnUnresolved: func(id string) {
			slog.Debug("Taxon has no scientific name", "taxid", id)
		},
	})
	if err != nil {
		return MapFileError(res.MapPath, err)
	}
	c.diag.UnresolvedNames = mapRes.Unresolved

	if treeCount != mapRes.Records {
		return CountMismatchError(treeCount, mapRes.Records)
	}
	res.Retained = treeCount

	if err = tf.Commit(); err != nil {
		return err
	}
	return mf.Commit()
}

func (c *Converter) summary(res *Result) {
	d := c.diag
	slog.Info("Conversion complete",
		"taxa", res.Taxa,
		"retained", res.Retained,
		"max_depth", res.MaxDepth,
		"malformed_records", d.MalformedRecords,
		"unknown_ranks", d.UnknownRankCount(),
		"duplicate_parents", d.DuplicateParents,
		"duplicate_edges", d.DuplicateEdges,
		"self_parents", d.SelfParents,
		"unresolved_names", d.UnresolvedNames,
		"disconnected_nodes", d.DisconnectedNodes,
		"duration", gnfmt.TimeString(res.Duration.Seconds()),
	)

	gn.Info(`Conversion complete
Taxa: %s, written: %s, deepest level: %d.
Tree: <em>%s</em>
Map: <em>%s</em>
Elapsed time: <em>%s</em>`,
		humanize.Comma(int64(res.Taxa)),
		humanize.Comma(int64(res.Retained)),
		res.MaxDepth,
		res.TreePath,
		res.MapPath,
		gnfmt.TimeString(res.Duration.Seconds()),
	)

	if d.Total() == 0 {
		return
	}

	var lines []string
	add := func(label string, n int) {
		if n > 0 {
			lines = append(lines,
				fmt.Sprintf("  * %s: %s", label, humanize.Comma(int64(n))))
		}
	}
	add("malformed records", d.MalformedRecords)
	add("records with unknown rank", d.UnknownRankCount())
	add("duplicate parents", d.DuplicateParents)
	add("duplicate edges", d.DuplicateEdges)
	add("self parents", d.SelfParents)
	add("taxa without names", d.UnresolvedNames)
	add("disconnected taxa", d.DisconnectedNodes)
	gn.Warn("Input problems (ignored):\n%s", strings.Join(lines, "\n"))
}

func (c *Converter) report(n int, entity string) {
	if c.progress == nil {
		return
	}
	c.reported = true
	c.progress(fmt.Sprintf("Processed %s %s",
		humanize.Comma(int64(n)), entity))
}

func (c *Converter) endProgress() {
	if c.reported {
		fmt.Fprintln(os.Stderr)
		c.reported = false
	}
}

func progressReport(msg string) {
	fmt.Fprintf(os.Stderr, "\r%s", strings.Repeat(" ", 80))
	fmt.Fprintf(os.Stderr, "\r%s", msg)
}
