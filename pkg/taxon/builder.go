package taxon

import (
	"fmt"

	"github.com/gnames/megantax/pkg/dump"
	"github.com/gnames/megantax/pkg/rank"
)

// Builder populates a Tree from a stream of child/parent/rank records.
// Records may arrive in any order: a parent or child referenced for the
// first time becomes a placeholder node that later records fill in.
//
// The first record declares the root. Its parent field is ignored, which
// accommodates the nodes.dmp convention of the root being its own parent.
type Builder struct {
	tree *Tree
	diag *Diagnostics

	progressStep int
	progress     func(nodes int)
}

// Option configures a Builder.
type Option func(*Builder)

// OptProgress calls fn every time step more nodes have been created.
func OptProgress(step int, fn func(nodes int)) Option {
	return func(b *Builder) {
		if step > 0 && fn != nil {
			b.progressStep = step
			b.progress = fn
		}
	}
}

// OptDiagnostics makes the Builder count problems into d.
func OptDiagnostics(d *Diagnostics) Option {
	return func(b *Builder) {
		if d != nil {
			b.diag = d
		}
	}
}

// NewBuilder creates a Builder with an empty tree.
func NewBuilder(opts ...Option) *Builder {
	res := &Builder{
		tree: NewTree(),
		diag: NewDiagnostics(),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Tree returns the tree built so far. The caller owns it once the edge
// stream is exhausted.
func (b *Builder) Tree() *Tree {
	return b.tree
}

// Diagnostics returns counters of problems met during building.
func (b *Builder) Diagnostics() *Diagnostics {
	return b.diag
}

// AddRecord adds a parsed nodes.dmp record.
func (b *Builder) AddRecord(rec dump.NodeRecord) error {
	return b.Add(rec.ID, rec.ParentID, rec.Rank)
}

// Add links childID to parentID and assigns the rank level to childID.
//
// Malformed input is handled by policy rather than failure:
//   - re-parenting keeps the first parent (DuplicateParents);
//   - repeating a known edge is a no-op (DuplicateEdges), this includes
//     a repeated root record such as "1 | 1";
//   - a non-root taxon that is its own parent is ignored (SelfParents);
//   - the root never gets a parent (DuplicateParents).
//
// Only records with empty ids return an error.
func (b *Builder) Add(childID, parentID, rankName string) error {
	if childID == "" || parentID == "" {
		return fmt.Errorf("%w: empty taxon or parent id",
			dump.ErrMalformedRecord)
	}

	t := b.tree
	if t.root == noNode {
		t.root = b.resolve(childID)
		b.setLevel(t.root, rankName)
		return nil
	}

	c := b.resolve(childID)
	if childID == parentID {
		if c == t.root {
			b.diag.DuplicateEdges++
		} else {
			b.diag.SelfParents++
		}
		return nil
	}
	p := b.resolve(parentID)

	switch {
	case c == t.root:
		b.diag.DuplicateParents++
		return nil
	case t.nodes[c].parent == p:
		b.diag.DuplicateEdges++
		return nil
	case t.nodes[c].parent != noNode:
		b.diag.DuplicateParents++
		return nil
	}

	t.nodes[c].parent = p
	t.nodes[p].children = append(t.nodes[p].children, c)
	b.setLevel(c, rankName)
	return nil
}

func (b *Builder) resolve(id string) int {
	i, created := b.tree.resolve(id)
	if created && b.progress != nil && len(b.tree.nodes)%b.progressStep == 0 {
		b.progress(len(b.tree.nodes))
	}
	return i
}

func (b *Builder) setLevel(i int, rankName string) {
	lvl, ok := rank.Level(rankName)
	if !ok {
		b.diag.AddUnknownRank(rankName)
	}
	b.tree.nodes[i].level = lvl
}
