// Package taxon builds an in-memory taxonomy tree from nodes.dmp records
// and serializes it to MEGAN tree (Newick) and map files.
//
// The tree is an arena: nodes live in a slice owned by Tree and refer to
// each other by slice index. Outside of the package nodes are addressed by
// taxon id only. All traversals use explicit work lists, so neither depth
// nor width of a taxonomy can exhaust the goroutine stack.
package taxon

import (
	"errors"
	"math"
)

const (
	// NoDepth marks nodes that were not reached by Annotate.
	NoDepth = -1

	// LevelUnset marks placeholder nodes that never appeared as a child
	// in the edge stream, so their rank is unknown.
	LevelUnset = -1

	// NoLimit disables depth truncation.
	NoLimit = math.MaxInt

	noNode = -1
)

var (
	// ErrUnknownRoot is returned when the requested root is not in the tree.
	ErrUnknownRoot = errors.New("root taxon is not in the tree")

	// ErrNotAnnotated is returned by serializers called before Annotate.
	ErrNotAnnotated = errors.New("tree depth is not annotated")
)

type node struct {
	id       string
	parent   int
	children []int
	level    int
	depth    int
}

// Node is a read-only view of a taxon in the tree.
type Node struct {
	ID string
	// Parent is empty for the root and for nodes without an accepted parent.
	Parent   string
	Children []string
	// Level is the MEGAN level of the taxon rank, or LevelUnset.
	Level int
	// Depth is the distance from the annotated root plus the initial
	// depth, or NoDepth.
	Depth int
}

// Tree is a taxonomy hierarchy keyed by taxon id.
type Tree struct {
	nodes []node
	index map[string]int

	// root is the node declared by the first record of the edge stream.
	root int

	// top is the root used by the last Annotate call, order is the
	// breadth-first order of nodes reachable from it.
	top      int
	order    []int
	maxDepth int
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		index: make(map[string]int),
		root:  noNode,
		top:   noNode,
	}
}

// Len returns the number of nodes, including placeholders.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the id of the declared root, or an empty string.
func (t *Tree) Root() string {
	if t.root == noNode {
		return ""
	}
	return t.nodes[t.root].id
}

// Has checks if a taxon id is in the tree.
func (t *Tree) Has(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Node returns a view of the taxon with the given id.
func (t *Tree) Node(id string) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	n := t.nodes[i]
	res := Node{
		ID:       n.id,
		Level:    n.level,
		Depth:    n.depth,
		Children: t.ids(n.children),
	}
	if n.parent != noNode {
		res.Parent = t.nodes[n.parent].id
	}
	return res, true
}

// Children returns ids of the children of a taxon in insertion order.
func (t *Tree) Children(id string) []string {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	return t.ids(t.nodes[i].children)
}

// MaxDepth returns the maximum depth found by the last Annotate call.
func (t *Tree) MaxDepth() int {
	return t.maxDepth
}

// Retained returns ids of the nodes kept by serializers for the given
// maximum depth, in breadth-first order.
func (t *Tree) Retained(maxDepth int) []string {
	var res []string
	for _, i := range t.order {
		if t.retained(i, maxDepth) {
			res = append(res, t.nodes[i].id)
		}
	}
	return res
}

// Unreachable returns the number of nodes the last Annotate call could not
// reach from its root.
func (t *Tree) Unreachable() int {
	return len(t.nodes) - len(t.order)
}

// retained applies the depth filter shared by Newick and map writers.
// The annotated root is always kept, even if it is deeper than maxDepth.
func (t *Tree) retained(i, maxDepth int) bool {
	d := t.nodes[i].depth
	if d == NoDepth {
		return false
	}
	return d <= maxDepth || i == t.top
}

// resolve returns the index of a node, creating a placeholder when the id
// is seen for the first time.
func (t *Tree) resolve(id string) (int, bool) {
	if i, ok := t.index[id]; ok {
		return i, false
	}
	i := len(t.nodes)
	t.nodes = append(t.nodes, node{
		id:     id,
		parent: noNode,
		level:  LevelUnset,
		depth:  NoDepth,
	})
	t.index[id] = i
	return i, true
}

func (t *Tree) ids(idxs []int) []string {
	if len(idxs) == 0 {
		return nil
	}
	res := make([]string, len(idxs))
	for i, v := range idxs {
		res[i] = t.nodes[v].id
	}
	return res
}
