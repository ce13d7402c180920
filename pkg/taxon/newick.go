package taxon

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// CollapseMode determines how a node cut at the maximum depth is rendered.
type CollapseMode int

const (
	// CollapseLeaf renders the cut node as a plain leaf.
	CollapseLeaf CollapseMode = iota

	// CollapseCount renders the cut node as a leaf followed by a Newick
	// comment with the number of hidden descendants, e.g. "543[1200]".
	CollapseCount
)

// NewickOptions controls Newick serialization.
type NewickOptions struct {
	// MaxDepth is the deepest level kept in the output. Nodes at MaxDepth
	// become leaves. Use NoLimit to keep the whole tree.
	MaxDepth int

	// Collapse selects rendering of nodes at MaxDepth that have children.
	Collapse CollapseMode
}

type stringWriter interface {
	io.StringWriter
	io.ByteWriter
}

// frame is an element of the serializer work stack. A frame either opens
// a node or closes the parenthesis of an internal node.
type frame struct {
	idx   int
	close bool
	comma bool
}

// Newick serializes the annotated tree in Newick format, terminated by
// ';'. Labels are taxon ids. It returns the string and the number of nodes
// in it.
func (t *Tree) Newick(opts NewickOptions) (string, int, error) {
	if t.top == noNode {
		return "", 0, ErrNotAnnotated
	}
	var sb strings.Builder
	// ids of NCBI taxa average about 7 characters plus a separator
	sb.Grow(len(t.order) * 8)
	count := t.writeNewick(&sb, opts)
	return sb.String(), count, nil
}

// WriteNewick streams the Newick representation of the annotated tree to
// w, followed by a new line. It returns the number of nodes written.
func (t *Tree) WriteNewick(w io.Writer, opts NewickOptions) (int, error) {
	if t.top == noNode {
		return 0, ErrNotAnnotated
	}
	bw := bufio.NewWriterSize(w, 1<<20)
	count := t.writeNewick(bw, opts)
	bw.WriteByte('\n')
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return count, nil
}

// writeNewick emits children of a node in their insertion order by
// pushing them onto the stack in reverse, above a closing frame of the
// node itself. The stack never holds more than depth * branching frames.
func (t *Tree) writeNewick(w stringWriter, opts NewickOptions) int {
	var sizes []int
	if opts.Collapse == CollapseCount {
		sizes = t.subtreeSizes()
	}

	var count int
	stack := []frame{{idx: t.top}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[f.idx]

		if f.close {
			w.WriteByte(')')
			w.WriteString(newickLabel(n.id))
			continue
		}

		count++
		if f.comma {
			w.WriteByte(',')
		}

		first := t.firstTreeChild(f.idx)
		if first >= 0 && n.depth < opts.MaxDepth {
			w.WriteByte('(')
			stack = append(stack, frame{idx: f.idx, close: true})
			for i := len(n.children) - 1; i >= first; i-- {
				c := n.children[i]
				if !t.isTreeChild(f.idx, c) {
					continue
				}
				stack = append(stack, frame{idx: c, comma: i > first})
			}
			continue
		}

		w.WriteString(newickLabel(n.id))
		if sizes != nil && first >= 0 {
			w.WriteByte('[')
			w.WriteString(strconv.Itoa(sizes[f.idx] - 1))
			w.WriteByte(']')
		}
	}
	w.WriteByte(';')
	return count
}

// subtreeSizes returns the number of nodes in the subtree of every
// reachable node, computed bottom-up over the breadth-first order.
func (t *Tree) subtreeSizes() []int {
	res := make([]int, len(t.nodes))
	for i := len(t.order) - 1; i >= 0; i-- {
		idx := t.order[i]
		res[idx]++
		if p := t.nodes[idx].parent; p != noNode && t.isTreeChild(p, idx) {
			res[p] += res[idx]
		}
	}
	return res
}

// isTreeChild reports whether c hangs under p in the annotated tree.
// Edges that close a cycle back to the annotated root, or lead to nodes
// reached by another path, are not tree edges.
func (t *Tree) isTreeChild(p, c int) bool {
	return c != t.top && t.nodes[p].depth != NoDepth &&
		t.nodes[c].depth == t.nodes[p].depth+1 && t.nodes[c].parent == p
}

// firstTreeChild returns the position of the first tree child of i in its
// children list, or -1 for a leaf of the annotated tree.
func (t *Tree) firstTreeChild(i int) int {
	for j, c := range t.nodes[i].children {
		if t.isTreeChild(i, c) {
			return j
		}
	}
	return -1
}

// newickLabel quotes labels that contain Newick punctuation or spaces.
func newickLabel(s string) string {
	if !strings.ContainsAny(s, " \t()[]':;,") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
