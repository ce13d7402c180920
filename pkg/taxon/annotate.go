package taxon

import "fmt"

// Annotate assigns depths to every node reachable from rootID. The root
// gets initialDepth, each child its parent depth plus one. Nodes that
// cannot be reached keep NoDepth and are left out of serialization.
//
// Annotate walks the tree breadth-first with an explicit queue, resets all
// depths first and is therefore idempotent. It returns the maximum depth.
func (t *Tree) Annotate(rootID string, initialDepth int) (int, error) {
	r, ok := t.index[rootID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRoot, rootID)
	}

	for i := range t.nodes {
		t.nodes[i].depth = NoDepth
	}

	order := make([]int, 0, len(t.nodes))
	order = append(order, r)
	t.nodes[r].depth = initialDepth
	maxDepth := initialDepth

	for i := 0; i < len(order); i++ {
		n := t.nodes[order[i]]
		d := n.depth + 1
		for _, c := range n.children {
			// a node can only be queued once, even if input was not a tree
			if t.nodes[c].depth != NoDepth {
				continue
			}
			t.nodes[c].depth = d
			maxDepth = max(maxDepth, d)
			order = append(order, c)
		}
	}

	t.top = r
	t.order = order
	t.maxDepth = maxDepth
	return maxDepth, nil
}
