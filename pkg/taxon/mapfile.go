package taxon

import (
	"bufio"
	"io"
	"strconv"

	"github.com/gnames/megantax/pkg/rank"
)

// UnknownName substitutes names of taxa missing from the name index.
const UnknownName = "unknown"

// NameLookup provides scientific names of taxa.
type NameLookup interface {
	Name(id string) (string, bool)
}

// MapOptions controls map file output.
type MapOptions struct {
	// MaxDepth must match the value used for the Newick tree, so both
	// files describe the same set of taxa.
	MaxDepth int

	// Unknown replaces missing names, UnknownName if empty.
	Unknown string

	// OnUnresolved, if set, is called for every taxon without a name.
	OnUnresolved func(id string)
}

// MapResult summarizes a map file.
type MapResult struct {
	// Records is the number of lines written. It equals the node count of
	// the Newick tree serialized with the same MaxDepth.
	Records int

	// Unresolved is the number of taxa written with the Unknown name.
	Unresolved int
}

// WriteMap writes one tab-separated line per retained taxon:
//
//	taxon_id <TAB> name <TAB> -1 <TAB> level
//
// Taxa follow the breadth-first order of the annotated tree.
func (t *Tree) WriteMap(
	w io.Writer,
	names NameLookup,
	opts MapOptions,
) (MapResult, error) {
	var res MapResult
	if t.top == noNode {
		return res, ErrNotAnnotated
	}
	unknown := opts.Unknown
	if unknown == "" {
		unknown = UnknownName
	}

	bw := bufio.NewWriterSize(w, 1<<20)
	for _, i := range t.order {
		if !t.retained(i, opts.MaxDepth) {
			continue
		}
		n := t.nodes[i]

		name, ok := names.Name(n.id)
		if !ok {
			name = unknown
			res.Unresolved++
			if opts.OnUnresolved != nil {
				opts.OnUnresolved(n.id)
			}
		}

		level := n.level
		if level == LevelUnset {
			level = rank.Unknown
		}

		bw.WriteString(n.id)
		bw.WriteByte('\t')
		bw.WriteString(name)
		bw.WriteString("\t-1\t")
		bw.WriteString(strconv.Itoa(level))
		bw.WriteByte('\n')
		res.Records++
	}

	if err := bw.Flush(); err != nil {
		return res, err
	}
	return res, nil
}
