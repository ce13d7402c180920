// Package names keeps scientific names of taxa keyed by taxon id.
package names

import (
	"maps"
	"slices"

	"github.com/gnames/megantax/pkg/dump"
)

// Index maps taxon ids to their scientific names.
// When names.dmp lists several scientific names for one id, the last one
// wins.
type Index struct {
	names map[string]string
}

// New creates an empty Index.
func New() *Index {
	return &Index{names: make(map[string]string)}
}

// Add registers a names.dmp record. Records of classes other than
// "scientific name" are ignored. Returns true if the record was kept.
func (idx *Index) Add(rec dump.NameRecord) bool {
	if rec.Class != dump.ScientificName {
		return false
	}
	idx.names[rec.ID] = rec.Name
	return true
}

// Set assigns a name to an id unconditionally.
func (idx *Index) Set(id, name string) {
	idx.names[id] = name
}

// Name returns the scientific name of a taxon.
func (idx *Index) Name(id string) (string, bool) {
	res, ok := idx.names[id]
	return res, ok
}

// Len returns the number of indexed taxa.
func (idx *Index) Len() int {
	return len(idx.names)
}

// IDs returns indexed taxon ids in sorted order.
func (idx *Index) IDs() []string {
	return slices.Sorted(maps.Keys(idx.names))
}
