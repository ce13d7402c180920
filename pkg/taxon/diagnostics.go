package taxon

// Diagnostics accumulates non-fatal problems found during a conversion run.
// None of them stop the run, they are reported at completion.
type Diagnostics struct {
	// MalformedRecords counts skipped input lines.
	MalformedRecords int `yaml:"malformed_records"`

	// UnknownRanks counts records per rank missing from the rank table.
	UnknownRanks map[string]int `yaml:"unknown_ranks,omitempty"`

	// DuplicateParents counts records that tried to re-parent a taxon.
	// The first parent assignment is kept.
	DuplicateParents int `yaml:"duplicate_parents"`

	// DuplicateEdges counts repeated identical child/parent records.
	DuplicateEdges int `yaml:"duplicate_edges"`

	// SelfParents counts non-root records whose parent is the taxon itself.
	SelfParents int `yaml:"self_parents"`

	// UnresolvedNames counts retained taxa without a scientific name.
	UnresolvedNames int `yaml:"unresolved_names"`

	// DisconnectedNodes counts taxa unreachable from the root.
	DisconnectedNodes int `yaml:"disconnected_nodes"`
}

// NewDiagnostics creates empty Diagnostics.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{UnknownRanks: make(map[string]int)}
}

// AddUnknownRank registers one more record with an unknown rank.
func (d *Diagnostics) AddUnknownRank(rank string) {
	if d.UnknownRanks == nil {
		d.UnknownRanks = make(map[string]int)
	}
	d.UnknownRanks[rank]++
}

// UnknownRankCount returns the number of records with unknown ranks.
func (d *Diagnostics) UnknownRankCount() int {
	var res int
	for _, v := range d.UnknownRanks {
		res += v
	}
	return res
}

// Total returns the sum of all counters.
func (d *Diagnostics) Total() int {
	return d.MalformedRecords + d.UnknownRankCount() + d.DuplicateParents +
		d.DuplicateEdges + d.SelfParents + d.UnresolvedNames +
		d.DisconnectedNodes
}
