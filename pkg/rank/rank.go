// Package rank maps NCBI taxonomic ranks to MEGAN classification levels.
//
// The table is fixed: MEGAN and downstream classifiers expect exactly these
// codes, so ranks are never guessed or normalized.
package rank

import (
	"maps"
	"slices"
)

// Unknown is the level returned for ranks missing from the table.
// It coincides with the level of "no rank".
const Unknown = 0

var levels = map[string]int{
	"no rank": 0,

	"superkingdom": 1,
	"kingdom":      1,
	"subkingdom":   1,

	"superphylum": 2,
	"phylum":      2,
	"subphylum":   2,

	"superclass": 3,
	"class":      3,
	"subclass":   3,
	"infraclass": 3,
	"cohort":     3,
	"subcohort":  3,

	"superorder": 4,
	"order":      4,
	"suborder":   4,
	"infraorder": 4,
	"parvorder":  4,

	"superfamily": 5,
	"family":      5,
	"subfamily":   5,
	"tribe":       5,
	"subtribe":    5,

	"genus":      98,
	"subgenus":   98,
	"series":     98,
	"section":    98,
	"subsection": 98,

	"species group": 99,
	"species":       99,

	"species subgroup": 100,
	"subspecies":       100,

	"varietas":        101,
	"forma":           101,
	"forma specialis": 101,
	"pathogroup":      101,
	"morph":           101,
	"biotype":         101,
	"genotype":        101,
	"serogroup":       101,
	"clade":           101,
	"serotype":        101,
	"isolate":         101,
	"strain":          101,
}

// Level returns the MEGAN level for a rank name. The boolean is false when
// the rank is not in the table, in which case the level is Unknown.
func Level(rank string) (int, bool) {
	lvl, ok := levels[rank]
	if !ok {
		return Unknown, false
	}
	return lvl, true
}

// Ranks returns all known rank names sorted alphabetically.
func Ranks() []string {
	return slices.Sorted(maps.Keys(levels))
}
