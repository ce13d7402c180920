package rank_test

import (
	"testing"

	"github.com/gnames/megantax/pkg/rank"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		rank  string
		level int
	}{
		{"no rank", 0},
		{"superkingdom", 1},
		{"kingdom", 1},
		{"subkingdom", 1},
		{"superphylum", 2},
		{"phylum", 2},
		{"subphylum", 2},
		{"superclass", 3},
		{"class", 3},
		{"subclass", 3},
		{"infraclass", 3},
		{"cohort", 3},
		{"subcohort", 3},
		{"superorder", 4},
		{"order", 4},
		{"suborder", 4},
		{"infraorder", 4},
		{"parvorder", 4},
		{"superfamily", 5},
		{"family", 5},
		{"subfamily", 5},
		{"tribe", 5},
		{"subtribe", 5},
		{"genus", 98},
		{"subgenus", 98},
		{"series", 98},
		{"section", 98},
		{"subsection", 98},
		{"species group", 99},
		{"species", 99},
		{"species subgroup", 100},
		{"subspecies", 100},
		{"varietas", 101},
		{"forma", 101},
		{"forma specialis", 101},
		{"pathogroup", 101},
		{"morph", 101},
		{"biotype", 101},
		{"genotype", 101},
		{"serogroup", 101},
		{"clade", 101},
		{"serotype", 101},
		{"isolate", 101},
		{"strain", 101},
	}

	assert.Len(t, rank.Ranks(), len(tests), "every rank is covered")

	for _, tt := range tests {
		lvl, ok := rank.Level(tt.rank)
		assert.True(t, ok, tt.rank)
		assert.Equal(t, tt.level, lvl, tt.rank)
	}
}

func TestLevelUnknown(t *testing.T) {
	for _, r := range []string{"made-up-rank", "", "Species", " genus"} {
		lvl, ok := rank.Level(r)
		assert.False(t, ok, r)
		assert.Equal(t, rank.Unknown, lvl, r)
	}
}

func TestRanksSorted(t *testing.T) {
	rr := rank.Ranks()
	assert.IsNonDecreasing(t, rr)
	assert.Contains(t, rr, "no rank")
}
