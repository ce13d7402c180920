// Package dump parses records of NCBI taxonomy dump files
// (nodes.dmp, names.dmp).
//
// Each line is a record whose fields are separated by "\t|\t" and
// terminated by "\t|". Parsing removes every tab and splits the remainder
// on '|', so field values never carry the surrounding tabs.
package dump

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrMalformedRecord is returned for lines that do not carry the fields
// required for their file type.
var ErrMalformedRecord = errors.New("malformed record")

// ScientificName is the name class kept by the name index.
const ScientificName = "scientific name"

// NodeRecord is a parsed nodes.dmp line. Fields after the rank are ignored.
type NodeRecord struct {
	ID       string
	ParentID string
	Rank     string
}

// NameRecord is a parsed names.dmp line.
type NameRecord struct {
	ID         string
	Name       string
	UniqueName string
	Class      string
}

// Fields splits a dump line into its fields.
func Fields(line string) []string {
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	line = strings.ReplaceAll(line, "\t", "")
	return strings.Split(line, "|")
}

// ParseNode converts a nodes.dmp line to a NodeRecord.
func ParseNode(line string) (NodeRecord, error) {
	var res NodeRecord
	ff := Fields(line)
	if len(ff) < 3 {
		return res, fmt.Errorf("%w: expected at least 3 fields, got %d",
			ErrMalformedRecord, len(ff))
	}
	res = NodeRecord{ID: ff[0], ParentID: ff[1], Rank: ff[2]}
	if res.ID == "" || res.ParentID == "" {
		return res, fmt.Errorf("%w: empty taxon or parent id",
			ErrMalformedRecord)
	}
	return res, nil
}

// ParseName converts a names.dmp line to a NameRecord.
func ParseName(line string) (NameRecord, error) {
	var res NameRecord
	ff := Fields(line)
	if len(ff) < 4 {
		return res, fmt.Errorf("%w: expected at least 4 fields, got %d",
			ErrMalformedRecord, len(ff))
	}
	res = NameRecord{ID: ff[0], Name: ff[1], UniqueName: ff[2], Class: ff[3]}
	if res.ID == "" {
		return res, fmt.Errorf("%w: empty taxon id", ErrMalformedRecord)
	}
	return res, nil
}
