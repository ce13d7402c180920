// Package parserpool provides a pool of gnparser instances for concurrent
// name parsing. It is used to turn NCBI scientific names into canonical
// forms. This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"fmt"
	"runtime"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides a pool of gnparser instances for concurrent parsing.
// It maintains separate pools for botanical and zoological nomenclatural codes.
type Pool interface {
	// Parse parses a scientific name string using the specified nomenclatural code.
	// It retrieves a parser from the appropriate pool, parses the name, and returns
	// the parser to the pool. This method is safe for concurrent use.
	Parse(nameString string, code nomcode.Code) (parsed.Parsed, error)

	// Canonical returns the simple canonical form of a name. Names that
	// cannot be parsed, and virus names, are returned unchanged with
	// false.
	Canonical(nameString string, code nomcode.Code) (string, bool)

	// Close shuts down the parser pools and releases resources.
	// After calling Close, the pool should not be used.
	Close()
}

// PoolImpl implements the Pool interface using gnparser.NewPool.
type PoolImpl struct {
	botanicalCh  chan gnparser.GNparser
	zoologicalCh chan gnparser.GNparser
	poolSize     int
}

// NewPool creates a new parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
// Total parsers created = 2 * poolSize (one pool per nomenclatural code).
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	botanicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
	)
	botanicalCh := gnparser.NewPool(botanicalCfg, poolSize)

	zoologicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Zoological),
	)
	zoologicalCh := gnparser.NewPool(zoologicalCfg, poolSize)

	return &PoolImpl{
		botanicalCh:  botanicalCh,
		zoologicalCh: zoologicalCh,
		poolSize:     poolSize,
	}
}

// Parse parses a scientific name string using the specified nomenclatural code.
func (p *PoolImpl) Parse(nameString string, code nomcode.Code) (parsed.Parsed, error) {
	var ch chan gnparser.GNparser
	switch code {
	case nomcode.Botanical:
		ch = p.botanicalCh
	case nomcode.Zoological:
		ch = p.zoologicalCh
	default:
		return parsed.Parsed{}, fmt.Errorf("unsupported nomenclatural code: %v", code)
	}

	// Get a parser from the pool (blocks if all parsers are busy)
	parser := <-ch
	result := parser.ParseName(nameString)
	ch <- parser

	return result, nil
}

// Canonical returns the simple canonical form of nameString.
func (p *PoolImpl) Canonical(nameString string, code nomcode.Code) (string, bool) {
	res, err := p.Parse(nameString, code)
	if err != nil || !res.Parsed || res.Virus || res.Canonical == nil {
		return nameString, false
	}
	if res.Canonical.Simple == "" {
		return nameString, false
	}
	return res.Canonical.Simple, true
}

// Close shuts down both parser pools and releases resources.
// It closes the channels and drains any remaining parsers.
func (p *PoolImpl) Close() {
	if p.botanicalCh != nil {
		close(p.botanicalCh)
		for range p.botanicalCh {
		}
	}

	if p.zoologicalCh != nil {
		close(p.zoologicalCh)
		for range p.zoologicalCh {
		}
	}
}
