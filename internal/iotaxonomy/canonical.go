package iotaxonomy

import (
	"context"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/megantax/pkg/names"
	"github.com/gnames/megantax/pkg/parserpool"
	"golang.org/x/sync/errgroup"
)

type canonical struct {
	id, name string
}

// canonicalize replaces names in the index by their simple canonical
// forms. Parsing runs on JobsNumber workers, the index is updated by the
// calling goroutine after all workers finish.
func (c *Converter) canonicalize(
	ctx context.Context,
	idx *names.Index,
) (int, error) {
	jobs := max(c.cfg.JobsNumber, 1)
	pool := parserpool.NewPool(jobs)
	defer pool.Close()

	ids := idx.IDs()
	chIn := make(chan canonical)
	chOut := make(chan canonical)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, id := range ids {
			name, _ := idx.Name(id)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case chIn <- canonical{id: id, name: name}:
			}
		}
		return nil
	})

	workers, wctx := errgroup.WithContext(ctx)
	for range jobs {
		workers.Go(func() error {
			for in := range chIn {
				can, ok := pool.Canonical(in.name, nomcode.Botanical)
				if !ok || can == in.name {
					continue
				}
				select {
				case <-wctx.Done():
					return wctx.Err()
				case chOut <- canonical{id: in.id, name: can}:
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(chOut)
		return workers.Wait()
	})

	var changed []canonical
	for out := range chOut {
		changed = append(changed, out)
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, v := range changed {
		idx.Set(v.id, v.name)
	}
	return len(changed), nil
}
