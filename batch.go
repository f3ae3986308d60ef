package hashgrid

import (
	"context"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/hashgrid/geom"
)

// BatchOptions configures parallel batch queries.
type BatchOptions struct {
	// Workers bounds the number of goroutines. Zero uses GOMAXPROCS.
	Workers int
	// ChunkSize is the number of queries a worker runs per task. Zero
	// splits the batch into about four tasks per worker.
	ChunkSize int
}

// Sweep describes a box of half extent Half moving from center From to
// center To.
type Sweep struct {
	From, To, Half geom.Vec2
}

// BatchRaycast runs Raycast for every segment in parallel. results[i] holds
// the candidates of segs[i] and does not alias any scratch.
//
// The grid must not be mutated while the batch runs. If ctx is canceled the
// error wraps ctx.Err() in an *ErrBatch naming the lowest index that was not
// run.
func (g *Grid[ID]) BatchRaycast(ctx context.Context, segs []geom.Segment, opts BatchOptions) ([][]ID, error) {
	return g.runBatch(ctx, QueryRaycast, len(segs), opts, func(i int, s *Scratch[ID]) []ID {
		return g.RaycastInto(segs[i].A, segs[i].B, s)
	})
}

// BatchSweptAABB runs SweptAABBCandidates for every sweep in parallel.
func (g *Grid[ID]) BatchSweptAABB(ctx context.Context, sweeps []Sweep, opts BatchOptions) ([][]ID, error) {
	return g.runBatch(ctx, QuerySweptAABB, len(sweeps), opts, func(i int, s *Scratch[ID]) []ID {
		sw := sweeps[i]
		return g.SweptAABBCandidatesInto(sw.From, sw.To, sw.Half, s)
	})
}

func (g *Grid[ID]) runBatch(ctx context.Context, kind QueryKind, n int, opts BatchOptions, query func(i int, s *Scratch[ID]) []ID) ([][]ID, error) {
	start := time.Now()
	results := make([][]ID, n)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = max(1, (n+workers*4-1)/(workers*4))
	}

	// firstUnrun holds the lowest index skipped after cancellation, or n.
	var firstUnrun atomic.Int64
	firstUnrun.Store(int64(n))
	skip := func(i int) {
		for {
			cur := firstUnrun.Load()
			if int64(i) >= cur || firstUnrun.CompareAndSwap(cur, int64(i)) {
				return
			}
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	scheduled := 0
	for lo := 0; lo < n; lo += chunk {
		if egCtx.Err() != nil {
			break
		}
		hi := min(lo+chunk, n)
		scheduled = hi
		eg.Go(func() error {
			s := g.scratch.Get()
			defer g.scratch.Put(s)

			for i := lo; i < hi; i++ {
				if err := egCtx.Err(); err != nil {
					skip(i)
					return err
				}
				results[i] = slices.Clone(query(i, s))
			}
			return nil
		})
	}
	if scheduled < n {
		skip(scheduled)
	}

	err := eg.Wait()
	if i := int(firstUnrun.Load()); i < n {
		cause := ctx.Err()
		if cause == nil {
			cause = err
		}
		err = &ErrBatch{Index: i, cause: cause}
	}

	elapsed := time.Since(start)
	if g.metrics != nil {
		g.metrics.RecordBatch(kind, n, elapsed, err)
	}
	g.logger.LogBatch(ctx, kind, n, elapsed, err)

	if err != nil {
		return nil, err
	}
	return results, nil
}
