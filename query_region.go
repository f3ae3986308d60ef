package hashgrid

import (
	"slices"

	"github.com/hupe1980/hashgrid/cell"
	"github.com/hupe1980/hashgrid/geom"
	"github.com/hupe1980/hashgrid/internal/dedup"
)

// QueryAABB returns the ids listed in any cell box overlaps. A box ending
// exactly on a cell boundary does not reach into the next cell; inverted
// boxes match nothing.
func (g *Grid[ID]) QueryAABB(box geom.AABB) []ID {
	return g.QueryAABBInto(box, NewScratch[ID]())
}

// QueryAABBInto is QueryAABB using the buffers of s. The result aliases s.
func (g *Grid[ID]) QueryAABBInto(box geom.AABB, s *Scratch[ID]) []ID {
	return g.queryRegion(QueryRegion, box, s)
}

// QueryAABBOverlapping returns the ids whose registered box intersects box,
// edges included. Unlike QueryAABB, candidates are gathered over the closed
// cell range of box, so boxes touching its max edges are found.
func (g *Grid[ID]) QueryAABBOverlapping(box geom.AABB) []ID {
	start := g.startTimer()

	s := NewScratch[ID]()
	s.keys = g.rangeKeys(s.keys, g.registrationRange(box))
	ids := slices.DeleteFunc(g.collect(s, s.keys), func(id ID) bool {
		return !g.boxes[id].Intersects(box)
	})

	g.recordQuery(QueryRegion, len(s.keys), len(ids), start)
	return ids
}

// SweptAABBCandidates returns the candidates for a box of half extent half
// moving from center a to center b.
//
// The probe is the bounding box of the start and end poses. It contains the
// true swept volume, so no candidate is missed, but ids near the corners of
// a diagonal sweep may be reported without being on the path.
func (g *Grid[ID]) SweptAABBCandidates(a, b, half geom.Vec2) []ID {
	return g.SweptAABBCandidatesInto(a, b, half, NewScratch[ID]())
}

// SweptAABBCandidatesInto is SweptAABBCandidates using the buffers of s.
func (g *Grid[ID]) SweptAABBCandidatesInto(a, b, half geom.Vec2, s *Scratch[ID]) []ID {
	return g.queryRegion(QuerySweptAABB, sweptBounds(a, b, half), s)
}

// SweptCircleCandidates returns the candidates for a circle of radius r
// moving from a to b. The circle is treated as its bounding square.
func (g *Grid[ID]) SweptCircleCandidates(a, b geom.Vec2, r float64) []ID {
	return g.SweptCircleCandidatesInto(a, b, r, NewScratch[ID]())
}

// SweptCircleCandidatesInto is SweptCircleCandidates using the buffers of s.
func (g *Grid[ID]) SweptCircleCandidatesInto(a, b geom.Vec2, r float64, s *Scratch[ID]) []ID {
	return g.queryRegion(QuerySweptCircle, sweptBounds(a, b, geom.V(r, r)), s)
}

func sweptBounds(a, b, half geom.Vec2) geom.AABB {
	return geom.FromCenter(a, half).Union(geom.FromCenter(b, half))
}

func (g *Grid[ID]) queryRegion(kind QueryKind, box geom.AABB, s *Scratch[ID]) []ID {
	start := g.startTimer()

	s.keys = g.rangeKeys(s.keys, cell.RangeOf(box, g.cellSize, g.invCell))
	ids := g.collect(s, s.keys)

	g.recordQuery(kind, len(s.keys), len(ids), start)
	return ids
}

// collect replaces s.ids with the occupants of keys, each id once, in key
// order. The dedup strategy is chosen from the summed occupant counts.
func (g *Grid[ID]) collect(s *Scratch[ID], keys []cell.Key) []ID {
	estimate := 0
	for _, k := range keys {
		estimate += len(g.cells[k])
	}

	strategy := dedup.Choose(estimate, g.opts.dedupThreshold)
	s.dedup.Reset(strategy, min(estimate, maxPrealloc))

	ids := slices.Grow(s.ids[:0], min(estimate, maxPrealloc))
	if estimate > 0 {
		for _, k := range keys {
			if occ := g.cells[k]; len(occ) > 0 {
				ids = s.dedup.Append(ids, occ)
			}
		}
	}
	s.ids = ids
	return ids
}
