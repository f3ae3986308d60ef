package hashgrid

import (
	"math"
	"slices"

	"github.com/hupe1980/hashgrid/cell"
	"github.com/hupe1980/hashgrid/geom"
	"github.com/hupe1980/hashgrid/internal/dda"
	"github.com/hupe1980/hashgrid/internal/dedup"
)

// Raycast returns the ids listed in every cell the segment from a to b
// crosses, each once, in the order the cells are crossed. A zero-length
// segment looks up the single cell containing a.
func (g *Grid[ID]) Raycast(a, b geom.Vec2) []ID {
	return g.RaycastInto(a, b, NewScratch[ID]())
}

// RaycastInto is Raycast using the buffers of s. The result aliases s.
func (g *Grid[ID]) RaycastInto(a, b geom.Vec2, s *Scratch[ID]) []ID {
	start := g.startTimer()

	s.keys = g.appendPath(s.keys[:0], a, b)
	ids := g.collect(s, s.keys)

	g.recordQuery(QueryRaycast, len(s.keys), len(ids), start)
	return ids
}

// RaycastDilated is Raycast for a ray with thickness: every crossed cell is
// widened to the square of radius ceil(inflateBy / CellSize) cells around
// it. A non-positive inflateBy behaves like Raycast.
func (g *Grid[ID]) RaycastDilated(a, b geom.Vec2, inflateBy float64) []ID {
	return g.RaycastDilatedInto(a, b, inflateBy, NewScratch[ID]())
}

// RaycastDilatedInto is RaycastDilated using the buffers of s.
func (g *Grid[ID]) RaycastDilatedInto(a, b geom.Vec2, inflateBy float64, s *Scratch[ID]) []ID {
	start := g.startTimer()

	rad := g.dilation(inflateBy)
	if rad == 0 {
		s.keys = g.appendPath(s.keys[:0], a, b)
	} else {
		s.path = g.appendPath(s.path[:0], a, b)
		s.keys = g.appendDilated(s.keys[:0], s.path, rad, s)
	}
	ids := g.collect(s, s.keys)

	g.recordQuery(QueryRaycastDilated, len(s.keys), len(ids), start)
	return ids
}

// RaycastEach calls fn for every candidate along the segment from a to b in
// order of the entry time t in [0, 1] of the first cell that lists it. Each
// id is reported once. Returning false stops the walk.
func (g *Grid[ID]) RaycastEach(a, b geom.Vec2, fn func(id ID, t float64) bool) {
	s := g.scratch.Get()
	defer g.scratch.Put(s)

	s.dedup.Reset(dedup.Set, 0)
	emit := func(k cell.Key, t float64) bool {
		for _, id := range g.cells[k] {
			var added bool
			if s.ids, added = s.dedup.Add(s.ids, id); added && !fn(id, t) {
				return false
			}
		}
		return true
	}

	if a == b {
		emit(g.CellKey(a), 0)
		return
	}
	w := dda.NewWalker(a, b, g.cellSize, g.invCell)
	for w.Next() {
		if !emit(w.Key(), w.T()) {
			return
		}
	}
}

// appendPath appends the keys of the cells crossed from a to b.
func (g *Grid[ID]) appendPath(dst []cell.Key, a, b geom.Vec2) []cell.Key {
	if a == b {
		return append(dst, g.CellKey(a))
	}
	w := dda.NewWalker(a, b, g.cellSize, g.invCell)
	dst = slices.Grow(dst, min(w.Len(), maxPrealloc))
	for w.Next() {
		dst = append(dst, w.Key())
	}
	return dst
}

// appendDilated appends the neighbourhood of radius rad around every path
// cell, skipping keys an earlier neighbourhood already produced. Within a
// neighbourhood keys are row-major; neighbourhoods follow path order.
func (g *Grid[ID]) appendDilated(dst, path []cell.Key, rad int32, s *Scratch[ID]) []cell.Key {
	visited := s.visitedKeys()
	sorted := false

	for _, pk := range path {
		x, y := pk.Unpack()
		nb := cell.Neighborhood(x, y, rad)

		if nb.Len() > len(g.cells) {
			if !sorted {
				s.occupied = g.OccupiedCells(s.occupied)
				sorted = true
			}
			for _, k := range s.occupied {
				if nb.Contains(k.X(), k.Y()) && visited.CheckedAdd(uint64(k)) {
					dst = append(dst, k)
				}
			}
			continue
		}
		for k := range nb.All() {
			if visited.CheckedAdd(uint64(k)) {
				dst = append(dst, k)
			}
		}
	}
	return dst
}

// dilation converts a world-space inflation into a cell radius.
func (g *Grid[ID]) dilation(inflateBy float64) int32 {
	if !(inflateBy > 0) {
		return 0
	}
	r := math.Ceil(inflateBy / g.cellSize)
	if r >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(r)
}
