package hashgrid

import (
	"slices"

	"github.com/hupe1980/hashgrid/geom"
)

// PointCandidates returns the ids listed in the cell containing p. Ids are
// not checked against their boxes.
func (g *Grid[ID]) PointCandidates(p geom.Vec2) []ID {
	return g.PointCandidatesInto(p, nil)
}

// PointCandidatesInto is PointCandidates writing into dst. dst is cleared
// first and grown to the cell's occupant count.
func (g *Grid[ID]) PointCandidatesInto(p geom.Vec2, dst []ID) []ID {
	start := g.startTimer()

	occ := g.cells[g.CellKey(p)]
	dst = slices.Grow(dst[:0], len(occ))
	dst = append(dst, occ...)

	g.recordQuery(QueryPoint, 1, len(dst), start)
	return dst
}

// PointContaining returns the ids whose registered box contains p. Box
// edges count as inside.
func (g *Grid[ID]) PointContaining(p geom.Vec2) []ID {
	return g.PointContainingInto(p, nil)
}

// PointContainingInto is PointContaining writing into dst.
func (g *Grid[ID]) PointContainingInto(p geom.Vec2, dst []ID) []ID {
	start := g.startTimer()

	occ := g.cells[g.CellKey(p)]
	dst = slices.Grow(dst[:0], len(occ))
	for _, id := range occ {
		if g.boxes[id].ContainsPoint(p) {
			dst = append(dst, id)
		}
	}

	g.recordQuery(QueryPointContaining, 1, len(dst), start)
	return dst
}
