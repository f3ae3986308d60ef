package hashgrid

import (
	"iter"

	"github.com/hupe1980/hashgrid/cell"
	"github.com/hupe1980/hashgrid/geom"
	"github.com/hupe1980/hashgrid/internal/dda"
)

// TraverseCells calls visit for every cell the segment from a to b crosses,
// in order from a to b. Returning false stops the walk. A zero-length
// segment visits the cell containing a.
func (g *Grid[ID]) TraverseCells(a, b geom.Vec2, visit func(x, y int32) bool) {
	dda.Traverse(a, b, g.cellSize, g.invCell, visit)
}

// TraverseCellsWithT is TraverseCells reporting the parametric time in
// [0, 1] at which the segment enters each cell.
func (g *Grid[ID]) TraverseCellsWithT(a, b geom.Vec2, visit func(x, y int32, t float64) bool) {
	dda.TraverseWithT(a, b, g.cellSize, g.invCell, visit)
}

// CellsAlong returns an iterator over the keys and entry times of the cells
// the segment from a to b crosses.
//
//	for k, t := range g.CellsAlong(a, b) {
//	    if hit(k) {
//	        fmt.Println("first hit at", t)
//	        break
//	    }
//	}
func (g *Grid[ID]) CellsAlong(a, b geom.Vec2) iter.Seq2[cell.Key, float64] {
	return func(yield func(cell.Key, float64) bool) {
		w := dda.NewWalker(a, b, g.cellSize, g.invCell)
		for w.Next() {
			if !yield(w.Key(), w.T()) {
				return
			}
		}
	}
}
