// Package dda walks the grid cells crossed by a line segment using an
// incremental Amanatides–Woo traversal.
//
// The Walker is a zero-allocation iterator; Traverse and TraverseWithT wrap
// it for callback-style callers. All three stop at the cell containing the
// segment end, so a walk from a to b visits exactly
// |Δcx| + |Δcy| + 1 cells, each once, in order of increasing entry time.
package dda

import (
	"math"

	"github.com/hupe1980/hashgrid/cell"
	"github.com/hupe1980/hashgrid/geom"
)

// Walker iterates the cells of one segment. The zero value is exhausted.
type Walker struct {
	x, y   int32
	tx, ty int32
	sx, sy int32

	tMaxX, tMaxY     float64
	tDeltaX, tDeltaY float64
	t                float64

	n       int
	started bool
	done    bool
}

// NewWalker prepares a walk from a to b over cells of the given size;
// inv must be 1/size.
func NewWalker(a, b geom.Vec2, size, inv float64) Walker {
	w := Walker{
		x:  cell.Coord(a.X, size, inv),
		y:  cell.Coord(a.Y, size, inv),
		tx: cell.Coord(b.X, size, inv),
		ty: cell.Coord(b.Y, size, inv),
	}
	w.sx, w.tMaxX, w.tDeltaX = axis(a.X, b.X-a.X, w.x, size)
	w.sy, w.tMaxY, w.tDeltaY = axis(a.Y, b.Y-a.Y, w.y, size)
	w.n = int(abs64(int64(w.tx)-int64(w.x)) + abs64(int64(w.ty)-int64(w.y)) + 1)
	return w
}

// axis returns the step direction, the parametric distance to the first
// boundary and the parametric width of one cell along one axis.
func axis(origin, d float64, c int32, size float64) (int32, float64, float64) {
	switch {
	case d > 0:
		boundary := (float64(c) + 1) * size
		return 1, (boundary - origin) / d, size / d
	case d < 0:
		boundary := float64(c) * size
		return -1, (boundary - origin) / d, -size / d
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

// Len returns the total number of cells the walk visits.
func (w *Walker) Len() int { return w.n }

// Next advances to the next cell and reports whether one is available.
// The first call yields the cell containing the segment start.
func (w *Walker) Next() bool {
	if w.done || w.n == 0 {
		return false
	}
	if !w.started {
		w.started = true
		return true
	}
	if w.x == w.tx && w.y == w.ty {
		w.done = true
		return false
	}

	// An axis that has reached its target column/row never steps again,
	// which keeps rounding in tMax from overshooting the end cell.
	if w.x != w.tx && (w.y == w.ty || w.tMaxX <= w.tMaxY) {
		if w.sx == 0 {
			w.done = true
			return false
		}
		w.t = w.tMaxX
		w.x += w.sx
		w.tMaxX += w.tDeltaX
	} else {
		if w.sy == 0 {
			w.done = true
			return false
		}
		w.t = w.tMaxY
		w.y += w.sy
		w.tMaxY += w.tDeltaY
	}
	return true
}

// Cell returns the current cell coordinates.
func (w *Walker) Cell() (x, y int32) { return w.x, w.y }

// Key returns the current cell as a packed key.
func (w *Walker) Key() cell.Key { return cell.Pack(w.x, w.y) }

// T returns the parametric time in [0, 1] at which the segment enters the
// current cell.
func (w *Walker) T() float64 {
	switch {
	case w.t < 0:
		return 0
	case w.t > 1:
		return 1
	default:
		return w.t
	}
}

// Traverse calls visit for every cell from a to b. Returning false stops
// the walk.
func Traverse(a, b geom.Vec2, size, inv float64, visit func(x, y int32) bool) {
	w := NewWalker(a, b, size, inv)
	for w.Next() {
		if !visit(w.x, w.y) {
			return
		}
	}
}

// TraverseWithT is Traverse with the entry time of each cell.
func TraverseWithT(a, b geom.Vec2, size, inv float64, visit func(x, y int32, t float64) bool) {
	w := NewWalker(a, b, size, inv)
	for w.Next() {
		if !visit(w.x, w.y, w.T()) {
			return
		}
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
