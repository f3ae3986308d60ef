package hashgrid

import (
	"iter"
	"math"
	"slices"
	"time"

	"github.com/hupe1980/hashgrid/cell"
	"github.com/hupe1980/hashgrid/geom"
	"github.com/hupe1980/hashgrid/internal/pool"
)

// maxPrealloc caps capacity reserved up front from an estimate.
const maxPrealloc = 1 << 12

// maxPooledIDs is the largest scratch id buffer returned to the pool.
const maxPooledIDs = 1 << 16

// Grid is a uniform spatial hash grid over ids of type ID.
//
// Each registered id owns one AABB and is listed in every cell that box
// touches. Queries gather the ids listed in the cells a probe touches and
// return them once each, in the order the cells were visited and, within a
// cell, in insertion order.
//
// A Grid is not safe for concurrent mutation. See the package documentation.
type Grid[ID comparable] struct {
	cellSize float64
	invCell  float64

	cells map[cell.Key][]ID
	boxes map[ID]geom.AABB

	opts    options
	logger  *Logger
	metrics MetricsCollector
	scratch *pool.Pool[*Scratch[ID]]
}

// New creates a grid with square cells of edge length cellSize.
//
// Example:
//
//	g, err := hashgrid.New[uint32](32,
//	    hashgrid.WithCapacity(1024, 4096),
//	    hashgrid.WithMetricsCollector(&hashgrid.BasicMetricsCollector{}),
//	)
func New[ID comparable](cellSize float64, optFns ...Option) (*Grid[ID], error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 1) {
		return nil, ErrInvalidCellSize
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.logger
	if logger == nil {
		logger = NoopLogger()
	}

	g := &Grid[ID]{
		cellSize: cellSize,
		invCell:  1 / cellSize,
		cells:    make(map[cell.Key][]ID, opts.cellCapacity),
		boxes:    make(map[ID]geom.AABB, opts.idCapacity),
		opts:     opts,
		logger:   logger.WithCellSize(cellSize),
		metrics:  opts.metricsCollector,
	}
	g.scratch = pool.New(
		NewScratch[ID],
		(*Scratch[ID]).Reset,
		func(s *Scratch[ID]) bool { return cap(s.ids) <= maxPooledIDs },
	)
	return g, nil
}

// MustNew is like New but panics on error.
func MustNew[ID comparable](cellSize float64, optFns ...Option) *Grid[ID] {
	g, err := New[ID](cellSize, optFns...)
	if err != nil {
		panic(err)
	}
	return g
}

// CellSize returns the edge length of a cell.
func (g *Grid[ID]) CellSize() float64 { return g.cellSize }

// InvCellSize returns 1 / CellSize.
func (g *Grid[ID]) InvCellSize() float64 { return g.invCell }

// Len returns the number of registered ids.
func (g *Grid[ID]) Len() int { return len(g.boxes) }

// CellCount returns the number of occupied cells.
func (g *Grid[ID]) CellCount() int { return len(g.cells) }

// Contains reports whether id is registered.
func (g *Grid[ID]) Contains(id ID) bool {
	_, ok := g.boxes[id]
	return ok
}

// AABB returns the box last registered for id.
func (g *Grid[ID]) AABB(id ID) (geom.AABB, bool) {
	b, ok := g.boxes[id]
	return b, ok
}

// CellIndex returns the coordinates of the cell containing p. Coordinates
// are floored, so -0.5 with a cell size of 1 lies in cell -1.
func (g *Grid[ID]) CellIndex(p geom.Vec2) (x, y int32) {
	return cell.Coord(p.X, g.cellSize, g.invCell), cell.Coord(p.Y, g.cellSize, g.invCell)
}

// CellKey returns the key of the cell containing p.
func (g *Grid[ID]) CellKey(p geom.Vec2) cell.Key {
	return cell.Pack(g.CellIndex(p))
}

// CellKeys clears dst and fills it with the keys of every cell box overlaps,
// in row-major order. A box ending exactly on a cell boundary does not reach
// into the next cell. Inverted boxes yield no keys.
//
// Boxes spanning more cells than the per-entry limit (WithMaxCellsPerEntry)
// return dst cleared and ErrTooManyCells.
func (g *Grid[ID]) CellKeys(box geom.AABB, dst []cell.Key) ([]cell.Key, error) {
	r := cell.RangeOf(box, g.cellSize, g.invCell)
	if r.Len() > g.opts.maxCellsPerEntry {
		return dst[:0], ErrTooManyCells
	}
	return cell.AppendKeys(dst, r), nil
}

// OccupiedCells clears dst and fills it with the keys of all occupied cells
// in row-major order.
func (g *Grid[ID]) OccupiedCells(dst []cell.Key) []cell.Key {
	dst = dst[:0]
	for k := range g.cells {
		dst = append(dst, k)
	}
	cell.SortRowMajor(dst)
	return dst
}

// CellOccupants returns a copy of the ids listed in the cell with key k.
func (g *Grid[ID]) CellOccupants(k cell.Key) []ID {
	return slices.Clone(g.cells[k])
}

// All returns an iterator over every registered id and its box. The order is
// unspecified.
func (g *Grid[ID]) All() iter.Seq2[ID, geom.AABB] {
	return func(yield func(ID, geom.AABB) bool) {
		for id, b := range g.boxes {
			if !yield(id, b) {
				return
			}
		}
	}
}

// Insert registers id with box.
func (g *Grid[ID]) Insert(id ID, box geom.AABB) error {
	start := g.startTimer()

	n, err := g.insert(id, box)

	if g.metrics != nil {
		g.metrics.RecordInsert(time.Since(start), err)
	}
	if err != nil || g.logger.debugEnabled() {
		g.logger.LogInsert(id, n, err)
	}
	return err
}

func (g *Grid[ID]) insert(id ID, box geom.AABB) (int, error) {
	if !box.Valid() {
		return 0, ErrInvalidAABB
	}
	if _, ok := g.boxes[id]; ok {
		return 0, ErrDuplicateID
	}
	r := g.registrationRange(box)
	n := r.Len()
	if n > g.opts.maxCellsPerEntry {
		return 0, ErrTooManyCells
	}

	for k := range r.All() {
		g.cells[k] = append(g.cells[k], id)
	}
	g.boxes[id] = box
	return n, nil
}

// Update moves id to box. Cells the old and new boxes share keep their
// occupant order; id is removed from cells it left and appended to cells it
// entered.
func (g *Grid[ID]) Update(id ID, box geom.AABB) error {
	start := g.startTimer()

	moved, err := g.update(id, box)

	if g.metrics != nil {
		g.metrics.RecordUpdate(time.Since(start), err)
	}
	if err != nil || g.logger.debugEnabled() {
		g.logger.LogUpdate(id, moved, err)
	}
	return err
}

func (g *Grid[ID]) update(id ID, box geom.AABB) (bool, error) {
	old, ok := g.boxes[id]
	if !ok {
		return false, ErrNotFound
	}
	if !box.Valid() {
		return false, ErrInvalidAABB
	}
	next := g.registrationRange(box)
	if next.Len() > g.opts.maxCellsPerEntry {
		return false, ErrTooManyCells
	}

	g.boxes[id] = box

	prev := g.registrationRange(old)
	if prev.Equal(next) {
		return false, nil
	}
	for k := range prev.All() {
		if !next.Contains(k.X(), k.Y()) {
			g.removeFromCell(k, id)
		}
	}
	for k := range next.All() {
		if !prev.Contains(k.X(), k.Y()) {
			g.cells[k] = append(g.cells[k], id)
		}
	}
	return true, nil
}

// Upsert inserts id or updates it when already registered.
func (g *Grid[ID]) Upsert(id ID, box geom.AABB) error {
	if g.Contains(id) {
		return g.Update(id, box)
	}
	return g.Insert(id, box)
}

// Remove unregisters id and reports whether it was present.
func (g *Grid[ID]) Remove(id ID) bool {
	start := g.startTimer()

	box, found := g.boxes[id]
	if found {
		for k := range g.registrationRange(box).All() {
			g.removeFromCell(k, id)
		}
		delete(g.boxes, id)
	}

	if g.metrics != nil {
		g.metrics.RecordRemove(time.Since(start), found)
	}
	if g.logger.debugEnabled() {
		g.logger.LogRemove(id, found)
	}
	return found
}

// Clear removes every id while keeping allocated map storage.
func (g *Grid[ID]) Clear() {
	clear(g.cells)
	clear(g.boxes)
}

func (g *Grid[ID]) removeFromCell(k cell.Key, id ID) {
	ids := g.cells[k]
	i := slices.Index(ids, id)
	if i < 0 {
		return
	}
	ids = slices.Delete(ids, i, i+1)
	if len(ids) == 0 {
		delete(g.cells, k)
		return
	}
	g.cells[k] = ids
}

func (g *Grid[ID]) registrationRange(box geom.AABB) cell.Range {
	return cell.ClosedRangeOf(box, g.cellSize, g.invCell)
}

// rangeKeys clears dst and fills it with the keys of r worth visiting in
// row-major order. Ranges larger than the occupied set are answered from the
// sorted occupied keys instead of enumerating empty cells.
func (g *Grid[ID]) rangeKeys(dst []cell.Key, r cell.Range) []cell.Key {
	if r.Len() <= len(g.cells) {
		return cell.AppendKeys(dst, r)
	}
	dst = dst[:0]
	for k := range g.cells {
		if r.Contains(k.X(), k.Y()) {
			dst = append(dst, k)
		}
	}
	cell.SortRowMajor(dst)
	return dst
}

func (g *Grid[ID]) startTimer() time.Time {
	if g.metrics == nil {
		return time.Time{}
	}
	return time.Now()
}

func (g *Grid[ID]) recordQuery(kind QueryKind, cells, candidates int, start time.Time) {
	if g.metrics == nil {
		return
	}
	g.metrics.RecordQuery(kind, cells, candidates, time.Since(start))
}
