// Package cell addresses the uniform grid: it converts world coordinates to
// integer cell coordinates, packs a coordinate pair into a 64-bit key and
// enumerates the keys covered by a box.
//
// # Key layout
//
// A Key holds the 32-bit pattern of x in its high word and the 32-bit
// pattern of y in its low word. Negative coordinates are stored by bit
// reinterpretation, so Pack and Unpack are exact inverses over the whole
// int32 range:
//
//	k := cell.Pack(-3, 7)
//	x, y := k.Unpack() // -3, 7
//
// Keys order row-major (by y, then x) through Compare and Less. The numeric
// order of the raw uint64 is not row-major and should not be relied upon.
package cell

import (
	"cmp"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/hupe1980/hashgrid/geom"
)

// Key is a packed (x, y) cell coordinate.
type Key uint64

// Pack packs x into the high and y into the low 32 bits.
func Pack(x, y int32) Key {
	return Key(uint64(uint32(x))<<32 | uint64(uint32(y)))
}

// Unpack returns the coordinates packed into k.
func (k Key) Unpack() (x, y int32) {
	return int32(uint32(k >> 32)), int32(uint32(k))
}

// X returns the column of k.
func (k Key) X() int32 { return int32(uint32(k >> 32)) }

// Y returns the row of k.
func (k Key) Y() int32 { return int32(uint32(k)) }

func (k Key) String() string {
	x, y := k.Unpack()
	return fmt.Sprintf("(%d,%d)", x, y)
}

// Compare orders a and b row-major: by y first, then by x.
func Compare(a, b Key) int {
	if c := cmp.Compare(a.Y(), b.Y()); c != 0 {
		return c
	}
	return cmp.Compare(a.X(), b.X())
}

// Less reports whether a precedes b in row-major order.
func Less(a, b Key) bool { return Compare(a, b) < 0 }

// SortRowMajor sorts keys in scan order.
func SortRowMajor(keys []Key) {
	slices.SortFunc(keys, Compare)
}

// Coord returns floor(v / size) as a cell coordinate. inv must be 1/size;
// the product v*inv is corrected by one step where rounding of the
// reciprocal would land on the wrong side of a boundary. Results saturate
// at the int32 range and NaN maps to 0.
func Coord(v, size, inv float64) int32 {
	f := math.Floor(v * inv)
	if f*size > v {
		f--
	} else if (f+1)*size <= v {
		f++
	}
	return saturate(f)
}

func saturate(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(f)
	}
}

// Range is an inclusive rectangle of cell coordinates.
type Range struct {
	MinX, MinY, MaxX, MaxY int32
}

// Empty reports whether the range covers no cell.
func (r Range) Empty() bool {
	return r.MaxX < r.MinX || r.MaxY < r.MinY
}

// Len returns the number of cells in r, saturating at math.MaxInt.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	w := int64(r.MaxX) - int64(r.MinX) + 1
	h := int64(r.MaxY) - int64(r.MinY) + 1
	if w > math.MaxInt/h {
		return math.MaxInt
	}
	return int(w * h)
}

// Contains reports whether (x, y) lies in r.
func (r Range) Contains(x, y int32) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Equal reports whether r and o cover the same cells. All empty ranges are
// equal.
func (r Range) Equal(o Range) bool {
	if r.Empty() || o.Empty() {
		return r.Empty() && o.Empty()
	}
	return r == o
}

// Neighborhood returns the square of radius rad around (x, y), clipped to
// the int32 coordinate space.
func Neighborhood(x, y, rad int32) Range {
	return Range{
		MinX: addSat(x, -int64(rad)),
		MinY: addSat(y, -int64(rad)),
		MaxX: addSat(x, int64(rad)),
		MaxY: addSat(y, int64(rad)),
	}
}

func addSat(v int32, d int64) int32 {
	s := int64(v) + d
	if s > math.MaxInt32 {
		return math.MaxInt32
	}
	if s < math.MinInt32 {
		return math.MinInt32
	}
	return int32(s)
}

// RangeOf returns the cells a query box overlaps. The max corner is moved to
// the previous representable value on each axis so a box ending exactly on
// a cell boundary does not reach into the next cell. An inverted box, or a
// zero-size box sitting on a boundary, yields an empty range.
func RangeOf(b geom.AABB, size, inv float64) Range {
	return Range{
		MinX: Coord(b.Min.X, size, inv),
		MinY: Coord(b.Min.Y, size, inv),
		MaxX: Coord(math.Nextafter(b.Max.X, math.Inf(-1)), size, inv),
		MaxY: Coord(math.Nextafter(b.Max.Y, math.Inf(-1)), size, inv),
	}
}

// ClosedRangeOf returns the cells touched by b including the cells that only
// share its max edge. Registration uses this range so that inclusive
// containment tests on that edge still find the box.
func ClosedRangeOf(b geom.AABB, size, inv float64) Range {
	return Range{
		MinX: Coord(b.Min.X, size, inv),
		MinY: Coord(b.Min.Y, size, inv),
		MaxX: Coord(b.Max.X, size, inv),
		MaxY: Coord(b.Max.Y, size, inv),
	}
}

// All returns an iterator over the keys of r, rows (y) outer and columns (x)
// inner.
func (r Range) All() iter.Seq[Key] {
	return func(yield func(Key) bool) {
		if r.Empty() {
			return
		}
		for y := int64(r.MinY); y <= int64(r.MaxY); y++ {
			for x := int64(r.MinX); x <= int64(r.MaxX); x++ {
				if !yield(Pack(int32(x), int32(y))) {
					return
				}
			}
		}
	}
}

// maxGrow caps the capacity AppendKeys reserves up front.
const maxGrow = 1 << 16

// AppendKeys clears dst and fills it with every key of r, rows (y) outer and
// columns (x) inner. The caller bounds r; every key is materialized.
func AppendKeys(dst []Key, r Range) []Key {
	dst = dst[:0]
	if r.Empty() {
		return dst
	}
	dst = slices.Grow(dst, min(r.Len(), maxGrow))
	for k := range r.All() {
		dst = append(dst, k)
	}
	return dst
}
