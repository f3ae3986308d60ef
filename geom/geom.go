// Package geom provides the 2D value types used by the grid: points,
// axis-aligned bounding boxes and segments, in world units.
package geom

import "math"

// Vec2 is a point or displacement in world space.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Min returns the component-wise minimum.
func (v Vec2) Min(o Vec2) Vec2 { return Vec2{math.Min(v.X, o.X), math.Min(v.Y, o.Y)} }

// Max returns the component-wise maximum.
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{math.Max(v.X, o.X), math.Max(v.Y, o.Y)} }

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// AABB is an axis-aligned bounding box given by its min and max corners.
type AABB struct {
	Min, Max Vec2
}

// Box builds an AABB from corner coordinates.
func Box(minX, minY, maxX, maxY float64) AABB {
	return AABB{Min: Vec2{minX, minY}, Max: Vec2{maxX, maxY}}
}

// FromCenter returns the box centered at c with the given half extent.
func FromCenter(c, half Vec2) AABB {
	return AABB{Min: c.Sub(half), Max: c.Add(half)}
}

// FromCircle returns the bounding box of a circle.
func FromCircle(c Vec2, r float64) AABB {
	return FromCenter(c, Vec2{r, r})
}

// Valid reports whether b has finite corners and Min <= Max on both axes.
func (b AABB) Valid() bool {
	return b.Min.IsFinite() && b.Max.IsFinite() && b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y
}

// Union returns the smallest box enclosing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// ContainsPoint reports whether p lies in b, edges included.
func (b AABB) ContainsPoint(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Intersects reports whether b and o overlap; touching edges count.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X && b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y
}

// Expand grows b by d on every side.
func (b AABB) Expand(d float64) AABB {
	return AABB{Min: Vec2{b.Min.X - d, b.Min.Y - d}, Max: Vec2{b.Max.X + d, b.Max.Y + d}}
}

// Center returns the midpoint of b.
func (b AABB) Center() Vec2 {
	return Vec2{(b.Min.X + b.Max.X) * 0.5, (b.Min.Y + b.Max.Y) * 0.5}
}

// HalfExtent returns half the size of b on each axis.
func (b AABB) HalfExtent() Vec2 {
	return Vec2{(b.Max.X - b.Min.X) * 0.5, (b.Max.Y - b.Min.Y) * 0.5}
}

// Segment is the straight path from A to B.
type Segment struct {
	A, B Vec2
}

// Seg is shorthand for Segment{A: a, B: b}.
func Seg(a, b Vec2) Segment { return Segment{A: a, B: b} }

// Bounds returns the bounding box of the segment.
func (s Segment) Bounds() AABB {
	return AABB{Min: s.A.Min(s.B), Max: s.A.Max(s.B)}
}
