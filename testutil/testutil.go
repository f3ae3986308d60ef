package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/hashgrid/geom"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Range returns a pseudo-random number in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uniform(lo, hi)
}

func (r *RNG) uniform(lo, hi float64) float64 {
	return lo + r.rand.Float64()*(hi-lo)
}

// Point returns a uniform point inside bounds.
func (r *RNG) Point(bounds geom.AABB) geom.Vec2 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.point(bounds)
}

func (r *RNG) point(bounds geom.AABB) geom.Vec2 {
	return geom.V(r.uniform(bounds.Min.X, bounds.Max.X), r.uniform(bounds.Min.Y, bounds.Max.Y))
}

// Box returns a box whose min corner lies inside bounds and whose width and
// height are uniform in [0, maxSize).
func (r *RNG) Box(bounds geom.AABB, maxSize float64) geom.AABB {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.box(bounds, maxSize)
}

func (r *RNG) box(bounds geom.AABB, maxSize float64) geom.AABB {
	p := r.point(bounds)
	return geom.AABB{Min: p, Max: p.Add(geom.V(r.rand.Float64()*maxSize, r.rand.Float64()*maxSize))}
}

// Boxes generates n random boxes. Locks only once per call.
func (r *RNG) Boxes(n int, bounds geom.AABB, maxSize float64) []geom.AABB {
	r.mu.Lock()
	defer r.mu.Unlock()

	boxes := make([]geom.AABB, n)
	for i := range boxes {
		boxes[i] = r.box(bounds, maxSize)
	}
	return boxes
}

// ClusteredBoxes generates boxes around random cluster centers, so that many
// boxes share cells. spread is the maximum distance from a center.
func (r *RNG) ClusteredBoxes(n, clusters int, bounds geom.AABB, spread, maxSize float64) []geom.AABB {
	r.mu.Lock()
	defer r.mu.Unlock()

	centers := make([]geom.Vec2, max(clusters, 1))
	for i := range centers {
		centers[i] = r.point(bounds)
	}

	boxes := make([]geom.AABB, n)
	for i := range boxes {
		c := centers[r.rand.Intn(len(centers))]
		area := geom.AABB{Min: c.Sub(geom.V(spread, spread)), Max: c.Add(geom.V(spread, spread))}
		boxes[i] = r.box(area, maxSize)
	}
	return boxes
}

// Segment returns a segment with both endpoints inside bounds.
func (r *RNG) Segment(bounds geom.AABB) geom.Segment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return geom.Seg(r.point(bounds), r.point(bounds))
}

// Segments generates n random segments.
func (r *RNG) Segments(n int, bounds geom.AABB) []geom.Segment {
	r.mu.Lock()
	defer r.mu.Unlock()

	segs := make([]geom.Segment, n)
	for i := range segs {
		segs[i] = geom.Seg(r.point(bounds), r.point(bounds))
	}
	return segs
}

// BruteOverlapping returns the indexes of boxes whose interior overlaps the
// interior of q.
func BruteOverlapping(boxes []geom.AABB, q geom.AABB) []int {
	var out []int
	for i, b := range boxes {
		if overlapsOpen(b, q) {
			out = append(out, i)
		}
	}
	return out
}

// BruteContaining returns the indexes of boxes containing p, edges included.
func BruteContaining(boxes []geom.AABB, p geom.Vec2) []int {
	var out []int
	for i, b := range boxes {
		if b.ContainsPoint(p) {
			out = append(out, i)
		}
	}
	return out
}

// BruteSegment returns the indexes of boxes the segment touches.
func BruteSegment(boxes []geom.AABB, s geom.Segment) []int {
	var out []int
	for i, b := range boxes {
		if SegmentIntersects(b, s) {
			out = append(out, i)
		}
	}
	return out
}

// BruteSwept returns the indexes of boxes overlapped by a box of half extent
// half at any of steps+1 evenly spaced poses from center a to center b.
func BruteSwept(boxes []geom.AABB, a, b, half geom.Vec2, steps int) []int {
	steps = max(steps, 1)
	var out []int
	for i, box := range boxes {
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			c := a.Add(b.Sub(a).Scale(t))
			if overlapsOpen(box, geom.FromCenter(c, half)) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// SegmentIntersects reports whether s touches box, using the slab method.
func SegmentIntersects(box geom.AABB, s geom.Segment) bool {
	t0, t1 := 0.0, 1.0
	d := s.B.Sub(s.A)

	clip := func(origin, dir, lo, hi float64) bool {
		if dir == 0 {
			return origin >= lo && origin <= hi
		}
		inv := 1 / dir
		near, far := (lo-origin)*inv, (hi-origin)*inv
		if near > far {
			near, far = far, near
		}
		t0 = math.Max(t0, near)
		t1 = math.Min(t1, far)
		return t0 <= t1
	}

	return clip(s.A.X, d.X, box.Min.X, box.Max.X) && clip(s.A.Y, d.Y, box.Min.Y, box.Max.Y)
}

// IsSubset reports whether every element of sub occurs in super.
func IsSubset[T comparable](sub, super []T) bool {
	set := make(map[T]struct{}, len(super))
	for _, v := range super {
		set[v] = struct{}{}
	}
	for _, v := range sub {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}

// HasDuplicates reports whether any element occurs twice.
func HasDuplicates[T comparable](s []T) bool {
	seen := make(map[T]struct{}, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

func overlapsOpen(a, b geom.AABB) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X && a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}
