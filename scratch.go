package hashgrid

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/hashgrid/cell"
	"github.com/hupe1980/hashgrid/internal/dedup"
)

// Scratch holds the reusable buffers of the Into query variants: the result
// ids, the dedup set and the visited cell keys.
//
// A Scratch must not be shared between goroutines. Slices returned by Into
// queries alias it and stay valid until the next query that uses it.
type Scratch[ID comparable] struct {
	ids      []ID
	keys     []cell.Key
	path     []cell.Key
	occupied []cell.Key
	visited  *roaring64.Bitmap
	dedup    dedup.Appender[ID]
}

// NewScratch returns an empty scratch. Buffers grow on first use.
func NewScratch[ID comparable]() *Scratch[ID] {
	return &Scratch[ID]{}
}

// Reset clears all buffers while keeping their capacity.
func (s *Scratch[ID]) Reset() {
	s.ids = s.ids[:0]
	s.keys = s.keys[:0]
	s.path = s.path[:0]
	s.occupied = s.occupied[:0]
	if s.visited != nil {
		s.visited.Clear()
	}
}

// Keys returns the cell keys visited by the last query.
func (s *Scratch[ID]) Keys() []cell.Key { return s.keys }

// visitedKeys returns the cleared key bitmap, creating it on first use.
func (s *Scratch[ID]) visitedKeys() *roaring64.Bitmap {
	if s.visited == nil {
		s.visited = roaring64.New()
		return s.visited
	}
	s.visited.Clear()
	return s.visited
}
