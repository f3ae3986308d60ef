package hashgrid

import (
	"cmp"
)

// PairKey is an unordered pair of ids in canonical order, so that the pair
// (a, b) and the pair (b, a) produce equal keys.
type PairKey[ID comparable] struct {
	A, B ID
}

// MakePairKey orders a and b with compare, which must be a total order on
// ID. MakePairKey(a, b, compare) == MakePairKey(b, a, compare).
func MakePairKey[ID comparable](a, b ID, compare func(a, b ID) int) PairKey[ID] {
	if compare(b, a) < 0 {
		return PairKey[ID]{A: b, B: a}
	}
	return PairKey[ID]{A: a, B: b}
}

// OrderedPairKey is MakePairKey using the natural order of ID.
func OrderedPairKey[ID cmp.Ordered](a, b ID) PairKey[ID] {
	return MakePairKey(a, b, cmp.Compare[ID])
}

// CandidatePairs appends every pair of distinct ids that share at least one
// cell to dst. Cells are visited in row-major order and each pair is
// reported once, at the first cell the two share.
func (g *Grid[ID]) CandidatePairs(compare func(a, b ID) int, dst []PairKey[ID]) []PairKey[ID] {
	return g.appendPairs(compare, dst, nil)
}

// OverlappingPairs is CandidatePairs keeping only pairs whose registered
// boxes intersect, edges included.
func (g *Grid[ID]) OverlappingPairs(compare func(a, b ID) int, dst []PairKey[ID]) []PairKey[ID] {
	return g.appendPairs(compare, dst, func(a, b ID) bool {
		return g.boxes[a].Intersects(g.boxes[b])
	})
}

func (g *Grid[ID]) appendPairs(compare func(a, b ID) int, dst []PairKey[ID], keep func(a, b ID) bool) []PairKey[ID] {
	seen := make(map[PairKey[ID]]struct{})
	for _, k := range g.OccupiedCells(nil) {
		occ := g.cells[k]
		for i := 0; i < len(occ); i++ {
			for j := i + 1; j < len(occ); j++ {
				pk := MakePairKey(occ[i], occ[j], compare)
				if _, ok := seen[pk]; ok {
					continue
				}
				seen[pk] = struct{}{}
				if keep == nil || keep(pk.A, pk.B) {
					dst = append(dst, pk)
				}
			}
		}
	}
	return dst
}
