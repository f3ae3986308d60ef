package benchmark_test

import (
	"testing"

	"github.com/hupe1980/hashgrid"
	"github.com/hupe1980/hashgrid/geom"
	"github.com/hupe1980/hashgrid/testutil"
)

const (
	benchSeed     = 42
	benchCellSize = 32.0
)

var benchWorld = geom.Box(-4096, -4096, 4096, 4096)

// benchFixture is a populated grid plus the boxes it was built from.
type benchFixture struct {
	grid  *hashgrid.Grid[uint32]
	boxes []geom.AABB
}

// newFixture fills a grid with n boxes of up to maxSize units. Clustered
// fixtures place boxes around a few hot spots so cells hold many ids.
func newFixture(b *testing.B, n int, maxSize float64, clustered bool, optFns ...hashgrid.Option) benchFixture {
	b.Helper()

	rng := testutil.NewRNG(benchSeed)
	var boxes []geom.AABB
	if clustered {
		boxes = rng.ClusteredBoxes(n, 16, benchWorld, 256, maxSize)
	} else {
		boxes = rng.Boxes(n, benchWorld, maxSize)
	}

	g, err := hashgrid.New[uint32](benchCellSize, optFns...)
	if err != nil {
		b.Fatal(err)
	}
	for i, box := range boxes {
		if err := g.Insert(uint32(i), box); err != nil {
			b.Fatal(err)
		}
	}
	return benchFixture{grid: g, boxes: boxes}
}
