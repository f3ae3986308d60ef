package hashgrid_test

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/hashgrid"
	"github.com/hupe1980/hashgrid/blobstore"
	"github.com/hupe1980/hashgrid/geom"
)

// Example_quickStart registers two boxes and runs the basic queries.
func Example_quickStart() {
	g, err := hashgrid.New[int](32)
	if err != nil {
		log.Fatal(err)
	}

	_ = g.Insert(1, geom.Box(0, 0, 31, 31))
	_ = g.Insert(2, geom.Box(40, 0, 71, 31))

	fmt.Println(g.Raycast(geom.V(0, 15), geom.V(71, 15)))
	fmt.Println(g.PointContaining(geom.V(50, 10)))
	fmt.Println(len(g.PointContaining(geom.V(35, 10))))
	// Output:
	// [1 2]
	// [2]
	// 0
}

// Example_scratch reuses one scratch buffer across queries.
func Example_scratch() {
	g := hashgrid.MustNew[string](10)
	_ = g.Insert("wall", geom.Box(0, 0, 100, 2))
	_ = g.Insert("crate", geom.Box(45, 3, 55, 13))

	s := hashgrid.NewScratch[string]()
	for _, y := range []float64{1, 15, 30} {
		ids := g.RaycastInto(geom.V(-5, y), geom.V(105, y), s)
		fmt.Println(y, ids, len(s.Keys()))
	}
	// Output:
	// 1 [wall crate] 12
	// 15 [crate] 12
	// 30 [] 12
}

// Example_raycastEach stops at the first candidate along a ray.
func Example_raycastEach() {
	g := hashgrid.MustNew[string](8)
	_ = g.Insert("near", geom.Box(20, -1, 22, 1))
	_ = g.Insert("far", geom.Box(60, -1, 62, 1))

	g.RaycastEach(geom.V(0, 0), geom.V(100, 0), func(id string, t float64) bool {
		fmt.Printf("%s at t=%.2f\n", id, t)
		return false
	})
	// Output:
	// near at t=0.16
}

// Example_pairs lists the broad-phase pairs whose boxes overlap.
func Example_pairs() {
	g := hashgrid.MustNew[int](16)
	_ = g.Insert(3, geom.Box(0, 0, 10, 10))
	_ = g.Insert(1, geom.Box(5, 5, 15, 15))
	_ = g.Insert(2, geom.Box(12, 0, 14, 2))

	fmt.Println(g.CandidatePairs(cmp.Compare[int], nil))
	fmt.Println(g.OverlappingPairs(cmp.Compare[int], nil))
	// Output:
	// [{1 3} {2 3} {1 2}]
	// [{1 3}]
}

// Example_snapshot saves a grid to a blob store and loads it back.
func Example_snapshot() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	g := hashgrid.MustNew[int](32, hashgrid.WithCompression(hashgrid.CompressionLZ4))
	_ = g.Insert(1, geom.Box(0, 0, 31, 31))
	_ = g.Insert(2, geom.Box(40, 0, 71, 31))

	if err := g.SaveTo(ctx, store, "level.hgrd"); err != nil {
		log.Fatal(err)
	}
	restored, err := hashgrid.LoadFrom[int](ctx, store, "level.hgrd")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(restored.Len(), restored.Raycast(geom.V(0, 15), geom.V(71, 15)))

	var buf bytes.Buffer
	_ = restored.Save(&buf)
	fmt.Println(buf.String()[:4])
	// Output:
	// 2 [1 2]
	// HGRD
}

// Example_batch runs raycasts in parallel.
func Example_batch() {
	g := hashgrid.MustNew[int](10)
	for i := range 5 {
		x := float64(i * 20)
		_ = g.Insert(i, geom.Box(x, 0, x+5, 5))
	}

	segs := []geom.Segment{
		geom.Seg(geom.V(0, 2), geom.V(100, 2)),
		geom.Seg(geom.V(41, -10), geom.V(41, 10)),
	}
	results, err := g.BatchRaycast(context.Background(), segs, hashgrid.BatchOptions{Workers: 2})
	if err != nil {
		log.Fatal(err)
	}
	for _, ids := range results {
		fmt.Println(ids)
	}
	// Output:
	// [0 1 2 3 4]
	// [2]
}
