// Package testutil provides testing utilities for hashgrid.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random geometry and brute-force
// reference answers that grid queries must cover.
//
// # Random Geometry
//
//	rng := testutil.NewRNG(seed)
//	world := geom.Box(-500, -500, 500, 500)
//	boxes := rng.Boxes(1000, world, 40)
//	seg := rng.Segment(world)
//
// # Reference Queries
//
// The Brute* functions return indexes into the box slice:
//
//	want := testutil.BruteOverlapping(boxes, probe)
//	got := grid.QueryAABB(probe)
//	ok := testutil.IsSubset(want, got)
package testutil
