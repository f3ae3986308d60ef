// Package hashgrid provides a uniform spatial hash grid for 2D broad-phase
// collision detection.
//
// A Grid maps axis-aligned bounding boxes into square cells of a fixed size
// and answers proximity queries with candidate ids: a conservative superset
// that the caller narrows with exact shape tests.
//
//   - Point lookup and inclusive point containment
//   - Region queries and swept AABB / circle candidates
//   - Segment raycasts, plain and dilated, driven by a DDA cell walk
//   - Candidate pair generation for broad-phase collision
//   - Parallel batch queries and compressed snapshots
//
// # Quick Start
//
//	g, _ := hashgrid.New[uint32](32)
//	_ = g.Insert(1, geom.Box(0, 0, 31, 31))
//	_ = g.Insert(2, geom.Box(40, 0, 71, 31))
//
//	hits := g.Raycast(geom.V(0, 15), geom.V(71, 15)) // [1 2]
//	inside := g.PointContaining(geom.V(50, 10))      // [2]
//
// Boxes must be updated whenever the object they bound moves:
//
//	_ = g.Update(1, geom.Box(8, 0, 39, 31))
//
// # Scratch Buffers
//
// Every query has an allocating form and an Into form that writes into
// caller-owned storage. A fixed-timestep loop keeps one Scratch per worker
// and reuses it every frame:
//
//	s := hashgrid.NewScratch[uint32]()
//	for _, body := range moving {
//	    ids := g.SweptAABBCandidatesInto(body.From, body.To, body.Half, s)
//	    // ids aliases s and is valid until the next query with s
//	}
//
// # Concurrency
//
// A Grid is not synchronized. Mutations need exclusive access; queries may
// run concurrently with each other as long as every goroutine uses its own
// Scratch and no mutation runs at the same time. BatchRaycast and
// BatchSweptAABB rely on this.
//
// # Snapshots
//
// Save and Load encode the registered boxes with a pluggable codec and
// optional compression; SaveTo and LoadFrom do the same against a
// blobstore.Store (local disk, memory, S3 or MinIO):
//
//	store := blobstore.NewLocalStore("./snapshots")
//	_ = g.SaveTo(ctx, store, "level-1.hgrd")
//	g2, _ := hashgrid.LoadFrom[uint32](ctx, store, "level-1.hgrd")
package hashgrid
