package hashgrid

import (
	"math"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hashgrid/cell"
	"github.com/hupe1980/hashgrid/geom"
	"github.com/hupe1980/hashgrid/testutil"
)

// requireConsistent checks that every id is listed in exactly the cells its
// box registers in and that no cell is empty.
func requireConsistent[ID comparable](t *testing.T, g *Grid[ID]) {
	t.Helper()

	want := make(map[cell.Key][]ID)
	for id, box := range g.boxes {
		for k := range g.registrationRange(box).All() {
			want[k] = append(want[k], id)
		}
	}

	require.Len(t, g.cells, len(want), "occupied cell count")
	for k, ids := range g.cells {
		require.NotEmpty(t, ids, "empty cell %s", k)
		require.ElementsMatch(t, want[k], ids, "cell %s", k)
	}
}

func TestNew(t *testing.T) {
	t.Run("InvalidCellSize", func(t *testing.T) {
		for _, size := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := New[int](size)
			assert.ErrorIs(t, err, ErrInvalidCellSize, "size %v", size)
		}
		assert.Panics(t, func() { MustNew[int](0) })
	})

	t.Run("Accessors", func(t *testing.T) {
		g := MustNew[int](32, WithCapacity(10, 10))
		assert.Equal(t, 32.0, g.CellSize())
		assert.Equal(t, 1.0/32, g.InvCellSize())
		assert.Zero(t, g.Len())
		assert.Zero(t, g.CellCount())
	})
}

func TestCellIndex(t *testing.T) {
	g := MustNew[int](10)

	tests := []struct {
		p    geom.Vec2
		x, y int32
	}{
		{geom.V(-1, -1), -1, -1},
		{geom.V(-10, -10), -1, -1},
		{geom.V(-10.0001, 0), -2, 0},
		{geom.V(0, 0), 0, 0},
		{geom.V(9.9999, 10), 0, 1},
		{geom.V(-0.5, 25), -1, 2},
	}
	for _, tt := range tests {
		x, y := g.CellIndex(tt.p)
		assert.Equal(t, tt.x, x, "x of %v", tt.p)
		assert.Equal(t, tt.y, y, "y of %v", tt.p)
		assert.Equal(t, cell.Pack(tt.x, tt.y), g.CellKey(tt.p))
	}

	unit := MustNew[int](1)
	x, _ := unit.CellIndex(geom.V(-0.5, 0))
	assert.Equal(t, int32(-1), x)
}

func TestCellKeys(t *testing.T) {
	g := MustNew[int](10)

	t.Run("MaxOnBoundary", func(t *testing.T) {
		keys, err := g.CellKeys(geom.Box(0, 0, 20, 10), nil)
		require.NoError(t, err)
		assert.Equal(t, []cell.Key{cell.Pack(0, 0), cell.Pack(1, 0)}, keys)
	})

	t.Run("RowMajor", func(t *testing.T) {
		keys, err := g.CellKeys(geom.Box(-5, -5, 5, 5), nil)
		require.NoError(t, err)
		assert.Equal(t, []cell.Key{
			cell.Pack(-1, -1), cell.Pack(0, -1),
			cell.Pack(-1, 0), cell.Pack(0, 0),
		}, keys)
	})

	t.Run("Degenerate", func(t *testing.T) {
		dst := []cell.Key{cell.Pack(9, 9)}
		keys, err := g.CellKeys(geom.Box(5, 5, 1, 1), dst)
		require.NoError(t, err)
		assert.Empty(t, keys)

		keys, err = g.CellKeys(geom.Box(10, 10, 10, 10), dst)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("PointBoxInsideCell", func(t *testing.T) {
		keys, err := g.CellKeys(geom.Box(5, 5, 5, 5), nil)
		require.NoError(t, err)
		assert.Equal(t, []cell.Key{cell.Pack(0, 0)}, keys)
	})

	t.Run("HugeBoxIsBounded", func(t *testing.T) {
		unit := MustNew[int](1)
		dst := []cell.Key{cell.Pack(1, 1)}

		var (
			keys []cell.Key
			err  error
		)
		require.NotPanics(t, func() {
			keys, err = unit.CellKeys(geom.Box(-1e12, -1e12, 1e12, 1e12), dst)
		})
		assert.ErrorIs(t, err, ErrTooManyCells)
		assert.Empty(t, keys)
	})

	t.Run("LimitFollowsOption", func(t *testing.T) {
		small := MustNew[int](1, WithMaxCellsPerEntry(4))

		keys, err := small.CellKeys(geom.Box(0, 0, 2, 2), nil)
		require.NoError(t, err)
		assert.Len(t, keys, 4)

		_, err = small.CellKeys(geom.Box(0, 0, 3, 2), nil)
		assert.ErrorIs(t, err, ErrTooManyCells)
	})
}

func TestInsert(t *testing.T) {
	t.Run("Registers", func(t *testing.T) {
		g := MustNew[int](10)
		require.NoError(t, g.Insert(1, geom.Box(5, 5, 25, 15)))

		assert.Equal(t, 1, g.Len())
		assert.True(t, g.Contains(1))
		assert.Equal(t, 6, g.CellCount())

		box, ok := g.AABB(1)
		require.True(t, ok)
		assert.Equal(t, geom.Box(5, 5, 25, 15), box)
		requireConsistent(t, g)
	})

	t.Run("ClosedRangeOnMaxEdge", func(t *testing.T) {
		g := MustNew[int](10)
		require.NoError(t, g.Insert(1, geom.Box(0, 0, 10, 10)))

		// The max corner lies on the corner of four cells.
		assert.Equal(t, 4, g.CellCount())
		assert.Equal(t, []int{1}, g.PointContaining(geom.V(10, 10)))
	})

	t.Run("Errors", func(t *testing.T) {
		g := MustNew[int](10, WithMaxCellsPerEntry(4))

		assert.ErrorIs(t, g.Insert(1, geom.Box(5, 5, 1, 1)), ErrInvalidAABB)
		assert.ErrorIs(t, g.Insert(1, geom.Box(math.NaN(), 0, 1, 1)), ErrInvalidAABB)
		assert.ErrorIs(t, g.Insert(1, geom.Box(0, 0, math.Inf(1), 1)), ErrInvalidAABB)
		assert.ErrorIs(t, g.Insert(1, geom.Box(0, 0, 25, 15)), ErrTooManyCells)
		assert.Zero(t, g.Len())

		require.NoError(t, g.Insert(1, geom.Box(0, 0, 25, 5)))
		assert.ErrorIs(t, g.Insert(1, geom.Box(0, 0, 1, 1)), ErrDuplicateID)
		assert.Equal(t, 3, g.CellCount())
	})
}

func TestUpdate(t *testing.T) {
	g := MustNew[int](10)
	for id := 1; id <= 3; id++ {
		require.NoError(t, g.Insert(id, geom.Box(1, 1, 2, 2)))
	}
	origin := cell.Pack(0, 0)
	right := cell.Pack(1, 0)
	require.Equal(t, []int{1, 2, 3}, g.CellOccupants(origin))

	t.Run("SharedCellsKeepOrder", func(t *testing.T) {
		require.NoError(t, g.Update(2, geom.Box(1, 1, 12, 2)))
		assert.Equal(t, []int{1, 2, 3}, g.CellOccupants(origin))
		assert.Equal(t, []int{2}, g.CellOccupants(right))
		requireConsistent(t, g)
	})

	t.Run("LeavesCell", func(t *testing.T) {
		require.NoError(t, g.Update(2, geom.Box(11, 1, 12, 2)))
		assert.Equal(t, []int{1, 3}, g.CellOccupants(origin))
		assert.Equal(t, []int{2}, g.CellOccupants(right))
		requireConsistent(t, g)
	})

	t.Run("ReentersAtEnd", func(t *testing.T) {
		require.NoError(t, g.Update(2, geom.Box(1, 1, 2, 2)))
		assert.Equal(t, []int{1, 3, 2}, g.CellOccupants(origin))
		assert.Empty(t, g.CellOccupants(right))
		assert.Equal(t, 1, g.CellCount())
		requireConsistent(t, g)
	})

	t.Run("SameCellsNewBox", func(t *testing.T) {
		require.NoError(t, g.Update(1, geom.Box(3, 3, 4, 4)))
		box, _ := g.AABB(1)
		assert.Equal(t, geom.Box(3, 3, 4, 4), box)
		assert.Equal(t, []int{1, 3, 2}, g.CellOccupants(origin))
	})

	t.Run("Errors", func(t *testing.T) {
		assert.ErrorIs(t, g.Update(42, geom.Box(0, 0, 1, 1)), ErrNotFound)
		assert.ErrorIs(t, g.Update(1, geom.Box(2, 2, 1, 1)), ErrInvalidAABB)

		box, _ := g.AABB(1)
		assert.Equal(t, geom.Box(3, 3, 4, 4), box, "failed update keeps the old box")
	})
}

func TestUpsertRemoveClear(t *testing.T) {
	g := MustNew[string](10)

	require.NoError(t, g.Upsert("a", geom.Box(0, 0, 5, 5)))
	require.NoError(t, g.Upsert("a", geom.Box(20, 20, 25, 25)))
	require.NoError(t, g.Upsert("b", geom.Box(21, 21, 22, 22)))
	assert.Equal(t, 2, g.Len())
	assert.Empty(t, g.PointCandidates(geom.V(1, 1)))
	requireConsistent(t, g)

	assert.True(t, g.Remove("a"))
	assert.False(t, g.Remove("a"))
	assert.False(t, g.Contains("a"))
	assert.Equal(t, []string{"b"}, g.PointCandidates(geom.V(21, 21)))
	requireConsistent(t, g)

	g.Clear()
	assert.Zero(t, g.Len())
	assert.Zero(t, g.CellCount())
	assert.Empty(t, g.QueryAABB(geom.Box(-100, -100, 100, 100)))
}

func TestOccupiedCells(t *testing.T) {
	g := MustNew[int](10)
	require.NoError(t, g.Insert(1, geom.Box(15, 15, 16, 16)))
	require.NoError(t, g.Insert(2, geom.Box(-5, 15, -4, 16)))
	require.NoError(t, g.Insert(3, geom.Box(5, -5, 6, -4)))

	keys := g.OccupiedCells([]cell.Key{cell.Pack(7, 7)})
	assert.Equal(t, []cell.Key{cell.Pack(0, -1), cell.Pack(-1, 1), cell.Pack(1, 1)}, keys)

	occ := g.CellOccupants(cell.Pack(1, 1))
	occ[0] = 99
	assert.Equal(t, []int{1}, g.CellOccupants(cell.Pack(1, 1)), "occupants are copied")
}

func TestAll(t *testing.T) {
	g := MustNew[int](10)
	for i := range 5 {
		require.NoError(t, g.Insert(i, geom.Box(float64(i), 0, float64(i)+1, 1)))
	}

	seen := map[int]geom.AABB{}
	for id, box := range g.All() {
		seen[id] = box
	}
	assert.Len(t, seen, 5)
	assert.Equal(t, geom.Box(3, 0, 4, 1), seen[3])

	n := 0
	for range g.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestUUIDIDs(t *testing.T) {
	g := MustNew[uuid.UUID](16)
	ship, rock := uuid.New(), uuid.New()
	require.NoError(t, g.Insert(ship, geom.Box(0, 0, 4, 4)))
	require.NoError(t, g.Insert(rock, geom.Box(20, 0, 24, 4)))

	assert.Equal(t, []uuid.UUID{ship, rock}, g.Raycast(geom.V(2, 2), geom.V(22, 2)))
	assert.Equal(t, []uuid.UUID{rock}, g.PointContaining(geom.V(21, 1)))
	assert.ErrorIs(t, g.Insert(ship, geom.Box(1, 1, 2, 2)), ErrDuplicateID)
}

func TestRandomMutationsStayConsistent(t *testing.T) {
	rng := testutil.NewRNG(7)
	world := geom.Box(-200, -200, 200, 200)
	g := MustNew[int](16)

	for i := range 200 {
		require.NoError(t, g.Insert(i, rng.Box(world, 50)))
	}
	for range 500 {
		id := rng.Intn(250)
		switch rng.Intn(3) {
		case 0:
			g.Remove(id)
		default:
			require.NoError(t, g.Upsert(id, rng.Box(world, 50)))
		}
	}
	requireConsistent(t, g)
}

func TestSparseRangeMatchesDense(t *testing.T) {
	rng := testutil.NewRNG(11)
	world := geom.Box(0, 0, 100, 100)
	g := MustNew[int](10)
	for i, b := range rng.Boxes(40, world, 15) {
		require.NoError(t, g.Insert(i, b))
	}

	probe := geom.Box(-5, -5, 125, 125)
	r := cell.RangeOf(probe, g.cellSize, g.invCell)
	require.Greater(t, r.Len(), g.CellCount())

	dense := slices.Clone(g.collect(NewScratch[int](), cell.AppendKeys(nil, r)))
	sparse := g.QueryAABB(probe)
	assert.Equal(t, dense, sparse)

	huge := g.QueryAABB(geom.Box(-1e12, -1e12, 1e12, 1e12))
	assert.Equal(t, dense, huge)
}
