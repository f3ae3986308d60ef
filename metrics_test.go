package hashgrid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hashgrid/geom"
)

func TestQueryKindString(t *testing.T) {
	assert.Equal(t, "point", QueryPoint.String())
	assert.Equal(t, "point_containing", QueryPointContaining.String())
	assert.Equal(t, "region", QueryRegion.String())
	assert.Equal(t, "swept_aabb", QuerySweptAABB.String())
	assert.Equal(t, "swept_circle", QuerySweptCircle.String())
	assert.Equal(t, "raycast", QueryRaycast.String())
	assert.Equal(t, "raycast_dilated", QueryRaycastDilated.String())
}

func TestBasicMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}
	g := MustNew[int](10, WithMetricsCollector(mc))

	require.NoError(t, g.Insert(1, geom.Box(0, 0, 15, 5)))
	require.NoError(t, g.Insert(2, geom.Box(30, 0, 35, 5)))
	require.Error(t, g.Insert(2, geom.Box(0, 0, 1, 1)))
	require.NoError(t, g.Update(2, geom.Box(31, 0, 36, 5)))
	require.Error(t, g.Update(3, geom.Box(0, 0, 1, 1)))
	g.Remove(1)
	g.Remove(1)

	g.PointCandidates(geom.V(32, 2))
	g.PointContaining(geom.V(32, 2))
	g.QueryAABB(geom.Box(0, 0, 40, 10))
	g.SweptAABBCandidates(geom.V(0, 0), geom.V(10, 0), geom.V(1, 1))
	g.SweptCircleCandidates(geom.V(0, 0), geom.V(10, 0), 1)
	g.Raycast(geom.V(0, 2), geom.V(39, 2))
	g.RaycastDilated(geom.V(0, 2), geom.V(39, 2), 5)

	_, err := g.BatchRaycast(context.Background(), []geom.Segment{geom.Seg(geom.V(0, 2), geom.V(39, 2))}, BatchOptions{})
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(3), stats.InsertCount)
	assert.Equal(t, int64(1), stats.InsertErrors)
	assert.Equal(t, int64(2), stats.UpdateCount)
	assert.Equal(t, int64(1), stats.UpdateErrors)
	assert.Equal(t, int64(2), stats.RemoveCount)
	assert.Equal(t, int64(1), stats.RemoveMisses)
	assert.Equal(t, int64(1), stats.BatchCount)
	assert.Equal(t, int64(1), stats.BatchItems)
	assert.Zero(t, stats.BatchErrors)

	// The batch runs one raycast of its own.
	assert.Equal(t, int64(8), stats.QueryCount)
	assert.Equal(t, int64(2), mc.QueriesOf(QueryRaycast))
	for _, kind := range []QueryKind{QueryPoint, QueryPointContaining, QueryRegion, QuerySweptAABB, QuerySweptCircle, QueryRaycastDilated} {
		assert.Equal(t, int64(1), mc.QueriesOf(kind), kind.String())
	}
	assert.Zero(t, mc.QueriesOf(numQueryKinds))
	assert.Positive(t, stats.QueryCandidates)
	assert.Positive(t, stats.QueryAvgCells)
}

func TestNoopMetricsCollector(t *testing.T) {
	g := MustNew[int](10, WithMetricsCollector(NoopMetricsCollector{}))
	require.NoError(t, g.Insert(1, geom.Box(0, 0, 1, 1)))
	assert.Equal(t, []int{1}, g.Raycast(geom.V(0, 0), geom.V(5, 5)))
}
