package hashgrid

import (
	"sync/atomic"
	"time"
)

// QueryKind identifies a query family in metrics and logs.
type QueryKind uint8

const (
	QueryPoint QueryKind = iota
	QueryPointContaining
	QueryRegion
	QuerySweptAABB
	QuerySweptCircle
	QueryRaycast
	QueryRaycastDilated
	numQueryKinds
)

func (k QueryKind) String() string {
	switch k {
	case QueryPoint:
		return "point"
	case QueryPointContaining:
		return "point_containing"
	case QueryRegion:
		return "region"
	case QuerySweptAABB:
		return "swept_aabb"
	case QuerySweptCircle:
		return "swept_circle"
	case QueryRaycast:
		return "raycast"
	case QueryRaycastDilated:
		return "raycast_dilated"
	default:
		return "unknown"
	}
}

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see the
// promcollector package for a Prometheus implementation.
//
// Implementations must be safe for concurrent use: batch queries report
// from several goroutines.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordUpdate is called after each update operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordRemove is called after each remove operation.
	RecordRemove(duration time.Duration, found bool)

	// RecordQuery is called after each query. cells is the number of cells
	// inspected and candidates the number of ids returned.
	RecordQuery(kind QueryKind, cells, candidates int, duration time.Duration)

	// RecordBatch is called after each batch query.
	RecordBatch(kind QueryKind, count int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)                {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)                {}
func (NoopMetricsCollector) RecordRemove(time.Duration, bool)                 {}
func (NoopMetricsCollector) RecordQuery(QueryKind, int, int, time.Duration)   {}
func (NoopMetricsCollector) RecordBatch(QueryKind, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertErrors     atomic.Int64
	InsertTotalNanos atomic.Int64
	UpdateCount      atomic.Int64
	UpdateErrors     atomic.Int64
	RemoveCount      atomic.Int64
	RemoveMisses     atomic.Int64
	QueryCount       atomic.Int64
	QueryCells       atomic.Int64
	QueryCandidates  atomic.Int64
	QueryTotalNanos  atomic.Int64
	BatchCount       atomic.Int64
	BatchItems       atomic.Int64
	BatchErrors      atomic.Int64

	perKind [numQueryKinds]atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(duration time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordRemove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemove(duration time.Duration, found bool) {
	b.RemoveCount.Add(1)
	if !found {
		b.RemoveMisses.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(kind QueryKind, cells, candidates int, duration time.Duration) {
	b.QueryCount.Add(1)
	b.QueryCells.Add(int64(cells))
	b.QueryCandidates.Add(int64(candidates))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if kind < numQueryKinds {
		b.perKind[kind].Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(kind QueryKind, count int, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchItems.Add(int64(count))
	if err != nil {
		b.BatchErrors.Add(1)
	}
}

// QueriesOf returns the number of queries recorded for kind.
func (b *BasicMetricsCollector) QueriesOf(kind QueryKind) int64 {
	if kind >= numQueryKinds {
		return 0
	}
	return b.perKind[kind].Load()
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:     b.InsertCount.Load(),
		InsertErrors:    b.InsertErrors.Load(),
		InsertAvgNanos:  avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		UpdateCount:     b.UpdateCount.Load(),
		UpdateErrors:    b.UpdateErrors.Load(),
		RemoveCount:     b.RemoveCount.Load(),
		RemoveMisses:    b.RemoveMisses.Load(),
		QueryCount:      b.QueryCount.Load(),
		QueryAvgNanos:   avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		QueryAvgCells:   avg(b.QueryCells.Load(), b.QueryCount.Load()),
		QueryCandidates: b.QueryCandidates.Load(),
		BatchCount:      b.BatchCount.Load(),
		BatchItems:      b.BatchItems.Load(),
		BatchErrors:     b.BatchErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount     int64
	InsertErrors    int64
	InsertAvgNanos  int64
	UpdateCount     int64
	UpdateErrors    int64
	RemoveCount     int64
	RemoveMisses    int64
	QueryCount      int64
	QueryAvgNanos   int64
	QueryAvgCells   int64
	QueryCandidates int64
	BatchCount      int64
	BatchItems      int64
	BatchErrors     int64
}
