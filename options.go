package hashgrid

import (
	"log/slog"

	"github.com/hupe1980/hashgrid/codec"
	"github.com/hupe1980/hashgrid/internal/compress"
	"github.com/hupe1980/hashgrid/internal/dedup"
)

// Compression selects the snapshot compression algorithm.
type Compression = compress.Type

const (
	// CompressionNone stores snapshots uncompressed.
	CompressionNone = compress.None
	// CompressionLZ4 favors speed.
	CompressionLZ4 = compress.LZ4
	// CompressionZSTD favors size. This is the default.
	CompressionZSTD = compress.ZSTD
)

// DefaultMaxCellsPerEntry bounds how many cells one box may occupy.
const DefaultMaxCellsPerEntry = 1 << 20

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	idCapacity       int
	cellCapacity     int
	dedupThreshold   int
	maxCellsPerEntry int
	codec            codec.Codec
	compression      Compression
}

func defaultOptions() options {
	return options{
		dedupThreshold:   dedup.DefaultThreshold,
		maxCellsPerEntry: DefaultMaxCellsPerEntry,
		compression:      CompressionZSTD,
	}
}

// Option configures grid construction and snapshot loading.
type Option func(*options)

// WithLogger configures structured logging for mutations and snapshots.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hashgrid.NewJSONLogger(slog.LevelDebug)
//	g, _ := hashgrid.New[uint32](32, hashgrid.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection; queries are not timed then.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hashgrid.BasicMetricsCollector{}
//	g, _ := hashgrid.New[uint32](32, hashgrid.WithMetricsCollector(metrics))
//	// ... use g ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithCapacity reserves storage for the expected number of ids and occupied
// cells. Both are hints.
func WithCapacity(ids, cells int) Option {
	return func(o *options) {
		o.idCapacity = max(ids, 0)
		o.cellCapacity = max(cells, 0)
	}
}

// WithDedupThreshold sets the estimated candidate count above which queries
// deduplicate with a hash set instead of scanning the result. The default is
// 16. Zero or a negative value always uses the set.
func WithDedupThreshold(n int) Option {
	return func(o *options) {
		o.dedupThreshold = n
	}
}

// WithMaxCellsPerEntry bounds the number of cells a single inserted box may
// occupy. Inserts and updates beyond it fail with ErrTooManyCells.
func WithMaxCellsPerEntry(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxCellsPerEntry = n
		}
	}
}

// WithCodec configures the codec used to encode snapshots.
//
// If nil is passed, codec.Default is used. When loading, a snapshot is
// decoded with the codec named in its header; a custom codec given here is
// used for that only when its Name matches.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithCompression configures snapshot compression.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}
