package postgresengine

import (
	"context"
	"time"

	"github.com/shelfwise/circulate/ledgerstore"
)

// Logger interface for SQL query logging, operational metrics, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
// It follows the same dependency-free pattern as MetricsCollector, allowing integration
// with any logging backend that supports context-based correlation.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting log store performance and operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Option defines a functional option for configuring LogStore.
type Option func(*LogStore) error

// WithTableName sets the table name for the LogStore.
func WithTableName(tableName string) Option {
	return func(ls *LogStore) error {
		if tableName == "" {
			return ledgerstore.ErrEmptyTableNameSupplied
		}

		ls.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the LogStore.
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Event counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(ls *LogStore) error {
		ls.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the LogStore, enabling
// automatic trace/span correlation when tracing is configured.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(ls *LogStore) error {
		ls.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the LogStore. The collector receives
// query/append durations, event counts, concurrency conflicts, and database errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(ls *LogStore) error {
		ls.metricsCollector = collector
		return nil
	}
}
