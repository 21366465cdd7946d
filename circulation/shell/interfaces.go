package shell

import (
	"context"
	"time"

	"github.com/shelfwise/circulate/ledgerstore"
)

// QueriesEvents is the read side of the transaction log needed by query handlers.
type QueriesEvents interface {
	Query(ctx context.Context, filter ledgerstore.Filter) (
		ledgerstore.StorableEvents,
		ledgerstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is the full transaction-log contract needed by command handlers:
// read the relevant history, then conditionally append against the observed
// maximum sequence number.
type EventStore interface {
	QueriesEvents

	Append(
		ctx context.Context,
		filter ledgerstore.Filter,
		expectedMaxSequenceNumber ledgerstore.MaxSequenceNumberUint,
		storableEvent ledgerstore.StorableEvent,
		additionalStorableEvents ...ledgerstore.StorableEvent,
	) error
}

// Logger defines simple logging operations for handler instrumentation.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger defines context-aware logging for trace correlation.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector defines metrics operations for handler and retry instrumentation.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
}

// Metric and label names used by command handlers and the retry path.
const (
	CommandHandlerDurationMetric          = "commandhandler_duration_seconds"
	CommandHandlerRetriesMetric           = "commandhandler_retries_total"
	CommandHandlerRetryDelayMetric        = "commandhandler_retry_delay_seconds"
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	LabelCommandType = "command_type"
	LabelOutcome     = "outcome"
)
