package shell

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shelfwise/circulate/ledgerstore"
)

// A conflicting append means another terminal won the race for this copy; the
// losing command is retried exactly once against the fresh history before the
// conflict is surfaced to the caller.
const (
	defaultMaxAttempts  = 2
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

var (
	// ErrNilMetricsCollector is returned when a nil metrics collector is provided to WithMetrics.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")

	// ErrEmptyCommandType is returned when an empty command type is provided to WithMetrics.
	ErrEmptyCommandType = errors.New("command type must not be empty")

	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

// RetryMetrics captures what happened during the retry loop, for observability
// and for the handler result.
type RetryMetrics struct {
	Attempts         int
	TotalDelay       time.Duration
	LastErrorType    string
	RetriesExhausted bool
}

type retryConfig struct {
	maxAttempts      int
	baseDelay        time.Duration
	jitterFactor     float64
	metricsCollector MetricsCollector
	commandType      string
}

// RetryWithBackoff executes fn, retrying on concurrency conflicts with
// exponential backoff and jitter. All other errors fail fast: a rejected
// command stays rejected no matter how often it is replayed, and timeouts
// under load must surface instead of piling on.
func RetryWithBackoff(ctx context.Context, fn RetryableFunc, options ...RetryOption) (RetryMetrics, error) {
	config := &retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(config); err != nil {
			return RetryMetrics{}, err
		}
	}

	metrics := RetryMetrics{LastErrorType: "none"}

	var lastErr error

	for attempt := 0; attempt < config.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := config.baseDelay * time.Duration(1<<(attempt-1))

			jitter := rand.Float64() * float64(delay) * config.jitterFactor //nolint:gosec // math/rand is sufficient for jitter
			backoffDelay := delay + time.Duration(jitter)
			metrics.TotalDelay += backoffDelay

			recordRetryDelayMetric(config, attempt, backoffDelay)

			select {
			case <-time.After(backoffDelay):
			case <-ctx.Done():
				metrics.LastErrorType = errorType(ctx.Err())
				return metrics, ctx.Err()
			}
		}

		metrics.Attempts = attempt + 1

		lastErr = fn(ctx)
		if lastErr == nil {
			metrics.LastErrorType = "none"
			return metrics, nil
		}

		metrics.LastErrorType = errorType(lastErr)

		if !isRetryableError(lastErr) {
			return metrics, lastErr
		}

		recordRetryAttemptMetric(config, attempt, lastErr)
	}

	metrics.RetriesExhausted = true
	recordMaxRetriesReachedMetric(config, lastErr)

	return metrics, lastErr
}

func recordRetryDelayMetric(config *retryConfig, attempt int, backoffDelay time.Duration) {
	if config.metricsCollector == nil {
		return
	}

	config.metricsCollector.RecordDuration(CommandHandlerRetryDelayMetric, backoffDelay, map[string]string{
		LabelCommandType: config.commandType,
		"attempt_number": fmt.Sprintf("%d", attempt),
	})
}

func recordRetryAttemptMetric(config *retryConfig, attempt int, lastErr error) {
	if config.metricsCollector == nil || attempt >= config.maxAttempts-1 {
		return
	}

	config.metricsCollector.IncrementCounter(CommandHandlerRetriesMetric, map[string]string{
		LabelCommandType: config.commandType,
		"attempt_number": fmt.Sprintf("%d", attempt+1),
		"error_type":     errorType(lastErr),
	})
}

func recordMaxRetriesReachedMetric(config *retryConfig, lastErr error) {
	if config.metricsCollector == nil {
		return
	}

	config.metricsCollector.IncrementCounter(CommandHandlerMaxRetriesReachedMetric, map[string]string{
		LabelCommandType:   config.commandType,
		"final_error_type": errorType(lastErr),
	})
}

func isRetryableError(err error) bool {
	return errors.Is(err, ledgerstore.ErrConcurrencyConflict)
}

func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ledgerstore.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	default:
		return "other"
	}
}

// RetryOption configures retry behavior using the functional options pattern.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the maximum number of attempts, including the first one.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter factor, 0.0 (none) to 1.0 (up to 100% of the delay).
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}

// WithMetrics sets the metrics collector for retry instrumentation.
func WithMetrics(collector MetricsCollector, commandType string) RetryOption {
	return func(config *retryConfig) error {
		if collector == nil {
			return ErrNilMetricsCollector
		}

		if commandType == "" {
			return ErrEmptyCommandType
		}

		config.metricsCollector = collector
		config.commandType = commandType

		return nil
	}
}
