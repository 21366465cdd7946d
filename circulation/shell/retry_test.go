package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shelfwise/circulate/ledgerstore"
)

func Test_RetryWithBackoff_Success_NoRetries(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	meta, err := RetryWithBackoff(ctx, fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithBackoff_RetriesOnceOnConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 2 {
			return ledgerstore.ErrConcurrencyConflict
		}
		return nil
	}

	meta, err := RetryWithBackoff(ctx, fn)

	assert.NoError(t, err)
	assert.Equal(t, 2, callCount)
	assert.Equal(t, 2, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithBackoff_ExhaustsAfterBoundedAttempts(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return ledgerstore.ErrConcurrencyConflict
	}

	meta, err := RetryWithBackoff(ctx, fn)

	assert.ErrorIs(t, err, ledgerstore.ErrConcurrencyConflict)
	assert.Equal(t, 2, callCount) // conflict is retried exactly once by default
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
}

func Test_RetryWithBackoff_NonRetryableErrorFailsFast(t *testing.T) {
	ctx := context.Background()
	callCount := 0
	permanentErr := errors.New("member is banned")

	fn := func(_ context.Context) error {
		callCount++
		return permanentErr
	}

	meta, err := RetryWithBackoff(ctx, fn)

	assert.ErrorIs(t, err, permanentErr)
	assert.Equal(t, 1, callCount)
	assert.False(t, meta.RetriesExhausted)
	assert.Equal(t, "other", meta.LastErrorType)
}

func Test_RetryWithBackoff_ContextCancellationStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return ledgerstore.ErrConcurrencyConflict
	}

	_, err := RetryWithBackoff(ctx, fn, WithMaxAttempts(5), WithBaseDelay(time.Hour))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
}

func Test_RetryWithBackoff_WithAllOptions(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return ledgerstore.ErrConcurrencyConflict
		}
		return nil
	}

	meta, err := RetryWithBackoff(ctx, fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0.1),
	)

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
}

func Test_RetryWithBackoff_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	fn := func(_ context.Context) error { return nil }

	_, err := RetryWithBackoff(ctx, fn, WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = RetryWithBackoff(ctx, fn, WithBaseDelay(-time.Second))
	assert.ErrorIs(t, err, ErrNegativeBaseDelay)

	_, err = RetryWithBackoff(ctx, fn, WithJitterFactor(1.5))
	assert.ErrorIs(t, err, ErrInvalidJitterFactor)

	_, err = RetryWithBackoff(ctx, fn, WithMetrics(nil, "Checkout"))
	assert.ErrorIs(t, err, ErrNilMetricsCollector)
}
