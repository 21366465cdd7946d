package postgresengine

import (
	"context"
	"math"
	"time"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (ls *LogStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if ls.logger != nil {
		ls.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, ls.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level, preferring the contextual logger.
func (ls *LogStore) logOperation(ctx context.Context, action string, args ...any) {
	if ls.contextualLogger != nil {
		ls.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	if ls.logger != nil {
		ls.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues, preferring the contextual logger.
func (ls *LogStore) logWarn(ctx context.Context, msg string, args ...any) {
	if ls.contextualLogger != nil {
		ls.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if ls.logger != nil {
		ls.logger.Warn(msg, args...)
	}
}

// logError logs error information at the error level, preferring the contextual logger.
func (ls *LogStore) logError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if ls.contextualLogger != nil {
		ls.contextualLogger.ErrorContext(ctx, msg, allArgs...)
		return
	}

	if ls.logger != nil {
		ls.logger.Error(msg, allArgs...)
	}
}

func (ls *LogStore) recordDurationMetric(metric string, operation string, duration time.Duration) {
	if ls.metricsCollector != nil {
		ls.metricsCollector.RecordDuration(metric, duration, map[string]string{labelOperation: operation})
	}
}

func (ls *LogStore) recordConflictMetric() {
	if ls.metricsCollector != nil {
		ls.metricsCollector.IncrementCounter(metricConcurrencyConflict, map[string]string{labelOperation: logActionAppend})
	}
}

func (ls *LogStore) recordErrorMetric(operation string) {
	if ls.metricsCollector != nil {
		ls.metricsCollector.IncrementCounter(metricDatabaseErrors, map[string]string{labelOperation: operation})
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (ls *LogStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
