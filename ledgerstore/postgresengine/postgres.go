package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/ledgerstore/postgresengine/internal/adapters"
)

const (
	defaultEventTableName          = "transaction_events"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "ledgerstore operation: "
	logAttrError                   = "error"
	logAttrQuery                   = "query"
	logAttrEventType               = "event_type"
	logAttrEventCount              = "event_count"
	logAttrDurationMS              = "duration_ms"
	logAttrExpectedEvents          = "expected_events"
	logAttrRowsAffected            = "rows_affected"
	logAttrExpectedSequence        = "expected_sequence"
	logActionQuery                 = "query"
	logActionAppend                = "append"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"

	metricQueryDuration       = "ledgerstore_query_duration_seconds"
	metricAppendDuration      = "ledgerstore_append_duration_seconds"
	metricConcurrencyConflict = "ledgerstore_concurrency_conflicts_total"
	metricDatabaseErrors      = "ledgerstore_database_errors_total"
	labelOperation            = "operation"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	queryDuration     = time.Duration
)

// LogStore is the Postgres implementation of the circulation transaction log.
//
// All events live in a single append-only table with a bigserial sequence number.
// Appends are conditional on the maximum sequence number of the filtered stream
// being unchanged since the caller's preceding query, which makes the append an
// atomic compare-and-set and the one concurrency primitive of the whole subsystem.
type LogStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
}

type queryResultRow struct {
	eventType      string
	payload        []byte
	metadata       []byte
	occurredAt     time.Time
	sequenceNumber ledgerstore.SequenceNumberUint
}

// NewLogStoreFromPGXPool creates a new LogStore using a pgx Pool with optional configuration.
func NewLogStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*LogStore, error) {
	if db == nil {
		return nil, ledgerstore.ErrNilDatabaseConnection
	}

	return newLogStore(adapters.NewPGXAdapter(db), options...)
}

// NewLogStoreFromPGXPoolWithReplica creates a new LogStore using a primary and a replica pgx Pool.
// Reads under an eventual-consistency context are routed to the replica.
func NewLogStoreFromPGXPoolWithReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*LogStore, error) {
	if db == nil || replica == nil {
		return nil, ledgerstore.ErrNilDatabaseConnection
	}

	return newLogStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewLogStoreFromSQLDB creates a new LogStore using a sql.DB with optional configuration.
func NewLogStoreFromSQLDB(db *sql.DB, options ...Option) (*LogStore, error) {
	if db == nil {
		return nil, ledgerstore.ErrNilDatabaseConnection
	}

	return newLogStore(adapters.NewSQLAdapter(db), options...)
}

// NewLogStoreFromSQLX creates a new LogStore using a sqlx.DB with optional configuration.
func NewLogStoreFromSQLX(db *sqlx.DB, options ...Option) (*LogStore, error) {
	if db == nil {
		return nil, ledgerstore.ErrNilDatabaseConnection
	}

	return newLogStore(adapters.NewSQLXAdapter(db), options...)
}

func newLogStore(db adapters.DBAdapter, options ...Option) (*LogStore, error) {
	ls := &LogStore{
		db:             db,
		eventTableName: defaultEventTableName,
	}

	for _, option := range options {
		if err := option(ls); err != nil {
			return nil, err
		}
	}

	return ls, nil
}

// Query retrieves events matching the provided ledgerstore.Filter criteria in
// sequence order, together with the maximum sequence number for this filtered
// stream at the time of the query.
func (ls *LogStore) Query(ctx context.Context, filter ledgerstore.Filter) (
	ledgerstore.StorableEvents,
	ledgerstore.MaxSequenceNumberUint,
	error,
) {

	var empty ledgerstore.StorableEvents

	sqlQuery, buildQueryErr := ls.buildSelectQuery(filter)
	if buildQueryErr != nil {
		ls.logError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		return empty, 0, buildQueryErr
	}

	rows, duration, queryErr := ls.executeQuery(ctx, sqlQuery)
	if queryErr != nil {
		ls.recordErrorMetric(logActionQuery)
		return empty, 0, queryErr
	}
	defer ls.closeRows(ctx, rows)

	eventStream, maxSequenceNumber, scanErr := ls.processQueryResults(ctx, rows)
	if scanErr != nil {
		return empty, 0, scanErr
	}

	ls.recordDurationMetric(metricQueryDuration, logActionQuery, duration)
	ls.logOperation(ctx,
		logMsgQueryCompleted,
		logAttrEventCount, len(eventStream),
		logAttrDurationMS, ls.toMilliseconds(duration))

	return eventStream, maxSequenceNumber, nil
}

// Append attempts to append one or multiple ledgerstore.StorableEvent(s) onto the
// transaction log, respecting the concurrency constraint for the filtered stream
// based on the provided filter criteria and the expected maximum sequence number.
//
// The provided filter must be the same one used for the Query before making the
// business decision. If another writer committed to the same stream in between,
// no rows are inserted and ledgerstore.ErrConcurrencyConflict is returned.
//
// The insert statement for multiple events is heavier than the single-event one;
// commands should only append multiple events when one atomic mutation genuinely
// produces several records (e.g. a return that assesses a fee and fulfills a hold).
func (ls *LogStore) Append(
	ctx context.Context,
	filter ledgerstore.Filter,
	expectedMaxSequenceNumber ledgerstore.MaxSequenceNumberUint,
	event ledgerstore.StorableEvent,
	additionalEvents ...ledgerstore.StorableEvent,
) error {

	allEvents := ledgerstore.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	sqlQuery, buildQueryErr := ls.buildAppendQuery(ctx, allEvents, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		return buildQueryErr
	}

	rowsAffected, duration, execErr := ls.executeAppendQuery(ctx, sqlQuery)
	if execErr != nil {
		ls.recordErrorMetric(logActionAppend)
		return execErr
	}

	if err := ls.validateAppendResult(ctx, rowsAffected, len(allEvents), expectedMaxSequenceNumber); err != nil {
		return err
	}

	ls.recordDurationMetric(metricAppendDuration, logActionAppend, duration)
	ls.logOperation(ctx,
		logMsgEventsAppended,
		logAttrEventCount, len(allEvents),
		logAttrDurationMS, ls.toMilliseconds(duration),
	)

	return nil
}

func (ls *LogStore) executeQuery(ctx context.Context, sqlQuery string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := ls.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	ls.logQueryWithDuration(sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		ls.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, duration, errors.Join(ledgerstore.ErrQueryingEventsFailed, queryErr)
	}

	return rows, duration, nil
}

func (ls *LogStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		ls.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (ls *LogStore) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	ledgerstore.StorableEvents,
	ledgerstore.MaxSequenceNumberUint,
	error,
) {

	var empty ledgerstore.StorableEvents
	result := queryResultRow{}
	eventStream := make(ledgerstore.StorableEvents, 0)
	maxSequenceNumber := ledgerstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.sequenceNumber)
		if rowScanErr != nil {
			ls.logError(ctx, logMsgScanRowFailed, rowScanErr)
			return empty, 0, errors.Join(ledgerstore.ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := ledgerstore.BuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata)
		if buildStorableErr != nil {
			ls.logError(ctx, logMsgBuildStorableEventFailed, buildStorableErr, logAttrEventType, result.eventType)
			return empty, 0, errors.Join(ledgerstore.ErrBuildingStorableEventFailed, buildStorableErr)
		}

		event.SequenceNumber = result.sequenceNumber
		eventStream = append(eventStream, event)
		maxSequenceNumber = result.sequenceNumber
	}

	return eventStream, maxSequenceNumber, nil
}

func (ls *LogStore) buildAppendQuery(
	ctx context.Context,
	allEvents ledgerstore.StorableEvents,
	filter ledgerstore.Filter,
	expectedMaxSequenceNumber ledgerstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	var sqlQuery sqlQueryString
	var buildQueryErr error

	switch len(allEvents) {
	case 1:
		sqlQuery, buildQueryErr = ls.buildInsertQueryForSingleEvent(allEvents[0], filter, expectedMaxSequenceNumber)

	default:
		sqlQuery, buildQueryErr = ls.buildInsertQueryForMultipleEvents(allEvents, filter, expectedMaxSequenceNumber)
	}

	if buildQueryErr != nil {
		ls.logError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(allEvents))
		return "", buildQueryErr
	}

	return sqlQuery, nil
}

func (ls *LogStore) executeAppendQuery(ctx context.Context, sqlQuery string) (
	rowsAffectedInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	tag, execErr := ls.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	ls.logQueryWithDuration(sqlQuery, logActionAppend, duration)

	if execErr != nil {
		ls.logError(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, duration, errors.Join(ledgerstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := tag.RowsAffected()
	if rowsAffectedErr != nil {
		ls.logError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		return 0, duration, errors.Join(ledgerstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

func (ls *LogStore) validateAppendResult(
	ctx context.Context,
	rowsAffected int64,
	expectedEventCount int,
	expectedMaxSequenceNumber ledgerstore.MaxSequenceNumberUint,
) error {

	if rowsAffected < int64(expectedEventCount) {
		ls.recordConflictMetric()
		ls.logOperation(ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, expectedEventCount,
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)

		return ledgerstore.ErrConcurrencyConflict
	}

	return nil
}

func (ls *LogStore) buildSelectQuery(filter ledgerstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(ls.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt = ls.addWhereClause(filter, selectStmt)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ledgerstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (ls *LogStore) buildInsertQueryForSingleEvent(
	event ledgerstore.StorableEvent,
	filter ledgerstore.Filter,
	expectedMaxSequenceNumber ledgerstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	// The CTE computes the current max sequence of the filtered stream.
	cteStmt := builder.
		From(ls.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	cteStmt = ls.addWhereClause(filter, cteStmt)

	// The SELECT feeding the INSERT yields the row only if the stream is unchanged.
	selectStmt := builder.
		From(cteContext).
		Select(goqu.V(event.EventType), goqu.V(event.OccurredAt), goqu.V(event.PayloadJSON), goqu.V(event.MetadataJSON)).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(ls.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ledgerstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (ls *LogStore) buildInsertQueryForMultipleEvents(
	events []ledgerstore.StorableEvent,
	filter ledgerstore.Filter,
	expectedMaxSequenceNumber ledgerstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt := builder.
		From(ls.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	cteStmt = ls.addWhereClause(filter, cteStmt)

	// One SELECT per event, combined with UNION ALL, so all rows insert together
	// or none do.
	unionStatements := make([]*goqu.SelectDataset, len(events))
	for i, event := range events {
		unionStatements[i] = builder.
			Select(
				goqu.L(castText, event.EventType).As(colEventType),
				goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
				goqu.L(castJsonb, event.PayloadJSON).As(colPayload),
				goqu.L(castJsonb, event.MetadataJSON).As(colMetadata),
			)
	}

	valuesStmt := unionStatements[0]
	for i := 1; i < len(unionStatements); i++ {
		valuesStmt = valuesStmt.UnionAll(unionStatements[i])
	}

	valsEventType := fmt.Sprintf("%s.%s", cteVals, colEventType)
	valsOccurredAt := fmt.Sprintf("%s.%s", cteVals, colOccurredAt)
	valsPayload := fmt.Sprintf("%s.%s", cteVals, colPayload)
	valsMetadata := fmt.Sprintf("%s.%s", cteVals, colMetadata)

	insertStmt := builder.
		Insert(ls.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(valsEventType, valsOccurredAt, valsPayload, valsMetadata).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ledgerstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (ls *LogStore) addWhereClause(filter ledgerstore.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	conditions := make([]goqu.Expression, 0)

	itemsExpressions := make([]goqu.Expression, 0)

	for _, item := range filter.Items() {
		itemExpressions := make([]goqu.Expression, 0)

		if len(item.EventTypes()) > 0 {
			eventTypeExpressions := make([]goqu.Expression, 0)

			for _, eventType := range item.EventTypes() {
				eventTypeExpressions = append(
					eventTypeExpressions,
					goqu.Ex{colEventType: eventType},
				)
			}

			// eventTypes must always be filtered with OR
			itemExpressions = append(itemExpressions, goqu.Or(eventTypeExpressions...))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]goqu.Expression, 0)

			for _, predicate := range item.Predicates() {
				predicateExpressions = append(
					predicateExpressions,
					goqu.L(fmt.Sprintf(`%s @> '{"%s": "%s"}'`, colPayload, predicate.Key(), predicate.Val())),
				)
			}

			if item.AllPredicatesMustMatch() {
				itemExpressions = append(itemExpressions, goqu.And(predicateExpressions...))
			} else {
				itemExpressions = append(itemExpressions, goqu.Or(predicateExpressions...))
			}
		}

		if len(itemExpressions) > 0 {
			itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
		}
	}

	if len(itemsExpressions) > 0 {
		conditions = append(conditions, goqu.Or(itemsExpressions...))
	}

	if filter.SequenceNumberHigherThan() > 0 {
		conditions = append(conditions, goqu.C(colSequenceNumber).Gt(filter.SequenceNumberHigherThan()))
	}

	if !filter.OccurredFrom().IsZero() {
		conditions = append(conditions, goqu.C(colOccurredAt).Gte(filter.OccurredFrom()))
	}

	if !filter.OccurredUntil().IsZero() {
		conditions = append(conditions, goqu.C(colOccurredAt).Lte(filter.OccurredUntil()))
	}

	if len(conditions) > 0 {
		selectStmt = selectStmt.Where(goqu.And(conditions...))
	}

	return selectStmt
}
