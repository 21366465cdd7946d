// Package postgresengine provides the PostgreSQL implementation of the circulation
// transaction log.
//
// All circulation events of a library system live in one append-only table
// (default "transaction_events"):
//
//	CREATE TABLE transaction_events (
//	    sequence_number BIGSERIAL PRIMARY KEY,
//	    event_type      TEXT                     NOT NULL,
//	    occurred_at     TIMESTAMP WITH TIME ZONE NOT NULL,
//	    payload         JSONB                    NOT NULL,
//	    metadata        JSONB                    NOT NULL
//	);
//	CREATE INDEX transaction_events_payload_idx ON transaction_events USING GIN (payload jsonb_path_ops);
//
// Appends are conditional: the generated INSERT ... SELECT commits the new rows only
// if the maximum sequence number of the filtered stream still equals the value the
// caller observed when querying, detecting lost updates without locks.
//
// Key features:
//   - Multiple database adapter support (PGX, sql.DB, SQLX), with optional
//     read replica routing driven by the consistency level in the context
//   - Atomic multi-event appends with concurrency conflict detection
//   - Dynamic stream filtering on event types and JSON payload predicates,
//     plus sequence and occurred-at bounds for feed tailing and backfill
//   - Configurable table name, dual loggers, and a metrics collector
//
// Usage:
//
//	db, _ := pgxpool.New(ctx, dsn)
//	store, _ := postgresengine.NewLogStoreFromPGXPool(
//		db,
//		postgresengine.WithLogger(logger),
//		postgresengine.WithMetrics(collector),
//	)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
