// Package ledgerstore defines the storage contract for the circulation transaction
// log: an append-only stream of circulation events with a strictly increasing
// sequence number, queried and appended through dynamic filters.
//
// The central primitive is the conditional append: a caller queries the events
// matching a filter, receives the maximum sequence number for that slice of the log,
// makes its business decision, and appends new events only if the maximum sequence
// number is still unchanged. Concurrent writers racing on the same copy lose with
// ErrConcurrencyConflict and no partial update, which is what keeps the copy ledger
// safe without any application-level locking.
//
// Engine implementations live in subpackages; postgresengine is the production one.
package ledgerstore
