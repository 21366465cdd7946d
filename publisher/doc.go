// Package publisher implements the availability feed: a log tailer that turns
// committed copy events into per-copy availability records, and a hub that
// fans them out to subscribers.
//
// Delivery is at-least-once. Records for the same copy arrive in commit order,
// carrying the transaction-log sequence number restricted to that copy as a
// monotonically increasing per-copy sequence; subscribers de-duplicate on it.
// There is no ordering guarantee across different copies.
//
// The feed is decoupled from the command path: a command's success is decided
// by the log commit alone, and the tailer picks the record up on its next poll.
// A subscriber that falls behind until its buffer overflows is disconnected
// and reconnects with a backfill from its last seen sequence number.
package publisher
