package core

import (
	"time"
)

// Instead of implementing full value objects, these alias types and helpers keep the
// event payloads on plain scalars.

// LibraryIDString represents a library (tenant) identifier.
type LibraryIDString = string

// CopyIDString represents a physical book copy identifier.
type CopyIDString = string

// MemberIDString represents a member identifier.
type MemberIDString = string

// TransactionIDString represents a borrowing transaction identifier.
type TransactionIDString = string

// CatalogRefString is the opaque catalog reference a copy points at; resolved by the
// external catalog service, never interpreted here.
type CatalogRefString = string

// FeeCentsInt64 represents a fee amount in cents.
type FeeCentsInt64 = int64

// OccurredAtTS represents when an event occurred.
type OccurredAtTS = time.Time

// StandingString represents a member's standing.
type StandingString = string

const (
	StandingActive     StandingString = "active"
	StandingRestricted StandingString = "restricted"
	StandingBanned     StandingString = "banned"
)

// HoldReleaseReasonString explains why a hold left the queue without being picked up.
type HoldReleaseReasonString = string

const (
	HoldReleaseReasonCancelled HoldReleaseReasonString = "cancelled"
	HoldReleaseReasonExpired   HoldReleaseReasonString = "expired"
)

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond
// precision (matching the timestamp resolution of the log store).
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
