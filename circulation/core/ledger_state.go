package core

import (
	"slices"
	"time"
)

// CopyState is the availability state of a physical copy in the ledger.
type CopyState string

const (
	// StateUnknown - the copy was never added to this library's inventory.
	StateUnknown CopyState = ""

	// StateAvailable - on the shelf, free to check out.
	StateAvailable CopyState = "available"

	// StateCheckedOut - lent to a member, with an open borrowing transaction.
	StateCheckedOut CopyState = "checked_out"

	// StateReservedForHold - just returned and provisionally held for the next queued
	// member until the pickup deadline.
	StateReservedForHold CopyState = "reserved_for_hold"

	// StateRetired - no longer circulating; terminal.
	StateRetired CopyState = "retired"
)

// HoldEntry is one waiting request in a copy's hold queue.
type HoldEntry struct {
	MemberID    MemberIDString
	RequestedAt time.Time
}

// Reservation marks a copy as set aside for a member until the pickup deadline.
type Reservation struct {
	MemberID       MemberIDString
	PickupDeadline time.Time
}

// CopySnapshot is the projected ledger state of one copy: the authoritative answer
// to "who has it, who is waiting, when is it due". It is a pure fold over the copy's
// event history and is never stored; the transaction log is the source of truth.
type CopySnapshot struct {
	CopyID            CopyIDString
	LibraryID         LibraryIDString
	CatalogRef        CatalogRefString
	Exists            bool
	State             CopyState
	HolderID          MemberIDString // set iff State is StateCheckedOut
	DueDate           time.Time      // set iff HolderID is set
	OpenTransactionID TransactionIDString
	RenewalCount      int
	HoldQueue         []HoldEntry // FIFO in commit order
	Reservation       *Reservation
}

// InLibrary reports whether the copy exists in this library's inventory.
// A copy registered to a different library is indistinguishable from an
// unknown one, so commands scoped to the wrong library reject as not found
// instead of operating across the tenant boundary.
func (s CopySnapshot) InLibrary(libraryID LibraryIDString) bool {
	return s.Exists && s.LibraryID == libraryID
}

// IsHeldBy reports whether the member currently has the copy checked out.
func (s CopySnapshot) IsHeldBy(memberID MemberIDString) bool {
	return s.State == StateCheckedOut && s.HolderID == memberID
}

// IsQueued reports whether the member has a pending hold in the queue.
func (s CopySnapshot) IsQueued(memberID MemberIDString) bool {
	return slices.ContainsFunc(s.HoldQueue, func(e HoldEntry) bool {
		return e.MemberID == memberID
	})
}

// IsReservedFor reports whether the copy is currently set aside for the member.
func (s CopySnapshot) IsReservedFor(memberID MemberIDString) bool {
	return s.State == StateReservedForHold && s.Reservation != nil && s.Reservation.MemberID == memberID
}

// NextInLine returns the hold entry to reserve the copy for next, or false when the
// queue is empty. FIFO by request time; ties are broken by member id so concurrent
// placements from different terminals always resolve the same way.
func (s CopySnapshot) NextInLine() (HoldEntry, bool) {
	if len(s.HoldQueue) == 0 {
		return HoldEntry{}, false
	}

	next := slices.MinFunc(s.HoldQueue, func(a, b HoldEntry) int {
		if c := a.RequestedAt.Compare(b.RequestedAt); c != 0 {
			return c
		}
		if a.MemberID < b.MemberID {
			return -1
		}
		if a.MemberID > b.MemberID {
			return 1
		}
		return 0
	})

	return next, true
}

// ProjectCopy builds the ledger snapshot of one copy by replaying its event history
// in log order. The fold encodes the availability state machine:
//
//	Available -> CheckedOut            on CopyCheckedOut
//	CheckedOut -> Available            on CopyReturned (empty queue)
//	CheckedOut -> ReservedForHold      on CopyReturned + HoldFulfilled
//	ReservedForHold -> CheckedOut      on CopyCheckedOut by the reserved member
//	ReservedForHold -> Available       on HoldReleased (deadline elapsed, no re-reserve)
//	any non-retired -> Retired         on CopyRetired
func ProjectCopy(history DomainEvents, copyID CopyIDString) CopySnapshot {
	s := CopySnapshot{CopyID: copyID}

	for _, event := range history {
		s.Apply(event)
	}

	return s
}

// Apply folds one event into the snapshot. Events for other copies are ignored,
// so a caller can feed an unfiltered stream. ProjectCopy is Apply over a full
// history; incremental consumers (the availability publisher) apply events one
// at a time as they tail the log.
func (s *CopySnapshot) Apply(event DomainEvent) {
	switch e := event.(type) {
	case CopyAddedToInventory:
		if e.CopyID == s.CopyID {
			s.Exists = true
			s.LibraryID = e.LibraryID
			s.CatalogRef = e.CatalogRef
			s.State = StateAvailable
		}

	case CopyRetired:
		if e.CopyID == s.CopyID {
			s.State = StateRetired
			s.HolderID = ""
			s.DueDate = time.Time{}
			s.OpenTransactionID = ""
			s.HoldQueue = nil
			s.Reservation = nil
		}

	case CopyCheckedOut:
		if e.CopyID == s.CopyID {
			s.State = StateCheckedOut
			s.HolderID = e.MemberID
			s.DueDate = e.DueDate
			s.OpenTransactionID = e.TransactionID
			s.RenewalCount = 0
			s.Reservation = nil
		}

	case CopyReturned:
		if e.CopyID == s.CopyID {
			s.State = StateAvailable
			s.HolderID = ""
			s.DueDate = time.Time{}
			s.OpenTransactionID = ""
			s.RenewalCount = 0
		}

	case LoanRenewed:
		if e.CopyID == s.CopyID {
			s.DueDate = e.DueDate
			s.OpenTransactionID = e.TransactionID
			s.RenewalCount++
		}

	case HoldPlaced:
		if e.CopyID == s.CopyID {
			s.HoldQueue = append(s.HoldQueue, HoldEntry{
				MemberID:    e.MemberID,
				RequestedAt: e.OccurredAt,
			})
		}

	case HoldFulfilled:
		if e.CopyID == s.CopyID {
			s.removeFromQueue(e.MemberID)
			s.State = StateReservedForHold
			s.Reservation = &Reservation{
				MemberID:       e.MemberID,
				PickupDeadline: e.PickupDeadline,
			}
		}

	case HoldReleased:
		if e.CopyID == s.CopyID {
			s.removeFromQueue(e.MemberID)

			if s.Reservation != nil && s.Reservation.MemberID == e.MemberID {
				s.Reservation = nil

				if s.State == StateReservedForHold {
					s.State = StateAvailable
				}
			}
		}
	}
}

func (s *CopySnapshot) removeFromQueue(memberID MemberIDString) {
	s.HoldQueue = slices.DeleteFunc(s.HoldQueue, func(entry HoldEntry) bool {
		return entry.MemberID == memberID
	})
}
