package copyavailability

import (
	"time"

	"github.com/shelfwise/circulate/circulation/core"
)

// ReservationInfo describes an active pickup reservation on a copy.
type ReservationInfo struct {
	MemberID       core.MemberIDString
	PickupDeadline time.Time
}

// CopyAvailability represents the query result for a single copy.
type CopyAvailability struct {
	CopyID      core.CopyIDString
	LibraryID   core.LibraryIDString
	Exists      bool
	State       core.CopyState
	HolderID    core.MemberIDString
	DueDate     time.Time
	HoldQueue   []core.MemberIDString
	Reservation *ReservationInfo
}
