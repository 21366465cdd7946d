package publisher

import (
	"time"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

// AvailabilityRecord is one entry of the availability feed: the state of a
// copy right after the ledger mutation at SequenceNumber. HolderID is empty
// and DueDate is zero unless the copy is checked out.
type AvailabilityRecord struct {
	CopyID         core.CopyIDString
	LibraryID      core.LibraryIDString
	NewState       core.CopyState
	HolderID       core.MemberIDString
	DueDate        time.Time
	SequenceNumber ledgerstore.SequenceNumberUint
}

func recordFromSnapshot(s core.CopySnapshot, seq ledgerstore.SequenceNumberUint) AvailabilityRecord {
	record := AvailabilityRecord{
		CopyID:         s.CopyID,
		LibraryID:      s.LibraryID,
		NewState:       s.State,
		SequenceNumber: seq,
	}

	if s.State == core.StateCheckedOut {
		record.HolderID = s.HolderID
		record.DueDate = s.DueDate
	}

	return record
}
