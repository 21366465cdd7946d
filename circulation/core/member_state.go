package core

// MemberSnapshot is the projected state of one member, folded from the member's
// event history. It carries everything the checkout gate needs: standing,
// outstanding fees, and the member's open loans and pending holds.
type MemberSnapshot struct {
	MemberID            MemberIDString
	LibraryID           LibraryIDString
	Exists              bool
	Standing            StandingString
	OutstandingFeeCents FeeCentsInt64
	openLoans           map[CopyIDString]struct{}
	openHolds           map[CopyIDString]struct{}
}

// InLibrary reports whether the member is registered with this library.
// A member of a different library is indistinguishable from an unknown one,
// so commands scoped to the wrong library reject as not found instead of
// operating across the tenant boundary.
func (m MemberSnapshot) InLibrary(libraryID LibraryIDString) bool {
	return m.Exists && m.LibraryID == libraryID
}

// OpenLoanCount is the number of copies the member currently has checked out.
func (m MemberSnapshot) OpenLoanCount() int {
	return len(m.openLoans)
}

// OpenHoldCount is the number of pending holds the member has in queues, including
// holds already fulfilled and awaiting pickup.
func (m MemberSnapshot) OpenHoldCount() int {
	return len(m.openHolds)
}

// HasOpenHoldOn reports whether the member has a pending hold or reservation on the copy.
func (m MemberSnapshot) HasOpenHoldOn(copyID CopyIDString) bool {
	_, ok := m.openHolds[copyID]
	return ok
}

// ProjectMember builds the snapshot of one member by replaying their event history
// in log order. Outstanding fees are the sum of assessments minus the sum of recorded
// payments, floored at zero so overpayment never turns into credit.
func ProjectMember(history DomainEvents, memberID MemberIDString) MemberSnapshot {
	m := MemberSnapshot{
		MemberID:  memberID,
		openLoans: make(map[CopyIDString]struct{}),
		openHolds: make(map[CopyIDString]struct{}),
	}

	for _, event := range history {
		switch e := event.(type) {
		case MemberRegistered:
			if e.MemberID == memberID {
				m.Exists = true
				m.LibraryID = e.LibraryID
				m.Standing = StandingActive
			}

		case MemberStandingChanged:
			if e.MemberID == memberID {
				m.Standing = e.Standing
			}

		case FeeAssessed:
			if e.MemberID == memberID {
				m.OutstandingFeeCents += e.AmountCents
			}

		case FeePaymentRecorded:
			if e.MemberID == memberID {
				m.OutstandingFeeCents -= e.AmountCents
				if m.OutstandingFeeCents < 0 {
					m.OutstandingFeeCents = 0
				}
			}

		case CopyCheckedOut:
			if e.MemberID == memberID {
				m.openLoans[e.CopyID] = struct{}{}
				delete(m.openHolds, e.CopyID) // picking up a reservation consumes the hold
			}

		case CopyReturned:
			if e.MemberID == memberID {
				delete(m.openLoans, e.CopyID)
			}

		case HoldPlaced:
			if e.MemberID == memberID {
				m.openHolds[e.CopyID] = struct{}{}
			}

		case HoldReleased:
			if e.MemberID == memberID {
				delete(m.openHolds, e.CopyID)
			}
		}
	}

	return m
}
