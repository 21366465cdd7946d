// Package policy holds the per-library circulation rules and the store that
// resolves them. Policies are configuration, not ledger state: a change affects
// only commands issued after it, never recorded transactions.
package policy

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownLibrary is returned when no policy exists for a library id.
// Every library must have a policy before it can circulate copies, so hitting
// this during command handling is a configuration error, not a user error.
var ErrUnknownLibrary = errors.New("no circulation policy configured for library")

// Policy is the complete set of circulation rules for one library.
// Monetary amounts are in cents.
type Policy struct {
	LoanPeriodDays         int   `json:"loanPeriodDays"`
	MaxRenewals            int   `json:"maxRenewals"`
	MaxOpenLoans           int   `json:"maxOpenLoans"`
	MaxHoldsPerMember      int   `json:"maxHoldsPerMember"`
	HoldPickupDays         int   `json:"holdPickupDays"`
	GraceDays              int   `json:"graceDays"`
	FinePerDayCents        int64 `json:"finePerDayCents"`
	MaxFeeCents            int64 `json:"maxFeeCents"` // 0 means uncapped
	FeeBlockThresholdCents int64 `json:"feeBlockThresholdCents"`
}

// Validate checks the policy for values that would break circulation arithmetic.
func (p Policy) Validate() error {
	if p.LoanPeriodDays <= 0 {
		return fmt.Errorf("loanPeriodDays must be positive, got %d", p.LoanPeriodDays)
	}

	if p.MaxRenewals < 0 {
		return fmt.Errorf("maxRenewals must not be negative, got %d", p.MaxRenewals)
	}

	if p.MaxOpenLoans <= 0 {
		return fmt.Errorf("maxOpenLoans must be positive, got %d", p.MaxOpenLoans)
	}

	if p.MaxHoldsPerMember <= 0 {
		return fmt.Errorf("maxHoldsPerMember must be positive, got %d", p.MaxHoldsPerMember)
	}

	if p.HoldPickupDays <= 0 {
		return fmt.Errorf("holdPickupDays must be positive, got %d", p.HoldPickupDays)
	}

	if p.GraceDays < 0 {
		return fmt.Errorf("graceDays must not be negative, got %d", p.GraceDays)
	}

	if p.FinePerDayCents < 0 {
		return fmt.Errorf("finePerDayCents must not be negative, got %d", p.FinePerDayCents)
	}

	if p.MaxFeeCents < 0 {
		return fmt.Errorf("maxFeeCents must not be negative, got %d", p.MaxFeeCents)
	}

	if p.FeeBlockThresholdCents < 0 {
		return fmt.Errorf("feeBlockThresholdCents must not be negative, got %d", p.FeeBlockThresholdCents)
	}

	return nil
}

// LoanPeriod returns the loan period as a duration of whole days.
func (p Policy) LoanPeriod() time.Duration {
	return time.Duration(p.LoanPeriodDays) * 24 * time.Hour
}

// HoldPickupWindow returns how long a fulfilled hold stays reserved.
func (p Policy) HoldPickupWindow() time.Duration {
	return time.Duration(p.HoldPickupDays) * 24 * time.Hour
}

// Store resolves the circulation policy for a library.
type Store interface {
	// PolicyFor returns the policy for the library, or ErrUnknownLibrary.
	PolicyFor(libraryID string) (Policy, error)
}
