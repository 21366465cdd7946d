package sweep

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/features/query/overdueloans"
	"github.com/shelfwise/circulate/circulation/fees"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/policy"
)

// DefaultInterval is the sweep cadence used when none is configured.
const DefaultInterval = 15 * time.Minute

// OverdueLoanStatus is one overdue loan with the fee accrued so far. The fee
// is informational until the return books it.
type OverdueLoanStatus struct {
	CopyID          core.CopyIDString
	MemberID        core.MemberIDString
	TransactionID   core.TransactionIDString
	DueDate         time.Time
	LateDays        int
	AccruedFeeCents core.FeeCentsInt64
}

// Report is the outcome of sweeping one library.
type Report struct {
	LibraryID   core.LibraryIDString
	GeneratedAt time.Time
	Loans       []OverdueLoanStatus
	Count       int
}

// Sweeper periodically projects the currently-overdue loans of a set of
// libraries. It only reads the transaction log and never competes with the
// command path for the ledger's write side.
type Sweeper struct {
	queries   overdueloans.QueryHandler
	policies  policy.Store
	libraries []string

	interval time.Duration
	now      func() time.Time
	logger   shell.Logger
	sink     func(Report)
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithInterval sets the sweep cadence.
func WithInterval(interval time.Duration) Option {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithClock sets the time source, so tests can pin the observation instant.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// WithLogger sets the logger used for sweep summaries and failures.
func WithLogger(logger shell.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// WithReportSink registers a consumer for each library's report, e.g. the
// admin UI's "currently overdue" view.
func WithReportSink(sink func(Report)) Option {
	return func(s *Sweeper) {
		s.sink = sink
	}
}

// NewSweeper creates a Sweeper over the given libraries.
func NewSweeper(eventStore shell.QueriesEvents, policies policy.Store, libraries []string, opts ...Option) *Sweeper {
	s := &Sweeper{
		queries:   overdueloans.NewQueryHandler(eventStore),
		policies:  policies,
		libraries: libraries,
		interval:  DefaultInterval,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run sweeps on the configured interval until the context is canceled.
// A failing library is logged and skipped; it never halts the other libraries
// or the sweep loop.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && s.logger != nil {
				s.logger.Error("overdue sweep failed", "error", err)
			}
		}
	}
}

// RunOnce recomputes the overdue status of every library immediately. This is
// the manual "recompute now" entry point; the ticker loop calls it too.
func (s *Sweeper) RunOnce(ctx context.Context) ([]Report, error) {
	observedAt := s.now()
	reports := make([]Report, 0, len(s.libraries))

	for _, libraryID := range s.libraries {
		report, err := s.sweepLibrary(ctx, libraryID, observedAt)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("overdue sweep failed for library", "library_id", libraryID, "error", err)
			}

			continue
		}

		if s.logger != nil {
			s.logger.Info("overdue sweep completed",
				"library_id", libraryID, "overdue_loans", report.Count)
		}

		if s.sink != nil {
			s.sink(report)
		}

		reports = append(reports, report)
	}

	return reports, nil
}

func (s *Sweeper) sweepLibrary(ctx context.Context, libraryID string, observedAt time.Time) (Report, error) {
	p, err := s.policies.PolicyFor(libraryID)
	if err != nil {
		return Report{}, err
	}

	parsedLibraryID, err := uuid.Parse(libraryID)
	if err != nil {
		return Report{}, err
	}

	overdue, err := s.queries.Handle(ctx, overdueloans.BuildQuery(parsedLibraryID, observedAt))
	if err != nil {
		return Report{}, err
	}

	report := Report{
		LibraryID:   libraryID,
		GeneratedAt: observedAt,
		Loans:       make([]OverdueLoanStatus, 0, overdue.Count),
		Count:       overdue.Count,
	}

	for _, loan := range overdue.Loans {
		report.Loans = append(report.Loans, OverdueLoanStatus{
			CopyID:          loan.CopyID,
			MemberID:        loan.MemberID,
			TransactionID:   loan.TransactionID,
			DueDate:         loan.DueDate,
			LateDays:        loan.LateDays,
			AccruedFeeCents: fees.Compute(loan.DueDate, observedAt, p),
		})
	}

	return report, nil
}
