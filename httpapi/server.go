package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shelfwise/circulate/circulation/features/command/addcopy"
	"github.com/shelfwise/circulate/circulation/features/command/cancelhold"
	"github.com/shelfwise/circulate/circulation/features/command/checkoutcopy"
	"github.com/shelfwise/circulate/circulation/features/command/expirehold"
	"github.com/shelfwise/circulate/circulation/features/command/placehold"
	"github.com/shelfwise/circulate/circulation/features/command/recordfeepayment"
	"github.com/shelfwise/circulate/circulation/features/command/registermember"
	"github.com/shelfwise/circulate/circulation/features/command/renewloan"
	"github.com/shelfwise/circulate/circulation/features/command/retirecopy"
	"github.com/shelfwise/circulate/circulation/features/command/returncopy"
	"github.com/shelfwise/circulate/circulation/features/command/setmemberstanding"
	"github.com/shelfwise/circulate/circulation/features/query/copyavailability"
	"github.com/shelfwise/circulate/circulation/features/query/memberloans"
	"github.com/shelfwise/circulate/circulation/features/query/overdueloans"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/policy"
	"github.com/shelfwise/circulate/publisher"
	"github.com/shelfwise/circulate/sweep"
)

// Server wires the command and query handlers to HTTP routes.
type Server struct {
	addCopy           addcopy.CommandHandler
	retireCopy        retirecopy.CommandHandler
	registerMember    registermember.CommandHandler
	setMemberStanding setmemberstanding.CommandHandler
	recordFeePayment  recordfeepayment.CommandHandler
	checkoutCopy      checkoutcopy.CommandHandler
	returnCopy        returncopy.CommandHandler
	renewLoan         renewloan.CommandHandler
	placeHold         placehold.CommandHandler
	cancelHold        cancelhold.CommandHandler
	expireHold        expirehold.CommandHandler

	copyAvailability copyavailability.QueryHandler
	memberLoans      memberloans.QueryHandler
	overdueLoans     overdueloans.QueryHandler

	eventStore shell.EventStore
	sweeper    *sweep.Sweeper
	hub        *publisher.Hub

	logger      shell.Logger
	rateLimiter *rateLimiter
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger shell.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimit enables the token-bucket rate limit middleware.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		s.rateLimiter = newRateLimiter(perSecond, burst)
	}
}

// NewServer creates a Server over the given transaction log, policy store,
// sweeper and availability hub.
func NewServer(
	eventStore shell.EventStore,
	policies policy.Store,
	sweeper *sweep.Sweeper,
	hub *publisher.Hub,
	opts ...Option,
) *Server {

	s := &Server{
		addCopy:           addcopy.NewCommandHandler(eventStore),
		retireCopy:        retirecopy.NewCommandHandler(eventStore),
		registerMember:    registermember.NewCommandHandler(eventStore),
		setMemberStanding: setmemberstanding.NewCommandHandler(eventStore),
		recordFeePayment:  recordfeepayment.NewCommandHandler(eventStore),
		checkoutCopy:      checkoutcopy.NewCommandHandler(eventStore, policies),
		returnCopy:        returncopy.NewCommandHandler(eventStore, policies),
		renewLoan:         renewloan.NewCommandHandler(eventStore, policies),
		placeHold:         placehold.NewCommandHandler(eventStore, policies),
		cancelHold:        cancelhold.NewCommandHandler(eventStore, policies),
		expireHold:        expirehold.NewCommandHandler(eventStore, policies),

		copyAvailability: copyavailability.NewQueryHandler(eventStore),
		memberLoans:      memberloans.NewQueryHandler(eventStore),
		overdueLoans:     overdueloans.NewQueryHandler(eventStore),

		eventStore: eventStore,
		sweeper:    sweeper,
		hub:        hub,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Router builds the HTTP routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if s.rateLimiter != nil {
		r.Use(s.rateLimiter.middleware)
	}

	r.Route("/v1/libraries/{libraryID}", func(r chi.Router) {
		r.Route("/copies", func(r chi.Router) {
			r.Post("/", s.handleAddCopy)

			r.Route("/{copyID}", func(r chi.Router) {
				r.Get("/", s.handleCopyAvailability)
				r.Post("/retire", s.handleRetireCopy)
				r.Post("/checkout", s.handleCheckout)
				r.Post("/return", s.handleReturn)
				r.Post("/renew", s.handleRenew)

				r.Route("/holds", func(r chi.Router) {
					r.Post("/", s.handlePlaceHold)
					r.Post("/expire", s.handleExpireHold)
					r.Delete("/{memberID}", s.handleCancelHold)
				})
			})
		})

		r.Route("/members", func(r chi.Router) {
			r.Post("/", s.handleRegisterMember)

			r.Route("/{memberID}", func(r chi.Router) {
				r.Get("/loans", s.handleMemberLoans)
				r.Put("/standing", s.handleSetMemberStanding)
				r.Post("/payments", s.handleRecordFeePayment)
			})
		})

		r.Get("/overdue", s.handleOverdueLoans)
		r.Post("/sweep", s.handleSweepNow)
		r.Get("/feed", s.handleFeedBackfill)
	})

	return r
}
