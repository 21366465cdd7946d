package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shelfwise/circulate/circulation/features/query/copyavailability"
	"github.com/shelfwise/circulate/circulation/features/query/memberloans"
	"github.com/shelfwise/circulate/circulation/features/query/overdueloans"
	"github.com/shelfwise/circulate/publisher"
)

func (s *Server) handleCopyAvailability(w http.ResponseWriter, r *http.Request) {
	copyID, ok := s.pathUUID(w, r, "copyID")
	if !ok {
		return
	}

	result, err := s.copyAvailability.Handle(r.Context(), copyavailability.BuildQuery(copyID))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	if !result.Exists {
		s.writeError(w, http.StatusNotFound, "copy is not in this library's inventory")

		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMemberLoans(w http.ResponseWriter, r *http.Request) {
	memberID, ok := s.pathUUID(w, r, "memberID")
	if !ok {
		return
	}

	result, err := s.memberLoans.Handle(r.Context(), memberloans.BuildQuery(memberID))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	if !result.Exists {
		s.writeError(w, http.StatusNotFound, "member is not registered with this library")

		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleOverdueLoans(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}

	asOf := time.Now()
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "asOf must be RFC 3339")

			return
		}
		asOf = parsed
	}

	result, err := s.overdueLoans.Handle(r.Context(), overdueloans.BuildQuery(libraryID, asOf))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleSweepNow is the manual "recompute now" entry point. The sweep covers
// all configured libraries; the response carries every report so the admin
// caller does not have to fan out per library.
func (s *Server) handleSweepNow(w http.ResponseWriter, r *http.Request) {
	if s.sweeper == nil {
		s.writeError(w, http.StatusNotImplemented, "sweep is not configured")

		return
	}

	reports, err := s.sweeper.RunOnce(r.Context())
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, reports)
}

// handleFeedBackfill replays the availability feed of the library from a
// sequence number, for subscribers re-syncing after a disconnect.
func (s *Server) handleFeedBackfill(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}

	var fromSequence uint64
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "from must be a sequence number")

			return
		}
		fromSequence = parsed
	}

	records, err := publisher.Backfill(r.Context(), s.eventStore, libraryID.String(), fromSequence)
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	if records == nil {
		records = []publisher.AvailabilityRecord{}
	}

	s.writeJSON(w, http.StatusOK, records)
}
