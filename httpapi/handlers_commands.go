package httpapi

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
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
)

// staffIDHeader carries the authenticated staff id on command requests.
const staffIDHeader = "X-Staff-ID"

func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, param+" must be a UUID")

		return uuid.Nil, false
	}

	return id, true
}

func (s *Server) staffID(w http.ResponseWriter, r *http.Request) (string, bool) {
	staffID := r.Header.Get(staffIDHeader)
	if staffID == "" {
		s.writeError(w, http.StatusBadRequest, staffIDHeader+" header is required")

		return "", false
	}

	return staffID, true
}

// decodeBody reads the JSON request body. An empty body is accepted and
// leaves the target at its zero value, for commands whose fields are all
// optional.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "malformed request body")

		return false
	}

	return true
}

func (s *Server) handleAddCopy(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	staffID, ok := s.staffID(w, r)
	if !ok {
		return
	}

	var body struct {
		CopyID     uuid.UUID `json:"copyId"`
		CatalogRef string    `json:"catalogRef"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.CopyID == uuid.Nil || body.CatalogRef == "" {
		s.writeError(w, http.StatusBadRequest, "copyId and catalogRef are required")

		return
	}

	result, err := s.addCopy.Handle(r.Context(), addcopy.BuildCommand(body.CopyID, libraryID, body.CatalogRef, staffID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handleRetireCopy(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	copyID, ok := s.pathUUID(w, r, "copyID")
	if !ok {
		return
	}
	staffID, ok := s.staffID(w, r)
	if !ok {
		return
	}

	result, err := s.retireCopy.Handle(r.Context(), retirecopy.BuildCommand(copyID, libraryID, staffID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	staffID, ok := s.staffID(w, r)
	if !ok {
		return
	}

	var body struct {
		MemberID uuid.UUID `json:"memberId"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.MemberID == uuid.Nil {
		s.writeError(w, http.StatusBadRequest, "memberId is required")

		return
	}

	result, err := s.registerMember.Handle(r.Context(), registermember.BuildCommand(body.MemberID, libraryID, staffID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handleSetMemberStanding(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	memberID, ok := s.pathUUID(w, r, "memberID")
	if !ok {
		return
	}
	staffID, ok := s.staffID(w, r)
	if !ok {
		return
	}

	var body struct {
		Standing core.StandingString `json:"standing"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	result, err := s.setMemberStanding.Handle(r.Context(), setmemberstanding.BuildCommand(memberID, libraryID, body.Standing, staffID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handleRecordFeePayment(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	memberID, ok := s.pathUUID(w, r, "memberID")
	if !ok {
		return
	}
	staffID, ok := s.staffID(w, r)
	if !ok {
		return
	}

	var body struct {
		AmountCents core.FeeCentsInt64 `json:"amountCents"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	result, err := s.recordFeePayment.Handle(r.Context(), recordfeepayment.BuildCommand(memberID, libraryID, body.AmountCents, staffID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	copyID, ok := s.pathUUID(w, r, "copyID")
	if !ok {
		return
	}
	staffID, ok := s.staffID(w, r)
	if !ok {
		return
	}

	var body struct {
		MemberID uuid.UUID `json:"memberId"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.MemberID == uuid.Nil {
		s.writeError(w, http.StatusBadRequest, "memberId is required")

		return
	}

	result, err := s.checkoutCopy.Handle(r.Context(), checkoutcopy.BuildCommand(copyID, libraryID, body.MemberID, staffID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	copyID, ok := s.pathUUID(w, r, "copyID")
	if !ok {
		return
	}
	staffID, ok := s.staffID(w, r)
	if !ok {
		return
	}

	var body struct {
		Condition string `json:"condition"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.Condition == "" {
		body.Condition = "good"
	}

	result, err := s.returnCopy.Handle(r.Context(), returncopy.BuildCommand(copyID, libraryID, staffID, body.Condition, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handleRenew(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	copyID, ok := s.pathUUID(w, r, "copyID")
	if !ok {
		return
	}
	staffID, ok := s.staffID(w, r)
	if !ok {
		return
	}

	var body struct {
		MemberID uuid.UUID `json:"memberId"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.MemberID == uuid.Nil {
		s.writeError(w, http.StatusBadRequest, "memberId is required")

		return
	}

	result, err := s.renewLoan.Handle(r.Context(), renewloan.BuildCommand(copyID, libraryID, body.MemberID, staffID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handlePlaceHold(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	copyID, ok := s.pathUUID(w, r, "copyID")
	if !ok {
		return
	}

	var body struct {
		MemberID uuid.UUID `json:"memberId"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.MemberID == uuid.Nil {
		s.writeError(w, http.StatusBadRequest, "memberId is required")

		return
	}

	result, err := s.placeHold.Handle(r.Context(), placehold.BuildCommand(copyID, libraryID, body.MemberID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handleCancelHold(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	copyID, ok := s.pathUUID(w, r, "copyID")
	if !ok {
		return
	}
	memberID, ok := s.pathUUID(w, r, "memberID")
	if !ok {
		return
	}

	result, err := s.cancelHold.Handle(r.Context(), cancelhold.BuildCommand(copyID, libraryID, memberID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}

func (s *Server) handleExpireHold(w http.ResponseWriter, r *http.Request) {
	libraryID, ok := s.pathUUID(w, r, "libraryID")
	if !ok {
		return
	}
	copyID, ok := s.pathUUID(w, r, "copyID")
	if !ok {
		return
	}

	result, err := s.expireHold.Handle(r.Context(), expirehold.BuildCommand(copyID, libraryID, time.Now()))
	if err != nil {
		s.writeInternalError(w, err)

		return
	}

	s.writeCommandResult(w, result)
}
