package httpapi

import (
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/shell"
)

var json = jsoniter.ConfigFastest

// commandResponse is the wire form of a command outcome.
type commandResponse struct {
	Outcome       shell.Outcome            `json:"outcome"`
	Reason        string                   `json:"reason,omitempty"`
	TransactionID core.TransactionIDString `json:"transactionId,omitempty"`
	DueDate       *time.Time               `json:"dueDate,omitempty"`
	FeeCents      core.FeeCentsInt64       `json:"feeCents,omitempty"`
	Idempotent    bool                     `json:"idempotent,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(outcome shell.Outcome) int {
	switch outcome {
	case shell.OutcomeCommitted:
		return http.StatusOK
	case shell.OutcomeNotFound:
		return http.StatusNotFound
	case shell.OutcomeUnavailable, shell.OutcomeInvalidState, shell.OutcomeConflict:
		return http.StatusConflict
	case shell.OutcomePolicyViolation:
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

func (s *Server) writeCommandResult(w http.ResponseWriter, result shell.CommandResult) {
	response := commandResponse{
		Outcome:       result.Outcome,
		Reason:        result.Reason,
		TransactionID: result.TransactionID,
		FeeCents:      result.FeeCents,
		Idempotent:    result.Idempotent,
	}

	if !result.DueDate.IsZero() {
		dueDate := result.DueDate
		response.DueDate = &dueDate
	}

	s.writeJSON(w, statusFor(result.Outcome), response)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && s.logger != nil {
		s.logger.Error("writing response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeInternalError(w http.ResponseWriter, err error) {
	if s.logger != nil {
		s.logger.Error("request failed", "error", err)
	}

	s.writeError(w, http.StatusInternalServerError, "internal error")
}
