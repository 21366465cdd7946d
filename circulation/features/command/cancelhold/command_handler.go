package cancelhold

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
)

// CommandHandler orchestrates the cancel-hold workflow:
// Query -> Unmarshal -> Decide -> Append, with a bounded retry on append races.
// Cancelling a reservation can commit two records atomically: the release and
// the fulfillment handing the copy to the next queued member.
type CommandHandler struct {
	eventStore   shell.EventStore
	policies     policy.Store
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, policies policy.Store, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		policies:   policies,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the cancel-hold command and reports the outcome.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.CommandResult, error) {
	p, err := h.policies.PolicyFor(command.LibraryID.String())
	if err != nil {
		return shell.CommandResult{}, err
	}

	var decision core.DecisionResult

	retryMetrics, err := shell.RetryWithBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command, p)

		return execErr
	}, h.retryOptions...)

	switch {
	case errors.Is(err, ledgerstore.ErrConcurrencyConflict):
		return shell.ConflictResult(retryMetrics), nil

	case err != nil:
		return shell.CommandResult{}, err

	case decision.IsRejected():
		return shell.RejectedResult(*decision.Rejection, retryMetrics), nil

	case decision.IsIdempotent():
		return shell.IdempotentResult(retryMetrics), nil
	}

	return shell.CommittedResult(retryMetrics), nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command, p policy.Policy) (core.DecisionResult, error) {
	filter := BuildEventFilter(command.CopyID)

	ctx = ledgerstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return core.DecisionResult{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return core.DecisionResult{}, err
	}

	decision := Decide(history, command, p)

	if !decision.HasEventsToAppend() {
		return decision, nil
	}

	causationID := uuid.New()
	eventMetadata := shell.BuildEventMetadata(uuid.New(), causationID, causationID, command.MemberID.String())

	toAppend, marshalErr := shell.StorableEventsFrom(decision.Events, eventMetadata)
	if marshalErr != nil {
		return core.DecisionResult{}, marshalErr
	}

	if appendErr := h.eventStore.Append(ctx, filter, maxSequenceNumber, toAppend[0], toAppend[1:]...); appendErr != nil {
		return core.DecisionResult{}, appendErr
	}

	return decision, nil
}
