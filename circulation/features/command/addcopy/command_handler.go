package addcopy

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/ledgerstore"
)

// CommandHandler orchestrates the add-copy workflow:
// Query -> Unmarshal -> Decide -> Append, with a bounded retry on append races.
type CommandHandler struct {
	eventStore   shell.EventStore
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
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the add-copy command and reports the outcome.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.CommandResult, error) {
	var decision core.DecisionResult

	retryMetrics, err := shell.RetryWithBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

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

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.DecisionResult, error) {
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

	decision := Decide(history, command)

	if !decision.HasEventsToAppend() {
		return decision, nil
	}

	causationID := uuid.New()
	eventMetadata := shell.BuildEventMetadata(uuid.New(), causationID, causationID, command.StaffID)

	storableEvent, marshalErr := shell.StorableEventFrom(decision.Events[0], eventMetadata)
	if marshalErr != nil {
		return core.DecisionResult{}, marshalErr
	}

	if appendErr := h.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent); appendErr != nil {
		return core.DecisionResult{}, appendErr
	}

	return decision, nil
}
