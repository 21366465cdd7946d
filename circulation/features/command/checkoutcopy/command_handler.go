package checkoutcopy

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/circulation/shell"
	"github.com/shelfwise/circulate/ledgerstore"
	"github.com/shelfwise/circulate/policy"
)

// CommandHandler orchestrates the checkout workflow:
// Query -> Unmarshal -> Decide -> Append, with a bounded retry on append races.
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

// Handle executes the checkout command and reports the outcome. A concurrency
// conflict is retried once against fresh state before surfacing as Conflict.
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

	checkedOut := decision.Events[0].(core.CopyCheckedOut)

	result := shell.CommittedResult(retryMetrics)
	result.TransactionID = checkedOut.TransactionID
	result.DueDate = checkedOut.DueDate

	return result, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command, p policy.Policy) (core.DecisionResult, error) {
	filter := BuildEventFilter(command.CopyID, command.MemberID)

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

	eventMetadata := shell.BuildEventMetadata(uuid.New(), command.TransactionID, command.TransactionID, command.StaffID)

	storableEvent, marshalErr := shell.StorableEventFrom(decision.Events[0], eventMetadata)
	if marshalErr != nil {
		return core.DecisionResult{}, marshalErr
	}

	if appendErr := h.eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent); appendErr != nil {
		return core.DecisionResult{}, appendErr
	}

	return decision, nil
}
