package memberloans

import (
	"context"

	"github.com/shelfwise/circulate/circulation/shell"
)

// QueryHandler orchestrates the query processing workflow:
// Query -> Unmarshal -> Project, against the member's event history.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle executes the query and returns the member's open loans.
func (h QueryHandler) Handle(ctx context.Context, query Query) (MemberLoans, error) {
	filter := BuildEventFilter(query.MemberID)

	storableEvents, _, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return MemberLoans{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return MemberLoans{}, err
	}

	return ProjectMemberLoans(history, query), nil
}
