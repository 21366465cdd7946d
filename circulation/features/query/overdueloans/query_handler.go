package overdueloans

import (
	"context"

	"github.com/shelfwise/circulate/circulation/shell"
)

// QueryHandler orchestrates the query processing workflow:
// Query -> Unmarshal -> Project, against the library's loan history.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle executes the query and returns the overdue loans of the library.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OverdueLoans, error) {
	filter := BuildEventFilter(query.LibraryID)

	storableEvents, _, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return OverdueLoans{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return OverdueLoans{}, err
	}

	return ProjectOverdueLoans(history, query), nil
}
