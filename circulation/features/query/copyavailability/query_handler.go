package copyavailability

import (
	"context"

	"github.com/shelfwise/circulate/circulation/shell"
)

// QueryHandler orchestrates the query processing workflow:
// Query -> Unmarshal -> Project, against the event history of one copy.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle executes the query and returns the projected availability.
func (h QueryHandler) Handle(ctx context.Context, query Query) (CopyAvailability, error) {
	filter := BuildEventFilter(query.CopyID)

	storableEvents, _, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return CopyAvailability{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return CopyAvailability{}, err
	}

	return ProjectCopyAvailability(history, query), nil
}
