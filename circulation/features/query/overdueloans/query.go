package overdueloans

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "OverdueLoans"
)

// Query represents the intent to list all overdue loans of a library
// as observed at a reference time.
type Query struct {
	LibraryID uuid.UUID
	AsOf      time.Time
}

// BuildQuery creates a new Query with the provided library ID and reference time.
func BuildQuery(libraryID uuid.UUID, asOf time.Time) Query {
	return Query{
		LibraryID: libraryID,
		AsOf:      asOf,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
