package copyavailability

import (
	"github.com/google/uuid"
)

const (
	queryType = "CopyAvailability"
)

// Query represents the intent to look up the availability of a copy.
type Query struct {
	CopyID uuid.UUID
}

// BuildQuery creates a new Query with the provided copy ID.
func BuildQuery(copyID uuid.UUID) Query {
	return Query{
		CopyID: copyID,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
