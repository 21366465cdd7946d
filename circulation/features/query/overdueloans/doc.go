// Package overdueloans implements the Overdue Loans query use case.
//
// This feature provides a pure query operation that lists all loans in one
// library whose due date lies before a reference time. The periodic sweep
// is built on top of it. It follows the Query-Project pattern without any
// command processing or event generation.
package overdueloans
