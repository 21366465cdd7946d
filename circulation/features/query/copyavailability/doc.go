// Package copyavailability implements the Copy Availability query use case.
//
// This feature provides a pure query operation that reports the current
// availability of a single copy: its state, holder, due date, hold queue
// and any active pickup reservation. It follows the Query-Project pattern
// without any command processing or event generation.
package copyavailability
