// Package memberloans implements the Member Loans query use case.
//
// This feature provides a pure query operation that returns a member's
// open loans together with their outstanding fee balance. It follows the
// Query-Project pattern without any command processing or event generation.
package memberloans
