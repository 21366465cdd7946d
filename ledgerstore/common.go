package ledgerstore

import (
	"errors"
)

var ErrEmptyTableNameSupplied = errors.New("empty log table name supplied")
var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrConcurrencyConflict = errors.New("concurrency conflict, no rows were affected")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrQueryingEventsFailed = errors.New("querying events failed")
var ErrScanningDBRowFailed = errors.New("scanning database row failed")
var ErrBuildingStorableEventFailed = errors.New("building storable event from database row failed")
var ErrAppendingEventFailed = errors.New("appending event failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected count failed")

// SequenceNumberUint is a type alias for uint64, the position of an event in the transaction log.
// The log sequence is strictly increasing in commit order; restricted to the events of
// a single copy it is the per-copy sequence that subscribers use for de-duplication.
type SequenceNumberUint = uint64

// MaxSequenceNumberUint is a type alias for uint64, the highest sequence number observed
// for a filtered event stream at query time. It is the expected value for a
// conditional Append (compare-and-set).
type MaxSequenceNumberUint = uint64
