package ledgerstore

import (
	"slices"
	"time"
)

type FilterEventTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

// Filter describes which slice of the transaction log an operation is interested in.
// A filter with multiple items matches events satisfying any item (OR); within an
// item the event types are OR-ed and combined with the predicates via AND.
//
// The same filter value must be used for the Query before a business decision and
// for the conditional Append afterwards, so that the compare-and-set spans exactly
// the events the decision was based on.
type Filter struct {
	items                    []FilterItem
	occurredFrom             time.Time
	occurredUntil            time.Time
	sequenceNumberHigherThan SequenceNumberUint
}

func (f Filter) Items() []FilterItem {
	return f.items
}

func (f Filter) OccurredFrom() time.Time {
	return f.occurredFrom
}

func (f Filter) OccurredUntil() time.Time {
	return f.occurredUntil
}

// SequenceNumberHigherThan returns the exclusive lower bound on the log sequence,
// used by the availability feed for tailing and backfill.
func (f Filter) SequenceNumberHigherThan() SequenceNumberUint {
	return f.sequenceNumberHigherThan
}

/***** FilterItem *****/

type FilterItem struct {
	eventTypes             []FilterEventTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) EventTypes() []FilterEventTypeString {
	return fi.eventTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

/***** FilterPredicate *****/

// FilterPredicate matches events whose JSON payload contains the given key/value pair,
// e.g. P("CopyID", id) selects the event stream of one physical copy.
type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic event filter to be used by store engines to build
// queries in their specific query language. It is designed to only allow "useful"
// filter combinations for circulation workflows:
//
//   - empty filter
//   - (eventType OR eventType...)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - ((eventType OR eventType...) AND (predicate OR predicate...))
//   - ((eventType OR eventType...) AND (predicate AND predicate...))
//   - (item OR item...) -> multiple FilterItem(s) via OrMatching
//
// plus optional occurred-at bounds and an exclusive sequence lower bound.
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyEvent directly creates an empty Filter.
	MatchingAnyEvent() Filter

	// WithSequenceNumberHigherThan restricts the filter to events committed after the
	// given log sequence number.
	WithSequenceNumberHigherThan(sequenceNumber SequenceNumberUint) CompletedFilterItemBuilder

	// OccurredFrom restricts the filter to events that occurred at or after the given time.
	OccurredFrom(from time.Time) CompletedFilterItemBuilder
}

type EmptyFilterItemBuilder interface {
	// AnyEventTypeOf adds one or multiple EventTypes to the current FilterItem.
	//
	// It sanitizes the input: removing empty EventTypes, sorting, removing duplicates.
	AnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem,
	// expecting ANY of them to match.
	//
	// It sanitizes the input: removing empty/partial predicates, sorting, removing duplicates.
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes

	// AllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem,
	// expecting ALL of them to match.
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingEventTypes
}

type FilterItemBuilderLackingPredicates interface {
	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// WithSequenceNumberHigherThan restricts the filter to events committed after the
	// given log sequence number.
	WithSequenceNumberHigherThan(sequenceNumber SequenceNumberUint) CompletedFilterItemBuilder

	Finalize() Filter
}

type FilterItemBuilderLackingEventTypes interface {
	AndAnyEventTypeOf(eventType FilterEventTypeString, eventTypes ...FilterEventTypeString) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// WithSequenceNumberHigherThan restricts the filter to events committed after the
	// given log sequence number.
	WithSequenceNumberHigherThan(sequenceNumber SequenceNumberUint) CompletedFilterItemBuilder

	// OccurredFrom restricts the filter to events that occurred at or after the given time.
	OccurredFrom(from time.Time) CompletedFilterItemBuilder

	// AndOccurredUntil restricts the filter to events that occurred at or before the given time.
	AndOccurredUntil(until time.Time) CompletedFilterItemBuilder

	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder.
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
	itemStarted       bool
}

// BuildEventFilter creates a FilterBuilder which must eventually be finalized with
// Finalize() or MatchingAnyEvent().
func BuildEventFilter() FilterBuilder {
	return filterBuilder{}
}

// Matching starts a new FilterItem.
func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}
	fb.itemStarted = true

	return fb
}

// MatchingAnyEvent directly creates an empty filter.
func (fb filterBuilder) MatchingAnyEvent() Filter {
	return fb.filter
}

func (fb filterBuilder) AnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) FilterItemBuilderLackingPredicates {

	fb.currentFilterItem.eventTypes = append(
		fb.currentFilterItem.eventTypes,
		fb.sanitizeEventTypes(eventType, eventTypes...)...,
	)

	return fb
}

func (fb filterBuilder) AndAnyEventTypeOf(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) CompletedFilterItemBuilder {

	fb.currentFilterItem.eventTypes = append(
		fb.currentFilterItem.eventTypes,
		fb.sanitizeEventTypes(eventType, eventTypes...)...,
	)

	return fb
}

func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingEventTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

func (fb filterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	fb.currentFilterItem.allPredicatesMustMatch = true

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// OrMatching finalizes the current FilterItem and starts a new one.
func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(fb.filter.items, fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

// WithSequenceNumberHigherThan restricts the filter to events committed after the
// given log sequence number.
func (fb filterBuilder) WithSequenceNumberHigherThan(sequenceNumber SequenceNumberUint) CompletedFilterItemBuilder {
	fb.filter.sequenceNumberHigherThan = sequenceNumber

	return fb
}

// OccurredFrom restricts the filter to events that occurred at or after the given time.
func (fb filterBuilder) OccurredFrom(from time.Time) CompletedFilterItemBuilder {
	fb.filter.occurredFrom = from

	return fb
}

// AndOccurredUntil restricts the filter to events that occurred at or before the given time.
func (fb filterBuilder) AndOccurredUntil(until time.Time) CompletedFilterItemBuilder {
	fb.filter.occurredUntil = until

	return fb
}

// Finalize returns the Filter, appending the current FilterItem if one was started.
func (fb filterBuilder) Finalize() Filter {
	if fb.itemStarted {
		fb.filter.items = append(fb.filter.items, fb.currentFilterItem)
	}

	return fb.filter
}

func (fb filterBuilder) sanitizeEventTypes(
	eventType FilterEventTypeString,
	eventTypes ...FilterEventTypeString,
) []FilterEventTypeString {

	allEventTypes := append([]FilterEventTypeString{eventType}, eventTypes...)
	allEventTypes = slices.DeleteFunc(
		allEventTypes,
		func(e FilterEventTypeString) bool {
			return e == ""
		})
	slices.Sort(allEventTypes)
	allEventTypes = slices.Compact(allEventTypes)
	allEventTypes = slices.Clip(allEventTypes)

	return allEventTypes
}

func (fb filterBuilder) sanitizePredicates(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) []FilterPredicate {

	allPredicates := append([]FilterPredicate{predicate}, predicates...)
	allPredicates = slices.DeleteFunc(
		allPredicates,
		func(p FilterPredicate) bool {
			return len(p.key) == 0 || len(p.val) == 0
		})
	slices.SortFunc(
		allPredicates,
		func(a, b FilterPredicate) int {
			if a.key != b.key {
				if a.key > b.key {
					return 1
				}
				return -1
			}
			if a.val > b.val {
				return 1
			}
			if a.val < b.val {
				return -1
			}
			return 0
		})
	allPredicates = slices.Compact(allPredicates)
	allPredicates = slices.Clip(allPredicates)

	return allPredicates
}
