package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents ledgerstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent ledgerstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.CopyAddedToInventoryEventType:
		return unmarshalEvent[core.CopyAddedToInventory](storableEvent.PayloadJSON)

	case core.CopyRetiredEventType:
		return unmarshalEvent[core.CopyRetired](storableEvent.PayloadJSON)

	case core.CopyCheckedOutEventType:
		return unmarshalEvent[core.CopyCheckedOut](storableEvent.PayloadJSON)

	case core.CopyReturnedEventType:
		return unmarshalEvent[core.CopyReturned](storableEvent.PayloadJSON)

	case core.LoanRenewedEventType:
		return unmarshalEvent[core.LoanRenewed](storableEvent.PayloadJSON)

	case core.HoldPlacedEventType:
		return unmarshalEvent[core.HoldPlaced](storableEvent.PayloadJSON)

	case core.HoldFulfilledEventType:
		return unmarshalEvent[core.HoldFulfilled](storableEvent.PayloadJSON)

	case core.HoldReleasedEventType:
		return unmarshalEvent[core.HoldReleased](storableEvent.PayloadJSON)

	case core.FeeAssessedEventType:
		return unmarshalEvent[core.FeeAssessed](storableEvent.PayloadJSON)

	case core.FeePaymentRecordedEventType:
		return unmarshalEvent[core.FeePaymentRecorded](storableEvent.PayloadJSON)

	case core.MemberRegisteredEventType:
		return unmarshalEvent[core.MemberRegistered](storableEvent.PayloadJSON)

	case core.MemberStandingChangedEventType:
		return unmarshalEvent[core.MemberStandingChanged](storableEvent.PayloadJSON)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
	}
}

func unmarshalEvent[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	payload := new(E)

	err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload)
	if err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}
