package shell

import (
	"encoding/json"
	"errors"

	"github.com/shelfwise/circulate/circulation/core"
	"github.com/shelfwise/circulate/ledgerstore"
)

// ErrMappingToStorableEventFailedForDomainEvent is returned when domain event serialization fails.
var ErrMappingToStorableEventFailedForDomainEvent = errors.New("mapping to storable event failed for domain event")

// ErrMappingToStorableEventFailedForMetadata is returned when metadata serialization fails.
var ErrMappingToStorableEventFailedForMetadata = errors.New("mapping to storable event failed for metadata")

// StorableEventFrom converts a DomainEvent and EventMetadata to a StorableEvent.
func StorableEventFrom(event core.DomainEvent, metadata EventMetadata) (ledgerstore.StorableEvent, error) {
	payloadJSON, err := json.Marshal(event)
	if err != nil {
		return ledgerstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForDomainEvent, err)
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return ledgerstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForMetadata, err)
	}

	storableEvent, err := ledgerstore.BuildStorableEvent(
		event.IsEventType(),
		event.HasOccurredAt(),
		payloadJSON,
		metadataJSON,
	)

	if err != nil {
		return ledgerstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailedForDomainEvent, err)
	}

	return storableEvent, nil
}

// StorableEventsFrom converts multiple DomainEvents sharing one EventMetadata.
// Used for commands that commit several records in one atomic append, such as a
// return that also assesses a fee and fulfills a hold.
func StorableEventsFrom(events core.DomainEvents, metadata EventMetadata) (ledgerstore.StorableEvents, error) {
	storableEvents := make(ledgerstore.StorableEvents, 0, len(events))

	for _, event := range events {
		storableEvent, err := StorableEventFrom(event, metadata)
		if err != nil {
			return nil, err
		}

		storableEvents = append(storableEvents, storableEvent)
	}

	return storableEvents, nil
}
