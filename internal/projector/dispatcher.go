package projector

import (
	"context"
	"errors"
	"fmt"

	"ms-conference/internal/events"
	"ms-conference/internal/projector/db"
)

var ErrUnhandledEvent = errors.New("no projection handles event")

// Dispatcher routes each event to the projection that owns its kind.
type Dispatcher struct {
	Conferences  *ConferenceProjection
	SeatTypes    *SeatTypeProjection
	Inventory    *InventoryCoordinator
	SeatTypeList SeatTypeLister
	Availability AvailabilityCache
	Logger       Logger
}

// NewDispatcher wires every projection to store. cache may be nil.
func NewDispatcher(store *db.DB, cache AvailabilityCache, logger Logger) *Dispatcher {
	return &Dispatcher{
		Conferences:  NewConferenceProjection(store),
		SeatTypes:    NewSeatTypeProjection(store),
		Inventory:    NewInventoryCoordinator(store, logger),
		SeatTypeList: store,
		Availability: cache,
		Logger:       logger,
	}
}

// Dispatch applies one event. Errors come back unchanged; the caller decides
// whether to redeliver.
func (d *Dispatcher) Dispatch(ctx context.Context, evt events.Event) error {
	var err error
	switch e := evt.(type) {
	case events.ConferenceCreated:
		err = d.Conferences.Created(ctx, e)
	case events.ConferenceUpdated:
		err = d.Conferences.Updated(ctx, e)
	case events.ConferencePublished:
		err = d.Conferences.Published(ctx, e)
	case events.ConferenceUnpublished:
		err = d.Conferences.Unpublished(ctx, e)
	case events.SeatTypeAdded:
		err = d.SeatTypes.Added(ctx, e)
	case events.SeatTypeUpdated:
		err = d.SeatTypes.Updated(ctx, e)
	case events.SeatTypeQuantityChanged:
		err = d.SeatTypes.QuantityChanged(ctx, e)
	case events.SeatTypeRemoved:
		err = d.SeatTypes.Removed(ctx, e)
	case events.SeatsReserved:
		err = d.Inventory.Reserve(ctx, e)
	case events.SeatsReservationCommitted:
		err = d.Inventory.Commit(ctx, e)
	case events.SeatsReservationCancelled:
		err = d.Inventory.Cancel(ctx, e)
	default:
		return fmt.Errorf("%w: %T", ErrUnhandledEvent, evt)
	}

	if err != nil {
		d.Logger.Error("PROJECTOR", fmt.Sprintf("[%s] %s - projection failed: %v", evt.Kind(), evt.AggregateID(), err))
		return err
	}
	d.Logger.LogEvent(string(evt.Kind()), evt.AggregateID(), "applied")

	switch evt.(type) {
	case events.SeatTypeAdded, events.SeatTypeQuantityChanged, events.SeatTypeRemoved,
		events.SeatsReserved, events.SeatsReservationCommitted, events.SeatsReservationCancelled:
		d.refreshAvailability(ctx, evt.AggregateID())
	}
	return nil
}

// refreshAvailability runs after the read model committed, so failures here
// are logged and not returned.
func (d *Dispatcher) refreshAvailability(ctx context.Context, conferenceID string) {
	if d.Availability == nil || d.SeatTypeList == nil {
		return
	}

	seatTypes, err := d.SeatTypeList.ListSeatTypes(ctx, conferenceID)
	if err != nil {
		d.Logger.Warn("REDIS", fmt.Sprintf("Skipping availability refresh for %s: %v", conferenceID, err))
		return
	}
	if err := d.Availability.Refresh(ctx, conferenceID, seatTypes); err != nil {
		d.Logger.Warn("REDIS", fmt.Sprintf("Availability refresh for %s failed: %v", conferenceID, err))
	}
}
