package projector

import (
	"context"
	"fmt"

	"ms-conference/internal/events"
	"ms-conference/internal/models"
	"ms-conference/internal/projector/db"
)

// InventoryCoordinator keeps seat-type counters and reservation holds in step.
// Each operation runs in a single transaction; a failure rolls everything back
// and the error is returned unchanged so the event can be redelivered.
//
// Hold lifecycle: none -> held (Reserve) -> committed (Commit) or released
// (Cancel) -> none. The coordinator trusts the upstream order and does not
// check that a reservation is resolved only once.
type InventoryCoordinator struct {
	DB     InventoryStore
	Logger Logger
}

func NewInventoryCoordinator(db InventoryStore, logger Logger) *InventoryCoordinator {
	return &InventoryCoordinator{DB: db, Logger: logger}
}

// Reserve creates one hold per seat type and takes the seats out of the
// available pool. A hold that already exists marks its item as applied, so a
// redelivered SeatsReserved does not decrement twice.
func (c *InventoryCoordinator) Reserve(ctx context.Context, e events.SeatsReserved) error {
	items := coalesceItems(e.Items)

	var applied, skipped int
	err := c.DB.WithinTx(ctx, func(ctx context.Context, tx db.InventoryTx) error {
		applied, skipped = 0, 0
		for _, item := range items {
			inserted, err := tx.InsertHold(ctx, models.ReservationHold{
				ConferenceID:  e.ConferenceID,
				ReservationID: e.ReservationID,
				SeatTypeID:    item.SeatTypeID,
				Quantity:      item.Quantity,
			})
			if err != nil {
				return err
			}
			if !inserted {
				skipped++
				continue
			}
			if err := tx.ReserveAvailable(ctx, e.ConferenceID, item.SeatTypeID, item.Quantity); err != nil {
				return err
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if skipped > 0 {
		c.Logger.Warn("INVENTORY", fmt.Sprintf("Reservation %s: %d hold(s) already present, treated as redelivery", e.ReservationID, skipped))
	}
	c.Logger.Info("INVENTORY", fmt.Sprintf("Reservation %s: held %d seat type(s) in conference %s", e.ReservationID, applied, e.ConferenceID))
	return nil
}

// Commit consumes the held seats permanently. Available quantity was already
// reduced by Reserve and is left as is.
func (c *InventoryCoordinator) Commit(ctx context.Context, e events.SeatsReservationCommitted) error {
	return c.resolve(ctx, e.ConferenceID, e.ReservationID, "committed",
		func(ctx context.Context, tx db.InventoryTx, hold models.ReservationHold) error {
			return tx.ConsumeQuantity(ctx, hold.ConferenceID, hold.SeatTypeID, hold.Quantity)
		})
}

// Cancel returns the held seats to the available pool.
func (c *InventoryCoordinator) Cancel(ctx context.Context, e events.SeatsReservationCancelled) error {
	return c.resolve(ctx, e.ConferenceID, e.ReservationID, "cancelled",
		func(ctx context.Context, tx db.InventoryTx, hold models.ReservationHold) error {
			return tx.ReleaseAvailable(ctx, hold.ConferenceID, hold.SeatTypeID, hold.Quantity)
		})
}

// resolve fetches the holds, deletes them and applies settle to each one.
// No holds means the reservation was already resolved and nothing changes.
func (c *InventoryCoordinator) resolve(
	ctx context.Context,
	conferenceID, reservationID, outcome string,
	settle func(ctx context.Context, tx db.InventoryTx, hold models.ReservationHold) error,
) error {
	var resolved int
	err := c.DB.WithinTx(ctx, func(ctx context.Context, tx db.InventoryTx) error {
		holds, err := tx.ListHolds(ctx, conferenceID, reservationID)
		if err != nil {
			return err
		}
		resolved = len(holds)
		if resolved == 0 {
			return nil
		}

		if err := tx.DeleteHolds(ctx, conferenceID, reservationID); err != nil {
			return err
		}
		for _, hold := range holds {
			if err := settle(ctx, tx, hold); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if resolved == 0 {
		c.Logger.Debug("INVENTORY", fmt.Sprintf("Reservation %s: no holds left, %s event is a no-op", reservationID, outcome))
		return nil
	}
	c.Logger.Info("INVENTORY", fmt.Sprintf("Reservation %s %s: %d hold(s) resolved in conference %s", reservationID, outcome, resolved, conferenceID))
	return nil
}

// coalesceItems merges items naming the same seat type, keeping first-seen order.
func coalesceItems(items []events.ReservationItem) []events.ReservationItem {
	merged := make([]events.ReservationItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if i, ok := index[item.SeatTypeID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.SeatTypeID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}
