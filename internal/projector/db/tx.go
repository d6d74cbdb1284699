package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"

	"ms-conference/internal/models"
)

// InventoryTx is the set of statements the reservation coordinator may run
// inside one transaction. Counter updates are relative and guarded so the
// seat-type invariant holds regardless of isolation level.
type InventoryTx interface {
	// InsertHold reports false when a hold with the same key already exists.
	InsertHold(ctx context.Context, hold models.ReservationHold) (bool, error)
	ListHolds(ctx context.Context, conferenceID, reservationID string) ([]models.ReservationHold, error)
	DeleteHolds(ctx context.Context, conferenceID, reservationID string) error
	ReserveAvailable(ctx context.Context, conferenceID, seatTypeID string, quantity int) error
	ReleaseAvailable(ctx context.Context, conferenceID, seatTypeID string, quantity int) error
	ConsumeQuantity(ctx context.Context, conferenceID, seatTypeID string, quantity int) error
}

// WithinTx runs fn in a transaction. The transaction commits when fn returns
// nil and rolls back on error or panic; fn's error is returned as is.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx InventoryTx) error) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Tx{tx: tx})
	})
}

type Tx struct {
	tx bun.Tx
}

func (t *Tx) InsertHold(ctx context.Context, hold models.ReservationHold) (bool, error) {
	res, err := t.tx.NewInsert().
		Model(&hold).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (t *Tx) ListHolds(ctx context.Context, conferenceID, reservationID string) ([]models.ReservationHold, error) {
	return listHolds(ctx, &t.tx, conferenceID, reservationID)
}

func (t *Tx) DeleteHolds(ctx context.Context, conferenceID, reservationID string) error {
	_, err := t.tx.NewDelete().
		Model((*models.ReservationHold)(nil)).
		Where("conference_id = ?", conferenceID).
		Where("reservation_id = ?", reservationID).
		Exec(ctx)
	return err
}

// ReserveAvailable moves quantity seats out of the available pool.
func (t *Tx) ReserveAvailable(ctx context.Context, conferenceID, seatTypeID string, quantity int) error {
	res, err := t.tx.NewUpdate().
		Model((*models.SeatType)(nil)).
		Set("available_quantity = available_quantity - ?", quantity).
		Where("id = ?", seatTypeID).
		Where("conference_id = ?", conferenceID).
		Where("available_quantity >= ?", quantity).
		Exec(ctx)
	return t.checkApplied(ctx, res, err, conferenceID, seatTypeID, "reserve", quantity)
}

// ReleaseAvailable returns quantity held seats to the available pool.
func (t *Tx) ReleaseAvailable(ctx context.Context, conferenceID, seatTypeID string, quantity int) error {
	res, err := t.tx.NewUpdate().
		Model((*models.SeatType)(nil)).
		Set("available_quantity = available_quantity + ?", quantity).
		Where("id = ?", seatTypeID).
		Where("conference_id = ?", conferenceID).
		Where("available_quantity + ? <= quantity", quantity).
		Exec(ctx)
	return t.checkApplied(ctx, res, err, conferenceID, seatTypeID, "release", quantity)
}

// ConsumeQuantity permanently removes quantity held seats from the total.
// The available pool was already reduced when the seats were reserved.
func (t *Tx) ConsumeQuantity(ctx context.Context, conferenceID, seatTypeID string, quantity int) error {
	res, err := t.tx.NewUpdate().
		Model((*models.SeatType)(nil)).
		Set("quantity = quantity - ?", quantity).
		Where("id = ?", seatTypeID).
		Where("conference_id = ?", conferenceID).
		Where("quantity - ? >= available_quantity", quantity).
		Exec(ctx)
	return t.checkApplied(ctx, res, err, conferenceID, seatTypeID, "consume", quantity)
}

func (t *Tx) checkApplied(ctx context.Context, res sql.Result, err error, conferenceID, seatTypeID, op string, quantity int) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	exists, err := t.tx.NewSelect().
		Model((*models.SeatType)(nil)).
		Where("id = ?", seatTypeID).
		Where("conference_id = ?", conferenceID).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s in conference %s", ErrSeatTypeNotFound, seatTypeID, conferenceID)
	}
	return fmt.Errorf("%w: cannot %s %d seats of %s", ErrInventoryConflict, op, quantity, seatTypeID)
}
