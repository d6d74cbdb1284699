package db

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"ms-conference/internal/models"
)

var (
	ErrSeatTypeNotFound  = errors.New("seat type not found")
	ErrInventoryConflict = errors.New("seat inventory conflict")
)

// DB is the storage gateway over the read-model tables.
type DB struct {
	Bun *bun.DB
}

// CreateSchema creates the read-model tables when they are missing. Postgres
// deployments use the SQL migrations instead; this serves sqlite and tests.
func (d *DB) CreateSchema(ctx context.Context) error {
	tables := []interface{}{(*models.Conference)(nil), (*models.SeatType)(nil), (*models.ReservationHold)(nil)}
	for _, m := range tables {
		if _, err := d.Bun.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ---------------- CONFERENCES ----------------

// InsertConference leaves an existing row untouched, so a redelivered
// ConferenceCreated cannot undo later updates.
func (d *DB) InsertConference(ctx context.Context, conference models.Conference) error {
	_, err := d.Bun.NewInsert().
		Model(&conference).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	return err
}

// UpdateConference overwrites every descriptive column and the published flag.
func (d *DB) UpdateConference(ctx context.Context, conference models.Conference) error {
	_, err := d.Bun.NewUpdate().
		Model(&conference).
		Column("access_code", "owner_name", "owner_email", "slug", "name", "description",
			"location", "tagline", "twitter_search", "start_date", "end_date", "is_published").
		Where("id = ?", conference.ID).
		Exec(ctx)
	return err
}

func (d *DB) SetConferencePublished(ctx context.Context, id string, published bool) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Conference)(nil)).
		Set("is_published = ?", published).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) GetConference(ctx context.Context, id string) (*models.Conference, error) {
	var conference models.Conference
	err := d.Bun.NewSelect().
		Model(&conference).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &conference, nil
}

// ---------------- SEAT TYPES ----------------

// InsertSeatType leaves an existing row untouched; resetting its counters
// on redelivery would drop seats already held.
func (d *DB) InsertSeatType(ctx context.Context, seatType models.SeatType) error {
	_, err := d.Bun.NewInsert().
		Model(&seatType).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	return err
}

// UpdateSeatTypeInfo touches name, description and price only.
func (d *DB) UpdateSeatTypeInfo(ctx context.Context, seatType models.SeatType) error {
	_, err := d.Bun.NewUpdate().
		Model(&seatType).
		Column("name", "description", "price").
		Where("id = ?", seatType.ID).
		Exec(ctx)
	return err
}

func (d *DB) SetSeatTypeQuantities(ctx context.Context, id string, quantity, available int) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.SeatType)(nil)).
		Set("quantity = ?", quantity).
		Set("available_quantity = ?", available).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) DeleteSeatType(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.SeatType)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (d *DB) GetSeatType(ctx context.Context, id string) (*models.SeatType, error) {
	var seatType models.SeatType
	err := d.Bun.NewSelect().
		Model(&seatType).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &seatType, nil
}

// ListSeatTypes → all seat types of a conference, ordered by name
func (d *DB) ListSeatTypes(ctx context.Context, conferenceID string) ([]models.SeatType, error) {
	var seatTypes []models.SeatType
	err := d.Bun.NewSelect().
		Model(&seatTypes).
		Where("conference_id = ?", conferenceID).
		Order("name", "id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return seatTypes, nil
}

// ---------------- HOLDS ----------------

// ListHolds → outstanding holds of one reservation, outside any transaction
func (d *DB) ListHolds(ctx context.Context, conferenceID, reservationID string) ([]models.ReservationHold, error) {
	return listHolds(ctx, d.Bun, conferenceID, reservationID)
}

func listHolds(ctx context.Context, idb bun.IDB, conferenceID, reservationID string) ([]models.ReservationHold, error) {
	var holds []models.ReservationHold
	err := idb.NewSelect().
		Model(&holds).
		Where("conference_id = ?", conferenceID).
		Where("reservation_id = ?", reservationID).
		Order("seat_type_id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return holds, nil
}
