package models

import (
	"github.com/uptrace/bun"
)

// ReservationHold is an unresolved claim on seats of one seat type. It lives
// from SeatsReserved until the reservation is committed or cancelled.
type ReservationHold struct {
	bun.BaseModel `bun:"table:reservation_holds"`

	ConferenceID  string `bun:"conference_id,pk" json:"conference_id"`
	ReservationID string `bun:"reservation_id,pk" json:"reservation_id"`
	SeatTypeID    string `bun:"seat_type_id,pk" json:"seat_type_id"`
	Quantity      int    `bun:"quantity,notnull" json:"quantity"`
}
