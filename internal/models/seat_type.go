package models

import (
	"github.com/uptrace/bun"
)

// SeatType keeps 0 <= AvailableQuantity <= Quantity once an event is fully applied.
type SeatType struct {
	bun.BaseModel `bun:"table:seat_types"`

	ID                string  `bun:"id,pk" json:"id"`
	ConferenceID      string  `bun:"conference_id,notnull" json:"conference_id"`
	Name              string  `bun:"name" json:"name"`
	Description       string  `bun:"description" json:"description"`
	Quantity          int     `bun:"quantity,notnull" json:"quantity"`
	AvailableQuantity int     `bun:"available_quantity,notnull" json:"available_quantity"`
	Price             float64 `bun:"price,notnull" json:"price"`
}
