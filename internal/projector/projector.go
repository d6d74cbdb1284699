// Package projector applies conference events to the denormalized read model.
package projector

import (
	"context"

	"ms-conference/internal/models"
	"ms-conference/internal/projector/db"
)

type Logger interface {
	Debug(category, message string)
	Info(category, message string)
	Warn(category, message string)
	Error(category, message string)
	LogEvent(kind, aggregateID, message string)
}

type ConferenceStore interface {
	InsertConference(ctx context.Context, conference models.Conference) error
	UpdateConference(ctx context.Context, conference models.Conference) error
	SetConferencePublished(ctx context.Context, id string, published bool) error
}

type SeatTypeStore interface {
	InsertSeatType(ctx context.Context, seatType models.SeatType) error
	UpdateSeatTypeInfo(ctx context.Context, seatType models.SeatType) error
	SetSeatTypeQuantities(ctx context.Context, id string, quantity, available int) error
	DeleteSeatType(ctx context.Context, id string) error
}

type InventoryStore interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.InventoryTx) error) error
}

type SeatTypeLister interface {
	ListSeatTypes(ctx context.Context, conferenceID string) ([]models.SeatType, error)
}

// AvailabilityCache receives the seat counters of a conference after every
// event that changed them.
type AvailabilityCache interface {
	Refresh(ctx context.Context, conferenceID string, seatTypes []models.SeatType) error
}
