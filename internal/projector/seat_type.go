package projector

import (
	"context"

	"ms-conference/internal/events"
	"ms-conference/internal/models"
)

type SeatTypeProjection struct {
	DB SeatTypeStore
}

func NewSeatTypeProjection(db SeatTypeStore) *SeatTypeProjection {
	return &SeatTypeProjection{DB: db}
}

// Added starts a seat type with every seat available.
func (p *SeatTypeProjection) Added(ctx context.Context, e events.SeatTypeAdded) error {
	return p.DB.InsertSeatType(ctx, models.SeatType{
		ID:                e.SeatTypeID,
		ConferenceID:      e.ConferenceID,
		Name:              e.Info.Name,
		Description:       e.Info.Description,
		Quantity:          e.Quantity,
		AvailableQuantity: e.Quantity,
		Price:             e.Info.Price,
	})
}

func (p *SeatTypeProjection) Updated(ctx context.Context, e events.SeatTypeUpdated) error {
	return p.DB.UpdateSeatTypeInfo(ctx, models.SeatType{
		ID:          e.SeatTypeID,
		Name:        e.Info.Name,
		Description: e.Info.Description,
		Price:       e.Info.Price,
	})
}

func (p *SeatTypeProjection) QuantityChanged(ctx context.Context, e events.SeatTypeQuantityChanged) error {
	return p.DB.SetSeatTypeQuantities(ctx, e.SeatTypeID, e.Quantity, e.AvailableQuantity)
}

func (p *SeatTypeProjection) Removed(ctx context.Context, e events.SeatTypeRemoved) error {
	return p.DB.DeleteSeatType(ctx, e.SeatTypeID)
}
