package projector

import (
	"context"

	"ms-conference/internal/events"
	"ms-conference/internal/models"
)

type ConferenceProjection struct {
	DB ConferenceStore
}

func NewConferenceProjection(db ConferenceStore) *ConferenceProjection {
	return &ConferenceProjection{DB: db}
}

func (p *ConferenceProjection) Created(ctx context.Context, e events.ConferenceCreated) error {
	return p.DB.InsertConference(ctx, conferenceRow(e.ConferenceID, e.Info))
}

// Updated overwrites the descriptive fields and unpublishes the conference.
// An edited conference has to be published again.
func (p *ConferenceProjection) Updated(ctx context.Context, e events.ConferenceUpdated) error {
	return p.DB.UpdateConference(ctx, conferenceRow(e.ConferenceID, e.Info))
}

func (p *ConferenceProjection) Published(ctx context.Context, e events.ConferencePublished) error {
	return p.DB.SetConferencePublished(ctx, e.ConferenceID, true)
}

func (p *ConferenceProjection) Unpublished(ctx context.Context, e events.ConferenceUnpublished) error {
	return p.DB.SetConferencePublished(ctx, e.ConferenceID, false)
}

func conferenceRow(id string, info events.ConferenceInfo) models.Conference {
	return models.Conference{
		ID:            id,
		AccessCode:    info.AccessCode,
		OwnerName:     info.Owner.Name,
		OwnerEmail:    info.Owner.Email,
		Slug:          info.Slug,
		Name:          info.Name,
		Description:   info.Description,
		Location:      info.Location,
		Tagline:       info.Tagline,
		TwitterSearch: info.TwitterSearch,
		StartDate:     info.StartDate,
		EndDate:       info.EndDate,
		IsPublished:   false,
	}
}
