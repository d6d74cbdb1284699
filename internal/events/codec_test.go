package events_test

import (
	"testing"
	"time"

	"ms-conference/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSeatsReserved(t *testing.T) {
	conferenceID := uuid.NewString()
	reservationID := uuid.NewString()
	seatTypeID := uuid.NewString()

	data, err := events.Encode(events.SeatsReserved{
		Header:        events.Header{ConferenceID: conferenceID, Version: 4},
		ReservationID: reservationID,
		Items:         []events.ReservationItem{{SeatTypeID: seatTypeID, Quantity: 3}},
	})
	require.NoError(t, err)

	evt, err := events.Decode(data)
	require.NoError(t, err)

	reserved, ok := evt.(events.SeatsReserved)
	require.True(t, ok, "expected SeatsReserved, got %T", evt)
	assert.Equal(t, events.KindSeatsReserved, reserved.Kind())
	assert.Equal(t, conferenceID, reserved.AggregateID())
	assert.Equal(t, int64(4), reserved.Version)
	assert.NotEmpty(t, reserved.EventID)
	assert.Equal(t, reservationID, reserved.ReservationID)
	assert.Equal(t, []events.ReservationItem{{SeatTypeID: seatTypeID, Quantity: 3}}, reserved.Items)
}

func TestDecodeConferenceCreated(t *testing.T) {
	conferenceID := uuid.NewString()
	raw := `{
		"event_id": "e-1",
		"type": "ConferenceCreated",
		"aggregate_id": "` + conferenceID + `",
		"version": 1,
		"occurred_at": "2026-03-01T10:00:00Z",
		"payload": {
			"info": {
				"access_code": "X7Q2",
				"owner": {"name": "Sam Rivera", "email": "sam@example.com"},
				"slug": "gophercon",
				"name": "GopherCon",
				"start_date": "2026-06-01T09:00:00Z",
				"end_date": "2026-06-03T18:00:00Z"
			}
		}
	}`

	evt, err := events.Decode([]byte(raw))
	require.NoError(t, err)

	created := evt.(events.ConferenceCreated)
	assert.Equal(t, conferenceID, created.ConferenceID)
	assert.Equal(t, "e-1", created.EventID)
	assert.Equal(t, "Sam Rivera", created.Info.Owner.Name)
	assert.Equal(t, "gophercon", created.Info.Slug)
	assert.Equal(t, time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC), created.Info.StartDate)
}

func TestDecodePublishedWithoutPayload(t *testing.T) {
	conferenceID := uuid.NewString()
	raw := `{"type": "ConferencePublished", "aggregate_id": "` + conferenceID + `"}`

	evt, err := events.Decode([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, events.ConferencePublished{Header: events.Header{ConferenceID: conferenceID}}, evt)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	conferenceID := uuid.NewString()
	seatTypeID := uuid.NewString()

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name:    "not json",
			raw:     `{"type":`,
			wantErr: events.ErrInvalidEvent,
		},
		{
			name:    "unknown type",
			raw:     `{"type": "OrderPlaced", "aggregate_id": "` + conferenceID + `"}`,
			wantErr: events.ErrUnknownEventType,
		},
		{
			name:    "aggregate id not a uuid",
			raw:     `{"type": "ConferencePublished", "aggregate_id": "conf-1"}`,
			wantErr: events.ErrInvalidEvent,
		},
		{
			name:    "missing payload",
			raw:     `{"type": "SeatTypeAdded", "aggregate_id": "` + conferenceID + `"}`,
			wantErr: events.ErrInvalidEvent,
		},
		{
			name:    "available above quantity",
			raw:     `{"type": "SeatTypeQuantityChanged", "aggregate_id": "` + conferenceID + `", "payload": {"seat_type_id": "` + seatTypeID + `", "quantity": 5, "available_quantity": 6}}`,
			wantErr: events.ErrInvalidEvent,
		},
		{
			name:    "reservation without items",
			raw:     `{"type": "SeatsReserved", "aggregate_id": "` + conferenceID + `", "payload": {"reservation_id": "` + uuid.NewString() + `", "items": []}}`,
			wantErr: events.ErrInvalidEvent,
		},
		{
			name:    "reservation item with zero quantity",
			raw:     `{"type": "SeatsReserved", "aggregate_id": "` + conferenceID + `", "payload": {"reservation_id": "` + uuid.NewString() + `", "items": [{"seat_type_id": "` + seatTypeID + `", "quantity": 0}]}}`,
			wantErr: events.ErrInvalidEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, err := events.Decode([]byte(tt.raw))
			assert.Nil(t, evt)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
