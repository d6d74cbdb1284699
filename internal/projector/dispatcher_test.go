package projector_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-conference/internal/events"
	"ms-conference/internal/models"
	"ms-conference/internal/projector"
)

type recordingCache struct {
	refreshed map[string][]models.SeatType
	calls     int
	err       error
}

func (c *recordingCache) Refresh(ctx context.Context, conferenceID string, seatTypes []models.SeatType) error {
	c.calls++
	if c.refreshed == nil {
		c.refreshed = map[string][]models.SeatType{}
	}
	c.refreshed[conferenceID] = seatTypes
	return c.err
}

func TestDispatchConferenceAndInventoryFlow(t *testing.T) {
	store := setupTestDB(t)
	log, _ := testLogger()
	cache := &recordingCache{}
	d := projector.NewDispatcher(store, cache, log)
	ctx := context.Background()

	conferenceID := uuid.NewString()
	s1 := uuid.NewString()
	r1 := uuid.NewString()

	steps := []events.Event{
		events.ConferenceCreated{Header: header(conferenceID), Info: sampleInfo()},
		events.ConferencePublished{Header: header(conferenceID)},
		events.SeatTypeAdded{Header: header(conferenceID), SeatTypeID: s1, Info: events.SeatTypeInfo{Name: "Full pass", Price: 499}, Quantity: 100},
		events.SeatsReserved{Header: header(conferenceID), ReservationID: r1, Items: []events.ReservationItem{{SeatTypeID: s1, Quantity: 10}}},
	}
	for _, evt := range steps {
		require.NoError(t, d.Dispatch(ctx, evt), "dispatching %s", evt.Kind())
	}

	conference, err := store.GetConference(ctx, conferenceID)
	require.NoError(t, err)
	assert.True(t, conference.IsPublished)
	assert.Equal(t, 90, seatType(t, store, s1).AvailableQuantity)
	assert.Equal(t, 90, cache.refreshed[conferenceID][0].AvailableQuantity)

	require.NoError(t, d.Dispatch(ctx, events.SeatsReservationCommitted{Header: header(conferenceID), ReservationID: r1}))

	st := seatType(t, store, s1)
	assert.Equal(t, 90, st.Quantity)
	assert.Equal(t, 90, st.AvailableQuantity)
	assert.Equal(t, 3, cache.calls, "added, reserved and committed refresh the cache")
	assertSeatInvariant(t, store, conferenceID)

	require.NoError(t, d.Dispatch(ctx, events.ConferenceUpdated{Header: header(conferenceID), Info: sampleInfo()}))
	conference, err = store.GetConference(ctx, conferenceID)
	require.NoError(t, err)
	assert.False(t, conference.IsPublished, "an update unpublishes the conference")

	require.NoError(t, d.Dispatch(ctx, events.SeatTypeRemoved{Header: header(conferenceID), SeatTypeID: s1}))
	assert.Empty(t, cache.refreshed[conferenceID])
}

func TestDispatchQuantityChangeKeepsInvariant(t *testing.T) {
	store := setupTestDB(t)
	log, _ := testLogger()
	d := projector.NewDispatcher(store, nil, log)
	ctx := context.Background()

	conferenceID := uuid.NewString()
	s1 := uuid.NewString()

	require.NoError(t, d.Dispatch(ctx, events.SeatTypeAdded{Header: header(conferenceID), SeatTypeID: s1, Quantity: 10}))
	require.NoError(t, d.Dispatch(ctx, events.SeatTypeQuantityChanged{Header: header(conferenceID), SeatTypeID: s1, Quantity: 25, AvailableQuantity: 22}))
	require.NoError(t, d.Dispatch(ctx, events.SeatTypeUpdated{Header: header(conferenceID), SeatTypeID: s1, Info: events.SeatTypeInfo{Name: "Renamed"}}))

	st := seatType(t, store, s1)
	assert.Equal(t, "Renamed", st.Name)
	assert.Equal(t, 25, st.Quantity)
	assert.Equal(t, 22, st.AvailableQuantity)
	assertSeatInvariant(t, store, conferenceID)
}

func TestDispatchReturnsStoreErrors(t *testing.T) {
	store := setupTestDB(t)
	log, buf := testLogger()
	d := projector.NewDispatcher(store, nil, log)
	require.NoError(t, store.Bun.Close())

	err := d.Dispatch(context.Background(), events.ConferenceCreated{Header: header(uuid.NewString()), Info: sampleInfo()})

	assert.Error(t, err)
	assert.Contains(t, buf.String(), "projection failed")
}

func TestDispatchRedeliveredCreationEvents(t *testing.T) {
	store := setupTestDB(t)
	log, _ := testLogger()
	d := projector.NewDispatcher(store, nil, log)
	ctx := context.Background()

	conferenceID := uuid.NewString()
	s1 := uuid.NewString()
	created := events.ConferenceCreated{Header: header(conferenceID), Info: sampleInfo()}
	added := events.SeatTypeAdded{Header: header(conferenceID), SeatTypeID: s1, Info: events.SeatTypeInfo{Name: "Full pass", Price: 499}, Quantity: 100}

	renamed := sampleInfo()
	renamed.Name = "CQRS Summit 2026"

	steps := []events.Event{
		created,
		events.ConferenceUpdated{Header: header(conferenceID), Info: renamed},
		added,
		events.SeatsReserved{Header: header(conferenceID), ReservationID: uuid.NewString(), Items: []events.ReservationItem{{SeatTypeID: s1, Quantity: 10}}},
		created,
		added,
	}
	for _, evt := range steps {
		require.NoError(t, d.Dispatch(ctx, evt), "dispatching %s", evt.Kind())
	}

	conference, err := store.GetConference(ctx, conferenceID)
	require.NoError(t, err)
	assert.Equal(t, "CQRS Summit 2026", conference.Name, "a replayed create keeps the updated row")

	st := seatType(t, store, s1)
	assert.Equal(t, 100, st.Quantity)
	assert.Equal(t, 90, st.AvailableQuantity, "a replayed add keeps seats already held")
	assertSeatInvariant(t, store, conferenceID)
}

func TestDispatchIgnoresCacheFailures(t *testing.T) {
	store := setupTestDB(t)
	log, buf := testLogger()
	cache := &recordingCache{err: errors.New("redis down")}
	d := projector.NewDispatcher(store, cache, log)

	conferenceID := uuid.NewString()
	err := d.Dispatch(context.Background(), events.SeatTypeAdded{Header: header(conferenceID), SeatTypeID: uuid.NewString(), Quantity: 5})

	assert.NoError(t, err)
	assert.Equal(t, 1, cache.calls)
	assert.Contains(t, buf.String(), "[SeatTypeAdded] "+conferenceID+" - applied")
	assert.Contains(t, buf.String(), "redis down")
}

type strayEvent struct {
	events.Header
}

func (strayEvent) Kind() events.Kind { return "Stray" }

func TestDispatchRejectsUnknownEvent(t *testing.T) {
	store := setupTestDB(t)
	log, _ := testLogger()
	d := projector.NewDispatcher(store, nil, log)

	err := d.Dispatch(context.Background(), strayEvent{Header: header(uuid.NewString())})

	assert.ErrorIs(t, err, projector.ErrUnhandledEvent)
}
