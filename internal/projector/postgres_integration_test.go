//go:build integration

package projector_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-conference/internal/database/migrations"
	"ms-conference/internal/events"
	"ms-conference/internal/projector"
	"ms-conference/internal/projector/db"
)

// TestPostgresProjection runs the migrations against a real postgres and
// drives a reserve/commit/cancel flow through the dispatcher.
func TestPostgresProjection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "conference",
				"POSTGRES_PASSWORD": "conference",
				"POSTGRES_DB":       "conference_readmodel",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	defer pgContainer.Terminate(ctx)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://conference:conference@%s:%s/conference_readmodel?sslmode=disable", host, port.Port())

	log, _ := testLogger()
	runner := migrations.NewRunner(migrations.MigrateOptions{
		MigrationsDir: "../../migrations",
		DatabaseURL:   dsn,
	}, log)
	require.NoError(t, runner.MigrateUp())
	require.NoError(t, runner.Close())

	sqldb, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	defer bunDB.Close()
	store := &db.DB{Bun: bunDB}

	d := projector.NewDispatcher(store, nil, log)

	conferenceID := uuid.NewString()
	s1, s2 := uuid.NewString(), uuid.NewString()
	r1, r2 := uuid.NewString(), uuid.NewString()

	steps := []events.Event{
		events.ConferenceCreated{Header: header(conferenceID), Info: sampleInfo()},
		events.SeatTypeAdded{Header: header(conferenceID), SeatTypeID: s1, Info: events.SeatTypeInfo{Name: "Full pass", Price: 499}, Quantity: 100},
		events.SeatTypeAdded{Header: header(conferenceID), SeatTypeID: s2, Info: events.SeatTypeInfo{Name: "Workshop", Price: 150}, Quantity: 20},
		events.SeatsReserved{Header: header(conferenceID), ReservationID: r1, Items: []events.ReservationItem{
			{SeatTypeID: s1, Quantity: 10},
			{SeatTypeID: s2, Quantity: 5},
		}},
		events.SeatsReserved{Header: header(conferenceID), ReservationID: r2, Items: []events.ReservationItem{{SeatTypeID: s1, Quantity: 3}}},
		events.SeatsReservationCommitted{Header: header(conferenceID), ReservationID: r1},
		events.SeatsReservationCancelled{Header: header(conferenceID), ReservationID: r2},
	}
	for _, evt := range steps {
		require.NoError(t, d.Dispatch(ctx, evt), "dispatching %s", evt.Kind())
	}

	full := seatType(t, store, s1)
	assert.Equal(t, 90, full.Quantity)
	assert.Equal(t, 90, full.AvailableQuantity)
	workshop := seatType(t, store, s2)
	assert.Equal(t, 15, workshop.Quantity)
	assert.Equal(t, 15, workshop.AvailableQuantity)

	holds, err := store.ListHolds(ctx, conferenceID, r1)
	require.NoError(t, err)
	assert.Empty(t, holds)

	// Over-reserving rolls back the whole reservation.
	err = d.Dispatch(ctx, events.SeatsReserved{Header: header(conferenceID), ReservationID: uuid.NewString(), Items: []events.ReservationItem{
		{SeatTypeID: s2, Quantity: 1},
		{SeatTypeID: s1, Quantity: 500},
	}})
	require.ErrorIs(t, err, db.ErrInventoryConflict)
	assert.Equal(t, 15, seatType(t, store, s2).AvailableQuantity)
	assertSeatInvariant(t, store, conferenceID)
}
