package projector_test

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-conference/internal/events"
	"ms-conference/internal/logger"
	"ms-conference/internal/models"
	"ms-conference/internal/projector/db"
)

func setupTestDB(t *testing.T) *db.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	store := &db.DB{Bun: bunDB}
	if err := store.CreateSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return store
}

func testLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.NewWriterLogger(&buf), &buf
}

func seatType(t *testing.T, store *db.DB, id string) models.SeatType {
	got, err := store.GetSeatType(context.Background(), id)
	require.NoError(t, err)
	return *got
}

func header(conferenceID string) events.Header {
	return events.Header{EventID: uuid.NewString(), ConferenceID: conferenceID}
}

func assertSeatInvariant(t *testing.T, store *db.DB, conferenceID string) {
	t.Helper()
	seatTypes, err := store.ListSeatTypes(context.Background(), conferenceID)
	require.NoError(t, err)
	for _, st := range seatTypes {
		require.GreaterOrEqual(t, st.AvailableQuantity, 0, "seat type %s", st.ID)
		require.LessOrEqual(t, st.AvailableQuantity, st.Quantity, "seat type %s", st.ID)
	}
}
