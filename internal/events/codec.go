package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidEvent     = errors.New("invalid event")
)

// Envelope is the wire form of an event. Payload holds the kind-specific fields.
type Envelope struct {
	EventID     string          `json:"event_id"`
	Type        Kind            `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	Version     int64           `json:"version"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Decode parses an envelope into its concrete event and validates it.
// Errors wrap ErrUnknownEventType or ErrInvalidEvent; neither gets better on retry.
func Decode(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: malformed envelope: %v", ErrInvalidEvent, err)
	}

	h := Header{
		EventID:      env.EventID,
		ConferenceID: env.AggregateID,
		Version:      env.Version,
		OccurredAt:   env.OccurredAt,
	}

	var (
		evt Event
		err error
	)
	switch env.Type {
	case KindConferenceCreated:
		e := ConferenceCreated{Header: h}
		err = unmarshalPayload(env.Payload, &e)
		evt = e
	case KindConferenceUpdated:
		e := ConferenceUpdated{Header: h}
		err = unmarshalPayload(env.Payload, &e)
		evt = e
	case KindConferencePublished:
		evt = ConferencePublished{Header: h}
	case KindConferenceUnpublished:
		evt = ConferenceUnpublished{Header: h}
	case KindSeatTypeAdded:
		e := SeatTypeAdded{Header: h}
		err = unmarshalPayload(env.Payload, &e)
		evt = e
	case KindSeatTypeUpdated:
		e := SeatTypeUpdated{Header: h}
		err = unmarshalPayload(env.Payload, &e)
		evt = e
	case KindSeatTypeQuantityChanged:
		e := SeatTypeQuantityChanged{Header: h}
		err = unmarshalPayload(env.Payload, &e)
		evt = e
	case KindSeatTypeRemoved:
		e := SeatTypeRemoved{Header: h}
		err = unmarshalPayload(env.Payload, &e)
		evt = e
	case KindSeatsReserved:
		e := SeatsReserved{Header: h}
		err = unmarshalPayload(env.Payload, &e)
		evt = e
	case KindSeatsReservationCommitted:
		e := SeatsReservationCommitted{Header: h}
		err = unmarshalPayload(env.Payload, &e)
		evt = e
	case KindSeatsReservationCancelled:
		e := SeatsReservationCancelled{Header: h}
		err = unmarshalPayload(env.Payload, &e)
		evt = e
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", ErrInvalidEvent, env.Type, err)
	}

	if err := Validate(evt); err != nil {
		return nil, err
	}
	return evt, nil
}

func unmarshalPayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(payload, v)
}

// Encode builds the wire envelope for evt. A missing EventID gets a fresh UUID.
func Encode(evt Event) ([]byte, error) {
	h := evt.header()
	if h.EventID == "" {
		h.EventID = uuid.NewString()
	}
	if h.OccurredAt.IsZero() {
		h.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{
		EventID:     h.EventID,
		Type:        evt.Kind(),
		AggregateID: h.ConferenceID,
		Version:     h.Version,
		OccurredAt:  h.OccurredAt,
		Payload:     payload,
	})
}

// Validate checks identities and quantities carried by evt.
func Validate(evt Event) error {
	if err := checkID("aggregate_id", evt.AggregateID()); err != nil {
		return err
	}

	switch e := evt.(type) {
	case SeatTypeAdded:
		if err := checkID("seat_type_id", e.SeatTypeID); err != nil {
			return err
		}
		if e.Quantity < 0 {
			return invalid(e, "quantity must not be negative, got %d", e.Quantity)
		}
		if e.Info.Price < 0 {
			return invalid(e, "price must not be negative")
		}
	case SeatTypeUpdated:
		if err := checkID("seat_type_id", e.SeatTypeID); err != nil {
			return err
		}
		if e.Info.Price < 0 {
			return invalid(e, "price must not be negative")
		}
	case SeatTypeQuantityChanged:
		if err := checkID("seat_type_id", e.SeatTypeID); err != nil {
			return err
		}
		if e.AvailableQuantity < 0 || e.AvailableQuantity > e.Quantity {
			return invalid(e, "available quantity %d outside [0, %d]", e.AvailableQuantity, e.Quantity)
		}
	case SeatTypeRemoved:
		return checkID("seat_type_id", e.SeatTypeID)
	case SeatsReserved:
		if err := checkID("reservation_id", e.ReservationID); err != nil {
			return err
		}
		if len(e.Items) == 0 {
			return invalid(e, "no reservation items")
		}
		for _, item := range e.Items {
			if err := checkID("seat_type_id", item.SeatTypeID); err != nil {
				return err
			}
			if item.Quantity <= 0 {
				return invalid(e, "seat type %s: quantity must be positive, got %d", item.SeatTypeID, item.Quantity)
			}
		}
	case SeatsReservationCommitted:
		return checkID("reservation_id", e.ReservationID)
	case SeatsReservationCancelled:
		return checkID("reservation_id", e.ReservationID)
	}
	return nil
}

func checkID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s %q is not a uuid", ErrInvalidEvent, field, id)
	}
	return nil
}

func invalid(evt Event, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidEvent, evt.Kind(), fmt.Sprintf(format, args...))
}
