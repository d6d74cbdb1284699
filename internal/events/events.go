// Package events defines the conference domain events consumed by the
// read-model projector and their JSON wire envelope.
package events

import (
	"time"
)

type Kind string

const (
	KindConferenceCreated         Kind = "ConferenceCreated"
	KindConferenceUpdated         Kind = "ConferenceUpdated"
	KindConferencePublished       Kind = "ConferencePublished"
	KindConferenceUnpublished     Kind = "ConferenceUnpublished"
	KindSeatTypeAdded             Kind = "SeatTypeAdded"
	KindSeatTypeUpdated           Kind = "SeatTypeUpdated"
	KindSeatTypeQuantityChanged   Kind = "SeatTypeQuantityChanged"
	KindSeatTypeRemoved           Kind = "SeatTypeRemoved"
	KindSeatsReserved             Kind = "SeatsReserved"
	KindSeatsReservationCommitted Kind = "SeatsReservationCommitted"
	KindSeatsReservationCancelled Kind = "SeatsReservationCancelled"
)

// Event is implemented by every event in this package and nothing else.
type Event interface {
	Kind() Kind
	AggregateID() string
	header() Header
}

// Header carries envelope metadata. Every event is raised by a conference
// aggregate, so ConferenceID is the aggregate identity.
type Header struct {
	EventID      string
	ConferenceID string
	Version      int64
	OccurredAt   time.Time
}

func (h Header) AggregateID() string { return h.ConferenceID }

func (h Header) header() Header { return h }

type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ConferenceInfo is the descriptive block carried by created/updated events.
type ConferenceInfo struct {
	AccessCode    string    `json:"access_code"`
	Owner         Owner     `json:"owner"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Tagline       string    `json:"tagline"`
	TwitterSearch string    `json:"twitter_search"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}

type ConferenceCreated struct {
	Header `json:"-"`
	Info   ConferenceInfo `json:"info"`
}

type ConferenceUpdated struct {
	Header `json:"-"`
	Info   ConferenceInfo `json:"info"`
}

type ConferencePublished struct {
	Header `json:"-"`
}

type ConferenceUnpublished struct {
	Header `json:"-"`
}

type SeatTypeInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

type SeatTypeAdded struct {
	Header     `json:"-"`
	SeatTypeID string       `json:"seat_type_id"`
	Info       SeatTypeInfo `json:"info"`
	Quantity   int          `json:"quantity"`
}

type SeatTypeUpdated struct {
	Header     `json:"-"`
	SeatTypeID string       `json:"seat_type_id"`
	Info       SeatTypeInfo `json:"info"`
}

// SeatTypeQuantityChanged carries post-change values computed on the write side.
type SeatTypeQuantityChanged struct {
	Header            `json:"-"`
	SeatTypeID        string `json:"seat_type_id"`
	Quantity          int    `json:"quantity"`
	AvailableQuantity int    `json:"available_quantity"`
}

type SeatTypeRemoved struct {
	Header     `json:"-"`
	SeatTypeID string `json:"seat_type_id"`
}

type ReservationItem struct {
	SeatTypeID string `json:"seat_type_id"`
	Quantity   int    `json:"quantity"`
}

type SeatsReserved struct {
	Header        `json:"-"`
	ReservationID string            `json:"reservation_id"`
	Items         []ReservationItem `json:"items"`
}

type SeatsReservationCommitted struct {
	Header        `json:"-"`
	ReservationID string `json:"reservation_id"`
}

type SeatsReservationCancelled struct {
	Header        `json:"-"`
	ReservationID string `json:"reservation_id"`
}

func (ConferenceCreated) Kind() Kind         { return KindConferenceCreated }
func (ConferenceUpdated) Kind() Kind         { return KindConferenceUpdated }
func (ConferencePublished) Kind() Kind       { return KindConferencePublished }
func (ConferenceUnpublished) Kind() Kind     { return KindConferenceUnpublished }
func (SeatTypeAdded) Kind() Kind             { return KindSeatTypeAdded }
func (SeatTypeUpdated) Kind() Kind           { return KindSeatTypeUpdated }
func (SeatTypeQuantityChanged) Kind() Kind   { return KindSeatTypeQuantityChanged }
func (SeatTypeRemoved) Kind() Kind           { return KindSeatTypeRemoved }
func (SeatsReserved) Kind() Kind             { return KindSeatsReserved }
func (SeatsReservationCommitted) Kind() Kind { return KindSeatsReservationCommitted }
func (SeatsReservationCancelled) Kind() Kind { return KindSeatsReservationCancelled }
