package projector_api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-conference/internal/availability"
	"ms-conference/internal/models"
	"ms-conference/internal/utils"
)

// ReadModel is the read side of the projector's storage gateway.
type ReadModel interface {
	GetConference(ctx context.Context, id string) (*models.Conference, error)
	ListSeatTypes(ctx context.Context, conferenceID string) ([]models.SeatType, error)
	ListHolds(ctx context.Context, conferenceID, reservationID string) ([]models.ReservationHold, error)
}

// AvailabilityReader is the read side of the availability cache.
type AvailabilityReader interface {
	Get(ctx context.Context, conferenceID string) (map[string]availability.Counts, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	ReadModel    ReadModel
	Availability AvailabilityReader
	DB           Pinger
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Route("/api/projector/conferences/{conferenceID}", func(r chi.Router) {
		r.Get("/", h.GetConference)
		r.Get("/seat-types", h.ListSeatTypes)
		r.Get("/availability", h.GetAvailability)
		r.Get("/reservations/{reservationID}/holds", h.ListHolds)
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, utils.ErrorResponse("database unreachable", err.Error()))
			return
		}
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
}

func (h *Handler) GetConference(w http.ResponseWriter, r *http.Request) {
	conference, err := h.ReadModel.GetConference(r.Context(), chi.URLParam(r, "conferenceID"))
	if errors.Is(err, sql.ErrNoRows) {
		writeJSON(w, http.StatusNotFound, utils.ErrorResponse("conference not found", err.Error()))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("error retrieving conference", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("conference", conference))
}

func (h *Handler) ListSeatTypes(w http.ResponseWriter, r *http.Request) {
	seatTypes, err := h.ReadModel.ListSeatTypes(r.Context(), chi.URLParam(r, "conferenceID"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("error retrieving seat types", err.Error()))
		return
	}
	if seatTypes == nil {
		seatTypes = []models.SeatType{}
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("seat types", seatTypes))
}

// GetAvailability serves the cached counters and falls back to the read model
// when the cache is disabled, unreachable or empty for the conference.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	conferenceID := chi.URLParam(r, "conferenceID")

	if h.Availability != nil {
		counts, err := h.Availability.Get(r.Context(), conferenceID)
		if err == nil && len(counts) > 0 {
			writeJSON(w, http.StatusOK, utils.SuccessResponse("availability (cache)", counts))
			return
		}
	}

	seatTypes, err := h.ReadModel.ListSeatTypes(r.Context(), conferenceID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("error retrieving availability", err.Error()))
		return
	}
	counts := make(map[string]availability.Counts, len(seatTypes))
	for _, st := range seatTypes {
		counts[st.ID] = availability.Counts{Quantity: st.Quantity, AvailableQuantity: st.AvailableQuantity}
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("availability", counts))
}

func (h *Handler) ListHolds(w http.ResponseWriter, r *http.Request) {
	holds, err := h.ReadModel.ListHolds(r.Context(), chi.URLParam(r, "conferenceID"), chi.URLParam(r, "reservationID"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("error retrieving holds", err.Error()))
		return
	}
	if holds == nil {
		holds = []models.ReservationHold{}
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("reservation holds", holds))
}

func writeJSON(w http.ResponseWriter, status int, body utils.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
