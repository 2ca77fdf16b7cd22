package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/travel-web/apiserver/internal/services"
	"github.com/travel-web/apiserver/types"
)

// ReservationHandler provides the reservation form and the admin
// overview of all bookings.
type ReservationHandler struct {
	reservationService *services.ReservationService
	catalogService     *services.CatalogService
}

func NewReservationHandler(reservationService *services.ReservationService, catalogService *services.CatalogService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		catalogService:     catalogService,
	}
}

// ReservationFormResponse is the reservation-form view context: the
// tours available in the selector plus the acting user's name.
type ReservationFormResponse struct {
	Tours         []types.Tour `json:"tours"`
	NombreUsuario string       `json:"nombre_usuario"`
}

// Form returns the data the reservation form is built from.
func (h *ReservationHandler) Form(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())

	tours, err := h.catalogService.List(r.Context(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tours")
		return
	}

	writeJSON(w, http.StatusOK, ReservationFormResponse{
		Tours:         tours,
		NombreUsuario: principal.Username,
	})
}

// ReservationCreateRequest is the reservation form as submitted. Date
// and party size are text on the wire and validated server-side.
type ReservationCreateRequest struct {
	TourID        int    `json:"tour_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	StartDate     string `json:"start_date"`
	PartySize     string `json:"party_size"`
	Notes         string `json:"notes"`
}

// ReservationCreateResponse confirms a stored reservation.
type ReservationCreateResponse struct {
	Message     string            `json:"message"`
	Reservation types.Reservation `json:"reservation"`
}

// Create stores a reservation for the acting user. Every failure here is
// a user-visible message; a missing tour or a bad field never turns into
// a fault page.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())

	var req ReservationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.reservationService.Create(r.Context(), services.ReservationInput{
		TourID:        req.TourID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		StartDate:     req.StartDate,
		PartySize:     req.PartySize,
		Notes:         req.Notes,
	}, principal)
	if err != nil {
		var validation *services.ValidationError
		switch {
		case errors.Is(err, services.ErrTourNotFound):
			writeError(w, http.StatusNotFound, "El tour seleccionado no existe")
		case errors.As(err, &validation):
			writeValidationError(w, validation)
		default:
			writeError(w, http.StatusInternalServerError, "Error al crear la reserva")
		}
		return
	}

	writeJSON(w, http.StatusCreated, ReservationCreateResponse{
		Message:     "¡Reserva creada exitosamente para " + created.CustomerName + "! Tu reserva está pendiente de confirmación",
		Reservation: created,
	})
}

// ReservationListResponse is the admin overview view context.
type ReservationListResponse struct {
	Reservas []types.Reservation `json:"reservas"`
	Username string              `json:"username"`
}

// ListAdmin returns every reservation, newest first. Status is shown but
// cannot be changed from here; no transition entry point exists.
func (h *ReservationHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())

	reservations, err := h.reservationService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	writeJSON(w, http.StatusOK, ReservationListResponse{
		Reservas: reservations,
		Username: principal.Username,
	})
}
