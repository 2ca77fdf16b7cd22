package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/travel-web/apiserver/internal/mail"
	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
)

const startDateLayout = "2006-01-02"

// ReservationRepository defines persistence operations for reservations.
type ReservationRepository interface {
	Create(ctx context.Context, res types.Reservation) (types.Reservation, error)
	List(ctx context.Context) ([]types.Reservation, error)
	CountByTour(ctx context.Context, tourID int) (int, error)
}

// ReservationService encapsulates the reservation lifecycle. There is no
// capacity tracking and no payment: a reservation is a record of a
// request, created as pending and never transitioned.
type ReservationService struct {
	reservations ReservationRepository
	tours        TourRepository
	mailer       mail.Sender
	mailSender   string
}

func NewReservationService(reservations ReservationRepository, tours TourRepository, mailer mail.Sender, mailSender string) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		tours:        tours,
		mailer:       mailer,
		mailSender:   mailSender,
	}
}

// ReservationInput is the raw reservation form as submitted. StartDate
// and PartySize arrive as text and are parsed here, before persistence,
// so the caller gets one ValidationError naming every bad field instead
// of a storage failure after the fact.
type ReservationInput struct {
	TourID        int
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	StartDate     string
	PartySize     string
	Notes         string
}

// Create validates the form, checks the tour exists, and stores the
// reservation as pending with an immutable creation timestamp. The
// acting principal is recorded as the owning user.
func (s *ReservationService) Create(ctx context.Context, input ReservationInput, principal types.Principal) (types.Reservation, error) {
	validation := &ValidationError{}

	if strings.TrimSpace(input.CustomerName) == "" {
		validation.add("customer_name", "required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		validation.add("customer_email", "required")
	}

	startDate, err := time.Parse(startDateLayout, strings.TrimSpace(input.StartDate))
	if err != nil {
		validation.add("start_date", "must be a date in YYYY-MM-DD form")
	}

	partySize := 1
	if raw := strings.TrimSpace(input.PartySize); raw != "" {
		partySize, err = strconv.Atoi(raw)
		if err != nil || partySize < 1 {
			validation.add("party_size", "must be a whole number of at least 1")
		}
	}

	if !validation.ok() {
		return types.Reservation{}, validation
	}

	tour, err := s.tours.Get(ctx, input.TourID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Reservation{}, ErrTourNotFound
		}
		return types.Reservation{}, err
	}

	userID := principal.UserID
	created, err := s.reservations.Create(ctx, types.Reservation{
		TourID:        tour.ID,
		UserID:        &userID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		StartDate:     startDate,
		PartySize:     partySize,
		Notes:         strings.TrimSpace(input.Notes),
		Status:        types.StatusPending,
	})
	if err != nil {
		return types.Reservation{}, err
	}
	created.TourName = tour.Name

	s.notify(ctx, created, tour)
	return created, nil
}

// List returns every reservation, newest first.
func (s *ReservationService) List(ctx context.Context) ([]types.Reservation, error) {
	return s.reservations.List(ctx)
}

// notify sends the "reservation received" mail. Delivery is best-effort:
// the reservation is already stored and a mail failure must not fail the
// request.
func (s *ReservationService) notify(ctx context.Context, res types.Reservation, tour types.Tour) {
	if s.mailer == nil {
		return
	}
	m := mail.Mail{
		Subject: fmt.Sprintf("Reserva recibida: %s", tour.Name),
		Body: fmt.Sprintf(
			"Hola %s,\n\nRecibimos tu reserva para %s (%d personas, inicio %s).\nEstado: %s.\n\nTravel Web",
			res.CustomerName, tour.Name, res.PartySize, res.StartDate.Format(startDateLayout), res.Status,
		),
		Sender:     s.mailSender,
		Recipients: []string{res.CustomerEmail},
	}
	if err := s.mailer.Send(ctx, m); err != nil {
		log.Printf("reservation %d: notification mail failed: %v", res.ID, err)
	}
}
