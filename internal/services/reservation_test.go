package services

import (
	"context"
	"errors"
	"testing"

	"github.com/travel-web/apiserver/types"
)

func reservationFixture(t *testing.T) (*ReservationService, *fakeReservationRepo, *recordingMailer, types.Tour) {
	t.Helper()
	tours := newFakeTourRepo()
	tour, err := tours.Create(context.Background(), types.Tour{Name: "Cartagena", Category: types.CategoryCity})
	if err != nil {
		t.Fatalf("create tour: %v", err)
	}
	reservations := newFakeReservationRepo()
	mailer := &recordingMailer{}
	svc := NewReservationService(reservations, tours, mailer, "noreply@travelweb.com")
	return svc, reservations, mailer, tour
}

func validInput(tourID int) ReservationInput {
	return ReservationInput{
		TourID:        tourID,
		CustomerName:  "María López",
		CustomerEmail: "maria@example.com",
		StartDate:     "2026-09-15",
		PartySize:     "3",
	}
}

func TestCreateReservationPending(t *testing.T) {
	svc, _, mailer, tour := reservationFixture(t)
	principal := types.Principal{UserID: 7, Username: "maria"}

	created, err := svc.Create(context.Background(), validInput(tour.ID), principal)
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}

	if created.Status != types.StatusPending {
		t.Fatalf("status = %q, want %q", created.Status, types.StatusPending)
	}
	if created.UserID == nil || *created.UserID != 7 {
		t.Fatalf("owning user not recorded: %v", created.UserID)
	}
	if created.PartySize != 3 {
		t.Fatalf("party size = %d, want 3", created.PartySize)
	}
	if created.TourName != "Cartagena" {
		t.Fatalf("tour name = %q", created.TourName)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
	if mailer.count() != 1 {
		t.Fatalf("sent %d mails, want 1", mailer.count())
	}
}

func TestCreateReservationDefaultPartySize(t *testing.T) {
	svc, _, _, tour := reservationFixture(t)

	input := validInput(tour.ID)
	input.PartySize = ""
	created, err := svc.Create(context.Background(), input, types.Principal{UserID: 1})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if created.PartySize != 1 {
		t.Fatalf("party size = %d, want default 1", created.PartySize)
	}
}

func TestCreateReservationValidationListsAllFields(t *testing.T) {
	svc, reservations, mailer, tour := reservationFixture(t)

	input := ReservationInput{
		TourID:        tour.ID,
		CustomerName:  "   ",
		CustomerEmail: "",
		StartDate:     "mañana",
		PartySize:     "cero",
	}
	_, err := svc.Create(context.Background(), input, types.Principal{UserID: 1})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"customer_name", "customer_email", "start_date", "party_size"} {
		if _, ok := validation.Fields[field]; !ok {
			t.Errorf("expected %s in validation fields, got %v", field, validation.Fields)
		}
	}
	if len(reservations.reservations) != 0 {
		t.Fatal("invalid input must not persist a reservation")
	}
	if mailer.count() != 0 {
		t.Fatal("invalid input must not send mail")
	}
}

func TestCreateReservationRejectsZeroPartySize(t *testing.T) {
	svc, _, _, tour := reservationFixture(t)

	input := validInput(tour.ID)
	input.PartySize = "0"
	_, err := svc.Create(context.Background(), input, types.Principal{UserID: 1})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := validation.Fields["party_size"]; !ok {
		t.Fatalf("expected party_size in validation fields, got %v", validation.Fields)
	}
}

func TestCreateReservationMissingTour(t *testing.T) {
	svc, reservations, mailer, _ := reservationFixture(t)

	_, err := svc.Create(context.Background(), validInput(999), types.Principal{UserID: 1})
	if !errors.Is(err, ErrTourNotFound) {
		t.Fatalf("expected ErrTourNotFound, got %v", err)
	}
	if len(reservations.reservations) != 0 {
		t.Fatal("missing tour must not persist a reservation")
	}
	if mailer.count() != 0 {
		t.Fatal("missing tour must not send mail")
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _, tour := reservationFixture(t)

	first := validInput(tour.ID)
	first.CustomerName = "Primera"
	second := validInput(tour.ID)
	second.CustomerName = "Segunda"

	if _, err := svc.Create(context.Background(), first, types.Principal{UserID: 1}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Create(context.Background(), second, types.Principal{UserID: 1}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d reservations, want 2", len(list))
	}
	if list[0].CustomerName != "Segunda" {
		t.Fatalf("newest first violated: %q leads", list[0].CustomerName)
	}
}
