package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/travel-web/apiserver/internal/mail"
	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
)

// In-memory repositories used across the service tests. They mirror the
// SQL repositories' contracts: sentinel errors, identifier matching over
// username and email, case-insensitive substring filters.

type fakeUserRepo struct {
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]types.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (types.User, error) {
	var matches []types.User
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			matches = append(matches, user)
		}
	}
	switch len(matches) {
	case 0:
		return types.User{}, store.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return types.User{}, store.ErrAmbiguousIdentity
	}
}

func (r *fakeUserRepo) List(_ context.Context, filter string) ([]types.User, error) {
	needle := strings.ToLower(filter)
	var out []types.User
	for _, user := range r.users {
		if filter == "" ||
			strings.Contains(strings.ToLower(user.Username), needle) ||
			strings.Contains(strings.ToLower(user.Email), needle) ||
			strings.Contains(strings.ToLower(user.Name), needle) {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) ListRecent(_ context.Context, limit int) ([]types.User, error) {
	var out []types.User
	for _, user := range r.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeTourRepo struct {
	nextID int
	tours  map[int]types.Tour
}

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{tours: map[int]types.Tour{}}
}

func (r *fakeTourRepo) Get(_ context.Context, id int) (types.Tour, error) {
	tour, ok := r.tours[id]
	if !ok {
		return types.Tour{}, store.ErrNotFound
	}
	return tour, nil
}

func (r *fakeTourRepo) GetByNameAndCategory(_ context.Context, name, category string) (types.Tour, error) {
	for _, tour := range r.tours {
		if tour.Name == name && tour.Category == category {
			return tour, nil
		}
	}
	return types.Tour{}, store.ErrNotFound
}

func (r *fakeTourRepo) List(_ context.Context, category, filter string, nameOnly bool) ([]types.Tour, error) {
	needle := strings.ToLower(filter)
	var out []types.Tour
	for _, tour := range r.tours {
		if category != "" && tour.Category != category {
			continue
		}
		if filter != "" {
			matched := strings.Contains(strings.ToLower(tour.Name), needle)
			if !matched && !nameOnly {
				matched = strings.Contains(strings.ToLower(tour.Description), needle)
			}
			if !matched {
				continue
			}
		}
		out = append(out, tour)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTourRepo) Create(_ context.Context, tour types.Tour) (types.Tour, error) {
	r.nextID++
	tour.ID = r.nextID
	tour.CreatedAt = time.Now()
	tour.UpdatedAt = tour.CreatedAt
	r.tours[tour.ID] = tour
	return tour, nil
}

func (r *fakeTourRepo) Update(_ context.Context, tour types.Tour) (types.Tour, error) {
	if _, ok := r.tours[tour.ID]; !ok {
		return types.Tour{}, store.ErrNotFound
	}
	tour.UpdatedAt = time.Now()
	r.tours[tour.ID] = tour
	return tour, nil
}

func (r *fakeTourRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.tours[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.tours, id)
	return nil
}

type fakeReservationRepo struct {
	nextID       int
	reservations []types.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{}
}

func (r *fakeReservationRepo) Create(_ context.Context, res types.Reservation) (types.Reservation, error) {
	r.nextID++
	res.ID = r.nextID
	res.CreatedAt = time.Now()
	r.reservations = append(r.reservations, res)
	return res, nil
}

func (r *fakeReservationRepo) List(_ context.Context) ([]types.Reservation, error) {
	out := make([]types.Reservation, 0, len(r.reservations))
	for i := len(r.reservations) - 1; i >= 0; i-- {
		out = append(out, r.reservations[i])
	}
	return out, nil
}

func (r *fakeReservationRepo) CountByTour(_ context.Context, tourID int) (int, error) {
	count := 0
	for _, res := range r.reservations {
		if res.TourID == tourID {
			count++
		}
	}
	return count, nil
}

type fakeSessionRepo struct {
	sessions map[string]types.Session
	resets   map[string]types.PasswordReset
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions: map[string]types.Session{},
		resets:   map[string]types.PasswordReset{},
	}
}

func (r *fakeSessionRepo) Create(_ context.Context, session types.Session) (types.Session, error) {
	r.sessions[session.ID] = session
	return session, nil
}

func (r *fakeSessionRepo) Get(_ context.Context, id string) (types.Session, error) {
	session, ok := r.sessions[id]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return types.Session{}, store.ErrNotFound
	}
	return session, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.sessions[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) CreatePasswordReset(_ context.Context, reset types.PasswordReset) (types.PasswordReset, error) {
	r.resets[reset.Token] = reset
	return reset, nil
}

func (r *fakeSessionRepo) ConsumePasswordReset(_ context.Context, token string) (types.PasswordReset, error) {
	reset, ok := r.resets[token]
	if !ok || !reset.ExpiresAt.After(time.Now()) {
		return types.PasswordReset{}, store.ErrNotFound
	}
	delete(r.resets, token)
	return reset, nil
}

// recordingMailer captures sent mail for assertions.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Mail
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) Close() error { return nil }

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
