package handlers

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
)

// memDB is a single in-memory backing store shared by the fake
// repositories, so deletes cascade the way the SQL schema's foreign
// keys do: removing a tour or user removes their reservations, and
// removing a user removes their sessions and reset tokens.
type memDB struct {
	nextUserID int
	nextTourID int
	nextResID  int

	users        map[int]types.User
	tours        map[int]types.Tour
	reservations []types.Reservation
	sessions     map[string]types.Session
	resets       map[string]types.PasswordReset
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[int]types.User{},
		tours:    map[int]types.Tour{},
		sessions: map[string]types.Session{},
		resets:   map[string]types.PasswordReset{},
	}
}

type memUserRepo struct{ db *memDB }

func (r *memUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.db.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (types.User, error) {
	for _, user := range r.db.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *memUserRepo) GetByIdentifier(_ context.Context, identifier string) (types.User, error) {
	var matches []types.User
	for _, user := range r.db.users {
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

func (r *memUserRepo) List(_ context.Context, filter string) ([]types.User, error) {
	needle := strings.ToLower(filter)
	var out []types.User
	for _, user := range r.db.users {
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

func (r *memUserRepo) ListRecent(_ context.Context, limit int) ([]types.User, error) {
	var out []types.User
	for _, user := range r.db.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	r.db.nextUserID++
	user.ID = r.db.nextUserID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.db.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	if _, ok := r.db.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.db.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.db.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.db.users, id)

	kept := r.db.reservations[:0]
	for _, res := range r.db.reservations {
		if res.UserID == nil || *res.UserID != id {
			kept = append(kept, res)
		}
	}
	r.db.reservations = kept

	for sid, session := range r.db.sessions {
		if session.UserID == id {
			delete(r.db.sessions, sid)
		}
	}
	for token, reset := range r.db.resets {
		if reset.UserID == id {
			delete(r.db.resets, token)
		}
	}
	return nil
}

type memTourRepo struct{ db *memDB }

func (r *memTourRepo) Get(_ context.Context, id int) (types.Tour, error) {
	tour, ok := r.db.tours[id]
	if !ok {
		return types.Tour{}, store.ErrNotFound
	}
	return tour, nil
}

func (r *memTourRepo) GetByNameAndCategory(_ context.Context, name, category string) (types.Tour, error) {
	for _, tour := range r.db.tours {
		if tour.Name == name && tour.Category == category {
			return tour, nil
		}
	}
	return types.Tour{}, store.ErrNotFound
}

func (r *memTourRepo) List(_ context.Context, category, filter string, nameOnly bool) ([]types.Tour, error) {
	needle := strings.ToLower(filter)
	var out []types.Tour
	for _, tour := range r.db.tours {
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

func (r *memTourRepo) Create(_ context.Context, tour types.Tour) (types.Tour, error) {
	r.db.nextTourID++
	tour.ID = r.db.nextTourID
	tour.CreatedAt = time.Now()
	tour.UpdatedAt = tour.CreatedAt
	r.db.tours[tour.ID] = tour
	return tour, nil
}

func (r *memTourRepo) Update(_ context.Context, tour types.Tour) (types.Tour, error) {
	if _, ok := r.db.tours[tour.ID]; !ok {
		return types.Tour{}, store.ErrNotFound
	}
	tour.UpdatedAt = time.Now()
	r.db.tours[tour.ID] = tour
	return tour, nil
}

func (r *memTourRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.db.tours[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.db.tours, id)

	kept := r.db.reservations[:0]
	for _, res := range r.db.reservations {
		if res.TourID != id {
			kept = append(kept, res)
		}
	}
	r.db.reservations = kept
	return nil
}

type memReservationRepo struct{ db *memDB }

func (r *memReservationRepo) Create(_ context.Context, res types.Reservation) (types.Reservation, error) {
	r.db.nextResID++
	res.ID = r.db.nextResID
	res.CreatedAt = time.Now()
	r.db.reservations = append(r.db.reservations, res)
	return res, nil
}

func (r *memReservationRepo) List(_ context.Context) ([]types.Reservation, error) {
	out := make([]types.Reservation, 0, len(r.db.reservations))
	for i := len(r.db.reservations) - 1; i >= 0; i-- {
		res := r.db.reservations[i]
		if tour, ok := r.db.tours[res.TourID]; ok {
			res.TourName = tour.Name
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *memReservationRepo) CountByTour(_ context.Context, tourID int) (int, error) {
	count := 0
	for _, res := range r.db.reservations {
		if res.TourID == tourID {
			count++
		}
	}
	return count, nil
}

type memSessionRepo struct{ db *memDB }

func (r *memSessionRepo) Create(_ context.Context, session types.Session) (types.Session, error) {
	r.db.sessions[session.ID] = session
	return session, nil
}

func (r *memSessionRepo) Get(_ context.Context, id string) (types.Session, error) {
	session, ok := r.db.sessions[id]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return types.Session{}, store.ErrNotFound
	}
	return session, nil
}

func (r *memSessionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.db.sessions[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.db.sessions, id)
	return nil
}

func (r *memSessionRepo) CreatePasswordReset(_ context.Context, reset types.PasswordReset) (types.PasswordReset, error) {
	r.db.resets[reset.Token] = reset
	return reset, nil
}

func (r *memSessionRepo) ConsumePasswordReset(_ context.Context, token string) (types.PasswordReset, error) {
	reset, ok := r.db.resets[token]
	if !ok || !reset.ExpiresAt.After(time.Now()) {
		return types.PasswordReset{}, store.ErrNotFound
	}
	delete(r.db.resets, token)
	return reset, nil
}
