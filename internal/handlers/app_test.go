package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/travel-web/apiserver/internal/mail"
	"github.com/travel-web/apiserver/internal/services"
)

const (
	testCookieName = "travelweb_session"
	testJWTSecret  = "test-secret"
)

// testApp wires the full router against the in-memory store, so tests
// exercise the same middleware chain and routes the server mounts.
type testApp struct {
	db     *memDB
	router http.Handler
	users  *services.UserService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := newMemDB()
	userRepo := &memUserRepo{db: db}
	tourRepo := &memTourRepo{db: db}

	userService := services.NewUserService(userRepo)
	sessionService := services.NewSessionService(&memSessionRepo{db: db}, userRepo, time.Hour)
	catalogService := services.NewCatalogService(tourRepo)
	reservationService := services.NewReservationService(&memReservationRepo{db: db}, tourRepo, mail.NewLogSender(), "noreply@travelweb.com")

	auth := NewAuthHandler(userService, sessionService, mail.NewLogSender(), "noreply@travelweb.com", testCookieName, testJWTSecret)
	pages := NewPageHandler(catalogService, userService)
	tours := NewTourHandler(catalogService, nil)
	users := NewUserHandler(userService, nil)
	reservations := NewReservationHandler(reservationService, catalogService)

	return &testApp{
		db:     db,
		router: Router(auth, pages, tours, users, reservations),
		users:  userService,
	}
}

// do performs a request against the router. body is JSON-encoded when
// non-nil; cookie carries the session.
func (a *testApp) do(t *testing.T, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// register creates an account through the public endpoint.
func (a *testApp) register(t *testing.T, username, password, email string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/registro/", map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", username, rec.Code, rec.Body.String())
	}
}

// promote flips the admin flag directly in the backing store.
func (a *testApp) promote(t *testing.T, username string) {
	t.Helper()
	for id, user := range a.db.users {
		if user.Username == username {
			user.Admin = true
			a.db.users[id] = user
			return
		}
	}
	t.Fatalf("promote: user %s not found", username)
}

// login authenticates and returns the session cookie and bearer token.
func (a *testApp) login(t *testing.T, identifier, password string) (*http.Cookie, string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/login/", LoginRequest{Identifier: identifier, Password: password}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", identifier, rec.Code, rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("login %s: no session cookie set", identifier)
	}

	resp := decodeBody[LoginResponse](t, rec)
	if resp.Token == "" {
		t.Fatalf("login %s: no token issued", identifier)
	}
	return cookie, resp.Token
}

// loginUser registers and logs in a regular account.
func (a *testApp) loginUser(t *testing.T, username string) *http.Cookie {
	t.Helper()
	a.register(t, username, "secreto123", username+"@example.com")
	cookie, _ := a.login(t, username, "secreto123")
	return cookie
}

// loginAdmin registers, promotes and logs in an admin account.
func (a *testApp) loginAdmin(t *testing.T, username string) *http.Cookie {
	t.Helper()
	a.register(t, username, "secreto123", username+"@example.com")
	a.promote(t, username)
	cookie, _ := a.login(t, username, "secreto123")
	return cookie
}

func requireRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("redirect to %q, want %q", got, location)
	}
}
