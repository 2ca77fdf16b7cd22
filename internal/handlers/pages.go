package handlers

import (
	"net/http"
	"strings"

	"github.com/travel-web/apiserver/internal/services"
	"github.com/travel-web/apiserver/types"
)

const recentUserCount = 5

// PageHandler provides the landing and informational view contexts.
type PageHandler struct {
	catalogService *services.CatalogService
	userService    *services.UserService
}

func NewPageHandler(catalogService *services.CatalogService, userService *services.UserService) *PageHandler {
	return &PageHandler{
		catalogService: catalogService,
		userService:    userService,
	}
}

// Healthz is a liveness endpoint.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HomeResponse is the non-admin landing view context.
type HomeResponse struct {
	ToursLugares  []types.Tour `json:"tours_lugares"`
	ToursCiudades []types.Tour `json:"tours_ciudades"`
	NombreUsuario string       `json:"nombre_usuario"`
}

// Home is the landing page for regular users: the catalog bucketed by
// category, no filter.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())

	cities, places, err := h.catalogService.Buckets(r.Context(), "", false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tours")
		return
	}

	writeJSON(w, http.StatusOK, HomeResponse{
		ToursLugares:  places,
		ToursCiudades: cities,
		NombreUsuario: principal.Username,
	})
}

// DashboardResponse is the admin landing view context.
type DashboardResponse struct {
	Tours       []types.Tour `json:"tours"`
	Personas    []types.User `json:"personas"`
	Username    string       `json:"username"`
	SearchQuery string       `json:"search_query"`
}

// Dashboard is the admin landing page: all tours (optionally filtered by
// name via `buscar`) and the five most recent users.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())
	search := strings.TrimSpace(r.URL.Query().Get("buscar"))

	tours, err := h.catalogService.List(r.Context(), search)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tours")
		return
	}
	recent, err := h.userService.ListRecent(r.Context(), recentUserCount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		Tours:       tours,
		Personas:    recent,
		Username:    principal.Username,
		SearchQuery: search,
	})
}

// SettingsResponse is the system-settings view context. Settings are
// client-side for now; only identity is served.
type SettingsResponse struct {
	Username string `json:"username"`
}

func (h *PageHandler) Settings(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())
	writeJSON(w, http.StatusOK, SettingsResponse{Username: principal.Username})
}

// AboutResponse is the public about-us view context. The username is
// empty for anonymous visitors.
type AboutResponse struct {
	NombreUsuario string `json:"nombre_usuario"`
}

func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())
	writeJSON(w, http.StatusOK, AboutResponse{NombreUsuario: principal.Username})
}
