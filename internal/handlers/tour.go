package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/travel-web/apiserver/internal/services"
	"github.com/travel-web/apiserver/internal/storage"
	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
)

const maxImageBytes = 10 << 20

// TourHandler provides catalog views and admin-gated tour CRUD.
type TourHandler struct {
	catalogService *services.CatalogService
	images         *storage.Images
}

func NewTourHandler(catalogService *services.CatalogService, images *storage.Images) *TourHandler {
	return &TourHandler{
		catalogService: catalogService,
		images:         images,
	}
}

// TourListResponse is the category-partitioned catalog view context.
// The two buckets are always delivered separately.
type TourListResponse struct {
	ToursCiudades []types.Tour `json:"tours_ciudades"`
	ToursLugares  []types.Tour `json:"tours_lugares"`
	Username      string       `json:"username"`
	IsAdmin       bool         `json:"is_admin"`
	Query         string       `json:"query"`
}

// Tours renders the searchable catalog. The `q` filter matches name or
// description, case-insensitively, within each category bucket. IsAdmin
// tells the client whether to show management affordances.
func (h *TourHandler) Tours(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	cities, places, err := h.catalogService.Buckets(r.Context(), query, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tours")
		return
	}

	writeJSON(w, http.StatusOK, TourListResponse{
		ToursCiudades: cities,
		ToursLugares:  places,
		Username:      principal.Username,
		IsAdmin:       principal.Admin,
		Query:         query,
	})
}

// ExploreResponse is the flat all-tours view context.
type ExploreResponse struct {
	Tours         []types.Tour `json:"tours"`
	NombreUsuario string       `json:"nombre_usuario"`
}

// Explore lists every tour without category partitioning, for the
// browse-and-reserve page.
func (h *TourHandler) Explore(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())

	tours, err := h.catalogService.List(r.Context(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tours")
		return
	}

	writeJSON(w, http.StatusOK, ExploreResponse{
		Tours:         tours,
		NombreUsuario: principal.Username,
	})
}

// TourUpsertRequest is the full tour field set. Create and update both
// expect all fields; there are no partial-update semantics for tours.
type TourUpsertRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageKey    string `json:"image_key"`
	Duration    string `json:"duration"`
	Price       string `json:"price"`
	Category    string `json:"category"`
}

func (h *TourHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TourUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.catalogService.Create(r.Context(), types.Tour{
		Name:        req.Name,
		Description: req.Description,
		ImageKey:    req.ImageKey,
		Duration:    req.Duration,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		var validation *services.ValidationError
		if errors.As(err, &validation) {
			writeValidationError(w, validation)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create tour")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *TourHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "tourID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req TourUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.catalogService.Update(r.Context(), types.Tour{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		ImageKey:    req.ImageKey,
		Duration:    req.Duration,
		Price:       req.Price,
		Category:    req.Category,
	})
	if err != nil {
		var validation *services.ValidationError
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "tour not found")
		case errors.As(err, &validation):
			writeValidationError(w, validation)
		default:
			writeError(w, http.StatusInternalServerError, "failed to update tour")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a tour and, through the store's cascade, every
// reservation made against it.
func (h *TourHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "tourID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tour not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete tour")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores the request body as the tour's card image and
// records its object key on the tour.
func (h *TourHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusNotImplemented, "image storage is not configured")
		return
	}

	id, err := parseIDParam(r, "tourID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.catalogService.Get(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tour not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch tour")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "body must be an image")
		return
	}

	key := storage.TourImageKey(id)
	body := http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := h.images.Put(r.Context(), key, body, r.ContentLength, contentType); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	if err := h.catalogService.SetImageKey(r.Context(), id, key); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record image")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "imagen actualizada"})
}

// GetImage streams the tour's stored image.
func (h *TourHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusNotImplemented, "image storage is not configured")
		return
	}

	id, err := parseIDParam(r, "tourID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tour, err := h.catalogService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tour not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch tour")
		return
	}
	if tour.ImageKey == "" {
		writeError(w, http.StatusNotFound, "tour has no image")
		return
	}

	reader, err := h.images.Get(r.Context(), tour.ImageKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read image")
		return
	}
	defer reader.Close()

	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}
