package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/travel-web/apiserver/internal/services"
	"github.com/travel-web/apiserver/internal/storage"
	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
)

// UserHandler provides user administration and self-service profile
// endpoints. Per the original access model these are session-gated, not
// admin-gated.
type UserHandler struct {
	userService *services.UserService
	images      *storage.Images
}

func NewUserHandler(userService *services.UserService, images *storage.Images) *UserHandler {
	return &UserHandler{
		userService: userService,
		images:      images,
	}
}

// UserListResponse is the user administration view context.
type UserListResponse struct {
	Usuarios        []types.User `json:"usuarios"`
	UsuarioActualID int          `json:"usuario_actual_id"`
	TotalUsuarios   int          `json:"total_usuarios"`
	Query           string       `json:"query"`
}

// List returns all users, optionally narrowed by a case-insensitive
// substring filter over username, email and name.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	users, err := h.userService.List(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, UserListResponse{
		Usuarios:        users,
		UsuarioActualID: principal.UserID,
		TotalUsuarios:   len(users),
		Query:           query,
	})
}

// Delete removes a user and cascades away their reservations. Deleting
// your own account is allowed; the stranded session redirects to login
// on its next request.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Usuario eliminado"})
}

// UserUpdateRequest is a partial profile edit: password and image key
// are only applied when non-empty, everything else always overwrites.
type UserUpdateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Password string `json:"password"`
	ImageKey string `json:"image_key"`
}

// Edit updates any user by id.
func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.applyUpdate(w, r, id)
}

// ProfileResponse is the own-profile view context.
type ProfileResponse struct {
	Usuario  types.User `json:"usuario"`
	Username string     `json:"username"`
}

// Profile returns the acting user's own record.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())

	user, err := h.userService.GetByID(r.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{Usuario: user, Username: user.Username})
}

// UpdateProfile edits the acting user's own record.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())
	h.applyUpdate(w, r, principal.UserID)
}

func (h *UserHandler) applyUpdate(w http.ResponseWriter, r *http.Request, id int) {
	var req UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), id, services.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Surname:  req.Surname,
		Password: req.Password,
		ImageKey: req.ImageKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "Usuario no encontrado")
		case errors.Is(err, services.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update user")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// UploadProfileImage stores the request body as the acting user's
// profile image.
func (h *UserHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		writeError(w, http.StatusNotImplemented, "image storage is not configured")
		return
	}

	principal, _ := principalFromContext(r.Context())

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, http.StatusBadRequest, "body must be an image")
		return
	}

	key := storage.ProfileImageKey(principal.UserID)
	body := http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := h.images.Put(r.Context(), key, body, r.ContentLength, contentType); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	if err := h.userService.SetImageKey(r.Context(), principal.UserID, key); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to record image")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "imagen actualizada"})
}
