package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/travel-web/apiserver/internal/services"
	"github.com/travel-web/apiserver/types"
)

type contextKey string

const contextPrincipalKey contextKey = "principal"

// Route targets for guard redirects. A missing or stale session is a
// control-flow outcome, not an error; the guard sends the client back
// to login. A non-admin hitting an admin route is silently downgraded
// to the regular landing page.
const (
	loginPath = "/login/"
	homePath  = "/home/"
)

func principalFromContext(ctx context.Context) (types.Principal, bool) {
	principal, ok := ctx.Value(contextPrincipalKey).(types.Principal)
	return principal, ok
}

func withPrincipal(ctx context.Context, principal types.Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, principal)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeValidationError surfaces a field-level validation failure the way
// a form would: one message plus the offending fields.
func writeValidationError(w http.ResponseWriter, validation *services.ValidationError) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  validation.Error(),
		Fields: validation.Fields,
	})
}

// ErrorResponse is a simple error payload. Fields is only present for
// validation failures.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func parseIDParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
