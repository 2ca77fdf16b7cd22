package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/travel-web/apiserver/internal/mail"
	"github.com/travel-web/apiserver/internal/services"
	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
)

const defaultTokenTTL = 24 * time.Hour

// AuthHandler provides login, logout, registration and password-reset
// endpoints, plus the access-guard middleware used by every protected
// route.
type AuthHandler struct {
	userService    *services.UserService
	sessionService *services.SessionService
	mailer         mail.Sender
	mailSender     string
	cookieName     string
	secret         []byte
	tokenTTL       time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(
	userService *services.UserService,
	sessionService *services.SessionService,
	mailer mail.Sender,
	mailSender string,
	cookieName string,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		mailer:         mailer,
		mailSender:     mailSender,
		cookieName:     cookieName,
		secret:         []byte(jwtSecret),
		tokenTTL:       defaultTokenTTL,
	}
}

// AuthRouter registers the public authentication routes.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/", handler.Login)
	r.Post("/login/", handler.Login)
	r.Post("/login-admin/", handler.LoginAdmin)
	r.Post("/registro/", handler.Register)
	r.Post("/password-reset/", handler.PasswordResetRequest)
	r.Post("/password-reset/confirmar/", handler.PasswordResetConfirm)
	r.With(handler.RequireSession).Post("/logout/", handler.Logout)
}

// RequireSession resolves the acting principal and injects it into the
// request context. It accepts the session cookie first and a bearer JWT
// second. Absent or unresolvable credentials redirect to login: the
// session may have expired, or the user may have been deleted after
// logging in.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := h.resolvePrincipal(r)
		if !ok {
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// RequireAdmin downgrades authenticated non-admin principals to the
// regular landing page. Admin content is never rendered for them, but
// no error surfaces either. Chain after RequireSession.
func (h *AuthHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		if !principal.Admin {
			http.Redirect(w, r, homePath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AuthHandler) resolvePrincipal(r *http.Request) (types.Principal, bool) {
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		principal, err := h.sessionService.Resolve(r.Context(), cookie.Value)
		if err == nil {
			return principal, true
		}
		return types.Principal{}, false
	}

	tokenString, err := bearerToken(r)
	if err != nil {
		return types.Principal{}, false
	}
	subject, err := parseTokenSubject(tokenString, h.secret)
	if err != nil {
		return types.Principal{}, false
	}
	userID, err := strconv.Atoi(subject)
	if err != nil || userID < 1 {
		return types.Principal{}, false
	}
	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		return types.Principal{}, false
	}
	return types.Principal{UserID: user.ID, Username: user.Username, Admin: user.Admin}, true
}

type LoginRequest struct {
	// Identifier is the username or email; both are accepted.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse carries the session cookie's landing route for the web
// client plus a bearer token for API clients.
type LoginResponse struct {
	Message  string     `json:"message"`
	Redirect string     `json:"redirect"`
	Token    string     `json:"token"`
	User     types.User `json:"user"`
}

// Login verifies credentials and opens a session. Admins land on the
// dashboard, everyone else on home.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r, false)
	if !ok {
		return
	}
	redirect := homePath
	message := fmt.Sprintf("Bienvenido %s!", user.Username)
	if user.Admin {
		redirect = "/dashboard/"
		message = fmt.Sprintf("Bienvenido Admin %s!", user.Username)
	}
	h.openSession(w, r, user, message, redirect)
}

// LoginAdmin is the admin-only entry point: a valid credential match on
// a non-admin account is rejected with a user-visible error and no
// session is created.
func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r, true)
	if !ok {
		return
	}
	h.openSession(w, r, user, fmt.Sprintf("Bienvenido al Panel, %s", user.Username), "/dashboard/")
}

func (h *AuthHandler) authenticate(w http.ResponseWriter, r *http.Request, adminOnly bool) (types.User, bool) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return types.User{}, false
	}
	if strings.TrimSpace(req.Identifier) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return types.User{}, false
	}

	var user types.User
	var err error
	if adminOnly {
		user, err = h.userService.AuthenticateAdmin(r.Context(), req.Identifier, req.Password)
	} else {
		user, err = h.userService.Authenticate(r.Context(), req.Identifier, req.Password)
	}
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusUnauthorized, "Usuario o Email no encontrado")
		case errors.Is(err, store.ErrAmbiguousIdentity):
			writeError(w, http.StatusUnauthorized, "Error: multiples usuarios encontrados")
		case errors.Is(err, services.ErrBadCredential):
			writeError(w, http.StatusUnauthorized, "Contraseña incorrecta")
		case errors.Is(err, services.ErrNotAdmin):
			writeError(w, http.StatusForbidden, "Acceso denegado: esta cuenta no es de administrador")
		default:
			writeError(w, http.StatusInternalServerError, "failed to authenticate")
		}
		return types.User{}, false
	}
	return user, true
}

func (h *AuthHandler) openSession(w http.ResponseWriter, r *http.Request, user types.User, message, redirect string) {
	session, err := h.sessionService.Start(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open session")
		return
	}
	token, err := issueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, LoginResponse{
		Message:  message,
		Redirect: redirect,
		Token:    token,
		User:     user,
	})
}

// Logout deletes the server-side session and expires the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFromContext(r.Context())
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.sessionService.End(r.Context(), cookie.Value); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to close session")
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, MessageResponse{
		Message:  fmt.Sprintf("%s, has cerrado sesión correctamente", principal.Username),
		Redirect: loginPath,
	})
}

// MessageResponse is a flash-message payload with an optional follow-up
// route for the client.
type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	ImageKey string `json:"image_key"`
}

// Register creates a new non-admin account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	_, err := h.userService.Register(r.Context(), services.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Name:     req.Name,
		Surname:  req.Surname,
		ImageKey: req.ImageKey,
	})
	if err != nil {
		var validation *services.ValidationError
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username already exists")
		case errors.As(err, &validation):
			writeValidationError(w, validation)
		default:
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{
		Message:  "Usuario registrado exitosamente. ¡Inicia sesión!",
		Redirect: loginPath,
	})
}

type PasswordResetRequestBody struct {
	Identifier string `json:"identifier"`
}

// PasswordResetRequest mails a single-use reset link to the user
// matching the identifier. The raw user id never appears in the link.
func (h *AuthHandler) PasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, reset, err := h.sessionService.StartPasswordReset(r.Context(), req.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrAmbiguousIdentity) {
			writeError(w, http.StatusNotFound, "No encontramos un usuario con ese correo o nombre")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to start password reset")
		return
	}

	resetURL := fmt.Sprintf("https://%s/password-reset/confirmar/?token=%s", r.Host, reset.Token)
	recipient := user.Email
	if recipient == "" {
		recipient = "unknown@example.com"
	}
	if h.mailer != nil {
		m := mail.Mail{
			Subject: "Restablecer Contraseña - Travel Web",
			Body: fmt.Sprintf(
				"Hola %s,\n\nPara restablecer tu contraseña, haz clic aquí:\n%s\n\nSi no fuiste tú, ignora este mensaje.",
				user.Username, resetURL,
			),
			Sender:     h.mailSender,
			Recipients: []string{recipient},
		}
		if err := h.mailer.Send(r.Context(), m); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to send reset mail")
			return
		}
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message:  "Se envió un enlace de recuperación a tu correo",
		Redirect: loginPath,
	})
}

type PasswordResetConfirmBody struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// PasswordResetConfirm consumes the reset token and sets the new password.
func (h *AuthHandler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetConfirmBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.NewPassword == "" || req.NewPassword != req.ConfirmPassword {
		writeError(w, http.StatusBadRequest, "Las contraseñas no coinciden")
		return
	}

	userID, err := h.sessionService.CompletePasswordReset(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "invalid or expired token")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}
	if err := h.userService.SetPassword(r.Context(), userID, req.NewPassword); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message:  "Contraseña actualizada correctamente. Inicia sesión",
		Redirect: loginPath,
	})
}

func issueToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
