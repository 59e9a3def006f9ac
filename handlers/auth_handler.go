package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/ryder-manager/middleware"
	"github.com/Dosada05/ryder-manager/services"
)

type AuthHandler struct {
	authService   services.AuthService
	emailService  *services.EmailService
	authenticator *middleware.Authenticator
}

func NewAuthHandler(as services.AuthService, es *services.EmailService, auth *middleware.Authenticator) *AuthHandler {
	return &AuthHandler{
		authService:   as,
		emailService:  es,
		authenticator: auth,
	}
}

// RegisterHandler handles POST /auth/register.
func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, confirmationToken, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// The welcome email must not block or fail the registration.
	go func() {
		if err := h.emailService.SendWelcomeEmail(user.Email, confirmationToken); err != nil {
			logger.Error("failed to send welcome email",
				slog.String("email", user.Email), slog.Any("error", err))
		}
	}()

	user.PasswordHash = ""
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LoginHandler handles POST /auth/login.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.authenticator.GenerateToken(user)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmEmailHandler handles GET /auth/confirm-email?token=...
func (h *AuthHandler) ConfirmEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		unauthorizedResponse(w, r, "missing confirmation token")
		return
	}

	if err := h.authService.ConfirmEmail(r.Context(), token); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "email confirmed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
