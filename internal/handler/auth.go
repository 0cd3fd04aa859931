package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tagonlink/tagonlink/internal/auth"
	"github.com/tagonlink/tagonlink/internal/handler/dto"
	"github.com/tagonlink/tagonlink/internal/service"
)

// ForgotPasswordMessage is returned whether or not the email exists.
const ForgotPasswordMessage = "if the email exists, a recovery link will be sent"

// PasswordResetMessage confirms a completed reset.
const PasswordResetMessage = "password updated"

// AuthHandler handles HTTP requests for account operations.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_registered", "user_id", session.User.ID)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token: session.Token,
		User:  dto.ToUserResponse(session.User),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: session.Token,
		User:  dto.ToUserResponse(session.User),
	})
}

// ForgotPassword handles POST /api/auth/forgot-password.
// The response does not reveal whether the account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.svc.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	// No mail transport exists; the token itself is never logged.
	if session != nil {
		h.logger.Debug("reset_token_issued", "user_id", session.User.ID)
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: ForgotPasswordMessage})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, err := h.svc.ResetPassword(r.Context(), service.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("password_reset", "user_id", userID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: PasswordResetMessage})
}

// Verify handles GET /api/auth/verify. The token was already checked by
// the auth middleware; this confirms the account still exists.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "no credentials")
		return
	}

	user, err := h.svc.Verify(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyResponse{User: dto.ToUserResponse(user)})
}

// handleServiceError maps service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, service.ErrInvalidResetToken):
		writeError(w, http.StatusBadRequest, "INVALID_TOKEN", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
	case writeValidationError(w, err):
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
