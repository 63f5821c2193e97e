package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/api/middleware"
	"github.com/reviewpilot/reviewpilot/internal/api/validation"
	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
)

type AuthHandler struct {
	auth         auth.Authenticator
	tenants      *tenant.Service
	logger       *slog.Logger
	cookieMaxAge int
	secureCookie bool
}

func NewAuthHandler(authSvc auth.Authenticator, tenants *tenant.Service, logger *slog.Logger, tokenExpiry time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		auth:         authSvc,
		tenants:      tenants,
		logger:       logger,
		cookieMaxAge: int(tokenExpiry.Seconds()),
		secureCookie: secureCookie,
	}
}

// Signup creates a user, issues a token and eagerly provisions the default
// organization. Organization creation is best effort: it also happens
// lazily on first review access, so a failure here only gets logged.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = validation.SanitizeString(req.Name)
	if details := req.Validate(); details != nil {
		writeValidationError(w, details)
		return
	}

	result, err := h.auth.Signup(r.Context(), auth.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		h.logger.Error("signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := dto.AuthResponse{
		Token: result.Token,
		User:  dto.NewUserDTO(result.User),
	}
	if org, err := h.tenants.ResolveOrganization(r.Context(), result.User); err != nil {
		h.logger.Error("organization provisioning failed", "user_id", result.User.ID, "error", err)
	} else {
		resp.OrganizationID = &org.ID
	}

	h.setAuthCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); details != nil {
		writeValidationError(w, details)
		return
	}

	result, err := h.auth.Authenticate(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.setAuthCookie(w, result.Token)
	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: result.Token,
		User:  dto.NewUserDTO(result.User),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: "logged out"})
}

// Me returns the authenticated user with derived trial state.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		h.logger.Error("loading user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, dto.MeResponse{
		User:                  dto.NewUserDTO(user),
		TrialActive:           auth.IsTrialActive(user, now),
		TrialDaysRemaining:    auth.TrialDaysRemaining(user, now),
		HasActiveSubscription: auth.HasActiveSubscription(user),
	})
}

func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookieMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
