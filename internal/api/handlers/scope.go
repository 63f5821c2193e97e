package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/api/middleware"
	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
)

// orgResolver is embedded by every handler that operates on
// organization-scoped data. It loads the caller, resolves their default
// organization (creating it on first access) and enforces feature gates.
// All helpers write the error response themselves; callers just return.
type orgResolver struct {
	auth    auth.Authenticator
	tenants *tenant.Service
	logger  *slog.Logger
}

func (s *orgResolver) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	user, err := s.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "account no longer exists")
			return nil, false
		}
		s.logger.Error("loading user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return user, true
}

func (s *orgResolver) currentOrg(w http.ResponseWriter, r *http.Request) (*models.Organization, bool) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return nil, false
	}

	org, err := s.tenants.ResolveOrganization(r.Context(), user)
	if err != nil {
		s.logger.Error("resolving organization failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	return org, true
}

// requireFeature additionally enforces the trial/subscription gate,
// answering 402 when the feature is not available to the caller.
func (s *orgResolver) requireFeature(w http.ResponseWriter, r *http.Request, feature string) (*models.User, *models.Organization, bool) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return nil, nil, false
	}

	if !auth.CanAccessFeature(user, feature, time.Now()) {
		writeJSON(w, http.StatusPaymentRequired, dto.ErrorResponse{
			Error: "an active trial or subscription is required for this feature",
		})
		return nil, nil, false
	}

	org, err := s.tenants.ResolveOrganization(r.Context(), user)
	if err != nil {
		s.logger.Error("resolving organization failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, nil, false
	}
	return user, org, true
}

func newOrgResolver(authSvc auth.Authenticator, tenants *tenant.Service, logger *slog.Logger) orgResolver {
	return orgResolver{auth: authSvc, tenants: tenants, logger: logger}
}
