package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
	"gorm.io/gorm"
)

type SubscriptionHandler struct {
	orgResolver
	db *gorm.DB
}

func NewSubscriptionHandler(db *gorm.DB, authSvc auth.Authenticator, tenants *tenant.Service, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		orgResolver: newOrgResolver(authSvc, tenants, logger),
		db:          db,
	}
}

// Get returns the caller's subscription state: the newest subscription row
// if any, plus derived trial info.
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	resp := map[string]interface{}{
		"status":               string(user.SubscriptionStatus),
		"trial_active":         auth.IsTrialActive(user, time.Now()),
		"trial_days_remaining": auth.TrialDaysRemaining(user, time.Now()),
		"subscription":         nil,
	}

	var sub models.Subscription
	err := h.db.WithContext(r.Context()).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		First(&sub).Error
	if err == nil {
		resp["subscription"] = sub
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Error("loading subscription failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
