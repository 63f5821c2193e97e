package handlers

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	orgResolver
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB, authSvc auth.Authenticator, tenants *tenant.Service, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		orgResolver: newOrgResolver(authSvc, tenants, logger),
		db:          db,
	}
}

// Stats aggregates the organization's review counts, average rating,
// sentiment breakdown and five most recent reviews.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	org, ok := h.currentOrg(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	scoped := func() *gorm.DB {
		return h.db.WithContext(ctx).Model(&models.Review{}).Where("organization_id = ?", org.ID)
	}

	stats := dto.DashboardStats{
		SentimentBreakdown: map[string]int64{
			string(models.SentimentPositive): 0,
			string(models.SentimentNeutral):  0,
			string(models.SentimentNegative): 0,
		},
		RecentReviews: []models.Review{},
	}

	if err := scoped().Count(&stats.TotalReviews).Error; err != nil {
		h.fail(w, "counting reviews", err)
		return
	}
	if err := scoped().Where("status = ?", models.ReviewStatusPending).Count(&stats.PendingResponses).Error; err != nil {
		h.fail(w, "counting pending reviews", err)
		return
	}

	if stats.TotalReviews > 0 {
		var avg float64
		if err := scoped().Select("AVG(rating)").Scan(&avg).Error; err != nil {
			h.fail(w, "averaging ratings", err)
			return
		}
		stats.AverageRating = math.Round(avg*10) / 10
	}

	var breakdown []struct {
		Sentiment string
		Count     int64
	}
	err := scoped().
		Select("sentiment, COUNT(*) as count").
		Group("sentiment").
		Scan(&breakdown).Error
	if err != nil {
		h.fail(w, "grouping sentiment", err)
		return
	}
	for _, row := range breakdown {
		stats.SentimentBreakdown[row.Sentiment] = row.Count
	}

	err = scoped().
		Order("created_at DESC").
		Limit(5).
		Find(&stats.RecentReviews).Error
	if err != nil {
		h.fail(w, "loading recent reviews", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error("dashboard stats failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
