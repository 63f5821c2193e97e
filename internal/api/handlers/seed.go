package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/sentiment"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
	"github.com/reviewpilot/reviewpilot/pkg/config"
	"gorm.io/gorm"
)

const (
	seedEmail    = "demo@reviewpilot.io"
	seedPassword = "Demo1234"
	seedName     = "Demo User"
)

type SeedHandler struct {
	db       *gorm.DB
	auth     auth.Authenticator
	tenants  *tenant.Service
	analyzer *sentiment.Analyzer
	server   *config.ServerConfig
	logger   *slog.Logger
}

func NewSeedHandler(db *gorm.DB, authSvc auth.Authenticator, tenants *tenant.Service, analyzer *sentiment.Analyzer, server *config.ServerConfig, logger *slog.Logger) *SeedHandler {
	return &SeedHandler{
		db:       db,
		auth:     authSvc,
		tenants:  tenants,
		analyzer: analyzer,
		server:   server,
		logger:   logger,
	}
}

type seedReview struct {
	platform models.Platform
	reviewID string
	rating   int
	text     string
	author   string
	daysAgo  int
}

var seedReviews = []seedReview{
	{models.PlatformGoogle, "seed-g-1", 5, "Absolutely amazing service! The staff was friendly and the food was delicious. Best experience in town.", "Sarah Mitchell", 1},
	{models.PlatformGoogle, "seed-g-2", 4, "Great atmosphere and tasty dishes. Would recommend to friends.", "James Carter", 3},
	{models.PlatformYelp, "seed-y-1", 2, "Disappointed with the slow service. The food was cold when it arrived.", "Linda Gomez", 5},
	{models.PlatformYelp, "seed-y-2", 3, "Decent place. Nothing special but nothing wrong either.", "Tom Becker", 7},
	{models.PlatformFacebook, "seed-f-1", 5, "Wonderful evening! Everything was perfect from start to finish.", "Priya Nair", 2},
	{models.PlatformTripAdvisor, "seed-t-1", 1, "Terrible experience. Rude staff and overpriced menu. Would not return.", "Mark Olsen", 10},
	{models.PlatformTrustpilot, "seed-tp-1", 4, "Good value and helpful support when we had a question.", "Anna Keller", 4},
	{models.PlatformZomato, "seed-z-1", 5, "Fresh ingredients and outstanding flavors. Love this place!", "Diego Ramos", 6},
}

// Seed provisions a demo account with sample reviews. Disabled outside
// development and staging.
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if h.server.IsProduction() {
		writeError(w, http.StatusForbidden, "seeding is disabled in production")
		return
	}

	result, err := h.auth.Signup(r.Context(), auth.SignupInput{
		Email:    seedEmail,
		Password: seedPassword,
		Name:     seedName,
	})
	if err != nil && !errors.Is(err, auth.ErrUserExists) {
		h.logger.Error("seeding user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var user *models.User
	if result != nil {
		user = result.User
	} else {
		var existing models.User
		if err := h.db.WithContext(r.Context()).Where("email = ?", seedEmail).First(&existing).Error; err != nil {
			h.logger.Error("loading seed user failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		user = &existing
	}

	org, err := h.tenants.ResolveOrganization(r.Context(), user)
	if err != nil {
		h.logger.Error("resolving seed organization failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var created int
	for _, s := range seedReviews {
		scored := h.analyzer.Analyze(s.text)
		review := models.Review{
			OrganizationID: org.ID,
			Platform:       s.platform,
			ReviewID:       s.reviewID,
			Rating:         s.rating,
			Text:           s.text,
			AuthorName:     s.author,
			Sentiment:      scored.Label,
			SentimentScore: scored.Score,
			Status:         models.ReviewStatusPending,
			ReviewDate:     time.Now().AddDate(0, 0, -s.daysAgo).UTC(),
		}
		if err := h.db.WithContext(r.Context()).Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			h.logger.Error("seeding review failed", "review_id", s.reviewID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		created++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"reviewsCreated": created,
		"testCredentials": map[string]string{
			"email":    seedEmail,
			"password": seedPassword,
		},
	})
}
