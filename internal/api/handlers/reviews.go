package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/api/middleware"
	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ReviewHandler struct {
	orgResolver
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB, authSvc auth.Authenticator, tenants *tenant.Service, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		orgResolver: newOrgResolver(authSvc, tenants, logger),
		db:          db,
	}
}

// List returns the caller's reviews, filtered and paginated. Pages beyond
// the last return an empty list, not an error.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	org, ok := h.currentOrg(w, r)
	if !ok {
		return
	}

	query := h.db.WithContext(r.Context()).
		Model(&models.Review{}).
		Where("organization_id = ?", org.ID)

	q := r.URL.Query()
	if platform := q.Get("platform"); platform != "" {
		if !models.Platform(platform).Valid() {
			writeValidationError(w, map[string]string{"platform": "is not a supported platform"})
			return
		}
		query = query.Where("platform = ?", platform)
	}
	if status := q.Get("status"); status != "" {
		if !models.ReviewStatus(status).Valid() {
			writeValidationError(w, map[string]string{"status": "is not a valid status"})
			return
		}
		query = query.Where("status = ?", status)
	}
	if sent := q.Get("sentiment"); sent != "" {
		if !models.Sentiment(sent).Valid() {
			writeValidationError(w, map[string]string{"sentiment": "is not a valid sentiment"})
			return
		}
		query = query.Where("sentiment = ?", sent)
	}
	if rating := q.Get("rating"); rating != "" {
		n, err := strconv.Atoi(rating)
		if err != nil || n < 1 || n > 5 {
			writeValidationError(w, map[string]string{"rating": "must be between 1 and 5"})
			return
		}
		query = query.Where("rating = ?", n)
	}
	if search := q.Get("search"); search != "" {
		query = query.Where("text LIKE ?", "%"+search+"%")
	}

	page, limit := parsePagination(q.Get("page"), q.Get("limit"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("counting reviews failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	reviews := []models.Review{}
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		h.logger.Error("listing reviews failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, dto.ReviewListResponse{
		Reviews:    reviews,
		Pagination: dto.NewPagination(page, limit, total),
	})
}

// Create stores a manually entered review. The (organization, platform,
// review id) triple is unique; a duplicate returns 409.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	org, ok := h.currentOrg(w, r)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); details != nil {
		writeValidationError(w, details)
		return
	}

	authorName := req.AuthorName
	if authorName == "" {
		authorName = "Anonymous"
	}
	sent := models.Sentiment(req.Sentiment)
	if sent == "" {
		sent = models.SentimentNeutral
	}
	var score float64
	if req.SentimentScore != nil {
		score = *req.SentimentScore
	}
	reviewDate := time.Now().UTC()
	if req.ReviewDate != "" {
		reviewDate, _ = time.Parse(time.RFC3339, req.ReviewDate)
	}

	review := models.Review{
		OrganizationID: org.ID,
		Platform:       models.Platform(req.Platform),
		ReviewID:       req.ReviewID,
		Rating:         req.Rating,
		Text:           req.Text,
		AuthorName:     authorName,
		Sentiment:      sent,
		SentimentScore: score,
		Topics:         req.Topics,
		Status:         models.ReviewStatusPending,
		ReviewDate:     reviewDate,
	}

	if err := h.db.WithContext(r.Context()).Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			writeError(w, http.StatusConflict, "a review with this id already exists for this platform")
			return
		}
		h.logger.Error("creating review failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, dto.ReviewResponse{
		Success: true,
		Message: "Review created successfully",
		Review:  &review,
	})
}

// Get returns one review. A review that does not exist is 404; one that
// exists but belongs to another organization is 403.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	review, ok := h.loadOwnedReview(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.ReviewResponse{Success: true, Review: review})
}

// Update applies a partial update. The response fields and the analysis
// fields are independent groups; whichever the body carries is written,
// the rest stays untouched.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	review, ok := h.loadOwnedReview(w, r)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); details != nil {
		writeValidationError(w, details)
		return
	}

	updates := make(map[string]interface{})
	if req.ResponseDraft != nil {
		updates["response_draft"] = *req.ResponseDraft
	}
	if req.ResponsePublished != nil {
		updates["response_published"] = *req.ResponsePublished
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Sentiment != nil {
		updates["sentiment"] = *req.Sentiment
	}
	if req.SentimentScore != nil {
		updates["sentiment_score"] = *req.SentimentScore
	}
	if req.Topics != nil {
		updates["topics"] = *req.Topics
	}

	if err := h.db.WithContext(r.Context()).Model(review).Updates(updates).Error; err != nil {
		h.logger.Error("updating review failed", "review_id", review.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, dto.ReviewResponse{
		Success: true,
		Message: "Review updated successfully",
		Review:  review,
	})
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	review, ok := h.loadOwnedReview(w, r)
	if !ok {
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(review).Error; err != nil {
		h.logger.Error("deleting review failed", "review_id", review.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: "Review deleted successfully"})
}

// loadOwnedReview fetches the review from the path id and enforces the
// 404-vs-403 distinction: missing review is 404, someone else's is 403.
func (h *ReviewHandler) loadOwnedReview(w http.ResponseWriter, r *http.Request) (*models.Review, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "review not found")
		return nil, false
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	var review models.Review
	if err := h.db.WithContext(r.Context()).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "review not found")
			return nil, false
		}
		h.logger.Error("loading review failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	ownedIDs, err := h.tenants.OwnedOrganizationIDs(r.Context(), userID)
	if err != nil {
		h.logger.Error("loading organizations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	for _, orgID := range ownedIDs {
		if orgID == review.OrganizationID {
			return &review, true
		}
	}

	writeError(w, http.StatusForbidden, "you do not have access to this review")
	return nil, false
}

func parsePagination(pageStr, limitStr string) (page, limit int) {
	page, limit = 1, defaultPageSize
	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		limit = n
		if limit > maxPageSize {
			limit = maxPageSize
		}
	}
	return page, limit
}
