package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/responder"
	"github.com/reviewpilot/reviewpilot/internal/sentiment"
	"github.com/reviewpilot/reviewpilot/internal/tasks"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
	"gorm.io/gorm"
)

type AIHandler struct {
	orgResolver
	db        *gorm.DB
	generator responder.Generator
	analyzer  *sentiment.Analyzer
	queue     *asynq.Client
}

func NewAIHandler(db *gorm.DB, authSvc auth.Authenticator, tenants *tenant.Service, generator responder.Generator, analyzer *sentiment.Analyzer, queue *asynq.Client, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		orgResolver: newOrgResolver(authSvc, tenants, logger),
		db:          db,
		generator:   generator,
		analyzer:    analyzer,
		queue:       queue,
	}
}

// GenerateResponse drafts a reply for a review. Requires an active trial or
// subscription; otherwise 402.
func (h *AIHandler) GenerateResponse(w http.ResponseWriter, r *http.Request) {
	user, org, ok := h.requireFeature(w, r, auth.FeatureAIResponse)
	if !ok {
		return
	}

	var req dto.GenerateResponseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); details != nil {
		writeValidationError(w, details)
		return
	}

	businessName := req.BusinessName
	if businessName == "" {
		businessName = org.Name
	}
	tone := responder.Tone(req.Tone)
	if tone == "" {
		tone = responder.ToneProfessional
	}

	response, err := h.generator.Generate(r.Context(), responder.Input{
		ReviewText:         req.ReviewText,
		Rating:             req.Rating,
		Platform:           models.Platform(req.Platform),
		Tone:               tone,
		BusinessName:       businessName,
		CustomInstructions: req.CustomInstructions,
	})
	if err != nil {
		h.logger.Error("response generation failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Persist as the review's draft when the caller names a review they
	// own. The review goes back to pending until the draft is published.
	if req.ReviewID != "" {
		if id, err := uuid.Parse(req.ReviewID); err == nil {
			err := h.db.WithContext(r.Context()).
				Model(&models.Review{}).
				Where("id = ? AND organization_id = ?", id, org.ID).
				Updates(map[string]interface{}{
					"response_draft": response,
					"status":         models.ReviewStatusPending,
				}).Error
			if err != nil {
				h.logger.Error("saving response draft failed", "review_id", id, "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, dto.GenerateResponseResponse{
		Response: response,
		Usage: dto.GenerateResponseUsage{
			TokensUsed:       len(response),
			RemainingCredits: 100,
		},
	})
}

// AnalyzeSentiment scores one piece of text synchronously.
func (h *AIHandler) AnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.requireFeature(w, r, auth.FeatureSentimentAnalysis); !ok {
		return
	}

	var req dto.AnalyzeSentimentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); details != nil {
		writeValidationError(w, details)
		return
	}

	writeJSON(w, http.StatusOK, h.analyzer.Analyze(req.Text))
}

// EnqueueSentimentBatch schedules a background re-score of every review in
// the caller's organization.
func (h *AIHandler) EnqueueSentimentBatch(w http.ResponseWriter, r *http.Request) {
	_, org, ok := h.requireFeature(w, r, auth.FeatureSentimentAnalysis)
	if !ok {
		return
	}

	task, err := tasks.NewSentimentBatchTask(org.ID, nil)
	if err != nil {
		h.logger.Error("building sentiment batch task failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if _, err := h.queue.EnqueueContext(r.Context(), task); err != nil {
		h.logger.Error("enqueueing sentiment batch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusAccepted, dto.SuccessResponse{Success: true, Message: "sentiment analysis scheduled"})
}
