package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/platforms"
	"github.com/reviewpilot/reviewpilot/internal/sentiment"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
	"gorm.io/gorm"
)

// maxImportSize caps CSV uploads at 10 MB.
const maxImportSize = 10 << 20

type ImportHandler struct {
	orgResolver
	db       *gorm.DB
	analyzer *sentiment.Analyzer
}

func NewImportHandler(db *gorm.DB, authSvc auth.Authenticator, tenants *tenant.Service, analyzer *sentiment.Analyzer, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		orgResolver: newOrgResolver(authSvc, tenants, logger),
		db:          db,
		analyzer:    analyzer,
	}
}

// ImportCSV ingests a review export uploaded as multipart form field
// "file". Rows that already exist are counted as skipped; malformed rows
// are reported per row without aborting the import.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	org, ok := h.currentOrg(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	rows, rowErrs, err := platforms.ParseCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := dto.ImportResult{Errors: rowErrs}
	if result.Errors == nil {
		result.Errors = []platforms.RowError{}
	}

	for _, row := range rows {
		scored := h.analyzer.Analyze(row.Text)
		review := models.Review{
			OrganizationID: org.ID,
			Platform:       models.PlatformCSV,
			ReviewID:       row.ReviewID,
			Rating:         row.Rating,
			Text:           row.Text,
			AuthorName:     row.AuthorName,
			Sentiment:      scored.Label,
			SentimentScore: scored.Score,
			Status:         models.ReviewStatusPending,
			ReviewDate:     row.ReviewDate,
		}
		if review.AuthorName == "" {
			review.AuthorName = "Anonymous"
		}

		if err := h.db.WithContext(r.Context()).Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.Skipped++
				continue
			}
			h.logger.Error("importing review failed", "review_id", row.ReviewID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		result.Imported++
	}

	writeJSON(w, http.StatusOK, result)
}
