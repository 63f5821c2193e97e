package handlers

import (
	"log/slog"
	"net/http"

	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"gorm.io/gorm"
)

type AdminHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAdminHandler(db *gorm.DB, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{db: db, logger: logger}
}

// ListUsers returns every account, paginated. Admin only; the route guard
// enforces the role.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := parsePagination(q.Get("page"), q.Get("limit"))

	var total int64
	if err := h.db.WithContext(r.Context()).Model(&models.User{}).Count(&total).Error; err != nil {
		h.logger.Error("counting users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var users []models.User
	err := h.db.WithContext(r.Context()).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		h.logger.Error("listing users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]dto.UserDTO, len(users))
	for i := range users {
		out[i] = dto.NewUserDTO(&users[i])
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users":      out,
		"pagination": dto.NewPagination(page, limit, total),
	})
}
