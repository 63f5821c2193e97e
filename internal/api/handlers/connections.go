package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/platforms"
	"github.com/reviewpilot/reviewpilot/internal/tasks"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
	"github.com/reviewpilot/reviewpilot/pkg/config"
	"github.com/reviewpilot/reviewpilot/pkg/crypto"
	"github.com/reviewpilot/reviewpilot/pkg/util"
	"gorm.io/gorm"
)

type ConnectionHandler struct {
	orgResolver
	db        *gorm.DB
	encryptor *crypto.Encryptor
	queue     *asynq.Client
	oauth     *config.OAuthConfig
}

func NewConnectionHandler(db *gorm.DB, authSvc auth.Authenticator, tenants *tenant.Service, encryptor *crypto.Encryptor, queue *asynq.Client, oauth *config.OAuthConfig, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		orgResolver: newOrgResolver(authSvc, tenants, logger),
		db:          db,
		encryptor:   encryptor,
		queue:       queue,
		oauth:       oauth,
	}
}

func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	org, ok := h.currentOrg(w, r)
	if !ok {
		return
	}

	var conns []models.PlatformConnection
	err := h.db.WithContext(r.Context()).
		Where("organization_id = ?", org.ID).
		Order("created_at ASC").
		Find(&conns).Error
	if err != nil {
		h.logger.Error("listing connections failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]dto.ConnectionDTO, len(conns))
	for i := range conns {
		out[i] = dto.NewConnectionDTO(&conns[i])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"connections": out})
}

// Create stores a platform connection with age-encrypted credentials.
func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	org, ok := h.currentOrg(w, r)
	if !ok {
		return
	}

	var req dto.CreateConnectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if details := req.Validate(); details != nil {
		writeValidationError(w, details)
		return
	}

	raw, err := json.Marshal(req.Credentials)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid credentials payload")
		return
	}
	encrypted, err := h.encryptor.Encrypt(raw)
	if err != nil {
		h.logger.Error("encrypting credentials failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	conn := models.PlatformConnection{
		OrganizationID:       org.ID,
		Platform:             models.Platform(req.Platform),
		Name:                 req.Name,
		EncryptedCredentials: encrypted,
		Status:               models.ConnectionActive,
	}
	if err := h.db.WithContext(r.Context()).Create(&conn).Error; err != nil {
		h.logger.Error("creating connection failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, dto.NewConnectionDTO(&conn))
}

func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	conn, ok := h.loadConnection(w, r)
	if !ok {
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(conn).Error; err != nil {
		h.logger.Error("deleting connection failed", "connection_id", conn.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: "connection deleted"})
}

// OAuthURL returns the consent URL for OAuth-backed platforms.
func (h *ConnectionHandler) OAuthURL(w http.ResponseWriter, r *http.Request) {
	conn, ok := h.loadConnection(w, r)
	if !ok {
		return
	}

	url, err := platforms.AuthorizationURL(conn.Platform, h.oauth, conn.ID.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "this platform does not use oauth")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Sync enqueues an immediate review pull for the connection. Gated on the
// review sync feature.
func (h *ConnectionHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.requireFeature(w, r, auth.FeatureReviewSync); !ok {
		return
	}

	conn, ok := h.loadConnection(w, r)
	if !ok {
		return
	}

	task, err := tasks.NewReviewSyncTask(conn.ID, conn.OrganizationID)
	if err != nil {
		h.logger.Error("building sync task failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if _, err := h.queue.EnqueueContext(r.Context(), task); err != nil {
		h.logger.Error("enqueueing sync failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusAccepted, dto.SuccessResponse{Success: true, Message: "sync scheduled"})
}

// CreateSchedule registers a recurring sync for the connection.
func (h *ConnectionHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	conn, ok := h.loadConnection(w, r)
	if !ok {
		return
	}

	var req dto.CreateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ConnectionID = conn.ID.String()
	if details := req.Validate(); details != nil {
		writeValidationError(w, details)
		return
	}

	next, err := util.NextCronTime(req.CronExpr, time.Now())
	if err != nil {
		writeValidationError(w, map[string]string{"cronExpr": "is not a valid cron expression"})
		return
	}

	sched := models.ScheduledSync{
		OrganizationID: conn.OrganizationID,
		ConnectionID:   conn.ID,
		Name:           req.Name,
		CronExpr:       req.CronExpr,
		IsEnabled:      true,
		NextRunAt:      next.Unix(),
	}
	if err := h.db.WithContext(r.Context()).Create(&sched).Error; err != nil {
		h.logger.Error("creating schedule failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, sched)
}

// loadConnection applies the same 404-vs-403 distinction reviews use.
func (h *ConnectionHandler) loadConnection(w http.ResponseWriter, r *http.Request) (*models.PlatformConnection, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "connection not found")
		return nil, false
	}

	org, ok := h.currentOrg(w, r)
	if !ok {
		return nil, false
	}

	var conn models.PlatformConnection
	if err := h.db.WithContext(r.Context()).First(&conn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "connection not found")
			return nil, false
		}
		h.logger.Error("loading connection failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	if conn.OrganizationID != org.ID {
		writeError(w, http.StatusForbidden, "you do not have access to this connection")
		return nil, false
	}
	return &conn, true
}
