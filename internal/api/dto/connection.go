package dto

import (
	"github.com/google/uuid"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/platforms"
	"github.com/reviewpilot/reviewpilot/pkg/util"
)

type CreateConnectionRequest struct {
	Platform    string            `json:"platform"`
	Name        string            `json:"name"`
	Credentials map[string]string `json:"credentials"`
}

func (r *CreateConnectionRequest) Validate() map[string]string {
	errs := make(map[string]string)
	p := models.Platform(r.Platform)
	if !p.Valid() || p == models.PlatformCSV {
		errs["platform"] = "must be a syncable platform"
	}
	if r.Name == "" {
		errs["name"] = "is required"
	}
	if len(r.Credentials) == 0 {
		errs["credentials"] = "are required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ConnectionDTO hides the encrypted credential blob.
type ConnectionDTO struct {
	ID           uuid.UUID `json:"id"`
	Platform     string    `json:"platform"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	LastSyncedAt int64     `json:"last_synced_at,omitempty"`
}

func NewConnectionDTO(c *models.PlatformConnection) ConnectionDTO {
	return ConnectionDTO{
		ID:           c.ID,
		Platform:     string(c.Platform),
		Name:         c.Name,
		Status:       string(c.Status),
		LastSyncedAt: c.LastSyncedAt,
	}
}

type CreateScheduleRequest struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	CronExpr     string `json:"cronExpr"`
}

func (r *CreateScheduleRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if _, err := uuid.Parse(r.ConnectionID); err != nil {
		errs["connectionId"] = "must be a valid id"
	}
	if r.Name == "" {
		errs["name"] = "is required"
	}
	if err := util.ValidateCronExpr(r.CronExpr); err != nil {
		errs["cronExpr"] = "is not a valid cron expression"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type ImportResult struct {
	Imported int                  `json:"imported"`
	Skipped  int                  `json:"skipped"`
	Errors   []platforms.RowError `json:"errors"`
}
