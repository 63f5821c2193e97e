package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/reviewpilot/reviewpilot/internal/api/validation"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r *SignupRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if !validation.IsValidEmail(r.Email) {
		errs["email"] = "must be a valid email address"
	}
	if msg := validation.PasswordStrength(r.Password); msg != "" {
		errs["password"] = msg
	}
	if len(r.Name) == 0 || len(r.Name) > 100 {
		errs["name"] = "must be between 1 and 100 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Email == "" {
		errs["email"] = "is required"
	}
	if r.Password == "" {
		errs["password"] = "is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UserDTO is the safe public projection of a user. The password hash and
// billing identifiers never leave the server.
type UserDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Role               string     `json:"role"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndDate       *time.Time `json:"trial_end_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               string(u.Role),
		SubscriptionStatus: string(u.SubscriptionStatus),
		TrialEndDate:       u.TrialEndDate,
		CreatedAt:          u.CreatedAt,
	}
}

type AuthResponse struct {
	Token          string     `json:"token"`
	User           UserDTO    `json:"user"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty"`
}

// MeResponse adds derived trial state to the user projection.
type MeResponse struct {
	User                  UserDTO `json:"user"`
	TrialActive           bool    `json:"trial_active"`
	TrialDaysRemaining    int     `json:"trial_days_remaining"`
	HasActiveSubscription bool    `json:"has_active_subscription"`
}
