package tenant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"gorm.io/gorm"
)

// Service resolves the organization every review read and write is scoped
// to. A user may own several organizations schema-wise, but resolution
// always picks the oldest one and creates at most one.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ResolveOrganization returns the user's default organization, creating
// "{name}'s Organization" when none exists. Lookup and create run in a
// single transaction so concurrent first requests for a new user cannot
// each create an organization.
func (s *Service) ResolveOrganization(ctx context.Context, user *models.User) (*models.Organization, error) {
	var org models.Organization

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Where(models.Organization{OwnerID: user.ID}).
			Order("created_at ASC").
			Attrs(models.Organization{
				Name:             fmt.Sprintf("%s's Organization", user.Name),
				SubscriptionPlan: models.PlanFree,
				BillingStatus:    models.BillingActive,
				Settings:         "{}",
			}).
			FirstOrCreate(&org).Error
	})
	if err != nil {
		return nil, fmt.Errorf("resolving organization for user %s: %w", user.ID, err)
	}

	return &org, nil
}

// OwnedOrganizationIDs lists every organization id the user owns. Handlers
// use it for the 403-vs-404 ownership check on single-review operations.
func (s *Service) OwnedOrganizationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("owner_id = ?", userID).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
