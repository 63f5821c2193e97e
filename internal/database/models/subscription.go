package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	StripeSubscriptionID string `gorm:"uniqueIndex" json:"stripe_subscription_id,omitempty"`
	StripeCustomerID     string `json:"stripe_customer_id,omitempty"`

	PlanType Plan          `gorm:"not null" json:"plan_type"` // starter, professional, enterprise
	Status   BillingStatus `gorm:"default:'active'" json:"status"`

	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `gorm:"default:false" json:"cancel_at_period_end"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
