package models

import "github.com/google/uuid"

type Plan string

const (
	PlanFree         Plan = "free"
	PlanStarter      Plan = "starter"
	PlanProfessional Plan = "professional"
	PlanEnterprise   Plan = "enterprise"
)

type BillingStatus string

const (
	BillingActive    BillingStatus = "active"
	BillingPastDue   BillingStatus = "past_due"
	BillingCancelled BillingStatus = "cancelled"
	BillingUnpaid    BillingStatus = "unpaid"
)

type Organization struct {
	Base
	Name             string        `gorm:"not null" json:"name"`
	OwnerID          uuid.UUID     `gorm:"type:uuid;index;not null" json:"owner_id"`
	SubscriptionPlan Plan          `gorm:"default:'free'" json:"subscription_plan"`
	BillingStatus    BillingStatus `gorm:"default:'active'" json:"billing_status"`
	Settings         string        `gorm:"default:'{}'" json:"settings,omitempty"`

	// Relationships
	Owner       *User                `gorm:"foreignKey:OwnerID" json:"-"`
	Reviews     []Review             `gorm:"foreignKey:OrganizationID" json:"-"`
	Connections []PlatformConnection `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}
