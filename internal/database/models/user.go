package models

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// roleLevels orders the role hierarchy: user < manager < admin.
var roleLevels = map[Role]int{
	RoleUser:    0,
	RoleManager: 1,
	RoleAdmin:   2,
}

// AtLeast reports whether r satisfies the required role in the hierarchy.
// Unknown roles rank lowest.
func (r Role) AtLeast(required Role) bool {
	return roleLevels[r] >= roleLevels[required]
}

func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

type User struct {
	Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"` // empty for social logins
	Name         string `gorm:"not null" json:"name"`
	Role         Role   `gorm:"default:'user'" json:"role"`

	SubscriptionStatus SubscriptionStatus `gorm:"default:'trial'" json:"subscription_status"`
	TrialEndDate       *time.Time         `gorm:"index" json:"trial_end_date,omitempty"`
	StripeCustomerID   string             `gorm:"index" json:"-"`

	// Social login identifiers
	GoogleID   string `json:"-"`
	FacebookID string `json:"-"`

	// Relationships
	Organizations []Organization `gorm:"foreignKey:OwnerID" json:"-"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
