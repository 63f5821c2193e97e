package models

import "github.com/google/uuid"

type ConnectionStatus string

const (
	ConnectionActive   ConnectionStatus = "active"
	ConnectionInactive ConnectionStatus = "inactive"
	ConnectionExpired  ConnectionStatus = "expired"
)

// PlatformConnection stores the credentials an organization uses to pull
// reviews from an external platform. Credentials are age-encrypted at rest.
type PlatformConnection struct {
	Base
	OrganizationID uuid.UUID `gorm:"type:uuid;index;not null" json:"organization_id"`
	Platform       Platform  `gorm:"not null;index" json:"platform"`
	Name           string    `gorm:"not null" json:"name"`

	// Encrypted credentials (age encrypted JSON blob)
	EncryptedCredentials []byte `gorm:"type:bytea;not null" json:"-"`

	Status       ConnectionStatus `gorm:"default:'active'" json:"status"`
	LastSyncedAt int64            `json:"last_synced_at,omitempty"`

	// Relationships
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (PlatformConnection) TableName() string {
	return "platform_connections"
}
