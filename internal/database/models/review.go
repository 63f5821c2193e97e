package models

import (
	"time"

	"github.com/google/uuid"
)

type Platform string

const (
	PlatformGoogle      Platform = "google"
	PlatformYelp        Platform = "yelp"
	PlatformFacebook    Platform = "facebook"
	PlatformTripAdvisor Platform = "tripadvisor"
	PlatformTrustpilot  Platform = "trustpilot"
	PlatformZomato      Platform = "zomato"
	PlatformCSV         Platform = "csv"
)

var platforms = map[Platform]bool{
	PlatformGoogle:      true,
	PlatformYelp:        true,
	PlatformFacebook:    true,
	PlatformTripAdvisor: true,
	PlatformTrustpilot:  true,
	PlatformZomato:      true,
	PlatformCSV:         true,
}

func (p Platform) Valid() bool {
	return platforms[p]
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNegative || s == SentimentNeutral
}

type ReviewStatus string

const (
	ReviewStatusPending   ReviewStatus = "pending"
	ReviewStatusResponded ReviewStatus = "responded"
	ReviewStatusIgnored   ReviewStatus = "ignored"
	ReviewStatusFlagged   ReviewStatus = "flagged"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusResponded, ReviewStatusIgnored, ReviewStatusFlagged:
		return true
	}
	return false
}

type Review struct {
	Base
	OrganizationID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_reviews_org_platform_review" json:"organization_id"`

	Platform Platform `gorm:"not null;index;uniqueIndex:idx_reviews_org_platform_review" json:"platform"`
	// ReviewID is the platform-assigned identifier, unique per (organization, platform).
	ReviewID string `gorm:"not null;uniqueIndex:idx_reviews_org_platform_review" json:"review_id"`

	Rating       int    `gorm:"not null" json:"rating"` // 1..5
	Text         string `gorm:"type:text" json:"text"`
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar,omitempty"`

	Sentiment      Sentiment `gorm:"default:'neutral'" json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"` // -1..1
	Topics         string    `json:"topics,omitempty"`
	Entities       string    `json:"entities,omitempty"`

	ResponseDraft     string       `gorm:"type:text" json:"response_draft,omitempty"`
	ResponsePublished string       `gorm:"type:text" json:"response_published,omitempty"`
	Status            ReviewStatus `gorm:"not null;index;default:'pending'" json:"status"`

	// ReviewDate is when the review was authored on the platform,
	// distinct from the row timestamps.
	ReviewDate time.Time `json:"review_date"`

	// Relationships
	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
