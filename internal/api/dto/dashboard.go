package dto

import "github.com/reviewpilot/reviewpilot/internal/database/models"

// DashboardStats is the aggregate view for the landing dashboard.
type DashboardStats struct {
	TotalReviews       int64            `json:"totalReviews"`
	PendingResponses   int64            `json:"pendingResponses"`
	AverageRating      float64          `json:"averageRating"`
	SentimentBreakdown map[string]int64 `json:"sentimentBreakdown"`
	RecentReviews      []models.Review  `json:"recentReviews"`
}
