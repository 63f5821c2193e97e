package auth

import (
	"math"
	"time"

	"github.com/reviewpilot/reviewpilot/internal/database/models"
)

// freeFeatures are accessible without a trial or paid subscription.
var freeFeatures = map[string]bool{
	"view_reviews":    true,
	"basic_analytics": true,
}

// Feature names used by handlers.
const (
	FeatureAIResponse        = "ai_response"
	FeatureSentimentAnalysis = "sentiment_analysis"
	FeatureReviewSync        = "review_sync"
)

// IsTrialActive reports whether the user's trial window is still open.
func IsTrialActive(user *models.User, now time.Time) bool {
	if user.TrialEndDate == nil {
		return false
	}
	return now.Before(*user.TrialEndDate)
}

// TrialDaysRemaining returns the whole days left in the trial, zero or
// greater.
func TrialDaysRemaining(user *models.User, now time.Time) int {
	if user.TrialEndDate == nil || !now.Before(*user.TrialEndDate) {
		return 0
	}
	return int(math.Ceil(user.TrialEndDate.Sub(now).Hours() / 24))
}

// HasActiveSubscription reports whether the user has a paid subscription.
func HasActiveSubscription(user *models.User) bool {
	return user.SubscriptionStatus == models.SubscriptionActive
}

// CanAccessFeature grants everything during an active trial, everything
// with an active subscription, and only the free feature set otherwise.
func CanAccessFeature(user *models.User, feature string, now time.Time) bool {
	if IsTrialActive(user, now) {
		return true
	}
	if HasActiveSubscription(user) {
		return true
	}
	return freeFeatures[feature]
}
