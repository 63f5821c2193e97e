package dto

import (
	"time"

	"github.com/reviewpilot/reviewpilot/internal/database/models"
)

type CreateReviewRequest struct {
	Platform       string   `json:"platform"`
	ReviewID       string   `json:"reviewId"`
	Rating         int      `json:"rating"`
	Text           string   `json:"text"`
	AuthorName     string   `json:"authorName"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore *float64 `json:"sentimentScore"`
	Topics         string   `json:"topics"`
	ReviewDate     string   `json:"reviewDate"`
}

func (r *CreateReviewRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if !models.Platform(r.Platform).Valid() {
		errs["platform"] = "must be one of: google, yelp, facebook, tripadvisor, trustpilot, zomato, csv"
	}
	if r.ReviewID == "" {
		errs["reviewId"] = "is required"
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs["rating"] = "must be between 1 and 5"
	}
	if r.Sentiment != "" && !models.Sentiment(r.Sentiment).Valid() {
		errs["sentiment"] = "must be one of: positive, negative, neutral"
	}
	if r.SentimentScore != nil && (*r.SentimentScore < -1 || *r.SentimentScore > 1) {
		errs["sentimentScore"] = "must be between -1 and 1"
	}
	if r.ReviewDate != "" {
		if _, err := time.Parse(time.RFC3339, r.ReviewDate); err != nil {
			errs["reviewDate"] = "must be an RFC 3339 timestamp"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UpdateReviewRequest covers both independent update groups: the response
// fields (draft, published, status) and the analysis fields (sentiment,
// score, topics). Absent fields are left untouched.
type UpdateReviewRequest struct {
	ResponseDraft     *string  `json:"responseDraft"`
	ResponsePublished *string  `json:"responsePublished"`
	Status            *string  `json:"status"`
	Sentiment         *string  `json:"sentiment"`
	SentimentScore    *float64 `json:"sentimentScore"`
	Topics            *string  `json:"topics"`
}

func (r *UpdateReviewRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.ResponseDraft == nil && r.ResponsePublished == nil && r.Status == nil &&
		r.Sentiment == nil && r.SentimentScore == nil && r.Topics == nil {
		errs["body"] = "at least one updatable field is required"
	}
	if r.Status != nil && !models.ReviewStatus(*r.Status).Valid() {
		errs["status"] = "must be one of: pending, responded, ignored, flagged"
	}
	if r.Sentiment != nil && !models.Sentiment(*r.Sentiment).Valid() {
		errs["sentiment"] = "must be one of: positive, negative, neutral"
	}
	if r.SentimentScore != nil && (*r.SentimentScore < -1 || *r.SentimentScore > 1) {
		errs["sentimentScore"] = "must be between -1 and 1"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type ReviewListResponse struct {
	Reviews    []models.Review `json:"reviews"`
	Pagination Pagination      `json:"pagination"`
}

type ReviewResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Review  *models.Review `json:"review"`
}
