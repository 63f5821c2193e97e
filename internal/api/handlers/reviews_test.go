package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/testutil"
)

func TestCreateReview(t *testing.T) {
	setup, router := newTestRouter(t)
	_, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)

	body := dto.CreateReviewRequest{
		Platform: "google",
		ReviewID: "g-100",
		Rating:   5,
		Text:     "Lovely evening",
	}
	req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/reviews", token, body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.ReviewResponse
	testutil.DecodeResponse(t, rec, &resp)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Review)

	// Defaults applied server side.
	assert.Equal(t, "Anonymous", resp.Review.AuthorName)
	assert.Equal(t, models.SentimentNeutral, resp.Review.Sentiment)
	assert.Equal(t, models.ReviewStatusPending, resp.Review.Status)
}

func TestCreateReviewValidation(t *testing.T) {
	setup, router := newTestRouter(t)
	_, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)

	cases := []struct {
		name  string
		body  dto.CreateReviewRequest
		field string
	}{
		{"bad platform", dto.CreateReviewRequest{Platform: "myspace", ReviewID: "x", Rating: 3}, "platform"},
		{"missing review id", dto.CreateReviewRequest{Platform: "google", Rating: 3}, "reviewId"},
		{"rating too low", dto.CreateReviewRequest{Platform: "google", ReviewID: "x", Rating: 0}, "rating"},
		{"rating too high", dto.CreateReviewRequest{Platform: "google", ReviewID: "x", Rating: 6}, "rating"},
		{"bad sentiment", dto.CreateReviewRequest{Platform: "google", ReviewID: "x", Rating: 3, Sentiment: "ecstatic"}, "sentiment"},
		{"score out of range", dto.CreateReviewRequest{Platform: "google", ReviewID: "x", Rating: 3, SentimentScore: float64Ptr(1.5)}, "sentimentScore"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/reviews", token, tc.body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp dto.ErrorResponse
			testutil.DecodeResponse(t, rec, &resp)
			assert.Contains(t, resp.Details, tc.field)
		})
	}
}

func TestCreateReviewDuplicateTriple(t *testing.T) {
	setup, router := newTestRouter(t)
	_, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)

	body := dto.CreateReviewRequest{Platform: "google", ReviewID: "g-1", Rating: 4}
	req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/reviews", token, body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same (platform, review id) again: conflict, and still one row.
	req = testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/reviews", token, body)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var count int64
	require.NoError(t, setup.DB.Model(&models.Review{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Same review id on a different platform is fine.
	body.Platform = "yelp"
	req = testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/reviews", token, body)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateReviewKeepsSubmittedAnalysis(t *testing.T) {
	setup, router := newTestRouter(t)
	_, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)

	body := dto.CreateReviewRequest{
		Platform:       "yelp",
		ReviewID:       "y-9",
		Rating:         1,
		Text:           "Cold food, slow service",
		Sentiment:      "negative",
		SentimentScore: float64Ptr(-0.6),
		Topics:         "service,food",
	}
	req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/reviews", token, body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.ReviewResponse
	testutil.DecodeResponse(t, rec, &resp)
	require.NotNil(t, resp.Review)

	var stored models.Review
	require.NoError(t, setup.DB.First(&stored, "id = ?", resp.Review.ID).Error)
	assert.Equal(t, models.SentimentNegative, stored.Sentiment)
	assert.Equal(t, -0.6, stored.SentimentScore)
	assert.Equal(t, "service,food", stored.Topics)
}

func TestListReviewsPagination(t *testing.T) {
	setup, router := newTestRouter(t)
	user, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)
	org := setup.CreateOrg(t, user)

	for i := 0; i < 25; i++ {
		setup.CreateReview(t, org, models.PlatformGoogle, fmt.Sprintf("g-%d", i), 4)
	}

	req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/reviews?page=2&limit=10", token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ReviewListResponse
	testutil.DecodeResponse(t, rec, &resp)

	assert.Len(t, resp.Reviews, 10)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 10, resp.Pagination.Limit)
	assert.EqualValues(t, 25, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)

	// A page past the end is empty, not an error.
	req = testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/reviews?page=9&limit=10", token, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	testutil.DecodeResponse(t, rec, &resp)
	assert.Empty(t, resp.Reviews)
	assert.EqualValues(t, 25, resp.Pagination.Total)
}

func TestListReviewsFilters(t *testing.T) {
	setup, router := newTestRouter(t)
	user, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)
	org := setup.CreateOrg(t, user)

	setup.CreateReview(t, org, models.PlatformGoogle, "g-1", 5)
	setup.CreateReview(t, org, models.PlatformYelp, "y-1", 2)
	setup.CreateReview(t, org, models.PlatformYelp, "y-2", 5)

	req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/reviews?platform=yelp&rating=5", token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ReviewListResponse
	testutil.DecodeResponse(t, rec, &resp)
	require.Len(t, resp.Reviews, 1)
	assert.Equal(t, "y-2", resp.Reviews[0].ReviewID)
}

func TestListReviewsIsOrgScoped(t *testing.T) {
	setup, router := newTestRouter(t)
	owner, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)
	other, _ := setup.CreateUser(t, "other@example.com", models.RoleUser)

	ownOrg := setup.CreateOrg(t, owner)
	otherOrg := setup.CreateOrg(t, other)
	setup.CreateReview(t, ownOrg, models.PlatformGoogle, "mine", 5)
	setup.CreateReview(t, otherOrg, models.PlatformGoogle, "theirs", 1)

	req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/reviews", token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ReviewListResponse
	testutil.DecodeResponse(t, rec, &resp)
	require.Len(t, resp.Reviews, 1)
	assert.Equal(t, "mine", resp.Reviews[0].ReviewID)
}

func TestListReviewsNewestCreatedFirst(t *testing.T) {
	setup, router := newTestRouter(t)
	user, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)
	org := setup.CreateOrg(t, user)

	first := setup.CreateReview(t, org, models.PlatformGoogle, "first", 4)
	second := setup.CreateReview(t, org, models.PlatformGoogle, "second", 4)

	// The later row carries an older authored date; creation time still
	// decides the order.
	require.NoError(t, setup.DB.Model(first).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)
	require.NoError(t, setup.DB.Model(second).UpdateColumn("review_date", time.Now().Add(-48*time.Hour)).Error)

	req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/reviews", token, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ReviewListResponse
	testutil.DecodeResponse(t, rec, &resp)
	require.Len(t, resp.Reviews, 2)
	assert.Equal(t, "second", resp.Reviews[0].ReviewID)
	assert.Equal(t, "first", resp.Reviews[1].ReviewID)
}

func TestGetReviewOwnership(t *testing.T) {
	setup, router := newTestRouter(t)
	owner, ownerToken := setup.CreateUser(t, "owner@example.com", models.RoleUser)
	other, otherToken := setup.CreateUser(t, "other@example.com", models.RoleUser)

	ownOrg := setup.CreateOrg(t, owner)
	setup.CreateOrg(t, other)
	review := setup.CreateReview(t, ownOrg, models.PlatformGoogle, "g-1", 5)

	t.Run("owner can read", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/reviews/"+review.ID.String(), ownerToken, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("someone else's review is 403, not 404", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/reviews/"+review.ID.String(), otherToken, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("nonexistent review is 404", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodGet, "/api/v1/reviews/"+uuid.NewString(), ownerToken, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUpdateReviewPartialGroups(t *testing.T) {
	setup, router := newTestRouter(t)
	owner, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)
	org := setup.CreateOrg(t, owner)
	review := setup.CreateReview(t, org, models.PlatformGoogle, "g-1", 5)

	draft := "Thanks for the kind words!"
	status := "responded"

	t.Run("response fields only", func(t *testing.T) {
		body := dto.UpdateReviewRequest{ResponseDraft: &draft}
		req := testutil.AuthenticatedRequest(t, http.MethodPatch, "/api/v1/reviews/"+review.ID.String(), token, body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var stored models.Review
		require.NoError(t, setup.DB.First(&stored, "id = ?", review.ID).Error)
		assert.Equal(t, draft, stored.ResponseDraft)
		assert.Equal(t, models.ReviewStatusPending, stored.Status)
	})

	t.Run("status only leaves response untouched", func(t *testing.T) {
		body := dto.UpdateReviewRequest{Status: &status}
		req := testutil.AuthenticatedRequest(t, http.MethodPatch, "/api/v1/reviews/"+review.ID.String(), token, body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var stored models.Review
		require.NoError(t, setup.DB.First(&stored, "id = ?", review.ID).Error)
		assert.Equal(t, models.ReviewStatusResponded, stored.Status)
		assert.Equal(t, draft, stored.ResponseDraft)
	})

	t.Run("analysis fields only leave response untouched", func(t *testing.T) {
		sent := "negative"
		body := dto.UpdateReviewRequest{
			Sentiment:      &sent,
			SentimentScore: float64Ptr(-0.4),
			Topics:         strPtr("wait times"),
		}
		req := testutil.AuthenticatedRequest(t, http.MethodPatch, "/api/v1/reviews/"+review.ID.String(), token, body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var stored models.Review
		require.NoError(t, setup.DB.First(&stored, "id = ?", review.ID).Error)
		assert.Equal(t, models.SentimentNegative, stored.Sentiment)
		assert.Equal(t, -0.4, stored.SentimentScore)
		assert.Equal(t, "wait times", stored.Topics)
		assert.Equal(t, draft, stored.ResponseDraft)
		assert.Equal(t, models.ReviewStatusResponded, stored.Status)
	})

	t.Run("invalid sentiment is rejected", func(t *testing.T) {
		bad := "ecstatic"
		req := testutil.AuthenticatedRequest(t, http.MethodPatch, "/api/v1/reviews/"+review.ID.String(), token, dto.UpdateReviewRequest{Sentiment: &bad})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("score outside [-1,1] is rejected", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodPatch, "/api/v1/reviews/"+review.ID.String(), token, dto.UpdateReviewRequest{SentimentScore: float64Ptr(2)})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodPatch, "/api/v1/reviews/"+review.ID.String(), token, dto.UpdateReviewRequest{})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		bad := "archived"
		req := testutil.AuthenticatedRequest(t, http.MethodPatch, "/api/v1/reviews/"+review.ID.String(), token, dto.UpdateReviewRequest{Status: &bad})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteReview(t *testing.T) {
	setup, router := newTestRouter(t)
	owner, ownerToken := setup.CreateUser(t, "owner@example.com", models.RoleUser)
	_, otherToken := setup.CreateUser(t, "other@example.com", models.RoleUser)

	org := setup.CreateOrg(t, owner)
	review := setup.CreateReview(t, org, models.PlatformGoogle, "g-1", 5)

	t.Run("someone else cannot delete", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/reviews/"+review.ID.String(), otherToken, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/reviews/"+review.ID.String(), ownerToken, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var count int64
		require.NoError(t, setup.DB.Model(&models.Review{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("deleting again is 404", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, http.MethodDelete, "/api/v1/reviews/"+review.ID.String(), ownerToken, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func float64Ptr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }
