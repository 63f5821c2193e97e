package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewpilot/reviewpilot/internal/api/dto"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/responder"
	"github.com/reviewpilot/reviewpilot/internal/testutil"
)

func generateResponse(t *testing.T, router http.Handler, token string, body dto.GenerateResponseRequest) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/ai/respond", token, body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateResponseBuckets(t *testing.T) {
	setup, router := newTestRouter(t)
	_, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)

	for _, rating := range []int{1, 2, 3, 4, 5} {
		rec := generateResponse(t, router, token, dto.GenerateResponseRequest{
			ReviewText:   "some review",
			Rating:       rating,
			BusinessName: "Blue Cafe",
			Tone:         "professional",
		})
		require.Equal(t, http.StatusOK, rec.Code, "rating %d", rating)

		var resp dto.GenerateResponseResponse
		testutil.DecodeResponse(t, rec, &resp)
		assert.Contains(t, responder.Candidates(rating, "Blue Cafe"), resp.Response)
		assert.Equal(t, len(resp.Response), resp.Usage.TokensUsed)
		assert.Equal(t, 100, resp.Usage.RemainingCredits)
	}
}

func TestGenerateResponseTones(t *testing.T) {
	setup, router := newTestRouter(t)
	_, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)

	base := dto.GenerateResponseRequest{ReviewText: "great", Rating: 5, BusinessName: "Blue Cafe"}

	t.Run("casual", func(t *testing.T) {
		body := base
		body.Tone = "casual"
		rec := generateResponse(t, router, token, body)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.GenerateResponseResponse
		testutil.DecodeResponse(t, rec, &resp)
		assert.True(t, strings.HasSuffix(resp.Response, "\U0001F60A"))
	})

	t.Run("friendly", func(t *testing.T) {
		body := base
		body.Tone = "friendly"
		rec := generateResponse(t, router, token, body)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.GenerateResponseResponse
		testutil.DecodeResponse(t, rec, &resp)
		assert.True(t, strings.HasSuffix(resp.Response, "Have a wonderful day!"))
	})

	t.Run("unknown tone is rejected", func(t *testing.T) {
		body := base
		body.Tone = "sarcastic"
		rec := generateResponse(t, router, token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGenerateResponsePersistsDraft(t *testing.T) {
	setup, router := newTestRouter(t)
	user, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)
	org := setup.CreateOrg(t, user)
	review := setup.CreateReview(t, org, models.PlatformGoogle, "g-1", 5)

	// A previously answered review goes back to pending once a new draft
	// is generated for it.
	require.NoError(t, setup.DB.Model(review).Update("status", models.ReviewStatusResponded).Error)

	rec := generateResponse(t, router, token, dto.GenerateResponseRequest{
		ReviewText:   "wonderful",
		Rating:       5,
		BusinessName: "Blue Cafe",
		ReviewID:     review.ID.String(),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.GenerateResponseResponse
	testutil.DecodeResponse(t, rec, &resp)

	var stored models.Review
	require.NoError(t, setup.DB.First(&stored, "id = ?", review.ID).Error)
	assert.Equal(t, resp.Response, stored.ResponseDraft)
	assert.Equal(t, models.ReviewStatusPending, stored.Status)
}

func TestGenerateResponseRequiresSubscription(t *testing.T) {
	setup, router := newTestRouter(t)
	_, token := setup.CreateExpiredUser(t, "lapsed@example.com")

	rec := generateResponse(t, router, token, dto.GenerateResponseRequest{
		ReviewText: "anything", Rating: 5, BusinessName: "Blue Cafe",
	})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}

func TestGenerateResponseActiveSubscriptionBypassesTrial(t *testing.T) {
	setup, router := newTestRouter(t)
	user, token := setup.CreateExpiredUser(t, "paying@example.com")
	require.NoError(t, setup.DB.Model(user).Update("subscription_status", models.SubscriptionActive).Error)

	rec := generateResponse(t, router, token, dto.GenerateResponseRequest{
		ReviewText: "anything", Rating: 5, BusinessName: "Blue Cafe",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeSentimentEndpoint(t *testing.T) {
	setup, router := newTestRouter(t)
	_, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)

	req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/ai/sentiment", token, dto.AnalyzeSentimentRequest{
		Text: "Amazing food and wonderful friendly staff!",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Sentiment string  `json:"sentiment"`
		Score     float64 `json:"score"`
	}
	testutil.DecodeResponse(t, rec, &resp)
	assert.Equal(t, "positive", resp.Sentiment)
	assert.Positive(t, resp.Score)
}

func TestAnalyzeSentimentRequiresText(t *testing.T) {
	setup, router := newTestRouter(t)
	_, token := setup.CreateUser(t, "owner@example.com", models.RoleUser)

	req := testutil.AuthenticatedRequest(t, http.MethodPost, "/api/v1/ai/sentiment", token, dto.AnalyzeSentimentRequest{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
