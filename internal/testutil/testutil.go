package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
)

// SetupTestDB opens an in-memory sqlite database with the full schema.
// TranslateError is on so duplicate-key behavior matches postgres.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A pooled :memory: connection would get its own empty database; pin
	// the pool to one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// NewLogger returns a logger that discards everything.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Setup bundles the services most handler tests need.
type Setup struct {
	DB      *gorm.DB
	JWT     *auth.JWTService
	Auth    *auth.Service
	Tenants *tenant.Service
	Logger  *slog.Logger
}

func NewSetup(t *testing.T) *Setup {
	t.Helper()

	db := SetupTestDB(t)
	jwt := auth.NewJWTService("test-secret", 168*time.Hour)
	return &Setup{
		DB:      db,
		JWT:     jwt,
		Auth:    auth.NewService(db, jwt),
		Tenants: tenant.NewService(db),
		Logger:  NewLogger(),
	}
}

// CreateUser inserts a user with an active trial and returns it with a
// valid token.
func (s *Setup) CreateUser(t *testing.T, email string, role models.Role) (*models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("Password1")
	require.NoError(t, err)

	trialEnd := time.Now().Add(auth.TrialDuration)
	user := models.User{
		Email:              email,
		PasswordHash:       hash,
		Name:               "Test User",
		Role:               role,
		SubscriptionStatus: models.SubscriptionTrial,
		TrialEndDate:       &trialEnd,
	}
	require.NoError(t, s.DB.Create(&user).Error)

	token, err := s.JWT.GenerateToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	return &user, token
}

// CreateExpiredUser inserts a user whose trial has lapsed and who has no
// subscription.
func (s *Setup) CreateExpiredUser(t *testing.T, email string) (*models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("Password1")
	require.NoError(t, err)

	trialEnd := time.Now().Add(-24 * time.Hour)
	user := models.User{
		Email:              email,
		PasswordHash:       hash,
		Name:               "Expired User",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionExpired,
		TrialEndDate:       &trialEnd,
	}
	require.NoError(t, s.DB.Create(&user).Error)

	token, err := s.JWT.GenerateToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	return &user, token
}

// CreateOrg inserts an organization owned by the user.
func (s *Setup) CreateOrg(t *testing.T, owner *models.User) *models.Organization {
	t.Helper()

	org := models.Organization{
		Name:             owner.Name + "'s Organization",
		OwnerID:          owner.ID,
		SubscriptionPlan: models.PlanFree,
		BillingStatus:    models.BillingActive,
		Settings:         "{}",
	}
	require.NoError(t, s.DB.Create(&org).Error)
	return &org
}

// CreateReview inserts a review for the organization.
func (s *Setup) CreateReview(t *testing.T, org *models.Organization, platform models.Platform, reviewID string, rating int) *models.Review {
	t.Helper()

	review := models.Review{
		OrganizationID: org.ID,
		Platform:       platform,
		ReviewID:       reviewID,
		Rating:         rating,
		Text:           "test review text",
		AuthorName:     "Reviewer",
		Sentiment:      models.SentimentNeutral,
		Status:         models.ReviewStatusPending,
		ReviewDate:     time.Now().UTC(),
	}
	require.NoError(t, s.DB.Create(&review).Error)
	return &review
}

// AuthenticatedRequest builds a JSON request carrying a bearer token.
func AuthenticatedRequest(t *testing.T, method, target, token string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// DecodeResponse unmarshals a recorded JSON body.
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
