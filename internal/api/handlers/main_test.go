package handlers_test

import (
	"math/rand"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reviewpilot/reviewpilot/internal/api"
	"github.com/reviewpilot/reviewpilot/internal/responder"
	"github.com/reviewpilot/reviewpilot/internal/sentiment"
	"github.com/reviewpilot/reviewpilot/internal/testutil"
	"github.com/reviewpilot/reviewpilot/pkg/config"
	"github.com/reviewpilot/reviewpilot/pkg/crypto"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Env: "test"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpiryHours: 168},
		AI:     config.AIConfig{ResponseDelayMS: 0},
		OAuth: config.OAuthConfig{
			GoogleClientID:     "google-client",
			GoogleClientSecret: "google-secret",
			FacebookClientID:   "facebook-client",
			FacebookSecret:     "facebook-secret",
			RedirectURL:        "http://localhost:8080/api/v1/connections/callback",
		},
	}
}

// newTestRouter assembles the full HTTP surface on an in-memory database.
// Queue-backed endpoints are not exercised here; the queue client is nil.
func newTestRouter(t *testing.T) (*testutil.Setup, http.Handler) {
	t.Helper()

	setup := testutil.NewSetup(t)

	encryptor, err := crypto.NewEncryptor("")
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		DB:        setup.DB,
		Logger:    setup.Logger,
		Config:    testConfig(),
		Auth:      setup.Auth,
		JWT:       setup.JWT,
		Tenants:   setup.Tenants,
		Generator: responder.NewTemplateGenerator(rand.NewSource(1), 0),
		Analyzer:  sentiment.NewAnalyzer(),
		Encryptor: encryptor,
	})

	return setup, router
}
