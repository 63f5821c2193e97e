package platforms

import (
	"fmt"

	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/pkg/config"
	"golang.org/x/oauth2"
)

var (
	googleEndpoint = oauth2.Endpoint{
		AuthURL:  "https://accounts.google.com/o/oauth2/auth",
		TokenURL: "https://oauth2.googleapis.com/token",
	}
	facebookEndpoint = oauth2.Endpoint{
		AuthURL:  "https://www.facebook.com/v19.0/dialog/oauth",
		TokenURL: "https://graph.facebook.com/v19.0/oauth/access_token",
	}
)

// OAuthConfig returns the oauth2 configuration for a platform's review
// scopes, or an error for platforms connected via API key instead.
func OAuthConfig(platform models.Platform, cfg *config.OAuthConfig) (*oauth2.Config, error) {
	switch platform {
	case models.PlatformGoogle:
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/business.manage"},
			Endpoint:     googleEndpoint,
		}, nil
	case models.PlatformFacebook:
		return &oauth2.Config{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"pages_read_user_content", "pages_manage_engagement"},
			Endpoint:     facebookEndpoint,
		}, nil
	default:
		return nil, fmt.Errorf("platform %q does not use oauth", platform)
	}
}

// AuthorizationURL builds the consent URL a user visits to authorize a
// platform connection. The state parameter carries the connection id so the
// callback can associate the returned tokens.
func AuthorizationURL(platform models.Platform, cfg *config.OAuthConfig, state string) (string, error) {
	oc, err := OAuthConfig(platform, cfg)
	if err != nil {
		return "", err
	}
	return oc.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}
