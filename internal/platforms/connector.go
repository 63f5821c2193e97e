package platforms

import (
	"context"
	"fmt"
	"time"

	"github.com/reviewpilot/reviewpilot/internal/database/models"
)

// Credentials is the decrypted JSON blob stored on a platform connection.
// Platforms use different subsets of the fields.
type Credentials struct {
	APIKey       string `json:"api_key,omitempty"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	BusinessID   string `json:"business_id,omitempty"`
}

// FetchedReview is a platform-neutral review as returned by a connector,
// before it is persisted.
type FetchedReview struct {
	ReviewID     string
	Rating       int
	Text         string
	AuthorName   string
	AuthorAvatar string
	ReviewDate   time.Time
}

// Connector pulls reviews from one external platform.
type Connector interface {
	Platform() models.Platform
	FetchReviews(ctx context.Context, creds Credentials, since time.Time) ([]FetchedReview, error)
}

// Registry maps platforms to their connectors.
type Registry struct {
	connectors map[models.Platform]Connector
}

func NewRegistry(connectors ...Connector) *Registry {
	r := &Registry{connectors: make(map[models.Platform]Connector, len(connectors))}
	for _, c := range connectors {
		r.connectors[c.Platform()] = c
	}
	return r
}

func (r *Registry) Get(platform models.Platform) (Connector, error) {
	c, ok := r.connectors[platform]
	if !ok {
		return nil, fmt.Errorf("no connector registered for platform %q", platform)
	}
	return c, nil
}

// DefaultRegistry wires a connector for every API-backed platform. CSV is
// excluded: it is served by the import endpoint, not a sync connector.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewAPIConnector(models.PlatformGoogle, "https://mybusiness.googleapis.com/v4"),
		NewAPIConnector(models.PlatformYelp, "https://api.yelp.com/v3"),
		NewAPIConnector(models.PlatformFacebook, "https://graph.facebook.com/v19.0"),
		NewAPIConnector(models.PlatformTripAdvisor, "https://api.content.tripadvisor.com/api/v1"),
		NewAPIConnector(models.PlatformTrustpilot, "https://api.trustpilot.com/v1"),
		NewAPIConnector(models.PlatformZomato, "https://developers.zomato.com/api/v2.1"),
	)
}
