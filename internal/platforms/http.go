package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/reviewpilot/reviewpilot/internal/database/models"
)

// APIConnector is a generic HTTP connector. All supported platforms expose
// a paged JSON review listing; only the base URL and auth header differ.
type APIConnector struct {
	platform models.Platform
	baseURL  string
	client   *http.Client
}

func NewAPIConnector(platform models.Platform, baseURL string) *APIConnector {
	return &APIConnector{
		platform: platform,
		baseURL:  baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *APIConnector) Platform() models.Platform {
	return c.platform
}

type apiReview struct {
	ID           string  `json:"id"`
	Rating       float64 `json:"rating"`
	Text         string  `json:"text"`
	AuthorName   string  `json:"author_name"`
	AuthorAvatar string  `json:"author_avatar"`
	CreatedAt    int64   `json:"created_at"`
}

type apiReviewPage struct {
	Reviews    []apiReview `json:"reviews"`
	NextCursor string      `json:"next_cursor"`
}

func (c *APIConnector) FetchReviews(ctx context.Context, creds Credentials, since time.Time) ([]FetchedReview, error) {
	var out []FetchedReview
	cursor := ""

	for {
		page, err := c.fetchPage(ctx, creds, since, cursor)
		if err != nil {
			return nil, err
		}

		for _, r := range page.Reviews {
			out = append(out, FetchedReview{
				ReviewID:     r.ID,
				Rating:       int(r.Rating),
				Text:         r.Text,
				AuthorName:   r.AuthorName,
				AuthorAvatar: r.AuthorAvatar,
				ReviewDate:   time.Unix(r.CreatedAt, 0).UTC(),
			})
		}

		if page.NextCursor == "" {
			return out, nil
		}
		cursor = page.NextCursor
	}
}

func (c *APIConnector) fetchPage(ctx context.Context, creds Credentials, since time.Time, cursor string) (*apiReviewPage, error) {
	endpoint, err := url.Parse(c.baseURL + "/reviews")
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}

	q := endpoint.Query()
	if creds.BusinessID != "" {
		q.Set("business_id", creds.BusinessID)
	}
	if !since.IsZero() {
		q.Set("since", strconv.FormatInt(since.Unix(), 10))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	switch {
	case creds.AccessToken != "":
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	case creds.APIKey != "":
		req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s reviews: %w", c.platform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%s rejected credentials (status %d)", c.platform, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", c.platform, resp.StatusCode)
	}

	var page apiReviewPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", c.platform, err)
	}

	return &page, nil
}
