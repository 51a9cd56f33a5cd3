// Package jobsapi fetches postings from a paginated JSON job store.
package jobsapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobrank/internal/postings"
)

const (
	userAgent = "spigell/jobrank"
	// Max value for search per page.
	perPage = 100
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	// PageDelay is waited between page requests.
	PageDelay time.Duration
}

func New(logger *zap.Logger, apiURL, token string) *Client {
	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Postings returns every posting matching q. The query is also applied
// locally since stores may ignore some parameters.
func (c *Client) Postings(ctx context.Context, q postings.Query) (*postings.Postings, error) {
	items, err := c.search(ctx, q)
	if err != nil {
		return nil, err
	}

	return &postings.Postings{Items: q.Apply(items)}, nil
}
