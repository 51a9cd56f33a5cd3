package ranking

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/profile"
	"github.com/spigell/jobrank/internal/store"
)

// ProfileProvider returns the stored resume of a candidate, or an error
// wrapping store.ErrNotFound when there is none.
type ProfileProvider interface {
	Resume(ctx context.Context, candidateID string) (*profile.Resume, error)
}

// PostingProvider returns the postings selected by a query.
type PostingProvider interface {
	Postings(ctx context.Context, q postings.Query) (*postings.Postings, error)
}

// FetchResume returns the candidate's resume, or nil when none is stored.
func FetchResume(ctx context.Context, p ProfileProvider, candidateID string) (*profile.Resume, error) {
	if p == nil || candidateID == "" {
		return nil, nil
	}

	resume, err := p.Resume(ctx, candidateID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch resume: %w", err)
	}

	return resume, nil
}
