package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/jobrank/internal/postings"
)

const flagNotSetMsg = "exclude-applied flag is not set"

// AppliedLister returns the postings a candidate already has a non-pending
// application status for.
type AppliedLister interface {
	Applied(ctx context.Context, candidateID string) ([]string, error)
}

type appliedHistoryFilter struct {
	deps   *AppliedHistoryDeps
	ignore bool
	reason string
}

type AppliedHistoryDeps struct {
	Statuses    AppliedLister
	CandidateID string
	Logger      *zap.Logger
}

type AppliedHistoryConfig struct {
	Ignore bool
}

// NewAppliedHistory creates a filter that removes postings the candidate has
// already acted on.
func NewAppliedHistory(cfg *AppliedHistoryConfig, deps *AppliedHistoryDeps) Filter {
	ignore := false
	if cfg != nil {
		ignore = cfg.Ignore
	}

	return &appliedHistoryFilter{
		deps:   deps,
		ignore: ignore,
	}
}

func (f *appliedHistoryFilter) Name() string { return "applied_history" }

func (f *appliedHistoryFilter) Disable(reason string) {
	f.ignore = true
	f.reason = reason
}

func (f *appliedHistoryFilter) IsEnabled() bool { return true }

func (f *appliedHistoryFilter) Validate() error {
	if f.ignore {
		return nil
	}

	if f.deps == nil || f.deps.Statuses == nil {
		return fmt.Errorf("application status store is required")
	}

	if f.deps.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	return nil
}

func (f *appliedHistoryFilter) Apply(ctx context.Context, p *postings.Postings) (*postings.Postings, Step, error) {
	initial := p.Len()
	if f.ignore {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	applied, err := f.deps.Statuses.Applied(ctx, f.deps.CandidateID)
	if err != nil {
		return p, Step{}, fmt.Errorf("get application history: %w", err)
	}

	excluded := p.Exclude(postings.IDField, applied)
	if len(excluded) > 0 {
		f.deps.Logger.Info("excluding postings already applied to",
			zap.Strings("excluded_postings", excluded),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(excluded), Left: p.Len()}, nil
}

func (f *appliedHistoryFilter) Status() Status {
	reason := f.reason
	if f.ignore && reason == "" {
		reason = flagNotSetMsg
	}
	return Status{
		Name:    f.Name(),
		Enabled: !f.ignore,
		Reason:  reason,
		Details: map[string]string{"exclude_applied": strconv.FormatBool(!f.ignore)},
	}
}
