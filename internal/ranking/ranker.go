// Package ranking scores a batch of postings for one candidate and orders
// them for display.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobrank/internal/logger"
	"github.com/spigell/jobrank/internal/matching"
	"github.com/spigell/jobrank/internal/metrics"
	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/profile"
	"github.com/spigell/jobrank/internal/store"
)

const (
	// MaxWorkers caps the worker pool.
	MaxWorkers = 32
	// DefaultTimeout bounds the scoring of a single posting.
	DefaultTimeout = 30 * time.Second
)

var (
	errTimeout  = errors.New("scoring timed out")
	errNoResult = errors.New("matcher returned no result")
)

// Matcher scores one posting text against one candidate description.
type Matcher interface {
	Match(profileText, postingText string) *matching.Result
}

// StatusProvider returns the recorded application status of a posting.
type StatusProvider interface {
	Status(ctx context.Context, candidateID, postingID string) (string, error)
}

// Recorder receives ranking measurements.
type Recorder interface {
	RecordScored(d time.Duration, semanticExact bool)
	RecordDropped(reason string)
	RecordBatch(size int, d time.Duration)
}

var _ Recorder = (*metrics.Manager)(nil)

// Request is one ranking call. A nil Resume means the candidate has no stored
// profile.
type Request struct {
	CandidateID string
	JobTitle    string
	Resume      *profile.Resume
	Postings    []*postings.Posting
}

// Ranker ranks posting batches. It is safe for concurrent use.
type Ranker struct {
	matcher  Matcher
	statuses StatusProvider
	recorder Recorder
	logger   *zap.Logger
	workers  int
	timeout  time.Duration
	now      func() time.Time
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithWorkers sets the pool size. Values above MaxWorkers are capped and
// non-positive values select DefaultWorkers.
func WithWorkers(n int) Option {
	return func(r *Ranker) {
		r.workers = n
	}
}

// WithTimeout bounds scoring of one posting. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Ranker) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

func WithStatusProvider(p StatusProvider) Option {
	return func(r *Ranker) {
		r.statuses = p
	}
}

func WithRecorder(rec Recorder) Option {
	return func(r *Ranker) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Ranker) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the clock used to resolve ongoing roles.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) {
		if now != nil {
			r.now = now
		}
	}
}

// DefaultWorkers returns min(32, max(4, NumCPU+4)).
func DefaultWorkers() int {
	return min(MaxWorkers, max(4, runtime.NumCPU()+4))
}

// New returns a Ranker scoring with m.
func New(m Matcher, opts ...Option) *Ranker {
	r := &Ranker{
		matcher:  m,
		recorder: nopRecorder{},
		logger:   zap.NewNop(),
		timeout:  DefaultTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	switch {
	case r.workers <= 0:
		r.workers = DefaultWorkers()
	case r.workers > MaxWorkers:
		r.workers = MaxWorkers
	}

	return r
}

// Workers returns the effective pool size.
func (r *Ranker) Workers() int {
	return r.workers
}

// Rank annotates the postings of req with match results and application
// statuses and returns them ordered by date posted, newest first, then by
// overall score. Postings whose scoring panics or times out are left out. The
// only error returned is the context's.
func (r *Ranker) Rank(ctx context.Context, req Request) ([]*postings.Posting, error) {
	started := time.Now()
	log := logger.WithRun(r.logger, uuid.NewString(), req.CandidateID)

	if req.Resume == nil {
		log.Info("no stored profile, ordering postings by date only", zap.Int("postings", len(req.Postings)))
		out := &postings.Postings{Items: nonNil(req.Postings)}
		out.SortByDate()
		return out.Items, nil
	}

	batch := r.dedupe(log, req.Postings)
	candidate := profile.Build(req.CandidateID, req.JobTitle, req.Resume, r.now())
	log.Debug("built candidate profile",
		zap.Int("skills", len(candidate.Skills)),
		zap.Int("years", candidate.Years),
		zap.Int("postings", len(batch)),
		zap.Int("workers", r.workers),
	)

	results, err := r.scoreAll(ctx, log, candidate.Description, batch)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*matching.Result, len(results))
	for _, res := range results {
		if res.result != nil {
			byID[res.id] = res.result
		}
	}

	ranked := make([]*postings.Posting, 0, len(byID))
	for _, p := range batch {
		res, ok := byID[p.ID]
		if !ok {
			continue
		}
		p.Result = res
		p.ApplicationStatus = r.status(ctx, log, req.CandidateID, p.ID)
		ranked = append(ranked, p)
	}

	out := &postings.Postings{Items: ranked}
	out.SortByDateAndScore()

	r.recorder.RecordBatch(len(req.Postings), time.Since(started))
	log.Info("ranked postings",
		zap.Int("received", len(req.Postings)),
		zap.Int("ranked", len(ranked)),
		zap.Duration("took", time.Since(started)),
	)

	return out.Items, nil
}

// dedupe keeps the first posting of every ID.
func (r *Ranker) dedupe(log *zap.Logger, items []*postings.Posting) []*postings.Posting {
	seen := make(map[string]struct{}, len(items))
	out := make([]*postings.Posting, 0, len(items))
	for _, p := range items {
		if p == nil {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			log.Warn("dropping posting with duplicate id", logger.Posting(p.ID))
			r.recorder.RecordDropped(metrics.ReasonDuplicate)
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// postingText is the markup-free, lower-cased description handed to the
// matcher.
func postingText(p *postings.Posting) string {
	return strings.ToLower(postings.StripHTML(p.Description))
}

func nonNil(items []*postings.Posting) []*postings.Posting {
	out := make([]*postings.Posting, 0, len(items))
	for _, p := range items {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

type scored struct {
	id     string
	result *matching.Result
}

func (r *Ranker) scoreAll(ctx context.Context, log *zap.Logger, profileText string, batch []*postings.Posting) ([]scored, error) {
	results := make([]scored, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, p := range batch {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			started := time.Now()
			res, err := r.score(gctx, profileText, postingText(p))
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				r.drop(log, p.ID, err)
				return nil
			}

			r.recorder.RecordScored(time.Since(started), res.SemanticExact)
			results[i] = scored{id: p.ID, result: res}
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("scoring panicked: %v", e.value)
}

type outcome struct {
	result *matching.Result
	err    error
}

// score runs one match on its own goroutine so that a hung match can be
// abandoned. An abandoned match keeps running until it returns.
func (r *Ranker) score(ctx context.Context, profileText, postingText string) (*matching.Result, error) {
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if v := recover(); v != nil {
				done <- outcome{err: &panicError{value: v}}
			}
		}()
		done <- outcome{result: r.matcher.Match(profileText, postingText)}
	}()

	var expired <-chan time.Time
	if r.timeout > 0 {
		timer := time.NewTimer(r.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case o := <-done:
		if o.err == nil && o.result == nil {
			return nil, errNoResult
		}
		return o.result, o.err
	case <-expired:
		return nil, errTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Ranker) drop(log *zap.Logger, postingID string, err error) {
	reason := metrics.ReasonPanic
	if errors.Is(err, errTimeout) {
		reason = metrics.ReasonTimeout
	}
	log.Warn("dropping posting", logger.Posting(postingID), zap.String("reason", reason), zap.Error(err))
	r.recorder.RecordDropped(reason)
}

func (r *Ranker) status(ctx context.Context, log *zap.Logger, candidateID, postingID string) string {
	if r.statuses == nil {
		return postings.StatusPending
	}

	status, err := r.statuses.Status(ctx, candidateID, postingID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return postings.StatusPending
	case err != nil:
		log.Warn("application status lookup failed", logger.Posting(postingID), zap.Error(err))
		return postings.StatusPending
	case status == "":
		return postings.StatusPending
	default:
		return status
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordScored(time.Duration, bool) {}
func (nopRecorder) RecordDropped(string)             {}
func (nopRecorder) RecordBatch(int, time.Duration)   {}
