package ranking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobrank/internal/extract"
	"github.com/spigell/jobrank/internal/matching"
	"github.com/spigell/jobrank/internal/metrics"
	"github.com/spigell/jobrank/internal/postings"
	"github.com/spigell/jobrank/internal/profile"
	"github.com/spigell/jobrank/internal/similarity"
	"github.com/spigell/jobrank/internal/store"
	"github.com/spigell/jobrank/internal/textnorm"
)

type identity struct{}

func (identity) Lemma(word string) string { return word }

func newEngine(t *testing.T) *matching.Engine {
	t.Helper()
	n, err := textnorm.New(textnorm.WithLemmatizer(identity{}))
	require.NoError(t, err)
	return matching.New(extract.NewSkillExtractor(nil), similarity.New(n, nil))
}

func fixedClock() time.Time {
	return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func candidateResume() *profile.Resume {
	return &profile.Resume{
		Skills:       []string{"Python", "SQL"},
		PersonalInfo: profile.PersonalInfo{AboutMe: "Backend developer who likes building pipelines."},
		Experience:   []profile.Role{{StartDate: "2021-01-01", EndDate: "present"}},
	}
}

func scenarioPostings() []*postings.Posting {
	return []*postings.Posting{
		{ID: "C", Description: "", DatePosted: "2024-05-01"},
		{ID: "B", Description: "<p>Java developer wanted.</p>", DatePosted: "2024-05-02"},
		{ID: "A", Description: "<p>We need Python, SQL and AWS skills.</p><p>5+ years of experience required.</p>", DatePosted: "2024-05-02"},
	}
}

func ids(items []*postings.Posting) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func TestRankScenario(t *testing.T) {
	r := New(newEngine(t), WithClock(fixedClock))

	ranked, err := r.Rank(context.Background(), Request{
		CandidateID: "alice",
		JobTitle:    "Data Engineer",
		Resume:      candidateResume(),
		Postings:    scenarioPostings(),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, ids(ranked))

	a, b, c := ranked[0], ranked[1], ranked[2]

	assert.Equal(t, []string{"python", "sql"}, a.MatchedSkills)
	assert.Equal(t, []string{"aws"}, a.MissingSkills)
	assert.Equal(t, 5, a.JobRequiredYears)
	assert.Equal(t, 3, a.ResumeYears)
	assert.InDelta(t, 66.67, a.SkillMatchScore, 0.001)
	assert.Equal(t, 50.0, a.ExperienceMatchScore)
	assert.Equal(t, extract.NoSalary, a.SalaryWithCurrency)

	assert.Equal(t, []string{"java"}, b.MissingSkills)
	assert.Equal(t, 0.0, b.SkillMatchScore)
	assert.Equal(t, 100.0, b.ExperienceMatchScore)
	assert.Greater(t, a.OverallScore, b.OverallScore)

	require.NotNil(t, c.Result)
	assert.Equal(t, 15.0, c.OverallScore)
	assert.Empty(t, c.JobSkills)

	for _, p := range ranked {
		assert.Equal(t, postings.StatusPending, p.ApplicationStatus)
		assert.GreaterOrEqual(t, p.OverallScore, 0.0)
		assert.LessOrEqual(t, p.OverallScore, 100.0)
	}
}

func TestRankDeterministicAcrossPoolSizes(t *testing.T) {
	engine := newEngine(t)

	build := func() []*postings.Posting {
		var items []*postings.Posting
		descriptions := []string{
			"Python and SQL, 3 years of experience",
			"Go, Kubernetes and AWS. 7+ years of experience.",
			"Data engineer: Spark, Airflow, SQL",
			"Frontend React developer",
			"",
		}
		for i := 0; i < 20; i++ {
			items = append(items, &postings.Posting{
				ID:          string(rune('a' + i)),
				Description: descriptions[i%len(descriptions)],
				DatePosted:  []string{"2024-05-01", "2024-05-02"}[i%2],
			})
		}
		return items
	}

	rank := func(workers int) []*postings.Posting {
		r := New(engine, WithWorkers(workers), WithClock(fixedClock))
		out, err := r.Rank(context.Background(), Request{CandidateID: "c", Resume: candidateResume(), Postings: build()})
		require.NoError(t, err)
		return out
	}

	serial := rank(1)
	parallel := rank(8)
	require.Equal(t, ids(serial), ids(parallel))
	for i := range serial {
		assert.Equal(t, serial[i].Result, parallel[i].Result)
	}
}

func TestRankWithoutResume(t *testing.T) {
	matcher := &funcMatcher{fn: func(string, string) *matching.Result {
		t.Fatalf("matcher must not be called without a resume")
		return nil
	}}
	r := New(matcher)

	input := scenarioPostings()
	ranked, err := r.Rank(context.Background(), Request{CandidateID: "nobody", Postings: input})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, ids(ranked))
	assert.Nil(t, ranked[0].Result)
	assert.Equal(t, "C", input[0].ID)
}

type funcMatcher struct {
	fn func(profileText, postingText string) *matching.Result
}

func (f *funcMatcher) Match(profileText, postingText string) *matching.Result {
	return f.fn(profileText, postingText)
}

type recorder struct {
	mu      sync.Mutex
	scored  int
	dropped map[string]int
	batches int
}

func (r *recorder) RecordScored(time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scored++
}

func (r *recorder) RecordDropped(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dropped == nil {
		r.dropped = map[string]int{}
	}
	r.dropped[reason]++
}

func (r *recorder) RecordBatch(int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches++
}

func TestRankDropsPanicsAndTimeouts(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	matcher := &funcMatcher{fn: func(_, posting string) *matching.Result {
		switch {
		case strings.Contains(posting, "explode"):
			panic("malformed posting")
		case strings.Contains(posting, "hang"):
			<-release
		case strings.Contains(posting, "nothing"):
			return nil
		}
		return &matching.Result{OverallScore: 50}
	}}

	core, logs := observer.New(zapcore.WarnLevel)
	rec := &recorder{}
	r := New(matcher,
		WithTimeout(50*time.Millisecond),
		WithRecorder(rec),
		WithLogger(zap.New(core)),
		WithWorkers(4),
	)

	ranked, err := r.Rank(context.Background(), Request{
		CandidateID: "c",
		Resume:      candidateResume(),
		Postings: []*postings.Posting{
			{ID: "ok-1", Description: "fine"},
			{ID: "boom", Description: "explode"},
			{ID: "slow", Description: "hang"},
			{ID: "empty", Description: "nothing"},
			{ID: "ok-2", Description: "fine too"},
		},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"ok-1", "ok-2"}, ids(ranked))
	assert.Equal(t, 2, rec.scored)
	assert.Equal(t, 2, rec.dropped[metrics.ReasonPanic])
	assert.Equal(t, 1, rec.dropped[metrics.ReasonTimeout])
	assert.Equal(t, 1, rec.batches)
	assert.Equal(t, 3, logs.FilterMessage("dropping posting").Len())
}

func TestRankDuplicateIDs(t *testing.T) {
	matcher := &funcMatcher{fn: func(_, posting string) *matching.Result {
		return &matching.Result{OverallScore: float64(len(posting))}
	}}
	rec := &recorder{}
	r := New(matcher, WithRecorder(rec))

	ranked, err := r.Rank(context.Background(), Request{
		Resume: candidateResume(),
		Postings: []*postings.Posting{
			{ID: "x", Description: "first"},
			{ID: "x", Description: "second, longer"},
			nil,
			{ID: "y", Description: "y"},
		},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"x", "y"}, ids(ranked))
	assert.Equal(t, 5.0, ranked[0].OverallScore)
	assert.Equal(t, 1, rec.dropped[metrics.ReasonDuplicate])
}

type statusMap map[string]struct {
	status string
	err    error
}

func (s statusMap) Status(_ context.Context, _, postingID string) (string, error) {
	v, ok := s[postingID]
	if !ok {
		return "", store.ErrNotFound
	}
	return v.status, v.err
}

func TestRankStatuses(t *testing.T) {
	matcher := &funcMatcher{fn: func(string, string) *matching.Result { return &matching.Result{} }}
	statuses := statusMap{
		"applied": {status: postings.StatusApplied},
		"broken":  {err: errors.New("db down")},
		"blank":   {},
	}
	core, logs := observer.New(zapcore.WarnLevel)
	r := New(matcher, WithStatusProvider(statuses), WithLogger(zap.New(core)))

	ranked, err := r.Rank(context.Background(), Request{
		CandidateID: "c",
		Resume:      candidateResume(),
		Postings: []*postings.Posting{
			{ID: "applied"}, {ID: "broken"}, {ID: "blank"}, {ID: "unknown"},
		},
	})
	require.NoError(t, err)

	got := map[string]string{}
	for _, p := range ranked {
		got[p.ID] = p.ApplicationStatus
	}
	assert.Equal(t, map[string]string{
		"applied": postings.StatusApplied,
		"broken":  postings.StatusPending,
		"blank":   postings.StatusPending,
		"unknown": postings.StatusPending,
	}, got)
	assert.Equal(t, 1, logs.FilterMessage("application status lookup failed").Len())
}

func TestRankCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(newEngine(t))
	_, err := r.Rank(ctx, Request{Resume: candidateResume(), Postings: scenarioPostings()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, DefaultWorkers(), New(nil).Workers())
	assert.Equal(t, MaxWorkers, New(nil, WithWorkers(500)).Workers())
	assert.Equal(t, 3, New(nil, WithWorkers(3)).Workers())

	d := DefaultWorkers()
	assert.GreaterOrEqual(t, d, 4)
	assert.LessOrEqual(t, d, MaxWorkers)
}

func TestRankMatchesLowercasedPostingText(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	engine := newEngine(t)
	matcher := &funcMatcher{fn: func(profileText, postingText string) *matching.Result {
		mu.Lock()
		seen = append(seen, postingText)
		mu.Unlock()
		return engine.Match(profileText, postingText)
	}}

	r := New(matcher, WithClock(fixedClock))
	ranked, err := r.Rank(context.Background(), Request{
		CandidateID: "alice",
		Resume:      candidateResume(),
		Postings: []*postings.Posting{
			{ID: "R", Description: "<p>Knowledge of R 4.0 and Python required</p>", DatePosted: "2024-05-02"},
		},
	})
	require.NoError(t, err)
	require.Len(t, ranked, 1)

	assert.Equal(t, []string{"knowledge of r 4.0 and python required"}, seen)
	assert.Equal(t, extract.NoSalary, ranked[0].SalaryWithCurrency)
}

func TestRankSkipsNilPostings(t *testing.T) {
	input := []*postings.Posting{
		nil,
		{ID: "A", Description: "Python", DatePosted: "2024-05-01"},
		nil,
		{ID: "B", Description: "SQL", DatePosted: "2024-05-02"},
	}

	tests := []struct {
		name   string
		resume *profile.Resume
	}{
		{name: "without resume"},
		{name: "with resume", resume: candidateResume()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(newEngine(t), WithClock(fixedClock))
			ranked, err := r.Rank(context.Background(), Request{
				CandidateID: "alice",
				Resume:      tt.resume,
				Postings:    input,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ids(ranked); len(got) != 2 || got[0] != "B" || got[1] != "A" {
				t.Fatalf("expected [B A], got %v", got)
			}
		})
	}
}
