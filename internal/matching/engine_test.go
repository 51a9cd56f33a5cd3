package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobrank/internal/extract"
	"github.com/spigell/jobrank/internal/similarity"
	"github.com/spigell/jobrank/internal/textnorm"
)

type fakeScorer struct {
	tfidf         float64
	semantic      float64
	semanticCalls int
}

func (f *fakeScorer) TFIDF(string, string) float64 { return f.tfidf }

func (f *fakeScorer) Semantic(string, string) float64 {
	f.semanticCalls++
	return f.semantic
}

func TestExperienceMatch(t *testing.T) {
	tests := []struct {
		candidate, required int
		want                float64
	}{
		{5, 5, 1.0},
		{7, 5, 1.0},
		{4, 5, 0.8},
		{3, 5, 0.5},
		{1, 5, 0.2},
		{0, 0, 1.0},
		{10, 0, 1.0},
		{0, 3, 0.2},
	}

	for _, tt := range tests {
		if got := ExperienceMatch(tt.candidate, tt.required); got != tt.want {
			t.Fatalf("ExperienceMatch(%d, %d) = %v, want %v", tt.candidate, tt.required, got, tt.want)
		}
	}
}

func TestSkillMatch(t *testing.T) {
	score, matched, missing := SkillMatch([]string{"python", "sql", "go"}, []string{"sql", "python", "aws"})
	assert.InDelta(t, 2.0/3.0, score, 1e-12)
	assert.Equal(t, []string{"python", "sql"}, matched)
	assert.Equal(t, []string{"aws"}, missing)

	score, matched, missing = SkillMatch([]string{"python"}, nil)
	assert.Equal(t, 0.0, score)
	assert.Empty(t, matched)
	assert.Empty(t, missing)
	assert.NotNil(t, matched)

	score, _, missing = SkillMatch(nil, []string{"java"})
	assert.Equal(t, 0.0, score)
	assert.Equal(t, []string{"java"}, missing)
}

func TestFuse(t *testing.T) {
	assert.Equal(t, 100.0, Fuse(Components{TFIDF: 1, Semantic: 1, Skill: 1, Experience: 1}))
	assert.Equal(t, 0.0, Fuse(Components{}))
	assert.Equal(t, 15.0, Fuse(Components{Experience: 1}))
	assert.Equal(t, 35.0, Fuse(Components{Skill: 1}))
	assert.Equal(t, 33.33, Fuse(Components{TFIDF: 1.0 / 3, Semantic: 1.0 / 3, Skill: 1.0 / 3, Experience: 1.0 / 3}))
	assert.InDelta(t, 1.0, WeightTFIDF+WeightSemantic+WeightSkill+WeightExperience, 1e-12)

	base := Components{TFIDF: 0.2, Semantic: 0.3, Skill: 0.4, Experience: 0.5}
	raise := []func(c *Components){
		func(c *Components) { c.TFIDF += 0.1 },
		func(c *Components) { c.Semantic += 0.1 },
		func(c *Components) { c.Skill += 0.1 },
		func(c *Components) { c.Experience += 0.1 },
	}
	for i, r := range raise {
		c := base
		r(&c)
		if Fuse(c) <= Fuse(base) {
			t.Fatalf("component %d: raising it did not raise the overall score", i)
		}
	}
}

func TestMatchShortCircuit(t *testing.T) {
	scorer := &fakeScorer{tfidf: 0.1, semantic: 0.9}
	e := New(extract.NewSkillExtractor(nil), scorer)

	r := e.Match("python developer", "Java developer wanted. 5 years of experience.")
	assert.False(t, r.SemanticExact)
	assert.Equal(t, 0, scorer.semanticCalls)
	assert.Equal(t, 8.0, r.SemanticSimilarity)
	assert.Equal(t, 10.0, r.TFIDFSimilarity)
	assert.Equal(t, 0.0, r.SkillMatchScore)
	assert.Equal(t, 20.0, r.ExperienceMatchScore)
	assert.Equal(t, 5, r.JobRequiredYears)
	assert.Equal(t, 0, r.ResumeYears)
	assert.Equal(t, Fuse(Components{TFIDF: 0.1, Semantic: 0.08, Experience: 0.2}), r.OverallScore)
}

func TestMatchExactSemantic(t *testing.T) {
	scorer := &fakeScorer{tfidf: 0.4, semantic: 0.9}
	e := New(extract.NewSkillExtractor(nil), scorer)

	r := e.Match("python sql\n6 years of experience", "Python and SQL. 5+ years of experience. Salary: $90,000")
	assert.True(t, r.SemanticExact)
	assert.Equal(t, 1, scorer.semanticCalls)
	assert.Equal(t, 90.0, r.SemanticSimilarity)
	assert.Equal(t, 100.0, r.SkillMatchScore)
	assert.Equal(t, 6, r.ResumeYears)
	assert.Equal(t, "$90,000", r.SalaryWithCurrency)
	assert.Equal(t, []string{"python", "sql"}, r.MatchedSkills)
	assert.Empty(t, r.MissingSkills)
}

func TestMatchAlwaysPolicy(t *testing.T) {
	scorer := &fakeScorer{tfidf: 0, semantic: 0.3}
	e := New(extract.NewSkillExtractor(nil), scorer, WithPolicy(SemanticAlways))

	r := e.Match("", "")
	assert.True(t, r.SemanticExact)
	assert.Equal(t, 30.0, r.SemanticSimilarity)
}

func TestMatchEmptyPosting(t *testing.T) {
	e := New(extract.NewSkillExtractor(nil), &fakeScorer{})

	r := e.Match("python sql\n3 years of experience", "")
	require.NotNil(t, r)
	assert.Equal(t, 15.0, r.OverallScore)
	assert.Equal(t, extract.NoSalary, r.SalaryWithCurrency)
	assert.Empty(t, r.JobSkills)
	assert.Equal(t, 0, r.JobRequiredYears)
}

func TestMatchSetInvariants(t *testing.T) {
	n, err := textnorm.New(textnorm.WithLemmatizer(identity{}))
	require.NoError(t, err)
	e := New(extract.NewSkillExtractor(nil), similarity.New(n, nil))

	r := e.Match(
		"job title: data engineer\npython, sql, docker\n4 years of experience",
		"<b>Data engineer</b>: Python, SQL, AWS, Kubernetes. 5+ years of experience.",
	)

	resume := toSet(r.ResumeSkills)
	job := toSet(r.JobSkills)
	for _, s := range r.MatchedSkills {
		assert.Contains(t, resume, s)
		assert.Contains(t, job, s)
	}
	for _, s := range r.MissingSkills {
		assert.NotContains(t, resume, s)
		assert.Contains(t, job, s)
	}
	assert.Equal(t, len(r.JobSkills), len(r.MatchedSkills)+len(r.MissingSkills))

	for _, v := range []float64{r.OverallScore, r.TFIDFSimilarity, r.SemanticSimilarity, r.SkillMatchScore, r.ExperienceMatchScore} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.Equal(t, 80.0, r.ExperienceMatchScore)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, SemanticShortCircuit, p)

	p, err = ParsePolicy(" Always ")
	require.NoError(t, err)
	assert.Equal(t, SemanticAlways, p)

	_, err = ParsePolicy("sometimes")
	assert.Error(t, err)
}

type identity struct{}

func (identity) Lemma(word string) string { return word }

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}
