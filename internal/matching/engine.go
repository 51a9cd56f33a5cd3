// Package matching scores a single posting against a candidate description.
package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/jobrank/internal/extract"
	"github.com/spigell/jobrank/internal/similarity"
)

// SemanticPolicy decides when the embedding similarity is computed.
type SemanticPolicy string

const (
	// SemanticShortCircuit computes the embedding similarity only for pairs
	// whose cheap components average above the threshold and approximates it
	// from the TF-IDF score otherwise.
	SemanticShortCircuit SemanticPolicy = "short-circuit"
	// SemanticAlways computes the embedding similarity for every pair.
	SemanticAlways SemanticPolicy = "always"
)

const (
	shortCircuitThreshold = 0.5
	approximationFactor   = 0.8
)

// ParsePolicy parses a policy name. The empty string selects
// SemanticShortCircuit.
func ParsePolicy(name string) (SemanticPolicy, error) {
	switch SemanticPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", SemanticShortCircuit:
		return SemanticShortCircuit, nil
	case SemanticAlways:
		return SemanticAlways, nil
	default:
		return "", fmt.Errorf("unknown semantic policy %q", name)
	}
}

// Scorer is the text similarity backend used by the Engine.
type Scorer interface {
	TFIDF(a, b string) float64
	Semantic(a, b string) float64
}

var _ Scorer = (*similarity.Scorer)(nil)

// Engine matches candidate descriptions to posting descriptions. It is
// stateless apart from its shared read-only collaborators.
type Engine struct {
	skills *extract.SkillExtractor
	scorer Scorer
	policy SemanticPolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy sets the semantic policy.
func WithPolicy(p SemanticPolicy) Option {
	return func(e *Engine) {
		if p != "" {
			e.policy = p
		}
	}
}

// New returns an Engine.
func New(skills *extract.SkillExtractor, scorer Scorer, opts ...Option) *Engine {
	e := &Engine{
		skills: skills,
		scorer: scorer,
		policy: SemanticShortCircuit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match scores postingText against profileText. Text without any extractable
// signal still yields a valid low-scoring Result.
func (e *Engine) Match(profileText, postingText string) *Result {
	resumeSkills := e.skills.Skills(profileText)
	jobSkills := e.skills.Skills(postingText)
	resumeYears := extract.Years(profileText)
	jobYears := extract.Years(postingText)
	salary := extract.Salary(postingText)

	skill, matched, missing := SkillMatch(resumeSkills, jobSkills)
	experience := ExperienceMatch(resumeYears, jobYears)
	tfidf := e.scorer.TFIDF(profileText, postingText)

	var semantic float64
	exact := e.policy == SemanticAlways || (skill+experience+tfidf)/3 > shortCircuitThreshold
	if exact {
		semantic = e.scorer.Semantic(profileText, postingText)
	} else {
		semantic = tfidf * approximationFactor
	}

	c := Components{TFIDF: tfidf, Semantic: semantic, Skill: skill, Experience: experience}

	return &Result{
		OverallScore:         Fuse(c),
		TFIDFSimilarity:      percent(tfidf),
		SemanticSimilarity:   percent(semantic),
		SkillMatchScore:      percent(skill),
		ExperienceMatchScore: percent(experience),
		ResumeSkills:         resumeSkills,
		JobSkills:            jobSkills,
		MatchedSkills:        matched,
		MissingSkills:        missing,
		ResumeYears:          resumeYears,
		JobRequiredYears:     jobYears,
		SalaryWithCurrency:   salary,
		SemanticExact:        exact,
	}
}

// SkillMatch returns the share of posting skills the candidate has, along
// with the sorted matched and missing skills. An empty posting set scores 0.
func SkillMatch(candidate, posting []string) (float64, []string, []string) {
	have := make(map[string]struct{}, len(candidate))
	for _, s := range candidate {
		have[s] = struct{}{}
	}

	want := make(map[string]struct{}, len(posting))
	matched := []string{}
	missing := []string{}
	for _, s := range posting {
		if _, dup := want[s]; dup {
			continue
		}
		want[s] = struct{}{}

		if _, ok := have[s]; ok {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	if len(want) == 0 {
		return 0, matched, missing
	}
	return float64(len(matched)) / float64(len(want)), matched, missing
}

// ExperienceMatch scores candidate years against required years on a tiered
// curve. No requirement means full credit.
func ExperienceMatch(candidate, required int) float64 {
	c, r := float64(candidate), float64(required)
	switch {
	case required == 0, c >= r:
		return 1.0
	case c >= 0.7*r:
		return 0.8
	case c >= 0.5*r:
		return 0.5
	default:
		return 0.2
	}
}
