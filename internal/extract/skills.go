// Package extract pulls skills, required years and salary strings out of
// free text.
package extract

import (
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/jobrank/internal/catalog"
	"github.com/spigell/jobrank/internal/utils"
)

const (
	// entityWindow is the number of runes handed to the entity recognizer.
	entityWindow = 10000
	// minEntityLen is the exclusive lower bound on entity length in runes.
	minEntityLen = 2
	// logTextLimit bounds text echoed into debug logs.
	logTextLimit = 120
)

// DefaultEntityLabels are the recognizer labels treated as skills.
var DefaultEntityLabels = []string{"ORG", "PRODUCT"}

// Entity is a labelled span found by an EntityRecognizer.
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer finds named entities in text.
type EntityRecognizer interface {
	Entities(text string) ([]Entity, error)
}

// SkillExtractor matches catalog skills and, optionally, recognized entities.
// It holds no mutable state and is safe for concurrent use.
type SkillExtractor struct {
	catalog    *catalog.Catalog
	recognizer EntityRecognizer
	labels     map[string]struct{}
	logger     *zap.Logger
}

// Option configures a SkillExtractor.
type Option func(*SkillExtractor)

// WithRecognizer enables the entity pass. Empty labels select
// DefaultEntityLabels.
func WithRecognizer(r EntityRecognizer, labels ...string) Option {
	return func(s *SkillExtractor) {
		s.recognizer = r
		if len(labels) == 0 {
			labels = DefaultEntityLabels
		}
		s.labels = make(map[string]struct{}, len(labels))
		for _, l := range labels {
			s.labels[strings.ToUpper(strings.TrimSpace(l))] = struct{}{}
		}
	}
}

// WithLogger sets the logger used for recognizer failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *SkillExtractor) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSkillExtractor returns an extractor over c, or over the default catalog
// when c is nil.
func NewSkillExtractor(c *catalog.Catalog, opts ...Option) *SkillExtractor {
	if c == nil {
		c = catalog.Default()
	}

	s := &SkillExtractor{
		catalog: c,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Skills returns the sorted set of skills mentioned in text.
func (s *SkillExtractor) Skills(text string) []string {
	found := make(map[string]struct{})
	for _, skill := range s.catalog.Match(strings.ToLower(text)) {
		found[skill] = struct{}{}
	}

	if s.recognizer != nil {
		for _, skill := range s.entities(text) {
			found[skill] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for skill := range found {
		out = append(out, skill)
	}
	sort.Strings(out)

	return out
}

func (s *SkillExtractor) entities(text string) []string {
	entities, err := s.recognizer.Entities(utils.TruncateRunes(text, entityWindow))
	if err != nil {
		s.logger.Debug("entity recognition failed",
			zap.Error(err),
			zap.String("text", utils.TruncateForLog(text, logTextLimit)),
		)
		return nil
	}

	var out []string
	for _, e := range entities {
		if _, ok := s.labels[e.Label]; !ok {
			continue
		}
		skill := strings.ToLower(strings.TrimSpace(e.Text))
		if utf8.RuneCountInString(skill) <= minEntityLen {
			continue
		}
		out = append(out, skill)
	}

	return out
}
