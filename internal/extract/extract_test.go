package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestYears(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "5+ years of experience in backend development", want: 5},
		{text: "Experience: 3 years with Go", want: 3},
		{text: "experience of 7 yrs in retail", want: 7},
		{text: "a 4-year experience is a plus", want: 4},
		{text: "Candidates having 6 years exp preferred", want: 6},
		{text: "worked for 2 years at a startup", want: 2},
		{text: "3 years of experience required, ideally 8+ years of experience", want: 8},
		{text: "We value curiosity and ownership.", want: 0},
		{text: "", want: 0},
	}

	for _, tt := range tests {
		if got := Years(tt.text); got != tt.want {
			t.Fatalf("Years(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestSalary(t *testing.T) {
	got := Salary("Salary: $80,000 - $100,000 per year")
	assert.NotEqual(t, NoSalary, got)
	assert.Contains(t, got, "80,000")
	assert.Contains(t, got, "100,000")

	assert.Equal(t, "€50k", Salary("Pay is €50k plus bonus"))
	assert.Equal(t, NoSalary, Salary("Competitive compensation and a friendly team."))
	assert.Equal(t, NoSalary, Salary(""))
}

func TestSkillsCatalogOnly(t *testing.T) {
	s := NewSkillExtractor(nil)

	got := s.Skills("We need Python, SQL and AWS skills. Docker is a plus; NoSQL is not.")
	assert.Equal(t, []string{"aws", "docker", "nosql", "python", "sql"}, got)
	assert.Empty(t, s.Skills("Friendly team, free lunch."))
}

type fakeRecognizer struct {
	entities []Entity
	err      error
	seen     string
}

func (f *fakeRecognizer) Entities(text string) ([]Entity, error) {
	f.seen = text
	return f.entities, f.err
}

func TestSkillsWithEntities(t *testing.T) {
	rec := &fakeRecognizer{entities: []Entity{
		{Text: " Snowplow ", Label: "PRODUCT"},
		{Text: "Acme Corp", Label: "ORG"},
		{Text: "IO", Label: "ORG"},
		{Text: "Berlin", Label: "GPE"},
	}}
	s := NewSkillExtractor(nil, WithRecognizer(rec))

	got := s.Skills("Acme Corp in Berlin uses Snowplow and Go")
	assert.Equal(t, []string{"acme corp", "go", "snowplow"}, got)
}

func TestSkillsCustomLabels(t *testing.T) {
	rec := &fakeRecognizer{entities: []Entity{
		{Text: "Berlin", Label: "GPE"},
		{Text: "Acme", Label: "ORG"},
	}}
	s := NewSkillExtractor(nil, WithRecognizer(rec, "gpe"))

	assert.Equal(t, []string{"berlin"}, s.Skills("Berlin"))
}

func TestSkillsEntityWindow(t *testing.T) {
	rec := &fakeRecognizer{}
	s := NewSkillExtractor(nil, WithRecognizer(rec))

	s.Skills(strings.Repeat("é", entityWindow+50))
	assert.Equal(t, entityWindow, len([]rune(rec.seen)))
}

func TestSkillsRecognizerErrorIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := &fakeRecognizer{err: errors.New("boom")}
	s := NewSkillExtractor(nil, WithRecognizer(rec), WithLogger(zap.New(core)))

	assert.Equal(t, []string{"python"}, s.Skills("python"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "entity recognition failed", logs.All()[0].Message)
}
