package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func TestYears(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		want  int
	}{
		{name: "none", want: 0},
		{name: "closed role", roles: []Role{{StartDate: "2018-03-01", EndDate: "2021-07-15"}}, want: 3},
		{name: "present", roles: []Role{{StartDate: "2020-01", EndDate: "Present"}}, want: 4},
		{name: "empty end", roles: []Role{{StartDate: "2022", EndDate: ""}}, want: 2},
		{name: "unparseable skipped", roles: []Role{
			{StartDate: "sometime", EndDate: "2020"},
			{StartDate: "2019-01-01", EndDate: "2020-12-31"},
		}, want: 1},
		{name: "sum", roles: []Role{
			{StartDate: "2015-01-01", EndDate: "2018-01-01"},
			{StartDate: "2018-02-01", EndDate: "present"},
		}, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Years(tt.roles, today); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSkills(t *testing.T) {
	r := &Resume{
		Skills: []string{"Python", "SQL", " sql ", ""},
		Projects: []Project{
			{Name: "etl", Technologies: []string{"Airflow", "python"}},
		},
	}

	assert.Equal(t, []string{"airflow", "python", "sql"}, Skills(r))
}

func TestBuild(t *testing.T) {
	r := &Resume{
		Skills:       []string{"SQL", "Python"},
		PersonalInfo: PersonalInfo{AboutMe: "  Backend developer who likes building pipelines. "},
		Experience:   []Role{{StartDate: "2021-01-01", EndDate: "present"}},
	}

	p := Build("cand-1", "Data Engineer", r, today)
	assert.Equal(t, "cand-1", p.CandidateID)
	assert.Equal(t, 3, p.Years)
	assert.Equal(t,
		"job title: data engineer\nBackend developer who likes building pipelines.\npython, sql\n3 years of experience",
		p.Description)
}

func TestBuildTitleFallback(t *testing.T) {
	r := &Resume{JobPreferences: &JobPreferences{Titles: []string{"Platform Engineer"}}}

	assert.Equal(t, "platform engineer", Build("c", "", r, today).JobTitle)
	assert.Equal(t, "sre", Build("c", "SRE", r, today).JobTitle)
	assert.Equal(t, "job title: \n\n\n0 years of experience", Build("c", "", nil, today).Description)
}
