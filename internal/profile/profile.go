package profile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Profile is the read-only candidate view built once per ranking request.
type Profile struct {
	CandidateID string
	JobTitle    string
	Skills      []string
	Summary     string
	Years       int
	Description string
}

// Build derives a Profile from r. now resolves ongoing roles. An empty
// jobTitle falls back to the first preferred title of the resume.
func Build(candidateID, jobTitle string, r *Resume, now time.Time) *Profile {
	if r == nil {
		r = &Resume{}
	}

	title := strings.ToLower(strings.TrimSpace(jobTitle))
	if title == "" && r.JobPreferences != nil && len(r.JobPreferences.Titles) > 0 {
		title = strings.ToLower(strings.TrimSpace(r.JobPreferences.Titles[0]))
	}

	p := &Profile{
		CandidateID: candidateID,
		JobTitle:    title,
		Skills:      Skills(r),
		Summary:     strings.TrimSpace(r.PersonalInfo.AboutMe),
		Years:       Years(r.Experience, now),
	}
	p.Description = fmt.Sprintf("job title: %s\n%s\n%s\n%d years of experience",
		p.JobTitle, p.Summary, strings.Join(p.Skills, ", "), p.Years)

	return p
}

// Skills returns the case-folded, sorted union of resume skills and project
// technologies.
func Skills(r *Resume) []string {
	set := make(map[string]struct{})
	add := func(items []string) {
		for _, s := range items {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" {
				set[s] = struct{}{}
			}
		}
	}

	add(r.Skills)
	for _, p := range r.Projects {
		add(p.Technologies)
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)

	return out
}

// Years sums end year minus start year over all roles. Roles whose dates do
// not start with a year are skipped.
func Years(roles []Role, now time.Time) int {
	total := 0
	for _, role := range roles {
		end := strings.TrimSpace(role.EndDate)
		if end == "" || strings.EqualFold(end, "present") {
			end = now.Format(time.DateOnly)
		}

		startYear, err := leadingYear(role.StartDate)
		if err != nil {
			continue
		}
		endYear, err := leadingYear(end)
		if err != nil {
			continue
		}
		total += endYear - startYear
	}

	return total
}

func leadingYear(date string) (int, error) {
	year, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	return strconv.Atoi(year)
}
