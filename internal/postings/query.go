package postings

import "strings"

// Query selects postings from a store.
type Query struct {
	// Text must appear in the title or description, case-insensitively.
	Text     string `mapstructure:"text"`
	Location string `mapstructure:"location"`
	// Since is an ISO date; older postings are skipped.
	Since string `mapstructure:"since" validate:"omitempty,datetime=2006-01-02"`
	Limit int    `mapstructure:"limit" validate:"gte=0"`
}

// Matches reports whether p satisfies every set criterion except Limit.
func (q Query) Matches(p *Posting) bool {
	if q.Text != "" {
		text := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(p.Title), text) &&
			!strings.Contains(strings.ToLower(p.Description), text) {
			return false
		}
	}
	if q.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(q.Location)) {
		return false
	}
	if q.Since != "" && p.DatePosted < q.Since {
		return false
	}
	return true
}

// Apply filters items in order and truncates the result to Limit.
func (q Query) Apply(items []*Posting) []*Posting {
	out := make([]*Posting, 0, len(items))
	for _, p := range items {
		if !q.Matches(p) {
			continue
		}
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}
