// Package postings holds job posting records and the collection helpers used
// around ranking.
package postings

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spigell/jobrank/internal/matching"
)

const (
	IDField      = "ID"
	CompanyField = "Company"
)

// Posting is a job posting. Experience and Salary are the strings the job
// source already published, if any, and pass through ranking untouched. The
// embedded Result and ApplicationStatus are filled by the ranker.
type Posting struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	DatePosted  string `json:"date_posted,omitempty"`
	Experience  string `json:"experience,omitempty"`
	Salary      string `json:"salary,omitempty"`

	*matching.Result
	ApplicationStatus string `json:"application_status,omitempty"`
}

// Score returns the overall score, or 0 for an unranked posting.
func (p *Posting) Score() float64 {
	if p.Result == nil {
		return 0
	}
	return p.OverallScore
}

func (p *Posting) GetStringField(name string) string {
	switch name {
	case IDField:
		return p.ID
	case CompanyField:
		return p.Company
	default:
		return ""
	}
}

type Postings struct {
	Items []*Posting `json:"items"`
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) FindByID(id string) *Posting {
	for _, item := range p.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Exclude removes every posting whose field matches one of targets,
// case-insensitively, keeping the order of the rest. It returns the removed
// IDs.
func (p *Postings) Exclude(field string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		set[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}

	var excluded []string
	kept := p.Items[:0]
	for _, item := range p.Items {
		if _, ok := set[strings.ToLower(item.GetStringField(field))]; ok {
			excluded = append(excluded, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	for i := len(kept); i < len(p.Items); i++ {
		p.Items[i] = nil
	}
	p.Items = kept

	return excluded
}

// SortByDate orders postings by date posted, newest first, keeping the input
// order for equal dates.
func (p *Postings) SortByDate() {
	sort.SliceStable(p.Items, func(i, j int) bool {
		return p.Items[i].DatePosted > p.Items[j].DatePosted
	})
}

// SortByDateAndScore orders postings by date posted, newest first, then by
// overall score, highest first.
func (p *Postings) SortByDateAndScore() {
	sort.SliceStable(p.Items, func(i, j int) bool {
		a, b := p.Items[i], p.Items[j]
		if a.DatePosted != b.DatePosted {
			return a.DatePosted > b.DatePosted
		}
		return a.Score() > b.Score()
	})
}

func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByCompany groups a short summary of every posting by company.
func (p *Postings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range p.Items {
		key := item.Company
		if key == "" {
			key = "unknown company"
		}

		entry := map[string]string{
			"title":    item.Title,
			"url":      item.URL,
			"location": item.Location,
			"posted":   item.DatePosted,
		}
		if item.ApplicationStatus != "" {
			entry["status"] = item.ApplicationStatus
		}
		if item.Salary != "" {
			entry["salary"] = item.Salary
		}
		if item.Result != nil {
			entry["score"] = fmt.Sprintf("%.2f", item.OverallScore)
			if item.Salary == "" {
				entry["salary"] = item.SalaryWithCurrency
			}
			entry["matched skills"] = strings.Join(item.MatchedSkills, ", ")
			entry["missing skills"] = strings.Join(item.MissingSkills, ", ")
		}

		report[key] = append(report[key], entry)
	}
	return report
}
