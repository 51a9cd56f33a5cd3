// Package profile turns a stored resume into the candidate view used for
// matching.
package profile

// Resume is the stored candidate document. Field names follow the JSON
// documents kept by the profile stores.
type Resume struct {
	Skills         []string        `json:"skills"`
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Experience     []Role          `json:"experience"`
	Projects       []Project       `json:"projects"`
	JobPreferences *JobPreferences `json:"job_preferences,omitempty"`
}

type PersonalInfo struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	AboutMe string `json:"about_me"`
}

// Role is one position. EndDate is empty or "present" for an ongoing role.
type Role struct {
	Title     string `json:"title,omitempty"`
	Company   string `json:"company,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type Project struct {
	Name         string   `json:"name,omitempty"`
	Technologies []string `json:"technologies"`
}

type JobPreferences struct {
	Titles    []string `json:"titles,omitempty"`
	Locations []string `json:"locations,omitempty"`
}
