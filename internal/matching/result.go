package matching

import "math"

// Fusion weights. They sum to 1.
const (
	WeightTFIDF      = 0.25
	WeightSemantic   = 0.25
	WeightSkill      = 0.35
	WeightExperience = 0.15
)

// Components are the four per-pair scores, each in [0,1].
type Components struct {
	TFIDF      float64
	Semantic   float64
	Skill      float64
	Experience float64
}

// Fuse combines c with the fixed weights and returns the overall score in
// [0,100], rounded to two decimals.
func Fuse(c Components) float64 {
	overall := WeightTFIDF*c.TFIDF +
		WeightSemantic*c.Semantic +
		WeightSkill*c.Skill +
		WeightExperience*c.Experience
	return percent(overall)
}

// Result describes how well one posting matches one candidate.
type Result struct {
	OverallScore         float64  `json:"overall_score"`
	TFIDFSimilarity      float64  `json:"tfidf_similarity"`
	SemanticSimilarity   float64  `json:"semantic_similarity"`
	SkillMatchScore      float64  `json:"skill_match_score"`
	ExperienceMatchScore float64  `json:"experience_match_score"`
	ResumeSkills         []string `json:"resume_skills"`
	JobSkills            []string `json:"job_skills"`
	MatchedSkills        []string `json:"matched_skills"`
	MissingSkills        []string `json:"missing_skills"`
	ResumeYears          int      `json:"resume_years"`
	JobRequiredYears     int      `json:"job_required_years"`
	SalaryWithCurrency   string   `json:"salary_with_currency"`
	SemanticExact        bool     `json:"semantic_exact"`
}

func percent(v float64) float64 {
	return math.Round(v*100*100) / 100
}
