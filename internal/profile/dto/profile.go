package dto

type AnalyzeProfileRequest struct {
	GPA              float64        `json:"gpa" binding:"gte=0"`
	GPAScale         float64        `json:"gpa_scale"`
	TestScores       map[string]int `json:"test_scores"`
	Interests        []string       `json:"interests"`
	Extracurriculars []string       `json:"extracurriculars"`
	IntendedMajors   []string       `json:"intended_majors"`
	TargetRegions    []string       `json:"target_regions"`
	Notes            string         `json:"notes"`
}
