package ai

import "context"

// StudentProfile is what a student tells us about themselves (shared type)
type StudentProfile struct {
	GPA              float64        `json:"gpa"`
	GPAScale         float64        `json:"gpa_scale,omitempty"` // Defaults to 4.0
	TestScores       map[string]int `json:"test_scores,omitempty"`
	Interests        []string       `json:"interests,omitempty"`
	Extracurriculars []string       `json:"extracurriculars,omitempty"`
	IntendedMajors   []string       `json:"intended_majors,omitempty"`
	TargetRegions    []string       `json:"target_regions,omitempty"`
	Notes            string         `json:"notes,omitempty"`
}

// CareerAnalysis is the structured advice returned by a provider (shared type)
type CareerAnalysis struct {
	Summary               string   `json:"summary"`
	Strengths             []string `json:"strengths"`
	Gaps                  []string `json:"gaps"`
	SuggestedMajors       []string `json:"suggested_majors"`
	SuggestedCareers      []string `json:"suggested_careers"`
	RecommendedActivities []string `json:"recommended_activities"`
}

// Generator turns a prompt into raw model text.
// Implement this interface to add new AI providers (Gemini, Ollama, OpenAI, etc.)
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CareerAdvisor analyzes a student profile
type CareerAdvisor interface {
	AnalyzeProfile(ctx context.Context, profile StudentProfile) (*CareerAnalysis, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
