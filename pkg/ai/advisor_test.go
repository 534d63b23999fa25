package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	text   string
	err    error
	calls  int
	prompt string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.text, s.err
}

const sampleAnalysis = `{
  "summary": "Strong STEM profile with room to grow in leadership.",
  "strengths": ["Math", "Robotics"],
  "gaps": ["Leadership"],
  "suggested_majors": ["Computer Science"],
  "suggested_careers": ["Software Engineer"],
  "recommended_activities": ["Start a coding club"]
}`

func TestBuildCareerPrompt(t *testing.T) {
	prompt := BuildCareerPrompt(StudentProfile{
		GPA:            3.8,
		TestScores:     map[string]int{"SAT": 1480, "IELTS": 8},
		Interests:      []string{"robotics", "math"},
		IntendedMajors: []string{"Computer Science"},
	})

	assert.Contains(t, prompt, "GPA: 3.80 / 4.0")
	assert.Contains(t, prompt, "Test scores: IELTS 8, SAT 1480")
	assert.Contains(t, prompt, "Interests: robotics, math")
	assert.Contains(t, prompt, "Intended majors: Computer Science")
	assert.NotContains(t, prompt, "Target regions")
}

func TestParseCareerAnalysis(t *testing.T) {
	for name, text := range map[string]string{
		"plain":  sampleAnalysis,
		"fenced": "```json\n" + sampleAnalysis + "\n```",
		"prose":  "Here is the analysis:\n" + sampleAnalysis + "\nGood luck!",
	} {
		t.Run(name, func(t *testing.T) {
			analysis, err := ParseCareerAnalysis(text)
			require.NoError(t, err)
			assert.Equal(t, "Strong STEM profile with room to grow in leadership.", analysis.Summary)
			assert.Equal(t, []string{"Computer Science"}, analysis.SuggestedMajors)
			assert.Equal(t, []string{"Start a coding club"}, analysis.RecommendedActivities)
		})
	}

	_, err := ParseCareerAnalysis("I cannot help with that.")
	assert.Error(t, err)
	_, err = ParseCareerAnalysis(`{"strengths": ["x"]}`)
	assert.Error(t, err)
}

func TestAdvisorAnalyzeProfile(t *testing.T) {
	gen := &stubGenerator{text: sampleAnalysis}
	analysis, err := NewCareerAdvisor(gen).AnalyzeProfile(context.Background(), StudentProfile{GPA: 3.5})

	require.NoError(t, err)
	assert.Equal(t, []string{"Software Engineer"}, analysis.SuggestedCareers)
	assert.Contains(t, gen.prompt, "GPA: 3.50")

	_, err = NewCareerAdvisor(&stubGenerator{err: errors.New("boom")}).AnalyzeProfile(context.Background(), StudentProfile{})
	assert.EqualError(t, err, "boom")
}
