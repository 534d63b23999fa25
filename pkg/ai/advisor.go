package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type advisor struct {
	gen Generator
}

// NewCareerAdvisor builds a CareerAdvisor on top of any Generator
func NewCareerAdvisor(gen Generator) CareerAdvisor {
	return &advisor{gen: gen}
}

func (a *advisor) AnalyzeProfile(ctx context.Context, profile StudentProfile) (*CareerAnalysis, error) {
	text, err := a.gen.Generate(ctx, BuildCareerPrompt(profile))
	if err != nil {
		return nil, err
	}
	return ParseCareerAnalysis(text)
}

// BuildCareerPrompt renders the profile into the analysis prompt.
func BuildCareerPrompt(p StudentProfile) string {
	scale := p.GPAScale
	if scale <= 0 {
		scale = 4.0
	}

	var b strings.Builder
	b.WriteString("You are an experienced university admissions and career counselor.\n")
	b.WriteString("Analyze the student profile below and answer with ONE JSON object, no other text, using exactly these keys:\n")
	b.WriteString(`{"summary": string, "strengths": [string], "gaps": [string], "suggested_majors": [string], "suggested_careers": [string], "recommended_activities": [string]}`)
	b.WriteString("\nKeep every list to at most 5 short items. Be concrete and encouraging.\n\n")
	b.WriteString("STUDENT PROFILE:\n")
	fmt.Fprintf(&b, "- GPA: %.2f / %.1f\n", p.GPA, scale)

	if len(p.TestScores) > 0 {
		names := make([]string, 0, len(p.TestScores))
		for name := range p.TestScores {
			names = append(names, name)
		}
		sort.Strings(names)
		scores := make([]string, 0, len(names))
		for _, name := range names {
			scores = append(scores, fmt.Sprintf("%s %d", name, p.TestScores[name]))
		}
		fmt.Fprintf(&b, "- Test scores: %s\n", strings.Join(scores, ", "))
	}
	writeList(&b, "Interests", p.Interests)
	writeList(&b, "Extracurricular activities", p.Extracurriculars)
	writeList(&b, "Intended majors", p.IntendedMajors)
	writeList(&b, "Target regions", p.TargetRegions)
	if notes := strings.TrimSpace(p.Notes); notes != "" {
		fmt.Fprintf(&b, "- Additional notes: %s\n", notes)
	}
	b.WriteString("\nJSON OUTPUT:")
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(items, ", "))
}

// ParseCareerAnalysis extracts the JSON object from model output, tolerating
// markdown code fences and surrounding prose.
func ParseCareerAnalysis(text string) (*CareerAnalysis, error) {
	responseText := strings.TrimSpace(text)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
	}

	jsonStart := strings.Index(responseText, "{")
	jsonEnd := strings.LastIndex(responseText, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var analysis CareerAnalysis
	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	if strings.TrimSpace(analysis.Summary) == "" {
		return nil, fmt.Errorf("analysis has no summary")
	}
	return &analysis, nil
}
