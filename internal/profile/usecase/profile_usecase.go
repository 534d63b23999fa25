package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"admissions-backend/internal/profile/domain"
	"admissions-backend/internal/profile/dto"
	"admissions-backend/internal/profile/repository"
	"admissions-backend/pkg/ai"
	"admissions-backend/pkg/metrics"
)

const defaultHistoryLimit = 20

// ProfileUsecase defines the interface for career analysis
type ProfileUsecase interface {
	Analyze(ctx context.Context, userID string, req *dto.AnalyzeProfileRequest) (*domain.ProfileAnalysis, error)
	History(userID string, limit int) ([]*domain.ProfileAnalysis, error)
	Get(userID, id string) (*domain.ProfileAnalysis, error)
}

type profileUsecase struct {
	repo    repository.AnalysisRepository
	advisor ai.CareerAdvisor
}

func NewProfileUsecase(repo repository.AnalysisRepository, advisor ai.CareerAdvisor) ProfileUsecase {
	return &profileUsecase{repo: repo, advisor: advisor}
}

func (u *profileUsecase) Analyze(ctx context.Context, userID string, req *dto.AnalyzeProfileRequest) (*domain.ProfileAnalysis, error) {
	profile, err := toProfile(req)
	if err != nil {
		return nil, err
	}

	analysis, err := u.advisor.AnalyzeProfile(ctx, profile)
	if err != nil {
		metrics.ProfileAnalyses.WithLabelValues("error").Inc()
		log.Printf("[AI] Career analysis failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}
	metrics.ProfileAnalyses.WithLabelValues("ok").Inc()

	record := &domain.ProfileAnalysis{
		UserID:   userID,
		Profile:  profile,
		Analysis: *analysis,
	}
	if err := u.repo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return record, nil
}

func (u *profileUsecase) History(userID string, limit int) ([]*domain.ProfileAnalysis, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}
	return u.repo.ListByUser(userID, limit)
}

func (u *profileUsecase) Get(userID, id string) (*domain.ProfileAnalysis, error) {
	analysis, err := u.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	// other users' analyses are reported as missing
	if analysis == nil || analysis.UserID != userID {
		return nil, domain.ErrAnalysisNotFound
	}
	return analysis, nil
}

func toProfile(req *dto.AnalyzeProfileRequest) (ai.StudentProfile, error) {
	scale := req.GPAScale
	if scale <= 0 {
		scale = 4.0
	}
	if req.GPA < 0 || req.GPA > scale {
		return ai.StudentProfile{}, fmt.Errorf("%w: gpa must be between 0 and %.1f", domain.ErrInvalidProfile, scale)
	}
	for name, score := range req.TestScores {
		if score < 0 {
			return ai.StudentProfile{}, fmt.Errorf("%w: negative %s score", domain.ErrInvalidProfile, name)
		}
	}

	profile := ai.StudentProfile{
		GPA:              req.GPA,
		GPAScale:         scale,
		TestScores:       req.TestScores,
		Interests:        cleanList(req.Interests),
		Extracurriculars: cleanList(req.Extracurriculars),
		IntendedMajors:   cleanList(req.IntendedMajors),
		TargetRegions:    cleanList(req.TargetRegions),
		Notes:            strings.TrimSpace(req.Notes),
	}
	if len(profile.Interests) == 0 && len(profile.IntendedMajors) == 0 {
		return ai.StudentProfile{}, fmt.Errorf("%w: add at least one interest or intended major", domain.ErrInvalidProfile)
	}
	return profile, nil
}

func cleanList(items []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
