package repository

import (
	"errors"
	"time"

	"admissions-backend/internal/profile/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalysisRepository persists career analyses
type AnalysisRepository interface {
	Create(analysis *domain.ProfileAnalysis) error
	FindByID(id string) (*domain.ProfileAnalysis, error)
	ListByUser(userID string, limit int) ([]*domain.ProfileAnalysis, error)
}

type gormAnalysisRepository struct {
	db *gorm.DB
}

func NewGormAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &gormAnalysisRepository{db: db}
}

func (r *gormAnalysisRepository) Create(analysis *domain.ProfileAnalysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.New().String()
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}
	return r.db.Create(analysis).Error
}

func (r *gormAnalysisRepository) FindByID(id string) (*domain.ProfileAnalysis, error) {
	var analysis domain.ProfileAnalysis
	if err := r.db.Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &analysis, nil
}

func (r *gormAnalysisRepository) ListByUser(userID string, limit int) ([]*domain.ProfileAnalysis, error) {
	var analyses []*domain.ProfileAnalysis
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&analyses).Error
	return analyses, err
}
