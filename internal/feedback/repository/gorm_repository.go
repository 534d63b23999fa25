package repository

import (
	"errors"
	"strings"
	"time"

	"admissions-backend/internal/feedback/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormFeedbackRepository implements FeedbackRepository using GORM
type gormFeedbackRepository struct {
	db *gorm.DB
}

// NewGormFeedbackRepository creates a new GORM-based FeedbackRepository
func NewGormFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &gormFeedbackRepository{db: db}
}

func (r *gormFeedbackRepository) Create(feedback *domain.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}
	if feedback.Status == "" {
		feedback.Status = domain.StatusPending
	}
	now := time.Now()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now
	return r.db.Create(feedback).Error
}

func (r *gormFeedbackRepository) FindByID(id string) (*domain.Feedback, error) {
	var feedback domain.Feedback
	err := r.db.Where("id = ?", id).First(&feedback).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *gormFeedbackRepository) FindPending() ([]*domain.Feedback, error) {
	var records []*domain.Feedback
	err := r.db.Where("status = ?", domain.StatusPending).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	return records, err
}

func (r *gormFeedbackRepository) FindByUserID(userID string) ([]*domain.Feedback, error) {
	var records []*domain.Feedback
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *gormFeedbackRepository) List(filter ListFilter) ([]*domain.Feedback, int64, error) {
	var records []*domain.Feedback
	var total int64

	query := r.db.Model(&domain.Feedback{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Email != "" {
		query = query.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(filter.Email)))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&records).Error
	return records, total, err
}

func (r *gormFeedbackRepository) ListAll(status *domain.FeedbackStatus) ([]*domain.Feedback, error) {
	var records []*domain.Feedback
	query := r.db.Model(&domain.Feedback{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("created_at ASC").Find(&records).Error
	return records, err
}

func (r *gormFeedbackRepository) MarkReplied(id, reply string, at time.Time) (bool, error) {
	result := r.db.Model(&domain.Feedback{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":      domain.StatusReplied,
			"admin_reply": reply,
			"updated_at":  at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
