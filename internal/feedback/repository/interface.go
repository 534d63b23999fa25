package repository

import (
	"time"

	"admissions-backend/internal/feedback/domain"
)

// ListFilter narrows admin listings; zero values mean "no filter".
type ListFilter struct {
	Status *domain.FeedbackStatus
	Email  string
	Limit  int
	Offset int
}

// FeedbackRepository defines the interface for feedback persistence
type FeedbackRepository interface {
	Create(feedback *domain.Feedback) error
	FindByID(id string) (*domain.Feedback, error)
	// FindPending returns every pending record, oldest first
	FindPending() ([]*domain.Feedback, error)
	FindByUserID(userID string) ([]*domain.Feedback, error)
	List(filter ListFilter) ([]*domain.Feedback, int64, error)
	ListAll(status *domain.FeedbackStatus) ([]*domain.Feedback, error)
	// MarkReplied moves a pending record to replied. It reports false when the
	// record was no longer pending, so a replied record is never overwritten.
	MarkReplied(id, reply string, at time.Time) (bool, error)
}
