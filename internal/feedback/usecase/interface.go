package usecase

import (
	"context"
	"io"

	authdomain "admissions-backend/internal/auth/domain"
	"admissions-backend/internal/feedback/domain"
	"admissions-backend/internal/feedback/dto"
	"admissions-backend/pkg/config"
	"admissions-backend/pkg/imap"
)

// FeedbackUsecase defines the interface for feedback business logic
type FeedbackUsecase interface {
	Submit(ctx context.Context, user *authdomain.User, req *dto.SubmitFeedbackRequest) (*domain.Feedback, error)
	ListForUser(userID string) ([]*domain.Feedback, error)
	List(query *dto.ListFeedbackQuery) (*dto.FeedbackListResponse, error)
	Get(id string) (*domain.Feedback, error)
	ExportCSV(w io.Writer, status string) error

	// SyncReplies scans the admissions sent folder for admin replies and marks
	// the matching pending feedback as replied.
	SyncReplies(ctx context.Context, admin *authdomain.User, creds config.MailCredentials) (*domain.SyncResult, error)
}

// MailDialer opens a read-only session on the folder holding sent replies
type MailDialer interface {
	OpenSent(ctx context.Context, creds config.MailCredentials) (imap.Session, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// ReplyNotifier is told about every record the sync moved to replied
type ReplyNotifier interface {
	NotifyFeedbackReplied(ctx context.Context, feedback *domain.Feedback)
}
