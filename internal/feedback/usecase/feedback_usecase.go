package usecase

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	authdomain "admissions-backend/internal/auth/domain"
	"admissions-backend/internal/feedback/domain"
	"admissions-backend/internal/feedback/dto"
	"admissions-backend/internal/feedback/repository"
	"admissions-backend/pkg/metrics"
)

const (
	maxTitleLength = 200
	maxListLimit   = 200
)

// feedbackUsecase implements FeedbackUsecase
type feedbackUsecase struct {
	repo       repository.FeedbackRepository
	mailer     MailDialer
	events     EventPublisher
	notifier   ReplyNotifier
	windowDays int
	now        func() time.Time
}

// NewFeedbackUsecase wires the feedback usecase. events and notifier may be nil.
func NewFeedbackUsecase(
	repo repository.FeedbackRepository,
	mailer MailDialer,
	events EventPublisher,
	notifier ReplyNotifier,
	windowDays int,
) FeedbackUsecase {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &feedbackUsecase{
		repo:       repo,
		mailer:     mailer,
		events:     events,
		notifier:   notifier,
		windowDays: windowDays,
		now:        time.Now,
	}
}

func (u *feedbackUsecase) Submit(ctx context.Context, user *authdomain.User, req *dto.SubmitFeedbackRequest) (*domain.Feedback, error) {
	feedback := &domain.Feedback{
		Email:       strings.TrimSpace(req.Email),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      domain.StatusPending,
	}
	if user != nil {
		feedback.UserID = user.ID
		if feedback.Email == "" {
			feedback.Email = user.Email
		}
	}

	switch {
	case feedback.Email == "":
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidFeedback)
	case feedback.Title == "":
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidFeedback)
	case feedback.Description == "":
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidFeedback)
	case utf8.RuneCountInString(feedback.Title) > maxTitleLength:
		return nil, fmt.Errorf("%w: title must be at most %d characters", domain.ErrInvalidFeedback, maxTitleLength)
	}
	if _, err := mail.ParseAddress(feedback.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidFeedback)
	}

	if err := u.repo.Create(feedback); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedbackStore, err)
	}
	metrics.FeedbackSubmissions.Inc()

	if u.events != nil {
		if err := u.events.Publish(ctx, "feedback.submitted", feedback); err != nil {
			log.Printf("[Feedback] Failed to publish submission %s: %v", feedback.ID, err)
		}
	}
	return feedback, nil
}

func (u *feedbackUsecase) ListForUser(userID string) ([]*domain.Feedback, error) {
	records, err := u.repo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedbackStore, err)
	}
	return records, nil
}

func (u *feedbackUsecase) List(query *dto.ListFeedbackQuery) (*dto.FeedbackListResponse, error) {
	filter := repository.ListFilter{
		Email:  query.Email,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if query.Status != "" {
		status := domain.FeedbackStatus(strings.ToLower(query.Status))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidFeedback, query.Status)
		}
		filter.Status = &status
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	items, total, err := u.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedbackStore, err)
	}
	if items == nil {
		items = []*domain.Feedback{}
	}
	return &dto.FeedbackListResponse{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (u *feedbackUsecase) Get(id string) (*domain.Feedback, error) {
	feedback, err := u.repo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFeedbackStore, err)
	}
	if feedback == nil {
		return nil, domain.ErrNotFound
	}
	return feedback, nil
}
