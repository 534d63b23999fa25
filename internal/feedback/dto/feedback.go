package dto

import "admissions-backend/internal/feedback/domain"

type SubmitFeedbackRequest struct {
	Email       string `json:"email"` // Required when not signed in
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type ListFeedbackQuery struct {
	Status string `form:"status"`
	Email  string `form:"email"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type FeedbackListResponse struct {
	Items  []*domain.Feedback `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
