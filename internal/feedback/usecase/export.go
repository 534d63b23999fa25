package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"admissions-backend/internal/feedback/domain"
)

var exportHeader = []string{"id", "email", "title", "description", "status", "admin_reply", "created_at", "updated_at"}

// ExportCSV writes every record, optionally filtered by status, oldest first.
func (u *feedbackUsecase) ExportCSV(w io.Writer, status string) error {
	var filter *domain.FeedbackStatus
	if status != "" {
		s := domain.FeedbackStatus(strings.ToLower(status))
		if !s.Valid() {
			return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidFeedback, status)
		}
		filter = &s
	}

	records, err := u.repo.ListAll(filter)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFeedbackStore, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range records {
		reply := ""
		if r.AdminReply != nil {
			reply = *r.AdminReply
		}
		row := []string{
			r.ID,
			r.Email,
			r.Title,
			r.Description,
			string(r.Status),
			reply,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
