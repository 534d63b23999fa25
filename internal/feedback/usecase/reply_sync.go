package usecase

import (
	"context"
	"fmt"
	"log"

	authdomain "admissions-backend/internal/auth/domain"
	"admissions-backend/internal/feedback/domain"
	"admissions-backend/pkg/config"
	"admissions-backend/pkg/imap"
	"admissions-backend/pkg/metrics"
)

func (u *feedbackUsecase) SyncReplies(ctx context.Context, admin *authdomain.User, creds config.MailCredentials) (*domain.SyncResult, error) {
	if !admin.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	if !creds.Configured() {
		metrics.FeedbackSyncRuns.WithLabelValues(metrics.SyncResultError).Inc()
		return nil, domain.ErrMailNotConfigured
	}

	result, err := u.syncReplies(ctx, creds)
	switch {
	case err != nil:
		metrics.FeedbackSyncRuns.WithLabelValues(metrics.SyncResultError).Inc()
		log.Printf("[FeedbackSync] Run by %s failed: %v", admin.Email, err)
	case result.NoPending:
		metrics.FeedbackSyncRuns.WithLabelValues(metrics.SyncResultNoPending).Inc()
	default:
		metrics.FeedbackSyncRuns.WithLabelValues(metrics.SyncResultOK).Inc()
		metrics.FeedbackRepliesSynced.Add(float64(result.SyncedCount))
		log.Printf("[FeedbackSync] Run by %s: scanned %d messages, synced %d", admin.Email, result.Scanned, result.SyncedCount)
	}
	return result, err
}

func (u *feedbackUsecase) syncReplies(ctx context.Context, creds config.MailCredentials) (*domain.SyncResult, error) {
	pending, err := u.repo.FindPending()
	if err != nil {
		return nil, fmt.Errorf("%w: load pending: %w", domain.ErrFeedbackStore, err)
	}
	if len(pending) == 0 {
		return &domain.SyncResult{NoPending: true}, nil
	}

	session, err := u.mailer.OpenSent(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMailbox, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Printf("[FeedbackSync] Error closing mailbox session: %v", err)
		}
	}()

	since := u.now().AddDate(0, 0, -u.windowDays)
	messages, err := session.SearchReplies(since, ReplySubjectMarker)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMailbox, err)
	}

	result := &domain.SyncResult{Scanned: len(messages)}
	for _, raw := range messages {
		candidate, ok := buildCandidate(raw)
		if !ok {
			continue
		}

		record := MatchPending(pending, candidate.Recipient, candidate.Title)
		if record == nil {
			continue
		}

		at := u.now()
		updated, err := u.repo.MarkReplied(record.ID, candidate.ReplyText, at)
		if err != nil {
			// still pending; a later reply in this run may match it again
			log.Printf("[FeedbackSync] Failed to update feedback %s: %v", record.ID, err)
			continue
		}
		pending = removeRecord(pending, record)
		if !updated {
			// replied by a concurrent run since it was loaded
			continue
		}
		result.SyncedCount++

		reply := candidate.ReplyText
		record.Status = domain.StatusReplied
		record.AdminReply = &reply
		record.UpdatedAt = at
		if u.notifier != nil {
			u.notifier.NotifyFeedbackReplied(ctx, record)
		}
	}
	return result, nil
}

// buildCandidate parses one fetched message; false means the message cannot be a reply.
func buildCandidate(raw imap.RawMessage) (*domain.ReplyCandidate, bool) {
	parsed, err := imap.ParseMessage(raw.Data)
	if err != nil {
		log.Printf("[FeedbackSync] Skipping message %d: %v", raw.UID, err)
		return nil, false
	}
	if parsed.Recipient() == "" || parsed.TextBody == "" {
		return nil, false
	}

	title, ok := ExtractFeedbackTitle(parsed.Subject)
	if !ok {
		return nil, false
	}

	return &domain.ReplyCandidate{
		MessageID: parsed.MessageID,
		Recipient: parsed.Recipient(),
		Subject:   parsed.Subject,
		Body:      parsed.TextBody,
		Title:     title,
		ReplyText: StripQuotedReply(parsed.TextBody),
	}, true
}

func removeRecord(records []*domain.Feedback, target *domain.Feedback) []*domain.Feedback {
	out := records[:0]
	for _, r := range records {
		if r != target {
			out = append(out, r)
		}
	}
	return out
}
