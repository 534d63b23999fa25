package usecase

import (
	"regexp"
	"strings"

	"admissions-backend/internal/feedback/domain"
)

// ReplySubjectMarker is searched for server-side; admin replies carry
// "Re: [Feedback] <title>" as their subject.
const ReplySubjectMarker = "Re: [Feedback]"

const replySubjectPrefix = ReplySubjectMarker + " "

var quoteMarker = regexp.MustCompile(`(?m)^(On .*wrote:[ \t\r]*$|From: )`)

// ExtractFeedbackTitle returns the feedback title a reply subject refers to.
// The prefix must match exactly, including case.
func ExtractFeedbackTitle(subject string) (string, bool) {
	if !strings.HasPrefix(subject, replySubjectPrefix) {
		return "", false
	}
	title := strings.TrimSpace(subject[len(replySubjectPrefix):])
	if title == "" {
		return "", false
	}
	return title, true
}

// StripQuotedReply keeps only the text above the first quoted-original
// marker: an "On ... wrote:" line or a line starting with "From: ".
func StripQuotedReply(body string) string {
	if loc := quoteMarker.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}
	return strings.TrimSpace(body)
}

// MatchPending returns the first pending record addressed to recipient with
// the given title, or nil.
func MatchPending(records []*domain.Feedback, recipient, title string) *domain.Feedback {
	recipient = strings.TrimSpace(recipient)
	title = strings.TrimSpace(title)
	for _, r := range records {
		if r.Status != domain.StatusPending {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(r.Email), recipient) &&
			strings.EqualFold(strings.TrimSpace(r.Title), title) {
			return r
		}
	}
	return nil
}
