package domain

import (
	"errors"
	"time"
)

// FeedbackStatus is the lifecycle state of a feedback item.
// The only transition is pending -> replied.
type FeedbackStatus string

const (
	StatusPending FeedbackStatus = "pending"
	StatusReplied FeedbackStatus = "replied"
)

func (s FeedbackStatus) Valid() bool {
	return s == StatusPending || s == StatusReplied
}

var (
	ErrUnauthorized      = errors.New("admin session required")
	ErrMailNotConfigured = errors.New("mail credentials are not configured")
	ErrFeedbackStore     = errors.New("feedback store error")
	ErrMailbox           = errors.New("mailbox error")
	ErrNotFound          = errors.New("feedback not found")
	ErrInvalidFeedback   = errors.New("invalid feedback")
	ErrSyncInProgress    = errors.New("reply sync already running")
)

// Feedback is one user-submitted feedback item
type Feedback struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	UserID      string         `json:"user_id,omitempty" gorm:"index"` // Empty for anonymous submissions
	Email       string         `json:"email" gorm:"index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Status      FeedbackStatus `json:"status" gorm:"index;not null;default:pending"`
	AdminReply  *string        `json:"admin_reply,omitempty" gorm:"type:text"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Feedback) TableName() string {
	return "feedback"
}

// ReplyCandidate is an outbound admin message considered during one sync run.
// It is never persisted.
type ReplyCandidate struct {
	MessageID string
	Recipient string
	Subject   string
	Body      string

	// Derived
	Title     string
	ReplyText string
}

// SyncResult summarizes one reply-sync run
type SyncResult struct {
	SyncedCount int  `json:"syncedCount"`
	NoPending   bool `json:"-"`
	Scanned     int  `json:"-"`
}
