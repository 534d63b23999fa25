package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"admissions-backend/internal/feedback/domain"
	"admissions-backend/internal/feedback/repository"
	"admissions-backend/pkg/config"
	"admissions-backend/pkg/imap"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

var testCreds = config.MailCredentials{
	Host:        "imap.example.com",
	Port:        993,
	User:        "admissions@example.com",
	Password:    "app-password",
	SentFolder:  "[Gmail]/Sent Mail",
	AuthTimeout: time.Second,
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.Feedback{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// seedPending inserts a pending record created `age` before testNow.
func seedPending(t *testing.T, db *gorm.DB, email, title string, age time.Duration) *domain.Feedback {
	t.Helper()
	created := testNow.Add(-age)
	f := &domain.Feedback{
		ID:          uuid.New().String(),
		Email:       email,
		Title:       title,
		Description: "description of " + title,
		Status:      domain.StatusPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("failed to seed feedback: %v", err)
	}
	return f
}

func reload(t *testing.T, db *gorm.DB, id string) *domain.Feedback {
	t.Helper()
	var f domain.Feedback
	if err := db.First(&f, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload %s: %v", id, err)
	}
	return &f
}

type fakeMessage struct {
	sent    time.Time
	subject string
	raw     []byte
}

// sentMail builds a plain-text RFC 5322 message as the admissions account sends it.
func sentMail(to, subject, body string, sent time.Time) fakeMessage {
	var b strings.Builder
	b.WriteString("From: Admissions <admissions@example.com>\r\n")
	if to != "" {
		b.WriteString("To: " + to + "\r\n")
	}
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Date: " + sent.Format(time.RFC1123Z) + "\r\n")
	b.WriteString(fmt.Sprintf("Message-ID: <%d@example.com>\r\n", sent.UnixNano()))
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return fakeMessage{sent: sent, subject: subject, raw: []byte(b.String())}
}

type fakeSession struct {
	messages  []fakeMessage
	searchErr error
	since     time.Time
	marker    string
	closed    int
}

// SearchReplies mimics IMAP SEARCH SINCE (date granularity) and SUBJECT (case-insensitive substring).
func (s *fakeSession) SearchReplies(since time.Time, marker string) ([]imap.RawMessage, error) {
	s.since, s.marker = since, marker
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	day := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())
	var out []imap.RawMessage
	for i, m := range s.messages {
		if m.sent.Before(day) {
			continue
		}
		if !strings.Contains(strings.ToLower(m.subject), strings.ToLower(marker)) {
			continue
		}
		out = append(out, imap.RawMessage{UID: uint32(i + 1), Data: m.raw})
	}
	return out, nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

type fakeDialer struct {
	session *fakeSession
	err     error
	calls   int
}

func (d *fakeDialer) OpenSent(ctx context.Context, creds config.MailCredentials) (imap.Session, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.session, nil
}

// flakyRepo fails selected operations of the real repository.
type flakyRepo struct {
	repository.FeedbackRepository
	failPending bool
	failUpdate  map[string]bool
	// failOnce fails only the first update of each listed id
	failOnce map[string]bool
}

func (r *flakyRepo) FindPending() ([]*domain.Feedback, error) {
	if r.failPending {
		return nil, errors.New("connection reset")
	}
	return r.FeedbackRepository.FindPending()
}

func (r *flakyRepo) MarkReplied(id, reply string, at time.Time) (bool, error) {
	if r.failUpdate[id] {
		return false, errors.New("deadlock detected")
	}
	if r.failOnce[id] {
		delete(r.failOnce, id)
		return false, errors.New("deadlock detected")
	}
	return r.FeedbackRepository.MarkReplied(id, reply, at)
}

type recordingNotifier struct {
	replied []*domain.Feedback
}

func (n *recordingNotifier) NotifyFeedbackReplied(ctx context.Context, feedback *domain.Feedback) {
	n.replied = append(n.replied, feedback)
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	p.events = append(p.events, eventType)
	return nil
}

func newTestUsecase(repo repository.FeedbackRepository, dialer MailDialer, notifier ReplyNotifier) *feedbackUsecase {
	uc := NewFeedbackUsecase(repo, dialer, nil, notifier, 30).(*feedbackUsecase)
	uc.now = func() time.Time { return testNow }
	return uc
}
