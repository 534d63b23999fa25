package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"admissions-backend/internal/feedback/domain"
	"admissions-backend/internal/feedback/dto"
	"admissions-backend/internal/feedback/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitCreatesPendingRecord(t *testing.T) {
	db := setupTestDB(t)
	publisher := &recordingPublisher{}
	uc := NewFeedbackUsecase(repository.NewGormFeedbackRepository(db), &fakeDialer{}, publisher, nil, 30)

	created, err := uc.Submit(context.Background(), testStudent, &dto.SubmitFeedbackRequest{
		Title:       "  Bug in dashboard ",
		Description: "The chart is empty",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, testStudent.ID, created.UserID)
	assert.Equal(t, "Bug in dashboard", created.Title)
	assert.Equal(t, []string{"feedback.submitted"}, publisher.events)

	stored := reload(t, db, created.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestSubmitValidation(t *testing.T) {
	db := setupTestDB(t)
	uc := NewFeedbackUsecase(repository.NewGormFeedbackRepository(db), &fakeDialer{}, nil, nil, 30)

	tests := []struct {
		name string
		req  dto.SubmitFeedbackRequest
	}{
		{"anonymous without email", dto.SubmitFeedbackRequest{Title: "t", Description: "d"}},
		{"bad email", dto.SubmitFeedbackRequest{Email: "not-an-email", Title: "t", Description: "d"}},
		{"blank title", dto.SubmitFeedbackRequest{Email: "a@x.com", Title: "   ", Description: "d"}},
		{"blank description", dto.SubmitFeedbackRequest{Email: "a@x.com", Title: "t"}},
		{"long title", dto.SubmitFeedbackRequest{Email: "a@x.com", Title: strings.Repeat("é", 201), Description: "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := uc.Submit(context.Background(), nil, &req)
			assert.ErrorIs(t, err, domain.ErrInvalidFeedback)
		})
	}

	var count int64
	db.Model(&domain.Feedback{}).Count(&count)
	assert.Zero(t, count)
}

func TestListAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewGormFeedbackRepository(db)
	uc := NewFeedbackUsecase(repo, &fakeDialer{}, nil, nil, 30)

	first := seedPending(t, db, "a@x.com", "One", 3*day)
	seedPending(t, db, "b@x.com", "Two", 2*day)
	_, err := repo.MarkReplied(first.ID, "answered", testNow)
	require.NoError(t, err)

	all, err := uc.List(&dto.ListFeedbackQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)
	assert.Equal(t, 50, all.Limit)

	replied, err := uc.List(&dto.ListFeedbackQuery{Status: "Replied"})
	require.NoError(t, err)
	require.Len(t, replied.Items, 1)
	assert.Equal(t, first.ID, replied.Items[0].ID)

	byEmail, err := uc.List(&dto.ListFeedbackQuery{Email: "B@X.COM", Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, byEmail.Items, 1)
	assert.Equal(t, maxListLimit, byEmail.Limit)

	_, err = uc.List(&dto.ListFeedbackQuery{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidFeedback)

	got, err := uc.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "answered", *got.AdminReply)

	_, err = uc.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForUser(t *testing.T) {
	db := setupTestDB(t)
	uc := NewFeedbackUsecase(repository.NewGormFeedbackRepository(db), &fakeDialer{}, nil, nil, 30)

	_, err := uc.Submit(context.Background(), testStudent, &dto.SubmitFeedbackRequest{Title: "Mine", Description: "d"})
	require.NoError(t, err)
	_, err = uc.Submit(context.Background(), nil, &dto.SubmitFeedbackRequest{Email: "other@x.com", Title: "Theirs", Description: "d"})
	require.NoError(t, err)

	mine, err := uc.ListForUser(testStudent.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)
}

func TestExportCSV(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewGormFeedbackRepository(db)
	uc := NewFeedbackUsecase(repo, &fakeDialer{}, nil, nil, 30)

	first := seedPending(t, db, "a@x.com", `Quote "this", please`, 3*day)
	seedPending(t, db, "b@x.com", "Multi\nline", 2*day)
	_, err := repo.MarkReplied(first.ID, "done, thanks", testNow)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, uc.ExportCSV(&buf, ""))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, first.ID, rows[1][0])
	assert.Equal(t, `Quote "this", please`, rows[1][2])
	assert.Equal(t, "replied", rows[1][4])
	assert.Equal(t, "done, thanks", rows[1][5])
	assert.Equal(t, "Multi\nline", rows[2][2])
	assert.Equal(t, "", rows[2][5])

	buf.Reset()
	require.NoError(t, uc.ExportCSV(&buf, "pending"))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.ErrorIs(t, uc.ExportCSV(&buf, "bogus"), domain.ErrInvalidFeedback)
}
