package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	authdelivery "admissions-backend/internal/auth/delivery"
	"admissions-backend/internal/feedback/domain"
	"admissions-backend/internal/feedback/dto"
	"admissions-backend/internal/feedback/usecase"
	"admissions-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackUsecase usecase.FeedbackUsecase
	mailCreds       config.MailCredentials
}

func NewFeedbackHandler(feedbackUsecase usecase.FeedbackUsecase, mailCreds config.MailCredentials) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackUsecase: feedbackUsecase,
		mailCreds:       mailCreds,
	}
}

// POST /api/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.feedbackUsecase.Submit(c.Request.Context(), authdelivery.CurrentUser(c), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFeedback) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit feedback"})
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// GET /api/feedback/mine
func (h *FeedbackHandler) ListMine(c *gin.Context) {
	items, err := h.feedbackUsecase.ListForUser(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback"})
		return
	}
	if items == nil {
		items = []*domain.Feedback{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /api/admin/feedback?status=&email=&limit=&offset=
func (h *FeedbackHandler) List(c *gin.Context) {
	var query dto.ListFeedbackQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.feedbackUsecase.List(&query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFeedback) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/admin/feedback/:id
func (h *FeedbackHandler) Get(c *gin.Context) {
	feedback, err := h.feedbackUsecase.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback"})
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// GET /api/admin/feedback/export?status=
func (h *FeedbackHandler) Export(c *gin.Context) {
	status := strings.ToLower(c.Query("status"))
	if status != "" && !domain.FeedbackStatus(status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", status)})
		return
	}

	out := &csvAttachment{
		c:        c,
		filename: fmt.Sprintf("feedback-%s.csv", time.Now().UTC().Format("20060102")),
	}
	if err := h.feedbackUsecase.ExportCSV(out, status); err != nil {
		if out.started {
			// headers are already sent; abort the stream
			_ = c.Error(err)
			c.Abort()
			return
		}
		if errors.Is(err, domain.ErrInvalidFeedback) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export feedback", "details": err.Error()})
	}
}

// csvAttachment commits the 200 and attachment headers on the first write,
// so failures before any row is produced still get a JSON error.
type csvAttachment struct {
	c        *gin.Context
	filename string
	started  bool
}

func (w *csvAttachment) Write(p []byte) (int, error) {
	if !w.started {
		w.started = true
		w.c.Header("Content-Type", "text/csv; charset=utf-8")
		w.c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, w.filename))
		w.c.Status(http.StatusOK)
	}
	return w.c.Writer.Write(p)
}

// POST /api/admin/feedback/sync
func (h *FeedbackHandler) SyncReplies(c *gin.Context) {
	result, err := h.feedbackUsecase.SyncReplies(c.Request.Context(), authdelivery.CurrentUser(c), h.mailCreds)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to sync feedback replies",
			"details": err.Error(),
		})
		return
	}

	if result.NoPending {
		c.JSON(http.StatusOK, gin.H{
			"message":     "No pending feedback to sync",
			"syncedCount": 0,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"syncedCount": result.SyncedCount,
	})
}
