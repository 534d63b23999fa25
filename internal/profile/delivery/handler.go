package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"admissions-backend/internal/profile/domain"
	"admissions-backend/internal/profile/dto"
	"admissions-backend/internal/profile/usecase"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUsecase usecase.ProfileUsecase
}

func NewProfileHandler(profileUsecase usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profileUsecase: profileUsecase}
}

// POST /api/profile/analyze
func (h *ProfileHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := h.profileUsecase.Analyze(c.Request.Context(), c.GetString("userID"), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidProfile):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrAnalysisFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "AI analysis is unavailable, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GET /api/profile/analyses?limit=
func (h *ProfileHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	analyses, err := h.profileUsecase.History(c.GetString("userID"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if analyses == nil {
		analyses = []*domain.ProfileAnalysis{}
	}
	c.JSON(http.StatusOK, gin.H{"items": analyses})
}

// GET /api/profile/analyses/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	analysis, err := h.profileUsecase.Get(c.GetString("userID"), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}
