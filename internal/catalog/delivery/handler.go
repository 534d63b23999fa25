package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"admissions-backend/internal/catalog/domain"
	"admissions-backend/internal/catalog/usecase"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase}
}

// GET /api/universities?country=&limit=&offset=
func (h *CatalogHandler) ListUniversities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	page, err := h.catalogUsecase.ListUniversities(c.Query("country"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load universities"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/universities/search?q=&limit=
func (h *CatalogHandler) SearchUniversities(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	hits, err := h.catalogUsecase.SearchUniversities(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search universities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "items": hits})
}

// GET /api/universities/:id
func (h *CatalogHandler) GetUniversity(c *gin.Context) {
	uni, err := h.catalogUsecase.GetUniversity(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrUniversityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load university"})
		return
	}
	c.JSON(http.StatusOK, uni)
}

// GET /api/extracurriculars?category=
func (h *CatalogHandler) ListExtracurriculars(c *gin.Context) {
	items, err := h.catalogUsecase.ListExtracurriculars(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load extracurriculars"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
