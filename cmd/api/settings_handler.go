package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"admissions-backend/pkg/ai"

	"github.com/gin-gonic/gin"
)

// UpdateOllamaSettingsRequest represents the request body for updating Ollama settings
type UpdateOllamaSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

// SettingsHandler exposes the runtime AI settings to admins
type SettingsHandler struct {
	ollama *ai.OllamaSettings
}

func NewSettingsHandler(ollama *ai.OllamaSettings) *SettingsHandler {
	return &SettingsHandler{ollama: ollama}
}

// GET /api/admin/settings/ollama
func (h *SettingsHandler) GetOllamaSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ollama_base_url": h.ollama.BaseURL(),
		"ollama_model":    h.ollama.Model(),
	})
}

// PUT /api/admin/settings/ollama
func (h *SettingsHandler) UpdateOllamaSettings(c *gin.Context) {
	var req UpdateOllamaSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validBaseURL(req.OllamaBaseURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ollama_base_url must be an absolute http(s) URL"})
		return
	}

	h.ollama.Update(req.OllamaBaseURL, req.OllamaModel)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Ollama settings updated successfully",
		"ollama_base_url": h.ollama.BaseURL(),
		"ollama_model":    h.ollama.Model(),
	})
}

// POST /api/admin/settings/ollama/test
// An empty body tests the current settings.
func (h *SettingsHandler) TestOllamaConnection(c *gin.Context) {
	var req struct {
		OllamaBaseURL string `json:"ollama_base_url"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.OllamaBaseURL == "" {
		req.OllamaBaseURL = h.ollama.BaseURL()
	}
	if !validBaseURL(req.OllamaBaseURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ollama_base_url must be an absolute http(s) URL"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := ai.PingOllama(ctx, req.OllamaBaseURL); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":       true,
		"ollama_base_url": req.OllamaBaseURL,
	})
}

func validBaseURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
