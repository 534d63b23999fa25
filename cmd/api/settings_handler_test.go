package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"admissions-backend/pkg/ai"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsRouter(settings *ai.OllamaSettings) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSettingsHandler(settings)
	r := gin.New()
	r.GET("/settings/ollama", h.GetOllamaSettings)
	r.PUT("/settings/ollama", h.UpdateOllamaSettings)
	r.POST("/settings/ollama/test", h.TestOllamaConnection)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateOllamaSettings(t *testing.T) {
	settings := ai.NewOllamaSettings("http://localhost:11434", "llama3")
	r := newSettingsRouter(settings)

	w := doJSON(r, http.MethodPut, "/settings/ollama", `{"ollama_base_url":"http://gpu-box:11434","ollama_model":"qwen2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://gpu-box:11434", settings.BaseURL())
	assert.Equal(t, "qwen2", settings.Model())

	w = doJSON(r, http.MethodGet, "/settings/ollama", "")
	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "http://gpu-box:11434", got["ollama_base_url"])
	assert.Equal(t, "qwen2", got["ollama_model"])
}

func TestUpdateOllamaSettingsRejectsBadURL(t *testing.T) {
	settings := ai.NewOllamaSettings("http://localhost:11434", "llama3")
	r := newSettingsRouter(settings)

	for _, body := range []string{`{}`, `{"ollama_base_url":"gpu-box:11434"}`, `{"ollama_base_url":"ftp://gpu-box"}`} {
		w := doJSON(r, http.MethodPut, "/settings/ollama", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Equal(t, "http://localhost:11434", settings.BaseURL())
}

func TestTestOllamaConnection(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer ollama.Close()

	r := newSettingsRouter(ai.NewOllamaSettings(ollama.URL, "llama3"))

	w := doJSON(r, http.MethodPost, "/settings/ollama/test", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":true`)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	w = doJSON(r, http.MethodPost, "/settings/ollama/test", `{"ollama_base_url":"`+down.URL+`"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"connected":false`)
}
