package ai

import "sync"

// OllamaSettings holds the Ollama endpoint, changeable at runtime by admins
type OllamaSettings struct {
	mu      sync.RWMutex
	baseURL string
	model   string
}

func NewOllamaSettings(baseURL, model string) *OllamaSettings {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaSettings{baseURL: baseURL, model: model}
}

func (s *OllamaSettings) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseURL
}

func (s *OllamaSettings) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Update replaces the base URL; an empty model keeps the current one.
func (s *OllamaSettings) Update(baseURL, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = baseURL
	if model != "" {
		s.model = model
	}
}
