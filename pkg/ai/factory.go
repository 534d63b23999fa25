package ai

import (
	"context"
	"fmt"
	"log"

	"admissions-backend/pkg/gemini"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "ollama" or "auto"

	GeminiAPIKey string
	GeminiModel  string

	Ollama *OllamaSettings
}

// NewGenerator creates the Generator selected by cfg.Provider.
// Switch AI provider by changing config.Provider.
func NewGenerator(ctx context.Context, cfg Config) (Generator, error) {
	if cfg.Ollama == nil {
		cfg.Ollama = NewOllamaSettings("", "")
	}

	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return gemini.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)

	case ProviderOllama:
		return NewOllamaService(cfg.Ollama), nil

	default:
		ollama := NewOllamaService(cfg.Ollama)
		if cfg.GeminiAPIKey == "" {
			log.Println("[AI] No Gemini API key, using Ollama only")
			return ollama, nil
		}
		g, err := gemini.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("[AI] Gemini unavailable (%v), using Ollama only", err)
			return ollama, nil
		}
		return NewFallbackService(g, ollama), nil
	}
}
