package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
)

// FallbackService routes generation between providers:
// Gemini first (better quality), Ollama when Gemini fails, and back to
// Gemini once more when Ollama cannot be reached after a quota error.
type FallbackService struct {
	gemini Generator
	ollama Generator
}

// NewFallbackService creates a new fallback service; either provider may be nil
func NewFallbackService(gemini, ollama Generator) *FallbackService {
	return &FallbackService{
		gemini: gemini,
		ollama: ollama,
	}
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return containsAny(err.Error(),
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	)
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err.Error(),
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	)
}

func containsAny(s string, indicators ...string) bool {
	s = strings.ToLower(s)
	for _, indicator := range indicators {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}

// Generate implements Generator
func (f *FallbackService) Generate(ctx context.Context, prompt string) (string, error) {
	var geminiErr error
	if f.gemini != nil {
		result, err := f.gemini.Generate(ctx, prompt)
		if err == nil {
			return result, nil
		}
		geminiErr = err
		if isQuotaError(err) {
			log.Printf("[AI] Gemini quota exhausted: %v, falling back to Ollama", err)
		} else {
			log.Printf("[AI] Gemini error: %v, falling back to Ollama", err)
		}
	}

	if f.ollama != nil {
		result, err := f.ollama.Generate(ctx, prompt)
		if err == nil {
			log.Println("[AI] Ollama generation successful")
			return result, nil
		}

		// a quota error may clear quickly; a dead Ollama will not
		if isConnectionError(err) && isQuotaError(geminiErr) {
			log.Printf("[AI] Ollama connection failed: %v, retrying Gemini", err)
			return f.gemini.Generate(ctx, prompt)
		}
		return "", fmt.Errorf("ollama generation failed: %w", err)
	}

	if geminiErr != nil {
		return "", fmt.Errorf("gemini generation failed: %w", geminiErr)
	}
	return "", fmt.Errorf("no AI provider available")
}
