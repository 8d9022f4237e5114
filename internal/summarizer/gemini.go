package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/dialog-digest/internal/logger"
)

// geminiAPI is the part of *genai.Models the summarizer uses.
type geminiAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type implGemini struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	gen        generation
	newClient  func(ctx context.Context, apiKey string) (geminiAPI, error)
	logger     logger.Logger
}

func newGemini(apiKeys []string, gen generation, log logger.Logger) *implGemini {
	return &implGemini{
		apiKeys:   apiKeys,
		gen:       gen,
		newClient: newGenaiModels,
		logger:    log,
	}
}

func newGenaiModels(ctx context.Context, apiKey string) (geminiAPI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// Summarize sends prompt to Gemini and returns the summary text.
// Rotates API keys on 429 / quota errors.
func (s *implGemini) Summarize(ctx context.Context, prompt string) (string, error) {
	temperature := float32(s.gen.temperature)
	topP := float32(s.gen.topP)
	genCfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		MaxOutputTokens: int32(s.gen.maxTokens),
	}

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key, idx := s.key()

		models, err := s.newClient(ctx, key)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey(idx)
			continue
		}

		s.logger.Info(ctx, "Invoking %s with key %d (%d prompt chars)", s.gen.model, idx+1, len(prompt))

		result, err := models.GenerateContent(ctx, s.gen.model, genai.Text(prompt), genCfg)
		if err != nil {
			if isQuotaError(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				s.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil {
			if text := strings.TrimSpace(result.Text()); text != "" {
				return text, nil
			}
		}
		return "", ErrEmptyResponse
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implGemini) key() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey], s.currentKey
}

// rotateKey advances past the key at idx. A concurrent caller that already
// rotated away from it is not rotated again.
func (s *implGemini) rotateKey(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == idx {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

var _ Summarizer = (*implGemini)(nil)
