package ai

import (
	"context"
	"strings"
	"time"

	"fridge-chef/internal/core/ai/cache"
	"fridge-chef/internal/infrastructure/config"
	"fridge-chef/internal/pkg/common"
)

// Generator produces a model response for a prompt and optional image.
// Satisfied by *Client; tests substitute their own.
type Generator interface {
	Generate(ctx context.Context, prompt string, imageData string) (string, error)
}

// Service fronts the model client with the response cache.
type Service struct {
	config *config.Config
	client Generator
	cache  cache.Cache
}

// NewService creates the cache-fronted AI service.
func NewService(cfg *config.Config, client Generator, c cache.Cache) *Service {
	return &Service{
		config: cfg,
		client: client,
		cache:  c,
	}
}

// ProcessRequest sends a prompt (plus optional image payload) to the model,
// consulting the cache first. The cache key is built from a
// whitespace-normalized copy of the prompt so formatting differences do not
// fragment it.
func (s *Service) ProcessRequest(ctx context.Context, prompt string, imageData string) (string, error) {
	cachePrompt := strings.Join(strings.Fields(prompt), " ")

	if s.cache != nil {
		if val, err := s.cache.Get(ctx, cachePrompt, imageData); err == nil && val != "" {
			return val, nil
		}
	}

	start := time.Now()
	content, err := s.client.Generate(ctx, prompt, imageData)
	common.LogAICall(prompt, time.Since(start), err, "")
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cachePrompt, imageData, content)
	}

	return content, nil
}
