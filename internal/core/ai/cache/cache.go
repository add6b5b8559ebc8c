package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"fridge-chef/internal/infrastructure/config"
)

// Cache stores model responses keyed by prompt + image payload so repeated
// identical requests skip the upstream call.
type Cache interface {
	Get(ctx context.Context, prompt, imageData string) (string, error)
	Set(ctx context.Context, prompt, imageData, value string) error
	Close() error
}

// New creates the cache backend selected by configuration, or nil when
// caching is disabled.
func New(cfg *config.Config) (Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "redis":
		return NewRedisCache(cfg)
	case "memory":
		return NewManager(cfg), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func hashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

// cacheKey builds a deterministic key from the prompt and image payload.
func cacheKey(prompt, imageData string) string {
	if imageData == "" {
		return fmt.Sprintf("text:%s", hashString(prompt))
	}
	return fmt.Sprintf("multimodal:%s:%s", hashString(prompt), hashString(imageData))
}
