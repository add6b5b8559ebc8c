package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"fridge-chef/internal/core/ai/cache"
	"fridge-chef/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	response string
	err      error
	calls    int
}

func (c *countingGenerator) Generate(ctx context.Context, prompt string, imageData string) (string, error) {
	c.calls++
	return c.response, c.err
}

func newServiceWithCache(gen Generator) *Service {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.Backend = "memory"
	cfg.Cache.MaxSize = 100
	cfg.Cache.TTL = time.Minute
	cfg.Cache.CleanupInterval = time.Hour
	return NewService(cfg, gen, cache.NewManager(cfg))
}

func TestProcessRequestCachesResponses(t *testing.T) {
	gen := &countingGenerator{response: "model answer"}
	svc := newServiceWithCache(gen)

	ctx := context.Background()
	got, err := svc.ProcessRequest(ctx, "a prompt", "")
	require.NoError(t, err)
	assert.Equal(t, "model answer", got)

	got, err = svc.ProcessRequest(ctx, "a prompt", "")
	require.NoError(t, err)
	assert.Equal(t, "model answer", got)
	assert.Equal(t, 1, gen.calls)
}

func TestProcessRequestNormalizesPromptForCaching(t *testing.T) {
	gen := &countingGenerator{response: "model answer"}
	svc := newServiceWithCache(gen)

	ctx := context.Background()
	_, err := svc.ProcessRequest(ctx, "a  prompt\n with   spacing", "")
	require.NoError(t, err)
	_, err = svc.ProcessRequest(ctx, "a prompt with spacing", "")
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
}

func TestProcessRequestDoesNotCacheErrors(t *testing.T) {
	gen := &countingGenerator{err: errors.New("model down")}
	svc := newServiceWithCache(gen)

	ctx := context.Background()
	_, err := svc.ProcessRequest(ctx, "a prompt", "")
	require.Error(t, err)
	_, err = svc.ProcessRequest(ctx, "a prompt", "")
	require.Error(t, err)

	assert.Equal(t, 2, gen.calls)
}

func TestProcessRequestWorksWithoutCache(t *testing.T) {
	gen := &countingGenerator{response: "model answer"}
	svc := NewService(&config.Config{}, gen, nil)

	got, err := svc.ProcessRequest(context.Background(), "a prompt", "")
	require.NoError(t, err)
	assert.Equal(t, "model answer", got)
	assert.Equal(t, 1, gen.calls)
}
