package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fridge-chef/internal/infrastructure/config"
	"fridge-chef/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.OpenRouter.APIKey = "test-key"
	cfg.OpenRouter.BaseURL = baseURL
	cfg.OpenRouter.Model = "test-model"
	cfg.OpenRouter.MaxTokens = 512
	cfg.OpenRouter.Timeout = 5 * time.Second
	return cfg
}

func TestGenerateTextOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "test-model", req["model"])

		messages := req["messages"].([]any)
		content := messages[0].(map[string]any)["content"].([]any)
		require.Len(t, content, 1)
		assert.Equal(t, "text", content[0].(map[string]any)["type"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": "hello there"}}]}`))
	}))
	defer server.Close()

	client := NewClient(clientConfig(server.URL))
	got, err := client.Generate(context.Background(), "say hello", "")

	require.NoError(t, err)
	assert.Equal(t, "hello there", got)
}

func TestGenerateAttachesImagePart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		messages := req["messages"].([]any)
		content := messages[0].(map[string]any)["content"].([]any)
		require.Len(t, content, 2)

		imagePart := content[1].(map[string]any)
		assert.Equal(t, "image_url", imagePart["type"])
		url := imagePart["image_url"].(map[string]any)["url"].(string)
		assert.Equal(t, "data:image/jpeg;base64,aW1hZ2U=", url)

		w.Write([]byte(`{"choices": [{"message": {"content": "a fridge"}}]}`))
	}))
	defer server.Close()

	client := NewClient(clientConfig(server.URL))
	got, err := client.Generate(context.Background(), "describe", "aW1hZ2U=")

	require.NoError(t, err)
	assert.Equal(t, "a fridge", got)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	cfg := clientConfig("http://localhost:1")
	cfg.OpenRouter.APIKey = ""
	client := NewClient(cfg)

	_, err := client.Generate(context.Background(), "prompt", "")

	require.Error(t, err)
	assert.Equal(t, common.ErrCodeConfig, common.PipelineErrorCode(err))
}

func TestGenerateStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusPaymentRequired, common.ErrCodeUpstreamQuota},
		{http.StatusTooManyRequests, common.ErrCodeUpstreamQuota},
		{http.StatusUnauthorized, common.ErrCodeUpstreamAuth},
		{http.StatusBadGateway, common.ErrCodeUpstream},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		client := NewClient(clientConfig(server.URL))
		_, err := client.Generate(context.Background(), "prompt", "")

		require.Error(t, err, "status %d", tc.status)
		assert.Equal(t, tc.code, common.PipelineErrorCode(err), "status %d", tc.status)
		server.Close()
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	client := NewClient(clientConfig(server.URL))
	_, err := client.Generate(context.Background(), "prompt", "")

	require.Error(t, err)
	assert.Equal(t, common.ErrCodeUpstream, common.PipelineErrorCode(err))
}
