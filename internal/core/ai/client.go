package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"fridge-chef/internal/infrastructure/config"
	"fridge-chef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client is the OpenRouter chat-completions client used for both vision and
// text-only model calls.
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient creates an OpenRouter client.
func NewClient(cfg *config.Config) *Client {
	baseURL := cfg.OpenRouter.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://fridge-chef.app").
		SetHeader("X-Title", "Fridge Chef")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Generate sends a prompt, with an optional inline image, to the model and
// returns the text of the first choice.
func (c *Client) Generate(ctx context.Context, prompt string, imageData string) (string, error) {
	if c.config.OpenRouter.APIKey == "" {
		return "", common.NewPipelineError(common.ErrCodeConfig,
			"API configuration error. Please check that the model API key is properly configured.", nil)
	}

	msgContent := []map[string]interface{}{
		{
			"type": "text",
			"text": prompt,
		},
	}
	if imageData != "" {
		url := imageData
		if !strings.HasPrefix(imageData, "data:image/") {
			url = fmt.Sprintf("data:image/jpeg;base64,%s", imageData)
		}
		msgContent = append(msgContent, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]string{
				"url": url,
			},
		})
	}

	req := map[string]interface{}{
		"model": c.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": msgContent,
			},
		},
		"max_tokens": c.config.OpenRouter.MaxTokens,
	}

	common.LogDebug("sending model request",
		zap.String("model", c.config.OpenRouter.Model),
		zap.Bool("has_image", imageData != ""),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", common.NewPipelineError(common.ErrCodeUpstream,
			fmt.Sprintf("Failed to reach the model API: %s", err.Error()), err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		// fallthrough to parsing
	case resp.StatusCode() == http.StatusPaymentRequired || resp.StatusCode() == http.StatusTooManyRequests:
		return "", common.NewPipelineError(common.ErrCodeUpstreamQuota,
			"API quota exceeded. Please try again later.",
			fmt.Errorf("model API returned status %d", resp.StatusCode()))
	case resp.StatusCode() == http.StatusUnauthorized:
		return "", common.NewPipelineError(common.ErrCodeUpstreamAuth,
			"API configuration error. Please check that the model API key is properly configured.",
			fmt.Errorf("model API returned status %d", resp.StatusCode()))
	default:
		return "", common.NewPipelineError(common.ErrCodeUpstream,
			fmt.Sprintf("The model API returned an error (status %d).", resp.StatusCode()),
			fmt.Errorf("model API error: %s", sanitizeBody(resp.String())))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", common.NewPipelineError(common.ErrCodeUpstream,
			"The model returned a response that could not be parsed.", err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", common.NewPipelineError(common.ErrCodeUpstream,
			"The model returned an empty response.", fmt.Errorf("no choices in model response"))
	}

	return result.Choices[0].Message.Content, nil
}

// sanitizeBody keeps image payloads out of error messages and logs.
func sanitizeBody(body string) string {
	if strings.Contains(body, "data:image/") || strings.Contains(body, "base64") {
		return "[IMAGE_DATA_REMOVED]"
	}
	if len(body) > 500 {
		return body[:500]
	}
	return body
}
