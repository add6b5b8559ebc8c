// Package chat exposes the streaming chat endpoint.
package chat

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fridge-chef/internal/core/ai"
	"fridge-chef/internal/core/ai/image"
	chatcore "fridge-chef/internal/core/chat"
	"fridge-chef/internal/core/pipeline"
	"fridge-chef/internal/core/recipe"
	"fridge-chef/internal/infrastructure/config"
	"fridge-chef/internal/pkg/common"
)

// Handler serves POST /chat.
type Handler struct {
	config    *config.Config
	aiService *ai.Service
	processor *image.Processor
}

// NewHandler creates the chat handler.
func NewHandler(cfg *config.Config, aiService *ai.Service, processor *image.Processor) *Handler {
	return &Handler{
		config:    cfg,
		aiService: aiService,
		processor: processor,
	}
}

// Handle streams pipeline events as NDJSON. Outbound API clients are built
// per request so no connection state is shared between chat turns.
func (h *Handler) Handle(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}

	var req chatcore.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("invalid chat request body",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(common.ErrInvalidRequest.Status, gin.H{
			"error": common.ErrInvalidRequest.Message,
			"code":  common.ErrInvalidRequest.Code,
		})
		return
	}

	spoonClient := recipe.NewSpoonacularClient(h.config)
	provider := recipe.NewProvider(spoonClient)
	extractor := recipe.NewExtractor(h.aiService, h.processor)
	formatter := recipe.NewFormatter(h.aiService)
	pipe := pipeline.New(extractor, formatter, provider)
	dispatcher := chatcore.NewDispatcher(pipe, h.aiService)

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, _ := c.Writer.(http.Flusher)
	encoder := json.NewEncoder(c.Writer)

	emit := func(event pipeline.Event) {
		if err := encoder.Encode(event); err != nil {
			common.LogWarn("failed to write stream event",
				zap.String("event_type", event.Type),
				zap.String("request_id", requestID),
				zap.Error(err),
			)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	dispatcher.Handle(c.Request.Context(), req, emit)
}
