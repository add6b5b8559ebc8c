// Package chat routes an incoming chat request either into the recipe
// pipeline or to a plain conversational reply.
package chat

import (
	"context"
	"fmt"
	"strings"

	"fridge-chef/internal/core/ai"
	"fridge-chef/internal/core/pipeline"
	"fridge-chef/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	welcomeMessage = "👋 Welcome! I can help you find recipes based on what's in your fridge. Upload a photo of your fridge or ask me any cooking questions!"

	uploadHint = "I can help you find recipes! Please upload a photo of your fridge to get started."

	assistantPrompt = `You are a helpful cooking assistant that helps users find recipes based on ingredients in their fridge.
Be friendly, helpful, and provide useful cooking suggestions!

User message: %s`
)

// Request is the body of a chat turn.
type Request struct {
	ImageBase64 string `json:"image_base64,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Dispatcher decides between the recipe pipeline and a direct reply.
type Dispatcher struct {
	pipeline *pipeline.Pipeline
	ai       *ai.Service
}

// NewDispatcher creates a chat dispatcher.
func NewDispatcher(p *pipeline.Pipeline, svc *ai.Service) *Dispatcher {
	return &Dispatcher{pipeline: p, ai: svc}
}

// Handle processes one chat turn, streaming events through emit. A request
// with an image runs the full pipeline; otherwise the message is answered
// directly, and an empty request gets the welcome reply.
func (d *Dispatcher) Handle(ctx context.Context, req Request, emit pipeline.EmitFunc) {
	if req.ImageBase64 != "" {
		common.LogInfo("starting recipe workflow with image")
		d.pipeline.Run(ctx, req.ImageBase64, emit)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		emit(pipeline.Event{Type: pipeline.EventMessage, Message: welcomeMessage})
		return
	}

	reply, err := d.ai.ProcessRequest(ctx, fmt.Sprintf(assistantPrompt, req.Message), "")
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			common.LogWarn("conversational reply failed", zap.Error(err))
		}
		reply = uploadHint
	}
	emit(pipeline.Event{Type: pipeline.EventMessage, Message: reply})
}
