package chat

import (
	"context"
	"errors"
	"testing"

	"fridge-chef/internal/core/ai"
	"fridge-chef/internal/core/pipeline"
	"fridge-chef/internal/core/recipe"
	"fridge-chef/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, imageData string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

type stubProvider struct{}

func (stubProvider) Search(ctx context.Context, ingredients string) ([]recipe.Stub, error) {
	return nil, errors.New("not used")
}

func (stubProvider) Details(ctx context.Context, stubs []recipe.Stub) (*recipe.DetailsResult, error) {
	return nil, errors.New("not used")
}

type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, imageBase64 string, original string) ([]string, string, error) {
	return nil, "", errors.New("extraction failed")
}

type stubFormatter struct{}

func (stubFormatter) Format(ctx context.Context, ingredients []string) (string, error) {
	return "", errors.New("not used")
}

func newTestDispatcher(gen *fakeGenerator) *Dispatcher {
	svc := ai.NewService(&config.Config{}, gen, nil)
	pipe := pipeline.New(stubExtractor{}, stubFormatter{}, stubProvider{})
	return NewDispatcher(pipe, svc)
}

func collect(d *Dispatcher, req Request) []pipeline.Event {
	var events []pipeline.Event
	d.Handle(context.Background(), req, func(e pipeline.Event) {
		events = append(events, e)
	})
	return events
}

func TestHandleEmptyRequestReturnsWelcome(t *testing.T) {
	events := collect(newTestDispatcher(&fakeGenerator{}), Request{})

	require.Len(t, events, 1)
	assert.Equal(t, pipeline.EventMessage, events[0].Type)
	assert.Equal(t, welcomeMessage, events[0].Message)
}

func TestHandleTextMessage(t *testing.T) {
	gen := &fakeGenerator{response: "Try a stir fry with those!"}
	events := collect(newTestDispatcher(gen), Request{Message: "what can I cook with broccoli?"})

	require.Len(t, events, 1)
	assert.Equal(t, pipeline.EventMessage, events[0].Type)
	assert.Equal(t, "Try a stir fry with those!", events[0].Message)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "what can I cook with broccoli?")
}

func TestHandleTextMessageModelFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	events := collect(newTestDispatcher(gen), Request{Message: "hello"})

	require.Len(t, events, 1)
	assert.Equal(t, uploadHint, events[0].Message)
}

func TestHandleImageRunsPipeline(t *testing.T) {
	events := collect(newTestDispatcher(&fakeGenerator{}), Request{ImageBase64: "aW1hZ2U="})

	// pipeline events, not a plain message
	require.NotEmpty(t, events)
	assert.Equal(t, pipeline.EventStepUpdate, events[0].Type)
	assert.Equal(t, pipeline.StepExtract, events[0].Step.StepName)
}
