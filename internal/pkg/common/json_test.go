package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONUsesNumbers(t *testing.T) {
	var v map[string]any
	require.NoError(t, ParseJSON(`{"amount": 1.5}`, &v))

	n, ok := v["amount"].(json.Number)
	require.True(t, ok)
	f, err := n.Float64()
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v map[string]any
	err := ParseJSON(`{"a": 1} {"b": 2}`, &v)
	assert.Error(t, err)
}

func TestParseJSONStrict(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	assert.NoError(t, ParseJSONStrict(`{"name": "x"}`, &v))
	assert.Error(t, ParseJSONStrict(`{"name": "x", "extra": true}`, &v))
}

func TestQuoteJSONKeys(t *testing.T) {
	got := QuoteJSONKeys(`{name: "pasta", servings: 4}`)
	assert.Equal(t, `{"name": "pasta", "servings": 4}`, got)

	// already-quoted keys are untouched
	got = QuoteJSONKeys(`{"name": "pasta"}`)
	assert.Equal(t, `{"name": "pasta"}`, got)
}

func TestExtractJSONObject(t *testing.T) {
	content := "Here is the result:\n```json\n{\"ingredients\": \"milk,eggs\"}\n```"
	assert.Equal(t, `{"ingredients": "milk,eggs"}`, ExtractJSONObject(content))

	// no object present, input comes back trimmed
	assert.Equal(t, "plain text", ExtractJSONObject("  plain text  "))
}

func TestPipelineErrorHelpers(t *testing.T) {
	err := NewPipelineError(ErrCodeUpstreamQuota, "API quota exceeded. Please try again later.", nil)

	assert.Equal(t, ErrCodeUpstreamQuota, PipelineErrorCode(err))
	assert.Equal(t, "API quota exceeded. Please try again later.", UserMessage(err, "fallback"))

	plain := assert.AnError
	assert.Equal(t, "", PipelineErrorCode(plain))
	assert.Equal(t, "fallback", UserMessage(plain, "fallback"))
}
