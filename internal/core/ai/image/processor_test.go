package image

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	assert.Equal(t, payload, StripDataURL("data:image/png;base64,"+payload))
	assert.Equal(t, payload, StripDataURL(payload))
	assert.Equal(t, payload, StripDataURL("  "+payload+"  "))
}

func TestStripDataURLRepads(t *testing.T) {
	unpadded := strings.TrimRight(base64.StdEncoding.EncodeToString([]byte("hello")), "=")
	got := StripDataURL(unpadded)
	assert.Equal(t, 0, len(got)%4)

	decoded, err := base64.StdEncoding.DecodeString(got)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(decoded))
}

func TestDecode(t *testing.T) {
	p := NewProcessor(1024)
	payload := base64.StdEncoding.EncodeToString([]byte("image bytes"))

	decoded, err := p.Decode("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(decoded))
}

func TestDecodeInvalid(t *testing.T) {
	p := NewProcessor(1024)

	_, err := p.Decode("!!!not base64!!!")
	assert.Error(t, err)

	_, err = p.Decode("")
	assert.Error(t, err)
}

func TestDecodeSizeLimit(t *testing.T) {
	p := NewProcessor(4)
	payload := base64.StdEncoding.EncodeToString([]byte("this is more than four bytes"))

	_, err := p.Decode(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestFormatImageData(t *testing.T) {
	p := NewProcessor(1024)
	payload := base64.StdEncoding.EncodeToString([]byte("img"))

	got, err := p.FormatImageData(payload)
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,"+payload, got)

	// already a data URL, returned as-is
	got, err = p.FormatImageData("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+payload, got)

	_, err = p.FormatImageData("")
	assert.Error(t, err)
}
