package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Processor validates and normalizes base64 image payloads before they are
// sent to the vision model.
type Processor struct {
	maxSizeBytes int64
}

// NewProcessor creates an image processor.
func NewProcessor(maxSizeBytes int64) *Processor {
	return &Processor{
		maxSizeBytes: maxSizeBytes,
	}
}

// StripDataURL removes a data-URL prefix from a base64 payload, trims
// whitespace, and re-pads the payload to a multiple of 4 characters.
func StripDataURL(imageData string) string {
	if strings.HasPrefix(imageData, "data:") {
		if idx := strings.Index(imageData, ","); idx != -1 {
			imageData = imageData[idx+1:]
		}
	}
	imageData = strings.TrimSpace(imageData)
	if missing := len(imageData) % 4; missing != 0 {
		imageData += strings.Repeat("=", 4-missing)
	}
	return imageData
}

// Decode strips any data-URL prefix and decodes the base64 payload.
func (p *Processor) Decode(imageData string) ([]byte, error) {
	if imageData == "" {
		return nil, errors.New("image data is empty")
	}

	cleaned := StripDataURL(imageData)
	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}

	if p.maxSizeBytes > 0 && int64(len(decoded)) > p.maxSizeBytes {
		return nil, fmt.Errorf("image size %d exceeds maximum of %d bytes", len(decoded), p.maxSizeBytes)
	}

	return decoded, nil
}

// FormatImageData returns the payload as a data URL, which is the shape the
// model API expects for inline images.
func (p *Processor) FormatImageData(imageData string) (string, error) {
	if imageData == "" {
		return "", errors.New("image data is empty")
	}
	if strings.HasPrefix(imageData, "data:image/") {
		return imageData, nil
	}
	return fmt.Sprintf("data:image/jpeg;base64,%s", StripDataURL(imageData)), nil
}
