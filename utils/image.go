package utils

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// MaxImageBytes caps decoded meal photos.
const MaxImageBytes = 10 << 20

const (
	// MaxEncodedImageBytes is the base64 length of a MaxImageBytes photo.
	MaxEncodedImageBytes = (MaxImageBytes + 2) / 3 * 4
	// MaxImageRequestBytes bounds a request body carrying one encoded photo
	// plus its JSON envelope.
	MaxImageRequestBytes = MaxEncodedImageBytes + 256<<10
)

var ErrInvalidImage = errors.New("invalid image")

// ParseDataURI decodes "data:<mime>;base64,<data>". A bare base64 payload
// is accepted too; its type is then fallbackMime, or sniffed when that is
// empty.
func ParseDataURI(input, fallbackMime string) ([]byte, string, error) {
	input = strings.TrimSpace(input)
	payload, mimeType := input, fallbackMime

	if strings.HasPrefix(input, "data:") {
		meta, data, ok := strings.Cut(input, ",")
		if !ok {
			return nil, "", ErrInvalidImage
		}
		mediaType, encoding, _ := strings.Cut(strings.TrimPrefix(meta, "data:"), ";")
		if encoding != "base64" {
			return nil, "", ErrInvalidImage
		}
		payload, mimeType = data, mediaType
	}

	if len(payload) > MaxEncodedImageBytes {
		return nil, "", ErrInvalidImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 || len(data) > MaxImageBytes {
		return nil, "", ErrInvalidImage
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", ErrInvalidImage
	}
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}
