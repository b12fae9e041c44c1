// Package imaging implements the image transforms exposed as tools.
// Images arrive and leave as base64 strings because the protocol carries
// image payloads inline.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PNGMimeType is the MIME type of every image this package produces.
const PNGMimeType = "image/png"

// GrayscalePNG decodes a base64 image, converts it to single-channel
// luminance, and returns the result re-encoded as base64 PNG. Any decode
// or codec failure is a reported error, never a panic.
func GrayscalePNG(imageBase64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64 image data: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return "", fmt.Errorf("failed to encode %s image as PNG: %w", format, err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
