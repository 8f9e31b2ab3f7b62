// Package images normalizes uploaded trade screenshots into a compact,
// inline-storable form.
package images

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	maxDimension = 1200
	jpegQuality  = 85
)

// EncodeScreenshot decodes an uploaded image, downsamples it to fit within
// 1200x1200 (never upscaling), re-encodes it as JPEG and returns it as a
// base64 data URL suitable for storing directly on the trade record.
func EncodeScreenshot(data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxDimension || img.Bounds().Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
