//go:build !noheif
// +build !noheif

package heictopng

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/jdeng/goheif"
)

// goheifBackend decodes HEIC through the goheif library (libde265 wrapped
// for Go). Broadest pure-library coverage of real-world HEIC files.
type goheifBackend struct {
	level png.CompressionLevel
}

// NewGoheifBackend returns the goheif-based decode backend.
func NewGoheifBackend(level png.CompressionLevel) Backend {
	return &goheifBackend{level: level}
}

func (g *goheifBackend) Name() string { return "goheif" }

func (g *goheifBackend) Decode(_ context.Context, img *InputImage) ([]byte, error) {
	m, err := goheif.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode HEIC image: %v: %w", err, ErrUnsupportedVariant)
	}

	// goheif does not apply the orientation transform itself; bake it into
	// the pixels, since PNG has nowhere to carry the tag.
	if exifData, err := goheif.ExtractExif(bytes.NewReader(img.Data)); err == nil {
		m = applyOrientation(m, exifData)
	}

	return encodePNG(m, g.level)
}
