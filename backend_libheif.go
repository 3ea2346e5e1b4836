//go:build libheif
// +build libheif

package heictopng

import (
	"context"
	"fmt"
	"image/png"

	"github.com/strukturag/libheif/go/heif"
)

// libheifBackend decodes through the libheif cgo bindings. Heavier than
// goheif but tracks the reference implementation, so it handles variants
// goheif rejects. Requires libheif headers at build time; the libheif
// build tag opts in.
type libheifBackend struct {
	level png.CompressionLevel
}

// NewLibheifBackend returns the libheif-based decode backend.
func NewLibheifBackend(level png.CompressionLevel) Backend {
	return &libheifBackend{level: level}
}

func (l *libheifBackend) Name() string { return "libheif" }

func (l *libheifBackend) Decode(_ context.Context, img *InputImage) ([]byte, error) {
	hctx, err := heif.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create libheif context: %v: %w", err, ErrEnvironmentUnsupported)
	}

	if err := hctx.ReadFromMemory(img.Data); err != nil {
		return nil, fmt.Errorf("failed to read HEIC container: %v: %w", err, ErrUnsupportedVariant)
	}

	handle, err := hctx.GetPrimaryImageHandle()
	if err != nil {
		return nil, fmt.Errorf("failed to read primary image: %v: %w", err, ErrUnsupportedVariant)
	}

	heifImg, err := handle.DecodeImage(heif.ColorspaceUndefined, heif.ChromaUndefined, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v: %w", err, ErrUnsupportedVariant)
	}

	m, err := heifImg.GetImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert decoded image: %v: %w", err, ErrUnsupportedVariant)
	}

	return encodePNG(m, l.level)
}
