//go:build noheif
// +build noheif

package heictopng

import (
	"context"
	"fmt"
	"image/png"
)

// goheifBackend is the stub used when HEIC support is compiled out.
type goheifBackend struct{}

// NewGoheifBackend returns a backend that always reports HEIC support as
// disabled in this build.
func NewGoheifBackend(_ png.CompressionLevel) Backend {
	return &goheifBackend{}
}

func (g *goheifBackend) Name() string { return "goheif" }

func (g *goheifBackend) Decode(_ context.Context, _ *InputImage) ([]byte, error) {
	return nil, fmt.Errorf("HEIC support is disabled in this build: %w", ErrEnvironmentUnsupported)
}
