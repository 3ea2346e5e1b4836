//go:build !libheif
// +build !libheif

package heictopng

import (
	"context"
	"fmt"
	"image/png"
)

// libheifBackend is the stub used when the cgo libheif bindings are not
// compiled in (the default).
type libheifBackend struct{}

// NewLibheifBackend returns a backend that always reports libheif as
// absent from this build.
func NewLibheifBackend(_ png.CompressionLevel) Backend {
	return &libheifBackend{}
}

func (l *libheifBackend) Name() string { return "libheif" }

func (l *libheifBackend) Decode(_ context.Context, _ *InputImage) ([]byte, error) {
	return nil, fmt.Errorf("libheif is not compiled into this build: %w", ErrEnvironmentUnsupported)
}
