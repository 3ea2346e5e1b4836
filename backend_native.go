package heictopng

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	// Widen the native probe to every format the runtime can register.
	// Some platform toolchains additionally register HEIF decoders; when
	// they do, this backend handles the file without any heavier fallback.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// nativeBackend lets the host runtime's own image decoding path try the
// container directly via image.Decode. Cheapest backend, least portable:
// on a stock toolchain it only succeeds when the "HEIC" file is actually a
// format the runtime already knows (mislabeled JPEG/PNG uploads are common).
type nativeBackend struct {
	level png.CompressionLevel
}

// NewNativeBackend returns the host-runtime probe backend.
func NewNativeBackend(level png.CompressionLevel) Backend {
	return &nativeBackend{level: level}
}

func (n *nativeBackend) Name() string { return "native" }

func (n *nativeBackend) Decode(_ context.Context, img *InputImage) ([]byte, error) {
	m, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("no registered decoder recognizes the data: %w", ErrEnvironmentUnsupported)
		}
		return nil, fmt.Errorf("failed to decode image: %v: %w", err, ErrUnsupportedVariant)
	}
	return encodePNG(m, n.level)
}
