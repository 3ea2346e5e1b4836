package heictopng

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"time"
)

// Backend is one self-contained decode strategy: it turns HEIC/HEIF bytes
// into encoded PNG bytes, or fails. Backends make no assumption about
// ordering and share no state; failures classifiable by the orchestrator
// wrap the package sentinels (ErrEnvironmentUnsupported and friends).
type Backend interface {
	// Name identifies the backend in diagnostics.
	Name() string

	// Decode converts img.Data to PNG bytes. Implementations that block on
	// external processes must honor ctx cancellation; pure computation may
	// ignore ctx (the orchestrator abandons it on timeout).
	Decode(ctx context.Context, img *InputImage) ([]byte, error)
}

// Capabilities describes what the host environment offers to backends. It
// is an explicit value rather than ambient global probing so backends stay
// testable without a live runtime.
type Capabilities struct {
	// FFmpegPath is the resolved ffmpeg binary path, empty when absent.
	FFmpegPath string
}

// DetectCapabilities probes the current environment.
func DetectCapabilities() Capabilities {
	var caps Capabilities
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		caps.FFmpegPath = path
	}
	return caps
}

// DefaultBackends returns the standard decode chain, fastest and most
// portable first: the host runtime's registered decoders, goheif, libheif
// (when compiled in), then external ffmpeg.
func DefaultBackends(caps Capabilities, level png.CompressionLevel) []Backend {
	return []Backend{
		NewNativeBackend(level),
		NewGoheifBackend(level),
		NewLibheifBackend(level),
		NewFFmpegBackend(caps),
	}
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// runBackend invokes one backend under a per-attempt timeout and validates
// its output. Empty output, output without the PNG signature, and panics
// all degrade to plain errors; a timed-out attempt is abandoned and
// reported as ErrDecodeTimeout so the next backend still gets its turn.
func runBackend(ctx context.Context, b Backend, img *InputImage, timeout time.Duration) ([]byte, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("backend panicked: %v", r)}
			}
		}()
		data, err := b.Decode(actx, img)
		done <- result{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("decode exceeded %s: %w", timeout, ErrDecodeTimeout)
			}
			return nil, res.err
		}
		if len(res.data) == 0 {
			return nil, fmt.Errorf("backend produced empty output: %w", ErrUnsupportedVariant)
		}
		if !bytes.HasPrefix(res.data, pngMagic) {
			return nil, fmt.Errorf("backend produced non-PNG output: %w", ErrUnsupportedVariant)
		}
		return res.data, nil
	case <-actx.Done():
		if errors.Is(actx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("decode exceeded %s: %w", timeout, ErrDecodeTimeout)
		}
		return nil, actx.Err()
	}
}

// encodePNG encodes a decoded image at the given compression level.
func encodePNG(m image.Image, level png.CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer
	enc := &png.Encoder{CompressionLevel: level}
	if err := enc.Encode(&buf, m); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %v", err)
	}
	return buf.Bytes(), nil
}
