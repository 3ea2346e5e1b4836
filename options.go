package heictopng

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"time"
)

const (
	// DefaultMaxFileSize is the per-file size ceiling applied before any
	// bytes are read.
	DefaultMaxFileSize = 50 << 20 // 50 MiB

	// DefaultBackendTimeout bounds each backend attempt; a timed-out
	// attempt still lets later backends try the file.
	DefaultBackendTimeout = 5 * time.Second
)

// Options configures a Converter. The zero value is usable: New fills in
// the documented defaults.
type Options struct {
	// MaxFileSize is the per-file ceiling in bytes (default 50 MiB).
	MaxFileSize int64

	// BackendTimeout is the per-backend-attempt timeout (default 5s).
	BackendTimeout time.Duration

	// AllowUnknownSignature bypasses the container-signature gate. The
	// gate is a heuristic; real-world files occasionally carry brand codes
	// outside the known table, and with this set they go straight to the
	// backends instead of being rejected.
	AllowUnknownSignature bool

	// Parallelism is the number of files converted concurrently by
	// ConvertMany. Values below 2 mean sequential, the default, which
	// bounds peak memory to one decode buffer at a time.
	Parallelism int

	// CompressionLevel is passed through to the PNG encoder.
	CompressionLevel png.CompressionLevel

	// Backends overrides the decode chain; empty means DefaultBackends.
	Backends []Backend

	// Capabilities overrides environment detection for the default chain.
	Capabilities *Capabilities

	// Logger receives ambient diagnostics; nil discards them. Structured
	// per-attempt diagnostics are always available to callers through
	// BackendAttempt records regardless of logging.
	Logger *slog.Logger
}

// withDefaults validates the options and fills in defaults.
func (o Options) withDefaults() (Options, error) {
	if o.MaxFileSize < 0 {
		return o, fmt.Errorf("max file size must not be negative")
	}
	if o.MaxFileSize == 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}

	if o.BackendTimeout < 0 {
		return o, fmt.Errorf("backend timeout must not be negative")
	}
	if o.BackendTimeout == 0 {
		o.BackendTimeout = DefaultBackendTimeout
	}

	if o.Parallelism < 0 {
		return o, fmt.Errorf("parallelism must not be negative")
	}

	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if len(o.Backends) == 0 {
		caps := o.Capabilities
		if caps == nil {
			detected := DetectCapabilities()
			caps = &detected
		}
		o.Backends = DefaultBackends(*caps, o.CompressionLevel)
	}

	return o, nil
}
