package heictopng

import (
	"context"
	"fmt"
	"time"
)

// Converter drives the decode backend chain for single files and batches.
// A Converter is safe for concurrent use; conversions share no mutable
// state.
type Converter struct {
	opts Options
}

// New builds a Converter, validating opts and filling in defaults.
func New(opts Options) (*Converter, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Converter{opts: opts}, nil
}

// ConvertOne converts a single file: size gate, signature gate, then the
// backend chain in priority order. The first backend to produce valid PNG
// output wins and no later backend runs. Every failure comes back as a
// classified *ConversionError inside the Outcome; nothing escapes as a
// raw fault.
func (c *Converter) ConvertOne(ctx context.Context, img InputImage) Outcome {
	out := Outcome{Name: img.Name}

	if img.Size > c.opts.MaxFileSize {
		out.Err = &ConversionError{
			Kind: KindFileTooLarge,
			Message: fmt.Sprintf("%q is %d bytes, over the %d byte limit; try a smaller file",
				img.Name, img.Size, c.opts.MaxFileSize),
		}
		c.opts.Logger.Warn("file rejected", "file", img.Name, "reason", out.Err.Kind)
		return out
	}

	sig := DetectSignature(img.Data)
	if sig == SignatureUnknown && !c.opts.AllowUnknownSignature {
		out.Err = &ConversionError{
			Kind:    KindInvalidFormat,
			Message: fmt.Sprintf("%q does not look like a HEIC/HEIF container (no known ftyp brand)", img.Name),
		}
		c.opts.Logger.Warn("file rejected", "file", img.Name, "reason", out.Err.Kind)
		return out
	}

	var attempts []BackendAttempt
	for _, b := range c.opts.Backends {
		start := time.Now()
		data, err := runBackend(ctx, b, &img, c.opts.BackendTimeout)
		attempt := BackendAttempt{
			Backend: b.Name(),
			OK:      err == nil,
			Err:     err,
			Elapsed: time.Since(start),
		}
		attempts = append(attempts, attempt)

		if err == nil {
			c.opts.Logger.Debug("backend succeeded",
				"file", img.Name, "backend", b.Name(), "signature", sig, "elapsed", attempt.Elapsed)
			out.PNG = data
			out.OutputName = OutputName(img.Name)
			return out
		}

		c.opts.Logger.Debug("backend failed",
			"file", img.Name, "backend", b.Name(), "kind", classifyAttemptErr(err), "err", err)

		// A cancelled batch should not grind through the rest of the chain.
		if ctx.Err() != nil {
			break
		}
	}

	out.Err = aggregateFailure(img.Name, attempts)
	c.opts.Logger.Warn("conversion failed", "file", img.Name, "backends", len(attempts))
	return out
}
