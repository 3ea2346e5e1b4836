package heictopng

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ConvertMany converts every input, preserving input order in the result.
// Each file is fully isolated: one file's failure never prevents siblings
// from being attempted. Files run sequentially unless Options.Parallelism
// asked for a bounded worker pool; either way outcomes are written by
// input index, so order is identical.
//
// When ctx is cancelled mid-batch, outcomes already produced are kept and
// the untouched inputs are reported as failures, keeping the result slice
// aligned with the inputs.
func (c *Converter) ConvertMany(ctx context.Context, imgs []InputImage) BatchResult {
	res := BatchResult{Outcomes: make([]Outcome, len(imgs))}

	if c.opts.Parallelism > 1 {
		var g errgroup.Group
		g.SetLimit(c.opts.Parallelism)
		for i := range imgs {
			i := i
			g.Go(func() error {
				res.Outcomes[i] = c.convertUnlessCancelled(ctx, imgs[i])
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range imgs {
			res.Outcomes[i] = c.convertUnlessCancelled(ctx, imgs[i])
		}
	}

	for _, o := range res.Outcomes {
		if o.OK() {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}

	c.opts.Logger.Info("batch done",
		"total", len(imgs), "succeeded", res.Succeeded, "failed", res.Failed)
	return res
}

// convertUnlessCancelled skips files whose batch was already cancelled,
// reporting them as cancelled without touching their bytes. The empty
// attempt list distinguishes these from files whose backends actually ran.
func (c *Converter) convertUnlessCancelled(ctx context.Context, img InputImage) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{
			Name: img.Name,
			Err: &ConversionError{
				Kind:    KindCancelled,
				Message: fmt.Sprintf("cancelled before any backend ran: %v", err),
			},
		}
	}
	return c.ConvertOne(ctx, img)
}
