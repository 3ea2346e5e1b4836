// Package heictopng converts HEIC/HEIF container images into PNG raster
// images.
//
// The package accepts one or many in-memory files and reports per-file
// success or failure without aborting the batch. Conversion is driven by an
// ordered chain of decode backends: a cheap probe of the host runtime's
// registered image decoders, a pure-Go HEIC decoder (goheif), an optional
// cgo libheif decoder, and an external ffmpeg fallback. The first backend to
// produce valid PNG output wins; when all of them fail the resulting error
// aggregates every backend's reason.
//
// Typical use:
//
//	conv, err := heictopng.New(heictopng.Options{})
//	if err != nil {
//		// bad options
//	}
//	result := conv.ConvertMany(ctx, inputs)
//
// Converted output can be handed to a presentation layer through a
// HandleRegistry, which issues revocable display handles (and optional
// preview thumbnails) for download and preview surfaces.
package heictopng
