package heictopng

import (
	"bytes"
	"image"

	"github.com/rwcarlsen/goexif/exif"
)

// applyOrientation bakes an EXIF orientation into the pixels. PNG output
// cannot carry the orientation tag, so a sideways phone photo must be
// rotated here or it stays sideways forever. exifData is the raw EXIF
// payload extracted from the container; any parse failure leaves the image
// untouched.
func applyOrientation(m image.Image, exifData []byte) image.Image {
	if len(exifData) == 0 {
		return m
	}

	x, err := exif.Decode(bytes.NewReader(tiffPayload(exifData)))
	if err != nil {
		return m
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return m
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return m
	}

	switch orientation {
	case 2:
		return flipHorizontal(m)
	case 3:
		return rotate180(m)
	case 4:
		return flipVertical(m)
	case 5:
		return flipHorizontal(rotate90CW(m))
	case 6:
		return rotate90CW(m)
	case 7:
		return flipHorizontal(rotate90CCW(m))
	case 8:
		return rotate90CCW(m)
	default:
		// 1 is normal; anything unknown is left alone.
		return m
	}
}

// tiffPayload strips the exif_tiff_header_offset prefix a HEIF Exif item
// may carry, returning the slice starting at the TIFF byte-order marker.
func tiffPayload(data []byte) []byte {
	for i := 0; i+4 <= len(data) && i <= 16; i++ {
		big := data[i] == 'M' && data[i+1] == 'M' && data[i+2] == 0x00 && data[i+3] == '*'
		little := data[i] == 'I' && data[i+1] == 'I' && data[i+2] == '*' && data[i+3] == 0x00
		if big || little {
			return data[i:]
		}
	}
	return data
}

// rotate90CW rotates image 90 degrees clockwise.
func rotate90CW(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(h-1-y, x, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// rotate90CCW rotates image 90 degrees counter-clockwise.
func rotate90CCW(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// rotate180 rotates image 180 degrees.
func rotate180(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, h-1-y, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// flipHorizontal flips image horizontally.
func flipHorizontal(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, y, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}

// flipVertical flips image vertically.
func flipVertical(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, h-1-y, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return dst
}
