package heictopng

import "bytes"

// Signature is the brand code found in a HEIC/HEIF file's initial "ftyp"
// box. It identifies the container sub-format.
type Signature string

const (
	SignatureHEIC Signature = "heic"
	SignatureHEIX Signature = "heix"
	SignatureHEVC Signature = "hevc"
	SignatureHEVX Signature = "hevx"
	SignatureMIF1 Signature = "mif1"
	SignatureMSF1 Signature = "msf1"

	// SignatureUnknown means the buffer is too short, has no ftyp box, or
	// carries a brand this package does not recognize.
	SignatureUnknown Signature = "unknown"
)

// signatureHeaderLen is the minimum number of bytes needed to read the
// ftyp box type and its major brand.
const signatureHeaderLen = 12

var ftypMarker = []byte("ftyp")

var knownBrands = map[string]Signature{
	"heic": SignatureHEIC,
	"heix": SignatureHEIX,
	"hevc": SignatureHEVC,
	"hevx": SignatureHEVX,
	"mif1": SignatureMIF1,
	"msf1": SignatureMSF1,
}

// DetectSignature inspects the first bytes of data and returns the HEIC/HEIF
// brand code, or SignatureUnknown when the buffer is too short or does not
// look like a HEIC/HEIF container. It never reads past the fixed header
// window and never allocates.
//
// An ISO base media file starts with a box whose 4-byte size is followed by
// the box type at offset 4; for HEIC/HEIF that first box is "ftyp" and the
// major brand sits at offset 8.
func DetectSignature(data []byte) Signature {
	if len(data) < signatureHeaderLen {
		return SignatureUnknown
	}
	if !bytes.Equal(data[4:8], ftypMarker) {
		return SignatureUnknown
	}
	if sig, ok := knownBrands[string(data[8:12])]; ok {
		return sig
	}
	return SignatureUnknown
}
