package heictopng

import "strings"

var sourceExtensions = []string{".heic", ".heif"}

// OutputName derives the output file name: a trailing .heic or .heif
// extension is replaced with .png exactly once, case-insensitively, with
// every other name component preserved verbatim. A name without a
// recognized trailing extension gets .png appended.
func OutputName(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)] + ".png"
		}
	}
	return name + ".png"
}
