package heictopng

import (
	"fmt"
	"time"
)

// InputImage is one file to convert: an immutable byte buffer plus its
// original name and declared size. Size is known before any decode attempt
// so oversized files can be rejected without touching the bytes.
type InputImage struct {
	Name string
	Data []byte
	Size int64
}

// NewInputImage builds an InputImage with Size derived from the buffer.
func NewInputImage(name string, data []byte) InputImage {
	return InputImage{Name: name, Data: data, Size: int64(len(data))}
}

// BackendAttempt records one backend's try at one file. Attempts exist for
// diagnostics only; callers decide whether to log them.
type BackendAttempt struct {
	Backend string
	OK      bool
	Err     error
	Elapsed time.Duration
}

// Outcome is the result of converting a single file. Exactly one of the
// success fields (PNG, OutputName) or Err is populated.
type Outcome struct {
	// Name is the original input file name.
	Name string

	// PNG holds the encoded output on success.
	PNG []byte

	// OutputName is the derived output file name on success.
	OutputName string

	// Err is the classified failure, nil on success.
	Err *ConversionError
}

// OK reports whether the conversion succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// BatchResult aggregates per-file outcomes in input order plus summary
// counts.
type BatchResult struct {
	Outcomes  []Outcome
	Succeeded int
	Failed    int
}

// FailedNames returns one "name: kind" entry per failed file, in input
// order, for user-facing partial-failure summaries.
func (r BatchResult) FailedNames() []string {
	var failed []string
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %s", o.Name, o.Err.Kind))
		}
	}
	return failed
}
