package heictopng

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies why a conversion failed.
type ErrorKind string

const (
	KindFileTooLarge           ErrorKind = "file_too_large"
	KindInvalidFormat          ErrorKind = "invalid_format"
	KindEnvironmentUnsupported ErrorKind = "environment_unsupported"
	KindDecodeTimeout          ErrorKind = "decode_timeout"
	KindUnsupportedVariant     ErrorKind = "unsupported_variant"
	KindAllStrategiesFailed    ErrorKind = "all_strategies_failed"
	KindCancelled              ErrorKind = "cancelled"
)

// Sentinel errors, one per kind. Backend implementations wrap these so the
// orchestrator can classify failures with errors.Is; ConversionError
// unwraps to the sentinel matching its Kind.
var (
	ErrFileTooLarge           = errors.New("file exceeds the size limit")
	ErrInvalidFormat          = errors.New("not a recognized HEIC/HEIF container")
	ErrEnvironmentUnsupported = errors.New("required decode capability is not available")
	ErrDecodeTimeout          = errors.New("decode attempt timed out")
	ErrUnsupportedVariant     = errors.New("file may be corrupted or an unsupported HEIC variant")
	ErrAllStrategiesFailed    = errors.New("every decode backend failed")
	ErrCancelled              = errors.New("conversion cancelled")
)

var kindSentinels = map[ErrorKind]error{
	KindFileTooLarge:           ErrFileTooLarge,
	KindInvalidFormat:          ErrInvalidFormat,
	KindEnvironmentUnsupported: ErrEnvironmentUnsupported,
	KindDecodeTimeout:          ErrDecodeTimeout,
	KindUnsupportedVariant:     ErrUnsupportedVariant,
	KindAllStrategiesFailed:    ErrAllStrategiesFailed,
	KindCancelled:              ErrCancelled,
}

// ConversionError is the classified failure half of an Outcome. Attempts
// records what each backend did, in the order the backends ran; it is
// empty when the file was rejected before any backend was tried.
type ConversionError struct {
	Kind     ErrorKind
	Message  string
	Attempts []BackendAttempt
}

func (e *ConversionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

// Unwrap lets errors.Is match a ConversionError against the sentinel for
// its kind.
func (e *ConversionError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// classifyAttemptErr maps a single backend failure onto an ErrorKind.
func classifyAttemptErr(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrEnvironmentUnsupported):
		return KindEnvironmentUnsupported
	case errors.Is(err, ErrDecodeTimeout):
		return KindDecodeTimeout
	default:
		return KindUnsupportedVariant
	}
}

// aggregateFailure builds the AllStrategiesFailed error for a file whose
// every backend attempt failed. The message lists each backend's reason;
// an EnvironmentUnsupported failure among them dominates the leading hint
// because it is actionable by the user, while everything else collapses
// into a generic corruption/variant hint.
func aggregateFailure(name string, attempts []BackendAttempt) *ConversionError {
	hint := ErrUnsupportedVariant.Error()
	for _, at := range attempts {
		if errors.Is(at.Err, ErrEnvironmentUnsupported) {
			hint = "a decode capability is missing from this environment; install ffmpeg or use a build with HEIC support"
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "failed to convert %q: %s", name, hint)
	for _, at := range attempts {
		fmt.Fprintf(&b, "; %s: %v", at.Backend, at.Err)
	}

	return &ConversionError{
		Kind:     KindAllStrategiesFailed,
		Message:  b.String(),
		Attempts: attempts,
	}
}
