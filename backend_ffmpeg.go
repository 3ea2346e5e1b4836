package heictopng

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ffmpegBackend shells out to an ffmpeg binary. Slowest backend and the
// only one that touches the filesystem (ffmpeg wants file paths), but it
// covers codec variants no in-process library handles. The binary location
// comes from Capabilities so the backend fails fast, and stays testable,
// when ffmpeg is absent.
type ffmpegBackend struct {
	caps Capabilities
}

// NewFFmpegBackend returns the external-ffmpeg decode backend.
func NewFFmpegBackend(caps Capabilities) Backend {
	return &ffmpegBackend{caps: caps}
}

func (f *ffmpegBackend) Name() string { return "ffmpeg" }

func (f *ffmpegBackend) Decode(ctx context.Context, img *InputImage) ([]byte, error) {
	if f.caps.FFmpegPath == "" {
		return nil, fmt.Errorf("ffmpeg binary not found: %w", ErrEnvironmentUnsupported)
	}

	dir, err := os.MkdirTemp("", "heictopng-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "in.heic")
	outPath := filepath.Join(dir, "out.png")
	if err := os.WriteFile(inPath, img.Data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp input: %v", err)
	}

	// Only the primary still image is wanted, even from image sequences.
	// Compile builds the argument list against a bare "ffmpeg" name, which
	// bakes a PATH lookup (and its failure) into the command; rebuild the
	// command around the capability-provided binary so a configured path
	// works even when ffmpeg is absent from PATH.
	compiled := ffmpeg.Input(inPath).
		Output(outPath, ffmpeg.KwArgs{"frames:v": "1"}).
		OverWriteOutput().
		Compile()
	cmd := exec.Command(f.caps.FFmpegPath, compiled.Args[1:]...)

	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %v: %w", err, ErrEnvironmentUnsupported)
	}

	wait := make(chan error, 1)
	go func() { wait <- cmd.Wait() }()

	select {
	case err := <-wait:
		if err != nil {
			return nil, fmt.Errorf("ffmpeg conversion failed: %s: %w", lastStderrLine(stderr.String()), ErrUnsupportedVariant)
		}
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-wait
		return nil, ctx.Err()
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg produced no output: %w", ErrUnsupportedVariant)
	}
	return data, nil
}

// lastStderrLine returns the final non-empty stderr line, which for ffmpeg
// is usually the actual failure reason.
func lastStderrLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "unknown error"
}
