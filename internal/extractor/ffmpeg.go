// Package extractor pulls single still frames out of video files by
// wrapping the ffmpeg executable.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Option configures the ffmpeg wrapper.
type Option func(*FFmpeg)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(f *FFmpeg) {
		if binary != "" {
			f.binary = binary
		}
	}
}

// FFmpeg extracts frames via the ffmpeg command line.
type FFmpeg struct {
	binary string
}

// NewFFmpeg constructs a wrapper using defaults.
func NewFFmpeg(opts ...Option) *FFmpeg {
	extractor := &FFmpeg{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(extractor)
	}
	return extractor
}

// ExtractFrame seeks to timestamp seconds in input and writes exactly one
// video frame to output. The output encoding is chosen by ffmpeg from the
// output file extension.
func (f *FFmpeg) ExtractFrame(ctx context.Context, input, output string, timestamp float64) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(output) == "" {
		return errors.New("output path required")
	}
	if timestamp < 0 {
		return fmt.Errorf("timestamp must not be negative, got %v", timestamp)
	}

	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-ss", strconv.FormatFloat(timestamp, 'f', -1, 64),
		"-i", input,
		"-frames:v", "1",
		output,
	}

	slog.Debug("FFmpeg: extracting frame",
		"input", input,
		"output", output,
		"timestamp", timestamp)

	cmd := commandContext(ctx, f.binary, args...)
	combined, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg frame extraction failed: %w: %s", err, strings.TrimSpace(string(combined)))
	}

	slog.Debug("FFmpeg: frame extraction complete", "output", output)
	return nil
}
