package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"talkpad/internal/domain"
)

// stderrTail bounds how much ffmpeg output is attached to an error.
const stderrTail = 512

// Converter re-encodes artifacts into the playback format with an ffmpeg binary.
type Converter struct {
	binary string
	format domain.AudioFormat
	logger *slog.Logger
}

// NewConverter resolves binary on PATH (or uses it as given when it is a path).
func NewConverter(binary string, logger *slog.Logger) (*Converter, error) {
	if binary == "" {
		binary = "ffmpeg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	logger.Debug("ffmpeg found", "path", path)
	return &Converter{
		binary: path,
		format: domain.PlaybackFormat(),
		logger: logger,
	}, nil
}

func (c *Converter) ToPlaybackFormat(ctx context.Context, artifact domain.Artifact) (domain.Artifact, error) {
	out := strings.TrimSuffix(artifact.Path, filepath.Ext(artifact.Path)) + "_playback.wav"

	args := []string{
		"-y",
		"-i", artifact.Path,
		"-ar", strconv.Itoa(c.format.SampleRate),
		"-ac", strconv.Itoa(c.format.Channels),
		"-sample_fmt", fmt.Sprintf("s%d", c.format.BitDepth),
		out,
	}

	cmd := exec.CommandContext(ctx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(out)
		if ctx.Err() != nil {
			return domain.Artifact{}, fmt.Errorf("%w: %w", domain.ErrConversion, ctx.Err())
		}
		c.logger.Debug("ffmpeg failed", "error", err, "stderr", stderr.String())
		return domain.Artifact{}, fmt.Errorf("%w: %w: %s", domain.ErrConversion, err, tail(stderr.String()))
	}

	return domain.Artifact{Path: out, Format: "wav"}, nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = "..." + s[len(s)-stderrTail:]
	}
	return s
}
