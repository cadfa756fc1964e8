//go:build !speaker
// +build !speaker

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"talkpad/internal/domain"
)

// Speaker stub when the audio output backend is not compiled in
type Speaker struct {
	pollInterval time.Duration
	logger       *slog.Logger
}

func NewSpeaker(pollInterval time.Duration, logger *slog.Logger) *Speaker {
	return &Speaker{pollInterval: PollInterval(pollInterval), logger: logger}
}

func (s *Speaker) PollInterval() time.Duration {
	return s.pollInterval
}

func (s *Speaker) Name() string {
	return "speaker"
}

func (s *Speaker) Play(_ context.Context, artifact domain.Artifact) error {
	return fmt.Errorf("%w: speaker not available, rebuild with -tags speaker", domain.ErrPlayback)
}

func (s *Speaker) Stop() error {
	return nil
}
