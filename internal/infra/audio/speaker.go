//go:build speaker
// +build speaker

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"talkpad/internal/domain"
)

// Speaker plays WAV artifacts on the default output device. It re-initializes
// the device only when the sample rate changes.
type Speaker struct {
	pollInterval time.Duration
	logger       *slog.Logger

	mu   sync.Mutex
	rate beep.SampleRate
}

func NewSpeaker(pollInterval time.Duration, logger *slog.Logger) *Speaker {
	return &Speaker{
		pollInterval: PollInterval(pollInterval),
		logger:       logger,
	}
}

func (s *Speaker) PollInterval() time.Duration {
	return s.pollInterval
}

func (s *Speaker) Name() string {
	return "speaker"
}

func (s *Speaker) Play(ctx context.Context, artifact domain.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(artifact.Path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", domain.ErrPlayback, artifact.Path, err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return fmt.Errorf("%w: decoding wav: %w", domain.ErrPlayback, err)
	}
	defer streamer.Close()

	if format.SampleRate != s.rate {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("%w: initializing speaker: %w", domain.ErrPlayback, err)
		}
		s.rate = format.SampleRate
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	s.logger.Debug("playback started",
		"path", artifact.Path,
		"duration", format.SampleRate.D(streamer.Len()),
	)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			speaker.Clear()
			return ctx.Err()
		case <-ticker.C:
			if err := streamer.Err(); err != nil {
				speaker.Clear()
				return fmt.Errorf("%w: streaming: %w", domain.ErrPlayback, err)
			}
		}
	}
}

func (s *Speaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rate != 0 {
		speaker.Close()
		s.rate = 0
	}
	return nil
}
