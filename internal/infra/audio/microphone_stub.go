//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"

	"talkpad/internal/application"
	"talkpad/internal/domain"
)

// Microphone stub when portaudio is not available
type Microphone struct {
	logger *slog.Logger
}

func NewMicrophone(deviceIndex, framesPerBuffer int, logger *slog.Logger) *Microphone {
	return &Microphone{logger: logger}
}

func (m *Microphone) Name() string {
	return "microphone"
}

func (m *Microphone) Format() domain.AudioFormat {
	return domain.CaptureFormat()
}

func (m *Microphone) Start(_ context.Context) error {
	return fmt.Errorf("microphone not available: rebuild with -tags portaudio")
}

func (m *Microphone) Stop() error {
	return nil
}

func (m *Microphone) Open(_ context.Context) (application.CaptureStream, error) {
	return nil, fmt.Errorf("microphone not available")
}
