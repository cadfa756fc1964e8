//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"

	"talkpad/internal/application"
	"talkpad/internal/domain"
)

// Microphone records from one PortAudio input device in the capture format.
type Microphone struct {
	deviceIndex     int
	framesPerBuffer int
	format          domain.AudioFormat
	logger          *slog.Logger
}

func NewMicrophone(deviceIndex, framesPerBuffer int, logger *slog.Logger) *Microphone {
	return &Microphone{
		deviceIndex:     deviceIndex,
		framesPerBuffer: framesPerBuffer,
		format:          domain.CaptureFormat(),
		logger:          logger,
	}
}

func (m *Microphone) Name() string {
	return "microphone"
}

func (m *Microphone) Format() domain.AudioFormat {
	return m.format
}

func (m *Microphone) Start(_ context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	device, err := m.device()
	if err != nil {
		portaudio.Terminate()
		return err
	}

	m.logger.Info("microphone ready",
		"device", device.Name,
		"sampleRate", m.format.SampleRate,
		"channels", m.format.Channels,
	)
	return nil
}

func (m *Microphone) Stop() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminating portaudio: %w", err)
	}
	return nil
}

func (m *Microphone) Open(_ context.Context) (application.CaptureStream, error) {
	device, err := m.device()
	if err != nil {
		return nil, err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: m.format.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(m.format.SampleRate),
		FramesPerBuffer: m.framesPerBuffer,
	}

	buffer := make([]int32, m.framesPerBuffer*m.format.Channels)
	stream, err := portaudio.OpenStream(params, buffer)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("starting stream: %w", err)
	}

	return &micStream{stream: stream, buffer: buffer, logger: m.logger}, nil
}

func (m *Microphone) device() (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	if m.deviceIndex < 0 || m.deviceIndex >= len(devices) {
		return nil, fmt.Errorf("input device %d not found (%d devices)", m.deviceIndex, len(devices))
	}
	device := devices[m.deviceIndex]
	if device.MaxInputChannels < m.format.Channels {
		return nil, fmt.Errorf("device %q has %d input channels, need %d",
			device.Name, device.MaxInputChannels, m.format.Channels)
	}
	return device, nil
}

type micStream struct {
	stream *portaudio.Stream
	buffer []int32
	logger *slog.Logger
	closed bool
}

// Read keeps the chunk when the input overflowed; the lost frames are gone
// either way.
func (s *micStream) Read() ([]int32, error) {
	if err := s.stream.Read(); err != nil {
		if !errors.Is(err, portaudio.InputOverflowed) {
			return nil, fmt.Errorf("reading from stream: %w", err)
		}
		s.logger.Debug("input overflowed")
	}

	chunk := make([]int32, len(s.buffer))
	copy(chunk, s.buffer)
	return chunk, nil
}

func (s *micStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	stopErr := s.stream.Stop()
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("closing stream: %w", err)
	}
	if stopErr != nil {
		return fmt.Errorf("stopping stream: %w", stopErr)
	}
	return nil
}
