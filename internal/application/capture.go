package application

import (
	"context"
	"fmt"
	"math"

	"talkpad/internal/domain"
)

// CaptureBuffer owns the capture stream for one armed period and the chunks
// read from it. It is not safe for concurrent use.
type CaptureBuffer struct {
	device CaptureDevice
	gain   float64

	stream CaptureStream
	frames [][]int32
}

func NewCaptureBuffer(device CaptureDevice, gain float64) *CaptureBuffer {
	return &CaptureBuffer{
		device: device,
		gain:   gain,
	}
}

func (b *CaptureBuffer) Armed() bool {
	return b.stream != nil
}

// Frames returns the number of chunks captured since arming.
func (b *CaptureBuffer) Frames() int {
	return len(b.frames)
}

// Arm opens a fresh stream. Arming an armed buffer does nothing.
func (b *CaptureBuffer) Arm(ctx context.Context) error {
	if b.Armed() {
		return nil
	}

	stream, err := b.device.Open(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCaptureOpen, err)
	}

	b.stream = stream
	b.frames = nil
	return nil
}

// Capture reads one chunk. A failed read leaves the buffer armed and the
// already captured chunks untouched.
func (b *CaptureBuffer) Capture() error {
	if !b.Armed() {
		return fmt.Errorf("%w: buffer not armed", domain.ErrCaptureRead)
	}

	chunk, err := b.stream.Read()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCaptureRead, err)
	}

	b.frames = append(b.frames, chunk)
	return nil
}

// Finalize closes the stream, disarms the buffer and returns the amplified
// recording. A close error is returned alongside a valid blob.
func (b *CaptureBuffer) Finalize() (domain.AudioBlob, error) {
	closeErr := b.Release()

	blob := Amplify(b.frames, b.gain, b.device.Format())
	b.frames = nil

	if closeErr != nil {
		return blob, fmt.Errorf("closing capture stream: %w", closeErr)
	}
	return blob, nil
}

// Release closes the stream if one is open. Safe to call repeatedly.
func (b *CaptureBuffer) Release() error {
	if b.stream == nil {
		return nil
	}
	stream := b.stream
	b.stream = nil
	return stream.Close()
}

// Amplify concatenates chunks in order and scales every sample by gain,
// saturating at the int32 bounds instead of wrapping.
func Amplify(frames [][]int32, gain float64, format domain.AudioFormat) domain.AudioBlob {
	total := 0
	for _, chunk := range frames {
		total += len(chunk)
	}

	samples := make([]int32, 0, total)
	for _, chunk := range frames {
		for _, s := range chunk {
			samples = append(samples, clip(float64(s)*gain))
		}
	}

	return domain.AudioBlob{
		Format:  format,
		Samples: samples,
	}
}

func clip(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
