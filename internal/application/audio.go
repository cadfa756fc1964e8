package application

import (
	"context"

	"talkpad/internal/domain"
)

// CaptureDevice opens a recording stream in the device's fixed format.
type CaptureDevice interface {
	Open(ctx context.Context) (CaptureStream, error)
	Format() domain.AudioFormat
}

// CaptureStream yields interleaved samples, one fixed-size chunk per Read.
// Read may block for at most about one chunk's duration.
type CaptureStream interface {
	Read() ([]int32, error)
	Close() error
}

type FormatConverter interface {
	ToPlaybackFormat(ctx context.Context, artifact domain.Artifact) (domain.Artifact, error)
}

// Player blocks until the artifact has finished playing.
type Player interface {
	Play(ctx context.Context, artifact domain.Artifact) error
}
