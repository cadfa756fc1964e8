package domain

import "encoding/binary"

type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// CaptureFormat is what the voice HAT records and what the remote service expects.
func CaptureFormat() AudioFormat {
	return AudioFormat{
		SampleRate: 48000,
		Channels:   2,
		BitDepth:   32,
	}
}

// PlaybackFormat is the PCM layout handed to the speaker.
func PlaybackFormat() AudioFormat {
	return AudioFormat{
		SampleRate: 44100,
		Channels:   2,
		BitDepth:   16,
	}
}

func (f AudioFormat) BytesPerSample() int {
	return f.BitDepth / 8
}

// AudioBlob is a finalized recording: interleaved signed 32-bit samples.
type AudioBlob struct {
	Format  AudioFormat
	Samples []int32
}

func (b AudioBlob) Empty() bool {
	return len(b.Samples) == 0
}

// Bytes returns the samples as little-endian PCM.
func (b AudioBlob) Bytes() []byte {
	out := make([]byte, len(b.Samples)*4)
	for i, s := range b.Samples {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(s))
	}
	return out
}

// Artifact is an ephemeral audio file produced during a turn.
type Artifact struct {
	Path   string
	Format string
}
