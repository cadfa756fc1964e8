package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"talkpad/internal/domain"
)

// EncodeWAV wraps the blob's PCM in a canonical 44-byte RIFF header.
func EncodeWAV(blob domain.AudioBlob) []byte {
	var buf bytes.Buffer

	f := blob.Format
	data := blob.Bytes()
	blockAlign := f.Channels * f.BytesPerSample()

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, int32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, int32(16))
	binary.Write(&buf, binary.LittleEndian, int16(1))
	binary.Write(&buf, binary.LittleEndian, int16(f.Channels))
	binary.Write(&buf, binary.LittleEndian, int32(f.SampleRate))
	binary.Write(&buf, binary.LittleEndian, int32(f.SampleRate*blockAlign))
	binary.Write(&buf, binary.LittleEndian, int16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, int16(f.BitDepth))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, int32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

// WAVFile overwrites Path with every recording it is given.
type WAVFile struct {
	Path string
}

func (w WAVFile) Save(blob domain.AudioBlob) error {
	if err := os.MkdirAll(filepath.Dir(w.Path), 0755); err != nil {
		return fmt.Errorf("creating recording dir: %w", err)
	}
	if err := os.WriteFile(w.Path, EncodeWAV(blob), 0644); err != nil {
		return fmt.Errorf("writing recording: %w", err)
	}
	return nil
}
