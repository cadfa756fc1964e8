package application_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"talkpad/internal/application"
	"talkpad/internal/domain"
)

type fakeDevice struct {
	openErr  error
	chunks   [][]int32
	readErrs map[int]error
	onOpen   func()

	opened    int
	closed    int
	reads     int
	nextChunk int
}

func (d *fakeDevice) Format() domain.AudioFormat { return domain.CaptureFormat() }

func (d *fakeDevice) Open(_ context.Context) (application.CaptureStream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.opened++
	if d.onOpen != nil {
		d.onOpen()
	}
	return &fakeStream{device: d}, nil
}

type fakeStream struct {
	device *fakeDevice
}

func (s *fakeStream) Read() ([]int32, error) {
	d := s.device
	call := d.reads
	d.reads++
	if err, ok := d.readErrs[call]; ok {
		return nil, err
	}
	if d.nextChunk >= len(d.chunks) {
		return []int32{0, 0}, nil
	}
	chunk := d.chunks[d.nextChunk]
	d.nextChunk++
	return chunk, nil
}

func (s *fakeStream) Close() error {
	s.device.closed++
	return nil
}

type fakeKeypad struct {
	mu      sync.Mutex
	presses []domain.KeySymbol
	started bool
	stopped bool
	flushed int
}

func (k *fakeKeypad) Name() string { return "fake" }

func (k *fakeKeypad) Start(_ context.Context) error {
	k.started = true
	return nil
}

func (k *fakeKeypad) Stop() error {
	k.stopped = true
	return nil
}

func (k *fakeKeypad) press(key domain.KeySymbol) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.presses = append(k.presses, key)
}

func (k *fakeKeypad) Flush() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.presses = nil
	k.flushed++
}

func (k *fakeKeypad) Scan() domain.KeySymbol {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.presses) == 0 {
		return domain.KeyNone
	}
	next := k.presses[0]
	k.presses = k.presses[1:]
	return next
}

type fakeExchanger struct {
	result domain.ExchangeResult
	err    error
	blobs  []domain.AudioBlob
}

func (e *fakeExchanger) Exchange(_ context.Context, blob domain.AudioBlob) (domain.ExchangeResult, error) {
	e.blobs = append(e.blobs, blob)
	if e.err != nil {
		return domain.ExchangeResult{}, e.err
	}
	return e.result, nil
}

type synthCall struct {
	text    string
	voiceID string
	tone    domain.Tone
}

// fakeSynthesizer resolves voices through the real table and writes a
// scratch file so artifact cleanup can be observed.
type fakeSynthesizer struct {
	dir       string
	err       error
	calls     []synthCall
	artifacts []domain.Artifact
}

func (s *fakeSynthesizer) Synthesize(_ context.Context, text, voice string, tone domain.Tone) (domain.Artifact, error) {
	voiceID, err := domain.VoiceID(voice)
	if err != nil {
		return domain.Artifact{}, err
	}
	s.calls = append(s.calls, synthCall{text: text, voiceID: voiceID, tone: tone})
	if s.err != nil {
		return domain.Artifact{}, s.err
	}

	path := filepath.Join(s.dir, "speech.mp3")
	if err := os.WriteFile(path, []byte("ID3"), 0644); err != nil {
		return domain.Artifact{}, err
	}
	artifact := domain.Artifact{Path: path, Format: "mp3"}
	s.artifacts = append(s.artifacts, artifact)
	return artifact, nil
}

type fakeConverter struct {
	dir   string
	err   error
	calls []domain.Artifact
}

func (c *fakeConverter) ToPlaybackFormat(_ context.Context, in domain.Artifact) (domain.Artifact, error) {
	c.calls = append(c.calls, in)
	if c.err != nil {
		return domain.Artifact{}, c.err
	}
	path := filepath.Join(c.dir, "speech.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Path: path, Format: "wav"}, nil
}

type fakePlayer struct {
	err    error
	onPlay func()
	calls  []domain.Artifact
}

func (p *fakePlayer) Play(_ context.Context, artifact domain.Artifact) error {
	p.calls = append(p.calls, artifact)
	if p.onPlay != nil {
		p.onPlay()
	}
	return p.err
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

type fixedScorer struct {
	polarity     float64
	subjectivity float64
	texts        []string
}

func (s *fixedScorer) Score(text string) (float64, float64) {
	s.texts = append(s.texts, text)
	return s.polarity, s.subjectivity
}

type memoryArchive struct {
	saved []domain.AudioBlob
}

func (a *memoryArchive) Save(blob domain.AudioBlob) error {
	a.saved = append(a.saved, blob)
	return nil
}
