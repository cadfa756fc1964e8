package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"talkpad/internal/domain"
)

type State int

const (
	StateIdle State = iota
	StateArmed
	StateFinalizing
	StateExchanging
	StateSynthesizing
	StateConverting
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateFinalizing:
		return "finalizing"
	case StateExchanging:
		return "exchanging"
	case StateSynthesizing:
		return "synthesizing"
	case StateConverting:
		return "converting"
	case StatePlaying:
		return "playing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RecordingArchive keeps a copy of each finalized recording.
type RecordingArchive interface {
	Save(blob domain.AudioBlob) error
}

type SessionConfig struct {
	StartKey domain.KeySymbol
	StopKey  domain.KeySymbol
	// PollInterval is the pause between keypad scans while idle.
	PollInterval time.Duration
	// ReadErrorPause is the pause after a failed capture read.
	ReadErrorPause time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		StartKey:       domain.DefaultStartKey,
		StopKey:        domain.DefaultStopKey,
		PollInterval:   10 * time.Millisecond,
		ReadErrorPause: 100 * time.Millisecond,
	}
}

// Components are the collaborators a Session drives. Scorer, Notifier and
// Archive are optional.
type Components struct {
	Keypad      Keypad
	Capture     *CaptureBuffer
	Exchanger   Exchanger
	Scorer      SentimentScorer
	Synthesizer Synthesizer
	Converter   FormatConverter
	Player      Player
	Notifier    Notifier
	Archive     RecordingArchive
}

// Session runs one turn at a time: keypad polling, capture, remote
// exchange, synthesis, conversion and playback, all on the caller's goroutine.
// The keypad is not scanned while a turn is being answered.
type Session struct {
	keypad      Keypad
	capture     *CaptureBuffer
	exchanger   Exchanger
	scorer      SentimentScorer
	synthesizer Synthesizer
	converter   FormatConverter
	player      Player
	notifier    Notifier
	archive     RecordingArchive
	cfg         SessionConfig
	logger      *slog.Logger

	state State
}

func NewSession(c Components, cfg SessionConfig, logger *slog.Logger) *Session {
	if c.Scorer == nil {
		c.Scorer = NeutralScorer{}
	}
	if c.Notifier == nil {
		c.Notifier = &NoopNotifier{}
	}
	return &Session{
		keypad:      c.Keypad,
		capture:     c.Capture,
		exchanger:   c.Exchanger,
		scorer:      c.Scorer,
		synthesizer: c.Synthesizer,
		converter:   c.Converter,
		player:      c.Player,
		notifier:    c.Notifier,
		archive:     c.Archive,
		cfg:         cfg,
		logger:      logger,
		state:       StateIdle,
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("starting keypad", "keypad", s.keypad.Name())
	if err := s.keypad.Start(ctx); err != nil {
		return fmt.Errorf("starting keypad: %w", err)
	}
	defer s.keypad.Stop()
	defer s.Release()

	s.logger.Info("ready, waiting for keypad",
		"start_key", s.cfg.StartKey,
		"stop_key", s.cfg.StopKey,
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Step(ctx, s.keypad.Scan())

		if s.state == StateIdle && s.cfg.PollInterval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.PollInterval):
			}
		}
	}
}

// Step advances the state machine by one polling cycle. A stop press runs
// the whole turn before Step returns.
func (s *Session) Step(ctx context.Context, symbol domain.KeySymbol) {
	if symbol != domain.KeyNone {
		s.logger.Info("key pressed", "symbol", symbol, "state", s.state)
	}

	switch s.state {
	case StateIdle:
		if symbol == s.cfg.StartKey {
			s.arm(ctx)
		}
	case StateArmed:
		if symbol == s.cfg.StopKey {
			s.finishTurn(ctx)
			return
		}
		s.captureChunk()
	}
}

// Release closes a live capture stream and returns to idle.
func (s *Session) Release() {
	if err := s.capture.Release(); err != nil {
		s.logger.Warn("closing capture stream", "error", err)
	}
	s.setState(StateIdle)
}

func (s *Session) arm(ctx context.Context) {
	if err := s.capture.Arm(ctx); err != nil {
		s.report(ctx, StateIdle, err)
		return
	}
	s.setState(StateArmed)
	s.logger.Info("recording started")
	s.captureChunk()
}

func (s *Session) captureChunk() {
	if err := s.capture.Capture(); err != nil {
		s.logger.Warn("capture read failed, skipping chunk", "error", err)
		if s.cfg.ReadErrorPause > 0 {
			time.Sleep(s.cfg.ReadErrorPause)
		}
	}
}

func (s *Session) finishTurn(ctx context.Context) {
	s.setState(StateFinalizing)

	chunks := s.capture.Frames()
	blob, err := s.capture.Finalize()
	if err != nil {
		s.logger.Warn("finalizing recording", "error", err)
	}
	s.logger.Info("recording stopped", "chunks", chunks, "samples", len(blob.Samples))

	if s.archive != nil {
		if err := s.archive.Save(blob); err != nil {
			s.logger.Warn("archiving recording", "error", err)
		}
	}

	if err := s.answer(ctx, blob); err != nil {
		s.report(ctx, s.state, err)
	}
	s.keypad.Flush()
	s.setState(StateIdle)
}

func (s *Session) answer(ctx context.Context, blob domain.AudioBlob) error {
	s.setState(StateExchanging)
	result, err := s.exchanger.Exchange(ctx, blob)
	if err != nil {
		return classify(domain.ErrExchange, err)
	}
	s.logger.Info("remote reply", "reply", result.Reply, "voice", result.Voice)

	s.setState(StateSynthesizing)
	tone := s.selectTone(result.Transcript)
	speech, err := s.synthesizer.Synthesize(ctx, result.Reply, result.Voice, tone)
	if err != nil {
		return classify(domain.ErrSynthesis, err)
	}
	defer s.discard(speech)

	s.setState(StateConverting)
	pcm, err := s.converter.ToPlaybackFormat(ctx, speech)
	if err != nil {
		return classify(domain.ErrConversion, err)
	}
	defer s.discard(pcm)

	s.setState(StatePlaying)
	if err := s.player.Play(ctx, pcm); err != nil {
		return classify(domain.ErrPlayback, err)
	}
	s.logger.Info("playback finished")
	return nil
}

func (s *Session) selectTone(text string) domain.Tone {
	if strings.TrimSpace(text) == "" {
		return domain.ToneNeutral
	}
	polarity, subjectivity := s.scorer.Score(text)
	tone := domain.SelectTone(polarity, subjectivity)
	s.logger.Debug("selected tone",
		"tone", tone,
		"polarity", polarity,
		"subjectivity", subjectivity,
	)
	return tone
}

// report logs a failed turn and notifies the operator once. Failures caused
// by shutdown are only logged.
func (s *Session) report(ctx context.Context, stage State, err error) {
	if ctx.Err() != nil {
		s.logger.Info("turn interrupted", "stage", stage, "error", err)
		return
	}

	s.logger.Error("turn failed", "stage", stage, "error", err)
	if notifyErr := s.notifier.Notify(ctx, failureMessage(stage, err)); notifyErr != nil {
		s.logger.Error("notifying failure", "error", notifyErr)
	}
}

func (s *Session) discard(artifact domain.Artifact) {
	if artifact.Path == "" {
		return
	}
	if err := os.Remove(artifact.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("removing artifact", "path", artifact.Path, "error", err)
	}
}

func (s *Session) setState(next State) {
	if s.state == next {
		return
	}
	s.logger.Debug("state change", "from", s.state, "to", next)
	s.state = next
}

func classify(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
