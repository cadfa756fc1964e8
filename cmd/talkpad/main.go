package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talkpad/config"
	"talkpad/internal/application"
	"talkpad/internal/domain"
	"talkpad/internal/infra/audio"
	"talkpad/internal/infra/elevenlabs"
	"talkpad/internal/infra/ffmpeg"
	"talkpad/internal/infra/keypad"
	"talkpad/internal/infra/pushover"
	"talkpad/internal/infra/remote"
	"talkpad/internal/infra/sentiment"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	if err := run(cfg, logger); err != nil {
		logger.Error("talkpad error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	mic := audio.NewMicrophone(*cfg.Capture.DeviceIndex, cfg.Capture.FramesPerBuffer, logger)
	if err := mic.Start(ctx); err != nil {
		return err
	}
	defer mic.Stop()

	speaker := audio.NewSpeaker(duration(logger, "playback.poll_interval", cfg.Playback.PollInterval, audio.DefaultPollInterval), logger)
	defer speaker.Stop()

	converter, err := ffmpeg.NewConverter(cfg.FFmpeg.Path, logger)
	if err != nil {
		return err
	}

	sessionCfg, err := sessionConfig(cfg, logger)
	if err != nil {
		return err
	}

	var notifier application.Notifier
	if cfg.Pushover.Enabled {
		notifier = pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey, pushover.Options{
			Device:   cfg.Pushover.Device,
			Priority: cfg.Pushover.Priority,
		})
	} else {
		notifier = &application.NoopNotifier{}
	}

	components := application.Components{
		Keypad:    createKeypad(cfg.Keypad, logger),
		Capture:   application.NewCaptureBuffer(mic, cfg.Capture.Gain),
		Exchanger: remote.NewClient(cfg.Remote.Endpoint, duration(logger, "remote.timeout", cfg.Remote.Timeout, 60*time.Second)),
		Scorer:    sentiment.NewLexicon(),
		Synthesizer: elevenlabs.NewClientWithURL(
			cfg.ElevenLabs.APIKey,
			cfg.ElevenLabs.Model,
			cfg.ScratchDir,
			cfg.ElevenLabs.BaseURL,
			logger,
		),
		Converter: converter,
		Player:    speaker,
		Notifier:  notifier,
	}
	if cfg.Capture.KeepRecording != "" {
		components.Archive = audio.WAVFile{Path: cfg.Capture.KeepRecording}
	}

	session := application.NewSession(components, sessionCfg, logger)

	logger.Info("starting talkpad",
		"keypad", cfg.Keypad.Source,
		"endpoint", cfg.Remote.Endpoint,
		"gain", cfg.Capture.Gain,
	)

	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func sessionConfig(cfg *config.Config, logger *slog.Logger) (application.SessionConfig, error) {
	sc := application.DefaultSessionConfig()

	start, ok := domain.ParseKeySymbol(cfg.Keypad.StartKey)
	if !ok {
		return sc, errors.New("keypad.start_key is not on the keypad: " + cfg.Keypad.StartKey)
	}
	stop, ok := domain.ParseKeySymbol(cfg.Keypad.StopKey)
	if !ok {
		return sc, errors.New("keypad.stop_key is not on the keypad: " + cfg.Keypad.StopKey)
	}
	if start == stop {
		return sc, errors.New("keypad.start_key and keypad.stop_key must differ")
	}

	sc.StartKey = start
	sc.StopKey = stop
	sc.PollInterval = duration(logger, "keypad.poll_interval", cfg.Keypad.PollInterval, sc.PollInterval)
	sc.ReadErrorPause = duration(logger, "capture.read_error_pause", cfg.Capture.ReadErrorPause, sc.ReadErrorPause)
	return sc, nil
}

func createKeypad(cfg config.KeypadConfig, logger *slog.Logger) application.Keypad {
	switch cfg.Source {
	case "gpio":
		debounce := duration(logger, "keypad.debounce", cfg.Debounce, keypad.DefaultDebounce)
		return keypad.NewGPIOKeypad(cfg.RowPins, cfg.ColPins, debounce, logger)
	case "http":
		return keypad.NewHTTPKeypad(cfg.HTTPAddr, cfg.AuthToken, logger)
	default:
		logger.Warn("unknown keypad source, using gpio", "source", cfg.Source)
		return keypad.NewGPIOKeypad(cfg.RowPins, cfg.ColPins, keypad.DefaultDebounce, logger)
	}
}

func duration(logger *slog.Logger, name, value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn("invalid duration, using default", "setting", name, "error", err, "value", value)
		return fallback
	}
	return d
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
