package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Keypad     KeypadConfig     `yaml:"keypad"`
	Capture    CaptureConfig    `yaml:"capture"`
	Remote     RemoteConfig     `yaml:"remote"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg"`
	Playback   PlaybackConfig   `yaml:"playback"`
	ScratchDir string           `yaml:"scratch_dir"`
	Pushover   PushoverConfig   `yaml:"pushover"`
	Log        LogConfig        `yaml:"log"`
}

type KeypadConfig struct {
	Source       string `yaml:"source"`
	RowPins      []int  `yaml:"row_pins"`
	ColPins      []int  `yaml:"col_pins"`
	Debounce     string `yaml:"debounce"`
	PollInterval string `yaml:"poll_interval"`
	StartKey     string `yaml:"start_key"`
	StopKey      string `yaml:"stop_key"`
	HTTPAddr     string `yaml:"http_addr"`
	AuthToken    string `yaml:"auth_token"`
}

type CaptureConfig struct {
	DeviceIndex     *int    `yaml:"device_index"`
	FramesPerBuffer int     `yaml:"frames_per_buffer"`
	Gain            float64 `yaml:"gain"`
	ReadErrorPause  string  `yaml:"read_error_pause"`
	KeepRecording   string  `yaml:"keep_recording"`
}

type RemoteConfig struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
}

type ElevenLabsConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type FFmpegConfig struct {
	Path string `yaml:"path"`
}

type PlaybackConfig struct {
	PollInterval string `yaml:"poll_interval"`
}

type PushoverConfig struct {
	Token    string `yaml:"token"`
	UserKey  string `yaml:"user_key"`
	Enabled  bool   `yaml:"enabled"`
	Device   string `yaml:"device"`
	Priority int    `yaml:"priority"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path after loading an optional .env file from
// the same directory, so secrets can be referenced as ${VAR}.
func Load(path string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Keypad.Source == "" {
		c.Keypad.Source = "gpio"
	}
	if len(c.Keypad.RowPins) == 0 {
		c.Keypad.RowPins = []int{17, 27}
	}
	if len(c.Keypad.ColPins) == 0 {
		c.Keypad.ColPins = []int{23, 16}
	}
	if c.Keypad.Debounce == "" {
		c.Keypad.Debounce = "50ms"
	}
	if c.Keypad.PollInterval == "" {
		c.Keypad.PollInterval = "10ms"
	}
	if c.Keypad.StartKey == "" {
		c.Keypad.StartKey = "1"
	}
	if c.Keypad.StopKey == "" {
		c.Keypad.StopKey = "3"
	}
	if c.Keypad.HTTPAddr == "" {
		c.Keypad.HTTPAddr = ":8080"
	}
	if c.Capture.DeviceIndex == nil {
		index := 1
		c.Capture.DeviceIndex = &index
	}
	if c.Capture.FramesPerBuffer == 0 {
		c.Capture.FramesPerBuffer = 1024
	}
	if c.Capture.Gain == 0 {
		c.Capture.Gain = 5.0
	}
	if c.Capture.ReadErrorPause == "" {
		c.Capture.ReadErrorPause = "100ms"
	}
	if c.Remote.Endpoint == "" {
		c.Remote.Endpoint = "http://192.168.1.4:8000/process_audio"
	}
	if c.Remote.Timeout == "" {
		c.Remote.Timeout = "60s"
	}
	if c.ElevenLabs.Model == "" {
		c.ElevenLabs.Model = "eleven_multilingual_v2"
	}
	if c.ElevenLabs.BaseURL == "" {
		c.ElevenLabs.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if c.FFmpeg.Path == "" {
		c.FFmpeg.Path = "ffmpeg"
	}
	if c.Playback.PollInterval == "" {
		c.Playback.PollInterval = "100ms"
	}
	if c.ScratchDir == "" {
		c.ScratchDir = "./scratch"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
