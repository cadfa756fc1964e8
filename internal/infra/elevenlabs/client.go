package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"talkpad/internal/domain"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io/v1"
	defaultModelID = "eleven_multilingual_v2"
)

// Client synthesizes speech into MP3 files under a scratch directory.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	modelID    string
	scratchDir string
	logger     *slog.Logger
}

func NewClient(apiKey, modelID, scratchDir string, logger *slog.Logger) *Client {
	return NewClientWithURL(apiKey, modelID, scratchDir, defaultBaseURL, logger)
}

func NewClientWithURL(apiKey, modelID, scratchDir, baseURL string, logger *slog.Logger) *Client {
	if modelID == "" {
		modelID = defaultModelID
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		modelID:    modelID,
		scratchDir: scratchDir,
		logger:     logger,
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type request struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

func (c *Client) Synthesize(ctx context.Context, text, voice string, tone domain.Tone) (domain.Artifact, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Artifact{}, fmt.Errorf("%w: text cannot be empty", domain.ErrSynthesis)
	}

	voiceID, err := domain.VoiceID(voice)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: %w", domain.ErrSynthesis, err)
	}

	settings := tone.Settings()
	payload, err := json.Marshal(request{
		Text:    text,
		ModelID: c.modelID,
		VoiceSettings: voiceSettings{
			Stability:       settings.Stability,
			SimilarityBoost: settings.SimilarityBoost,
		},
	})
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: marshaling request: %w", domain.ErrSynthesis, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text-to-speech/"+voiceID, bytes.NewReader(payload))
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: creating request: %w", domain.ErrSynthesis, err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	c.logger.Debug("synthesizing speech", "voice", voice, "tone", tone, "model", c.modelID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: sending request: %w", domain.ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Artifact{}, fmt.Errorf("%w: elevenlabs API error %d: %s",
			domain.ErrSynthesis, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	path, err := c.save(resp.Body)
	if err != nil {
		return domain.Artifact{}, fmt.Errorf("%w: %w", domain.ErrSynthesis, err)
	}

	return domain.Artifact{Path: path, Format: "mp3"}, nil
}

// save streams body into a new file; a partial file is removed on failure.
func (c *Client) save(body io.Reader) (string, error) {
	if err := os.MkdirAll(c.scratchDir, 0755); err != nil {
		return "", fmt.Errorf("creating scratch dir: %w", err)
	}

	name := fmt.Sprintf("tts_output_%s_%s.mp3", time.Now().Format("20060102_150405"), uuid.NewString())
	path := filepath.Join(c.scratchDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}

	n, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n == 0 {
		err = fmt.Errorf("empty audio response")
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing audio: %w", err)
	}

	return path, nil
}
