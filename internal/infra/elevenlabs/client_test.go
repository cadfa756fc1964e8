package elevenlabs_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talkpad/internal/domain"
	"talkpad/internal/infra/elevenlabs"
)

type capturedRequest struct {
	Path   string
	APIKey string
	Body   struct {
		Text          string `json:"text"`
		ModelID       string `json:"model_id"`
		VoiceSettings struct {
			Stability       float64 `json:"stability"`
			SimilarityBoost float64 `json:"similarity_boost"`
		} `json:"voice_settings"`
	}
}

func newClient(t *testing.T, url, dir string) *elevenlabs.Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return elevenlabs.NewClientWithURL("test-key", "", dir, url, logger)
}

func scratchFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestClient_Synthesize(t *testing.T) {
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Path = r.URL.Path
		got.APIKey = r.Header.Get("xi-api-key")
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&got.Body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3 fake mp3 payload"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "scratch")
	client := newClient(t, srv.URL, dir)

	artifact, err := client.Synthesize(context.Background(), "Hello there", "Rachel", domain.ToneHappy)
	require.NoError(t, err)

	assert.Equal(t, "/text-to-speech/21m00Tcm4TlvDq8ikWAM", got.Path)
	assert.Equal(t, "test-key", got.APIKey)
	assert.Equal(t, "Hello there", got.Body.Text)
	assert.Equal(t, "eleven_multilingual_v2", got.Body.ModelID)
	assert.Equal(t, 0.3, got.Body.VoiceSettings.Stability)
	assert.Equal(t, 0.85, got.Body.VoiceSettings.SimilarityBoost)

	assert.Equal(t, "mp3", artifact.Format)
	assert.Equal(t, dir, filepath.Dir(artifact.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(artifact.Path), "tts_output_"))

	data, err := os.ReadFile(artifact.Path)
	require.NoError(t, err)
	assert.Equal(t, "ID3 fake mp3 payload", string(data))
}

func TestClient_UniqueArtifacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := newClient(t, srv.URL, dir)

	a, err := client.Synthesize(context.Background(), "one", "Sarah", domain.ToneNeutral)
	require.NoError(t, err)
	b, err := client.Synthesize(context.Background(), "two", "Sarah", domain.ToneNeutral)
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		voice   string
		handler http.HandlerFunc
	}{
		{
			name:  "unknown voice",
			text:  "hi",
			voice: "Nobody",
		},
		{
			name:  "empty text",
			text:  "  ",
			voice: "Sarah",
		},
		{
			name:  "provider error",
			text:  "hi",
			voice: "Sarah",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"detail":"quota exceeded"}`, http.StatusUnauthorized)
			},
		},
		{
			name:  "empty audio",
			text:  "hi",
			voice: "Sarah",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				if tt.handler != nil {
					tt.handler(w, r)
				}
			}))
			defer srv.Close()

			dir := t.TempDir()
			_, err := newClient(t, srv.URL, dir).Synthesize(context.Background(), tt.text, tt.voice, domain.ToneNeutral)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrSynthesis)
			assert.Empty(t, scratchFiles(t, dir), "no artifact may be left behind")
			if tt.handler == nil {
				assert.Zero(t, calls, "request sent for invalid input")
			}
		})
	}
}

func TestClient_UnknownVoiceIsClassified(t *testing.T) {
	_, err := newClient(t, "http://127.0.0.1:1", t.TempDir()).
		Synthesize(context.Background(), "hi", "Nobody", domain.ToneNeutral)

	assert.ErrorIs(t, err, domain.ErrUnknownVoice)
	assert.ErrorIs(t, err, domain.ErrSynthesis)
}
