package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"talkpad/internal/domain"
	"talkpad/internal/infra/audio"
)

const DefaultEndpoint = "http://192.168.1.4:8000/process_audio"

// Client uploads one recording per turn to the processing service and returns
// its reply. Failures are not retried.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type exchangeResponse struct {
	Response   string `json:"response"`
	Voice      string `json:"voice"`
	Transcript string `json:"transcript"`
}

func (c *Client) Exchange(ctx context.Context, blob domain.AudioBlob) (domain.ExchangeResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "recording.wav")
	if err != nil {
		return domain.ExchangeResult{}, &domain.ExchangeError{Err: fmt.Errorf("creating form file: %w", err)}
	}

	if _, err = part.Write(audio.EncodeWAV(blob)); err != nil {
		return domain.ExchangeResult{}, &domain.ExchangeError{Err: fmt.Errorf("writing audio: %w", err)}
	}

	if err = writer.Close(); err != nil {
		return domain.ExchangeResult{}, &domain.ExchangeError{Err: fmt.Errorf("closing writer: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return domain.ExchangeResult{}, &domain.ExchangeError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ExchangeResult{}, &domain.ExchangeError{Err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.ExchangeResult{}, &domain.ExchangeError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	var result exchangeResponse
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.ExchangeResult{}, &domain.ExchangeError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	voice := result.Voice
	if voice == "" {
		voice = domain.DefaultVoice
	}

	return domain.ExchangeResult{
		Reply:      result.Response,
		Voice:      voice,
		Transcript: result.Transcript,
	}, nil
}
