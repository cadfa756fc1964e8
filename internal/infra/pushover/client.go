package pushover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultURL = "https://api.pushover.net/1/messages.json"
	// maxMessage is the API limit, in characters.
	maxMessage = 1024
)

type Options struct {
	// Device restricts delivery to one of the user's devices. Empty sends to all.
	Device   string
	Priority int
}

// Client reports aborted turns to the operator's phone. Without credentials
// it does nothing.
type Client struct {
	token      string
	userKey    string
	opts       Options
	url        string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(token, userKey string, opts Options) *Client {
	return NewClientWithURL(token, userKey, opts, defaultURL)
}

func NewClientWithURL(token, userKey string, opts Options, endpoint string) *Client {
	return &Client{
		token:      token,
		userKey:    userKey,
		opts:       opts,
		url:        endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

func (c *Client) Enabled() bool {
	return c.token != "" && c.userKey != ""
}

type apiResponse struct {
	Status int      `json:"status"`
	Errors []string `json:"errors"`
}

func (c *Client) Notify(ctx context.Context, message string) error {
	if !c.Enabled() {
		return nil
	}

	form := url.Values{
		"token":     {c.token},
		"user":      {c.userKey},
		"title":     {"Talkpad"},
		"message":   {truncate(message, maxMessage)},
		"timestamp": {strconv.FormatInt(c.now().Unix(), 10)},
	}
	if c.opts.Device != "" {
		form.Set("device", c.opts.Device)
	}
	if c.opts.Priority != 0 {
		form.Set("priority", strconv.Itoa(c.opts.Priority))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
		return fmt.Errorf("pushover rejected notification (%s): %s", resp.Status, strings.Join(body.Errors, "; "))
	}
	return fmt.Errorf("pushover error: %s", resp.Status)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
