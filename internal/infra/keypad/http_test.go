package keypad_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"talkpad/internal/domain"
	"talkpad/internal/infra/keypad"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postKey(h http.Handler, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPKeypad_PressIsScannedOnce(t *testing.T) {
	kp := keypad.NewHTTPKeypad(":0", "", discardLogger())

	rec := postKey(kp.Handler(), "/keys", "1\n", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status code: got %d, want %d", rec.Code, http.StatusAccepted)
	}
	if !strings.Contains(rec.Body.String(), `"key":"1"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	if got := kp.Scan(); got != domain.KeyOne {
		t.Errorf("first scan: got %q, want %q", got, domain.KeyOne)
	}
	if got := kp.Scan(); got != domain.KeyNone {
		t.Errorf("second scan: got %q, want none", got)
	}
}

func TestHTTPKeypad_PressesKeepOrder(t *testing.T) {
	kp := keypad.NewHTTPKeypad(":0", "", discardLogger())

	for _, key := range []string{"1", "2", "3"} {
		if rec := postKey(kp.Handler(), "/keys", key, nil); rec.Code != http.StatusAccepted {
			t.Fatalf("posting %s: status %d", key, rec.Code)
		}
	}

	want := []domain.KeySymbol{domain.KeyOne, domain.KeyTwo, domain.KeyThree, domain.KeyNone}
	for i, w := range want {
		if got := kp.Scan(); got != w {
			t.Errorf("scan %d: got %q, want %q", i, got, w)
		}
	}
}

func TestHTTPKeypad_FlushDropsQueuedPresses(t *testing.T) {
	kp := keypad.NewHTTPKeypad(":0", "", discardLogger())

	for _, key := range []domain.KeySymbol{domain.KeyOne, domain.KeyThree} {
		if !kp.Press(key) {
			t.Fatalf("press %q rejected", key)
		}
	}

	kp.Flush()

	if got := kp.Scan(); got != domain.KeyNone {
		t.Errorf("scan after flush: got %q, want none", got)
	}
	if !kp.Press(domain.KeyTwo) {
		t.Fatal("press after flush rejected")
	}
	if got := kp.Scan(); got != domain.KeyTwo {
		t.Errorf("scan: got %q, want %q", got, domain.KeyTwo)
	}
}

func TestHTTPKeypad_UnknownKey(t *testing.T) {
	kp := keypad.NewHTTPKeypad(":0", "", discardLogger())

	for _, body := range []string{"", "5", "start", "12"} {
		rec := postKey(kp.Handler(), "/keys", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: got %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}

	if got := kp.Scan(); got != domain.KeyNone {
		t.Errorf("rejected presses must not be queued, got %q", got)
	}
}

func TestHTTPKeypad_QueueFull(t *testing.T) {
	kp := keypad.NewHTTPKeypad(":0", "", discardLogger())

	accepted := 0
	var last int
	for i := 0; i < 20; i++ {
		rec := postKey(kp.Handler(), "/keys", "2", nil)
		last = rec.Code
		if rec.Code == http.StatusAccepted {
			accepted++
		}
	}

	if accepted == 0 || accepted >= 20 {
		t.Fatalf("accepted %d presses, want a bounded queue", accepted)
	}
	if last != http.StatusServiceUnavailable {
		t.Errorf("status once full: got %d, want %d", last, http.StatusServiceUnavailable)
	}
}

func TestHTTPKeypad_Auth(t *testing.T) {
	authToken := "test-secret-token-123"
	kp := keypad.NewHTTPKeypad(":0", authToken, discardLogger())

	tests := []struct {
		name       string
		target     string
		header     map[string]string
		wantStatus int
	}{
		{
			name:       "valid token in header",
			target:     "/keys",
			header:     map[string]string{"X-Auth-Token": authToken},
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "valid token in query",
			target:     "/keys?token=" + authToken,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "invalid token",
			target:     "/keys",
			header:     map[string]string{"X-Auth-Token": "wrong-token"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token",
			target:     "/keys",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postKey(kp.Handler(), tt.target, "3", tt.header)
			if rec.Code != tt.wantStatus {
				t.Errorf("status code: got %d, want %d", rec.Code, tt.wantStatus)
			}
			kp.Scan()
		})
	}
}

func TestHTTPKeypad_RateLimit(t *testing.T) {
	kp := keypad.NewHTTPKeypad(":0", "", discardLogger())

	limited := false
	for i := 0; i < 61; i++ {
		rec := postKey(kp.Handler(), "/keys", "4", map[string]string{"X-Forwarded-For": "10.0.0.9"})
		kp.Scan()
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			if i != 60 {
				t.Errorf("limited after %d requests, want 60", i)
			}
		}
	}
	if !limited {
		t.Error("61st request was not rate limited")
	}

	rec := postKey(kp.Handler(), "/keys", "4", map[string]string{"X-Forwarded-For": "10.0.0.10"})
	if rec.Code != http.StatusAccepted {
		t.Errorf("other client: got %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestHTTPKeypad_Health(t *testing.T) {
	kp := keypad.NewHTTPKeypad("127.0.0.1:0", "", discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	kp.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("before start: got %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := kp.Start(ctx); err != nil {
		t.Fatalf("starting keypad: %v", err)
	}
	defer kp.Stop()

	kp.Press(domain.KeyTwo)

	rec = httptest.NewRecorder()
	kp.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("after start: got %d, want %d", rec.Code, http.StatusOK)
	}
	if want := `{"status":"ok","running":true,"queued":1}`; rec.Body.String() != want {
		t.Errorf("body: got %s, want %s", rec.Body.String(), want)
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	rl := keypad.NewRateLimiter(2, time.Minute)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request within the window should be limited")
	}
	if !rl.Allow("b") {
		t.Error("clients must have separate buckets")
	}
}
