package keypad

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"talkpad/internal/domain"
)

// HTTPKeypad is a virtual keypad for bench use: each POST /keys is one press.
type HTTPKeypad struct {
	addr        string
	server      *http.Server
	presses     chan domain.KeySymbol
	logger      *slog.Logger
	mu          sync.Mutex
	running     bool
	mux         *http.ServeMux
	rateLimiter *RateLimiter
	authToken   string
}

func NewHTTPKeypad(addr string, authToken string, logger *slog.Logger) *HTTPKeypad {
	h := &HTTPKeypad{
		addr:        addr,
		presses:     make(chan domain.KeySymbol, 8),
		logger:      logger,
		mux:         http.NewServeMux(),
		rateLimiter: NewRateLimiter(60, time.Minute),
		authToken:   authToken,
	}
	h.mux.HandleFunc("POST /keys", h.rateLimiter.Middleware(h.handleKey))
	h.mux.HandleFunc("GET /health", h.handleHealth)
	return h
}

func (h *HTTPKeypad) Name() string {
	return "http"
}

func (h *HTTPKeypad) Start(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return nil
	}

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		h.logger.Info("http keypad listening", "addr", h.addr)
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("http keypad server error", "error", err)
		}
	}()

	h.running = true
	return nil
}

func (h *HTTPKeypad) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil
	}

	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.server.Shutdown(ctx); err != nil {
			h.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := h.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	h.running = false
	return nil
}

// Scan never blocks. Presses are queued up to the channel capacity until
// scanned or flushed.
func (h *HTTPKeypad) Scan() domain.KeySymbol {
	select {
	case key := <-h.presses:
		return key
	default:
		return domain.KeyNone
	}
}

func (h *HTTPKeypad) Flush() {
	for {
		select {
		case key := <-h.presses:
			h.logger.Debug("dropping key pressed during turn", "symbol", key)
		default:
			return
		}
	}
}

func (h *HTTPKeypad) Handler() http.Handler {
	return h.mux
}

func (h *HTTPKeypad) Press(key domain.KeySymbol) bool {
	select {
	case h.presses <- key:
		return true
	default:
		return false
	}
}

func (h *HTTPKeypad) handleKey(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.logger.Warn("unauthorized key press", "remote_addr", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, 16))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	key, ok := domain.ParseKeySymbol(strings.TrimSpace(string(data)))
	if !ok {
		http.Error(w, "unknown key", http.StatusBadRequest)
		return
	}

	if !h.Press(key) {
		http.Error(w, "queue full, try again", http.StatusServiceUnavailable)
		return
	}

	h.logger.Info("key received via http", "symbol", key)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintf(w, `{"status":"received","key":%q}`, string(key))
}

func (h *HTTPKeypad) authorized(r *http.Request) bool {
	if h.authToken == "" {
		return true
	}
	token := r.Header.Get("X-Auth-Token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	return token == h.authToken
}

func (h *HTTPKeypad) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	running := h.running
	h.mu.Unlock()
	queued := len(h.presses)

	status := "ok"
	statusCode := http.StatusOK

	if !running {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"status":"%s","running":%t,"queued":%d}`, status, running, queued)
}
