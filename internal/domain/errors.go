package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCaptureOpen  = errors.New("capture device unavailable")
	ErrCaptureRead  = errors.New("capture read failed")
	ErrExchange     = errors.New("remote exchange failed")
	ErrSynthesis    = errors.New("speech synthesis failed")
	ErrUnknownVoice = errors.New("unknown voice")
	ErrConversion   = errors.New("format conversion failed")
	ErrPlayback     = errors.New("playback failed")
)

// ExchangeError carries the HTTP status of a rejected exchange, or the
// transport error when no response was received.
type ExchangeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ExchangeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote exchange failed with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("remote exchange failed: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

func (e *ExchangeError) Is(target error) bool {
	return target == ErrExchange
}
