package application

import (
	"context"

	"talkpad/internal/domain"
)

type Keypad interface {
	Start(ctx context.Context) error
	Stop() error
	// Scan reports at most one newly pressed key, or domain.KeyNone.
	Scan() domain.KeySymbol
	// Flush drops presses that arrived while the session was not scanning.
	Flush()
	Name() string
}
