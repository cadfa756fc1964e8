package keypad

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"

	"talkpad/internal/domain"
)

// GPIOKeypad drives a matrix keypad wired to the Raspberry Pi header.
// Pin numbers are BCM.
type GPIOKeypad struct {
	rowPins  []int
	colPins  []int
	layout   [][]domain.KeySymbol
	debounce time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	matrix *Matrix
	cols   []rpio.Pin
}

func NewGPIOKeypad(rowPins, colPins []int, debounce time.Duration, logger *slog.Logger) *GPIOKeypad {
	return &GPIOKeypad{
		rowPins:  rowPins,
		colPins:  colPins,
		layout:   domain.DefaultLayout,
		debounce: debounce,
		logger:   logger,
	}
}

func (g *GPIOKeypad) Name() string {
	return "gpio"
}

func (g *GPIOKeypad) Start(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.matrix != nil {
		return nil
	}
	if len(g.layout) < len(g.rowPins) {
		return fmt.Errorf("layout has %d rows, keypad has %d", len(g.layout), len(g.rowPins))
	}
	for _, row := range g.layout {
		if len(row) < len(g.colPins) {
			return fmt.Errorf("layout row has %d keys, keypad has %d columns", len(row), len(g.colPins))
		}
	}

	if err := rpio.Open(); err != nil {
		return fmt.Errorf("opening gpio: %w", err)
	}

	rows := make([]Line, len(g.rowPins))
	for i, n := range g.rowPins {
		pin := rpio.Pin(n)
		pin.Input()
		pin.PullUp()
		rows[i] = pin
	}

	cols := make([]Line, len(g.colPins))
	g.cols = make([]rpio.Pin, len(g.colPins))
	for i, n := range g.colPins {
		pin := rpio.Pin(n)
		pin.Output()
		pin.High()
		cols[i] = pin
		g.cols[i] = pin
	}

	g.matrix = NewMatrix(rows, cols, g.layout, g.debounce)
	g.logger.Info("gpio keypad ready", "rows", g.rowPins, "cols", g.colPins)
	return nil
}

// Stop returns the column lines to inputs and unmaps GPIO memory.
func (g *GPIOKeypad) Stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.matrix == nil {
		return nil
	}
	for _, pin := range g.cols {
		pin.Input()
	}
	g.matrix = nil
	g.cols = nil

	if err := rpio.Close(); err != nil {
		return fmt.Errorf("closing gpio: %w", err)
	}
	g.logger.Info("gpio released")
	return nil
}

// Flush is a no-op: the matrix only reports keys that are down when scanned.
func (g *GPIOKeypad) Flush() {}

func (g *GPIOKeypad) Scan() domain.KeySymbol {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.matrix == nil {
		return domain.KeyNone
	}
	return g.matrix.Scan()
}
