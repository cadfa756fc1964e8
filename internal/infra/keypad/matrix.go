package keypad

import (
	"time"

	"github.com/stianeikeland/go-rpio/v4"

	"talkpad/internal/domain"
)

// DefaultDebounce is how long a closed contact must stay closed to count.
const DefaultDebounce = 50 * time.Millisecond

// Line is one matrix line. rpio.Pin satisfies it.
type Line interface {
	High()
	Low()
	Read() rpio.State
}

// Matrix scans a keypad wired as driven columns and pulled-up rows. A pressed
// key connects its row to its column, so driving the column low pulls the
// row low.
//
// Scan is edge-triggered: a key held down is reported once and must be seen
// released before it is reported again.
type Matrix struct {
	rows     []Line
	cols     []Line
	layout   [][]domain.KeySymbol
	debounce time.Duration
	sleep    func(time.Duration)

	held domain.KeySymbol
}

// NewMatrix builds a scanner. layout is indexed [row][col] and must cover
// every row/column pair.
func NewMatrix(rows, cols []Line, layout [][]domain.KeySymbol, debounce time.Duration) *Matrix {
	return &Matrix{
		rows:     rows,
		cols:     cols,
		layout:   layout,
		debounce: debounce,
		sleep:    time.Sleep,
	}
}

// WithSleep replaces the debounce wait, for tests.
func (m *Matrix) WithSleep(sleep func(time.Duration)) *Matrix {
	m.sleep = sleep
	return m
}

func (m *Matrix) Scan() domain.KeySymbol {
	key := m.read()
	if key == domain.KeyNone {
		m.held = domain.KeyNone
		return domain.KeyNone
	}
	if key == m.held {
		return domain.KeyNone
	}
	m.held = key
	return key
}

func (m *Matrix) read() domain.KeySymbol {
	for c, col := range m.cols {
		col.Low()
		for r, row := range m.rows {
			if row.Read() != rpio.Low {
				continue
			}
			m.sleep(m.debounce)
			if row.Read() == rpio.Low {
				col.High()
				return m.layout[r][c]
			}
		}
		col.High()
	}
	return domain.KeyNone
}
