package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend on a tcell screen.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// simulation size, applied after Init when non-zero
	simWidth, simHeight int
}

// NewTerminal creates a terminal backend for the process's terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewSimulation creates a backend on a tcell simulation screen, sized
// width x height once initialized. Intended for tests; use Screen to inject
// input.
func NewSimulation(width, height int) *Terminal {
	return &Terminal{
		screen:    tcell.NewSimulationScreen("UTF-8"),
		simWidth:  width,
		simHeight: height,
	}
}

// Screen exposes the underlying tcell screen, mainly so tests can inject
// events into a simulation screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Init enters raw mode, the alternate screen and mouse capture, enables
// bracketed paste and clears the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}

	t.screen.EnableMouse()
	t.screen.EnablePaste()

	if sim, ok := t.screen.(tcell.SimulationScreen); ok && t.simWidth > 0 {
		sim.SetSize(t.simWidth, t.simHeight)
	}

	t.screen.Clear()

	return nil
}

// Fini restores the terminal. tcell reverses each Init step in opposite
// order; a misbehaving screen must not abort the restore sequence, so any
// panic out of Fini is swallowed.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	defer func() {
		_ = recover()
	}()
	t.screen.Fini()
}

// PollEvent blocks for the next raw input event. Returns nil once the screen
// is finalized.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Size returns the screen dimensions in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// SetContent places a rune at a cell.
func (t *Terminal) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, primary, combining, style)
}

// Fill sets every cell in area to the given rune and style.
func (t *Terminal) Fill(area Rect, r rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	width, height := t.screen.Size()
	for y := area.Y; y < area.Y+area.Height && y < height; y++ {
		for x := area.X; x < area.X+area.Width && x < width; x++ {
			if x >= 0 && y >= 0 {
				t.screen.SetContent(x, y, r, nil, style)
			}
		}
	}
}

// Clear resets the whole screen.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// Show flushes pending drawing to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// ShowCursor places the hardware cursor.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

// HideCursor removes the hardware cursor.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}
