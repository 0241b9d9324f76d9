// Package backend provides the terminal surface and raw-input abstraction
// consumed by the compositor run loop.
package backend

import "github.com/gdamore/tcell/v2"

// Rect is a rectangular region of the terminal in cell coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect creates a Rect.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the cell at (x, y) lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Inset shrinks the rect by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
}

// Intersect returns the overlap of two rects.
func (r Rect) Intersect(other Rect) Rect {
	x1 := max(r.X, other.X)
	y1 := max(r.Y, other.Y)
	x2 := min(r.X+r.Width, other.X+other.Width)
	y2 := min(r.Y+r.Height, other.Y+other.Height)

	out := Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Surface is the drawing side of the terminal backend. Components draw into
// it during the render pass; each component carves its own sub-region of the
// area it is given.
type Surface interface {
	// Size returns the surface dimensions in cells.
	Size() (width, height int)

	// SetContent places a rune with optional combining characters at a cell.
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)

	// Fill sets every cell in area to the given rune and style.
	Fill(area Rect, r rune, style tcell.Style)

	// Clear resets the whole surface.
	Clear()

	// ShowCursor places the hardware cursor.
	ShowCursor(x, y int)

	// HideCursor removes the hardware cursor.
	HideCursor()
}

// Backend is the full terminal contract the run loop owns for its lifetime:
// the drawing surface plus session control and the raw input source.
type Backend interface {
	Surface

	// Init switches the terminal into raw input mode, alternate screen and
	// mouse capture, and clears it.
	Init() error

	// Fini reverses Init, best-effort. Called exactly once on every exit
	// path of the run loop.
	Fini()

	// PollEvent blocks until the next raw input event. Returns nil after
	// Fini, which ends the input forwarder.
	PollEvent() tcell.Event

	// Show flushes pending drawing to the terminal.
	Show()
}

// Print draws a string starting at (x, y), clipped to the surface width.
// Returns the x position after the last cell written.
func Print(s Surface, x, y int, style tcell.Style, text string) int {
	width, height := s.Size()
	if y < 0 || y >= height {
		return x
	}

	for _, r := range text {
		if x >= width {
			break
		}
		if x >= 0 {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
	return x
}
