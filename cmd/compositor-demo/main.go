// Command compositor-demo is a small interactive showcase of the compositor:
// a foreground screen with an input line editing shared state, a popup opened
// with Tab that shadows the screen below it, and a background job that clears
// the popup text one second after it spells "clear". Esc closes the popup,
// then exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/compositor"
	"github.com/dshills/compositor/backend"
	"github.com/dshills/compositor/internal/config"
)

// userEvent is the demo's application event payload.
type userEvent int

// evConfigReloaded signals that the config file changed on disk.
const evConfigReloaded userEvent = iota

type appState struct {
	text  string
	start time.Time
}

// inputField edits the shared text line.
type inputField struct {
	compositor.Base[appState, userEvent]
}

func (*inputField) ID() compositor.Id { return compositor.MustID("input") }

func (*inputField) View(area backend.Rect, surface backend.Surface, state *appState) {
	x := area.Width/2 - len(state.text)/2
	style := tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	backend.Print(surface, x, area.Y, style, state.text)
}

func (f *inputField) HandleEvent(event *compositor.EventAccess[userEvent], cx *compositor.Context[appState, userEvent]) {
	key, ok := event.Peek().Key()
	if !ok {
		return
	}

	switch {
	case key.Key() == tcell.KeyRune:
		cx.StateMut().text += string(key.Rune())
		event.Consume()
	case key.Key() == tcell.KeyBackspace || key.Key() == tcell.KeyBackspace2:
		if state := cx.StateMut(); state.text != "" {
			state.text = state.text[:len(state.text)-1]
			event.Consume()
		}
	}
}

// mainScreen shows a counter and hosts the input field.
type mainScreen struct {
	compositor.Base[appState, userEvent]
	counter int
	input   *inputField
}

func newMainScreen() *mainScreen {
	return &mainScreen{input: &inputField{}}
}

func (*mainScreen) ID() compositor.Id { return compositor.MustID("main") }

func (m *mainScreen) View(area backend.Rect, surface backend.Surface, state *appState) {
	y := area.Height / 2

	inputArea := area
	inputArea.Y = y - 1
	m.input.View(inputArea, surface, state)

	text := fmt.Sprintf("Counter: %d Passed: %ds", m.counter, int(time.Since(state.start).Seconds()))
	backend.Print(surface, area.Width/2-len(text)/2, y, tcell.StyleDefault, text)
}

func (m *mainScreen) HandleEvent(event *compositor.EventAccess[userEvent], cx *compositor.Context[appState, userEvent]) {
	if compositor.ForwardEvent(event, cx, m.input) {
		return
	}

	if payload, ok := event.Peek().User(); ok && payload == evConfigReloaded {
		cx.StateMut().text = "config reloaded"
		event.Consume()
		return
	}

	key, ok := event.Peek().Key()
	if !ok {
		return
	}

	switch key.Key() {
	case tcell.KeyEscape:
		cx.AddCallback(func(cc *compositor.Compositor[appState, userEvent]) {
			cc.Exit()
		})
	case tcell.KeyTab:
		id := m.ID()
		cx.AddCallback(func(cc *compositor.Compositor[appState, userEvent]) {
			screen, ok := compositor.FindAt[*mainScreen](cc, compositor.LayerForeground, id)
			if !ok {
				return
			}
			cc.ReplaceAt(compositor.LayerPopup, &popup{titleCounter: screen.counter})
		})
	case tcell.KeyEnter:
		m.counter++
		if m.counter == 10 {
			cx.AddCallback(func(cc *compositor.Compositor[appState, userEvent]) {
				cc.Exit()
			})
		}
	}
}

// popup sits on the popup layer and consumes keys before mainScreen sees
// them.
type popup struct {
	compositor.Base[appState, userEvent]
	titleCounter int
	text         string
}

func (*popup) ID() compositor.Id { return compositor.MustID("popup") }

func (p *popup) View(area backend.Rect, surface backend.Surface, _ *appState) {
	box := backend.NewRect(area.Width/3, area.Height/4, area.Width/3, area.Height/8)
	surface.Fill(box, ' ', tcell.StyleDefault)
	drawBorder(surface, box)

	title := fmt.Sprintf("Popup: %d (value returned by downcasting)", p.titleCounter)
	backend.Print(surface, box.X+1, box.Y, tcell.StyleDefault, title)

	inner := box.Inset(1)
	backend.Print(surface, inner.X, inner.Y, tcell.StyleDefault, p.text)
}

func (p *popup) HandleEvent(event *compositor.EventAccess[userEvent], cx *compositor.Context[appState, userEvent]) {
	key, ok := event.Peek().Key()
	if !ok {
		return
	}

	switch {
	case key.Key() == tcell.KeyEscape:
		id := p.ID()
		cx.AddCallback(func(cc *compositor.Compositor[appState, userEvent]) {
			cc.RemoveAll(id)
		})
		event.Consume()
	case key.Key() == tcell.KeyRune:
		p.text += string(key.Rune())
		if strings.HasSuffix(p.text, "clear") {
			p.clearLater(cx)
		}
		event.Consume()
	case key.Key() == tcell.KeyBackspace || key.Key() == tcell.KeyBackspace2:
		if p.text != "" {
			p.text = p.text[:len(p.text)-1]
		}
		event.Consume()
	}
}

// clearLater spawns a job that clears the popup text after one second. The
// job captures only the popup's id; the mutation happens in the callback on
// the loop goroutine.
func (p *popup) clearLater(cx *compositor.Context[appState, userEvent]) {
	id := p.ID()
	cx.Jobs().Spawn(func(ctx context.Context) compositor.Callback[appState, userEvent] {
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return nil
		}

		return func(cc *compositor.Compositor[appState, userEvent]) {
			if pp, ok := compositor.FindAt[*popup](cc, compositor.LayerPopup, id); ok {
				pp.text = ""
			}
		}
	})
}

func drawBorder(surface backend.Surface, box backend.Rect) {
	style := tcell.StyleDefault
	right := box.X + box.Width - 1
	bottom := box.Y + box.Height - 1

	for x := box.X + 1; x < right; x++ {
		surface.SetContent(x, box.Y, tcell.RuneHLine, nil, style)
		surface.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := box.Y + 1; y < bottom; y++ {
		surface.SetContent(box.X, y, tcell.RuneVLine, nil, style)
		surface.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	surface.SetContent(box.X, box.Y, tcell.RuneULCorner, nil, style)
	surface.SetContent(right, box.Y, tcell.RuneURCorner, nil, style)
	surface.SetContent(box.X, bottom, tcell.RuneLLCorner, nil, style)
	surface.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

func main() {
	configPath := flag.String("config", "compositor-demo.toml", "path to the TOML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "compositor-demo:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := compositor.NullLogger
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log = compositor.NewLogger(compositor.LoggerConfig{
			Level:  compositor.ParseLogLevel(cfg.LogLevel),
			Output: f,
			Prefix: "compositor-demo",
		})
	}

	reloads := make(chan userEvent, 1)
	if watcher, werr := config.NewWatcher(configPath); werr == nil {
		defer watcher.Close()
		go func() {
			for range watcher.Changes() {
				select {
				case reloads <- evConfigReloaded:
				default:
				}
			}
		}()
	}

	comp := compositor.New[appState, userEvent](appState{
		text:  "Write to modify the text, press enter to increment",
		start: time.Now(),
	}).
		WithTickInterval(cfg.TickInterval()).
		WithReceiver(reloads).
		WithLogger(log)

	comp.ReplaceAt(compositor.LayerForeground, newMainScreen())

	b, err := backend.NewTerminal()
	if err != nil {
		return err
	}
	return comp.Run(b)
}
