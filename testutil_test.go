package compositor

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/compositor/backend"
)

// fakeBackend is an in-memory Backend that records session and render
// activity for assertions.
type fakeBackend struct {
	mu        sync.Mutex
	initCalls int
	finiCalls int
	showCalls int
	initErr   error

	width, height int

	events    chan tcell.Event
	closeOnce sync.Once
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		width:  80,
		height: 24,
		events: make(chan tcell.Event, 16),
	}
}

func (f *fakeBackend) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return f.initErr
	}
	f.initCalls++
	return nil
}

func (f *fakeBackend) Fini() {
	f.mu.Lock()
	f.finiCalls++
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.events) })
}

func (f *fakeBackend) PollEvent() tcell.Event {
	ev, ok := <-f.events
	if !ok {
		return nil
	}
	return ev
}

func (f *fakeBackend) Size() (int, int) { return f.width, f.height }

func (f *fakeBackend) SetContent(int, int, rune, []rune, tcell.Style) {}

func (f *fakeBackend) Fill(backend.Rect, rune, tcell.Style) {}

func (f *fakeBackend) Clear() {}

func (f *fakeBackend) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showCalls++
}

func (f *fakeBackend) ShowCursor(int, int) {}

func (f *fakeBackend) HideCursor() {}

func (f *fakeBackend) counts() (inits, finis, shows int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initCalls, f.finiCalls, f.showCalls
}

// testState is the shared state used across compositor tests.
type testState struct {
	text  string
	count int
}

// probe records dispatch and render activity. consume makes it consume
// every non-None event it sees; onEvent, when set, runs before consumption.
type probe struct {
	Base[testState, string]

	id      Id
	consume bool
	handled []EventKind
	onEvent func(ev *EventAccess[string], cx *Context[testState, string])

	renderLog *[]Id
	skipDraw  bool
}

func newProbe(seed string) *probe {
	return &probe{id: MustID(seed)}
}

func (p *probe) ID() Id { return p.id }

func (p *probe) View(_ backend.Rect, _ backend.Surface, _ *testState) {
	if p.renderLog != nil {
		*p.renderLog = append(*p.renderLog, p.id)
	}
}

func (p *probe) ShouldUpdate(*testState) bool { return !p.skipDraw }

func (p *probe) HandleEvent(ev *EventAccess[string], cx *Context[testState, string]) {
	p.handled = append(p.handled, ev.Peek().Kind())
	if p.onEvent != nil {
		p.onEvent(ev, cx)
	}
	if p.consume {
		ev.Consume()
	}
}

// otherComponent is a distinct concrete type for downcast-mismatch tests.
type otherComponent struct {
	Base[testState, string]
	id Id
}

func (c *otherComponent) ID() Id { return c.id }

func (c *otherComponent) View(backend.Rect, backend.Surface, *testState) {}
