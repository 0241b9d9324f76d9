package compositor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func countKind(kinds []EventKind, want EventKind) int {
	var n int
	for _, k := range kinds {
		if k == want {
			n++
		}
	}
	return n
}

func TestRunExitMidStream(t *testing.T) {
	events := make(chan Event[string], 2)
	b := newFakeBackend()

	cc := New[testState, string](testState{}).
		WithTickInterval(0).
		WithStream(events)

	p := newProbe("p")
	if err := cc.InsertAt(LayerForeground, p); err != nil {
		t.Fatal(err)
	}

	events <- UserEvent("one")
	events <- ExitEvent[string]()

	if err := cc.Run(b); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Initial synthetic tick plus the one user event; Exit is never
	// dispatched.
	if got := len(p.handled); got != 2 {
		t.Errorf("component handled %d events, want 2: %v", got, p.handled)
	}

	inits, finis, shows := b.counts()
	if inits != 1 {
		t.Errorf("session acquired %d times, want 1", inits)
	}
	if finis != 1 {
		t.Errorf("session restored %d times, want exactly 1", finis)
	}
	if shows != 2 {
		t.Errorf("rendered %d frames, want 2 (none after Exit)", shows)
	}
}

func TestRunTickIntervalZero(t *testing.T) {
	done := make(chan struct{})
	b := newFakeBackend()

	cc := New[testState, string](testState{}).
		WithTickInterval(0).
		WithShutdown(done)

	p := newProbe("p")
	if err := cc.InsertAt(LayerForeground, p); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(150 * time.Millisecond)
		close(done)
	}()

	if err := cc.Run(b); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Only the initial synthetic tick; zero disables periodic ticking.
	if got := countKind(p.handled, EventTick); got != 1 {
		t.Errorf("observed %d ticks with interval 0, want 1 (the initial frame)", got)
	}
}

func TestRunPeriodicTicks(t *testing.T) {
	done := make(chan struct{})
	b := newFakeBackend()

	const interval = 25 * time.Millisecond
	cc := New[testState, string](testState{}).
		WithTickInterval(interval).
		WithShutdown(done)

	p := newProbe("p")
	if err := cc.InsertAt(LayerForeground, p); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(8 * interval)
		close(done)
	}()

	if err := cc.Run(b); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// The ticker cannot fire more often than the interval allows, so the
	// count bounds the spacing guarantee. Lower bound is loose for slow CI.
	got := countKind(p.handled, EventTick)
	if got < 2 {
		t.Errorf("observed %d ticks, want at least 2 (initial + periodic)", got)
	}
	if got > 10 {
		t.Errorf("observed %d ticks in 8 intervals, spacing below the configured interval", got)
	}
}

func TestRunJobDeliversCallback(t *testing.T) {
	events := make(chan Event[string], 1)
	b := newFakeBackend()

	cc := New[testState, string](testState{text: "dirty"}).
		WithTickInterval(10 * time.Millisecond).
		WithStream(events)

	var applied int
	p := newProbe("p")
	p.onEvent = func(ev *EventAccess[string], cx *Context[testState, string]) {
		if _, ok := ev.Peek().User(); !ok {
			return
		}
		cx.Jobs().Spawn(func(ctx context.Context) Callback[testState, string] {
			select {
			case <-time.After(80 * time.Millisecond):
			case <-ctx.Done():
				return nil
			}
			return func(cc *Compositor[testState, string]) {
				applied++
				cc.StateMut().text = ""
				cc.Exit()
			}
		})
		ev.Consume()
	}
	if err := cc.InsertAt(LayerForeground, p); err != nil {
		t.Fatal(err)
	}

	events <- UserEvent("spawn")

	if err := cc.Run(b); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if applied != 1 {
		t.Errorf("job callback applied %d times, want exactly 1", applied)
	}
	if cc.State().text != "" {
		t.Errorf("state text = %q, want cleared", cc.State().text)
	}

	// Unrelated ticks kept the loop alive while the job was pending.
	if got := countKind(p.handled, EventTick); got < 2 {
		t.Errorf("observed %d ticks while job pending, want at least 2", got)
	}

	if _, finis, _ := b.counts(); finis != 1 {
		t.Errorf("session restored %d times, want 1", finis)
	}
}

func TestRunJobDroppedAfterShutdown(t *testing.T) {
	events := make(chan Event[string], 2)
	b := newFakeBackend()

	cc := New[testState, string](testState{}).
		WithTickInterval(0).
		WithStream(events)

	delivered := make(chan struct{})
	p := newProbe("p")
	p.onEvent = func(ev *EventAccess[string], cx *Context[testState, string]) {
		if _, ok := ev.Peek().User(); !ok {
			return
		}
		cx.Jobs().Spawn(func(ctx context.Context) Callback[testState, string] {
			<-ctx.Done()
			close(delivered)
			// The loop is gone; this callback must be silently dropped.
			return func(*Compositor[testState, string]) {
				t.Error("callback applied after shutdown")
			}
		})
		ev.Consume()
	}
	if err := cc.InsertAt(LayerForeground, p); err != nil {
		t.Fatal(err)
	}

	events <- UserEvent("spawn")
	events <- ExitEvent[string]()

	if err := cc.Run(b); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("job never observed loop shutdown")
	}
	// Give a mistakenly-applied callback a moment to trip t.Error.
	time.Sleep(20 * time.Millisecond)
}

func TestRunExitCallbackSkipsRender(t *testing.T) {
	events := make(chan Event[string], 1)
	b := newFakeBackend()

	cc := New[testState, string](testState{}).
		WithTickInterval(0).
		WithStream(events)

	p := newProbe("p")
	p.onEvent = func(ev *EventAccess[string], cx *Context[testState, string]) {
		if _, ok := ev.Peek().User(); !ok {
			return
		}
		cx.AddCallback(func(cc *Compositor[testState, string]) {
			cc.Exit()
		})
		ev.Consume()
	}
	if err := cc.InsertAt(LayerForeground, p); err != nil {
		t.Fatal(err)
	}

	events <- UserEvent("quit")

	if err := cc.Run(b); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	_, finis, shows := b.counts()
	if finis != 1 {
		t.Errorf("session restored %d times, want 1", finis)
	}
	if shows != 1 {
		t.Errorf("rendered %d frames, want 1 (initial only; exit cycle must not render)", shows)
	}
}

func TestRunReceiverStream(t *testing.T) {
	recv := make(chan string, 1)
	b := newFakeBackend()

	cc := New[testState, string](testState{}).
		WithTickInterval(0).
		WithReceiver(recv)

	var payloads []string
	p := newProbe("p")
	p.onEvent = func(ev *EventAccess[string], cx *Context[testState, string]) {
		if payload, ok := ev.Peek().User(); ok {
			payloads = append(payloads, payload)
			cx.AddCallback(func(cc *Compositor[testState, string]) {
				cc.Exit()
			})
			ev.Consume()
		}
	}
	if err := cc.InsertAt(LayerForeground, p); err != nil {
		t.Fatal(err)
	}

	recv <- "hello"

	if err := cc.Run(b); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(payloads) != 1 || payloads[0] != "hello" {
		t.Errorf("received payloads %v, want [hello]", payloads)
	}
}

func TestRunInitErrorPropagates(t *testing.T) {
	b := newFakeBackend()
	b.initErr = errors.New("no tty")

	cc := New[testState, string](testState{})

	err := cc.Run(b)
	if !errors.Is(err, b.initErr) {
		t.Fatalf("Run = %v, want the backend init error", err)
	}

	if _, finis, _ := b.counts(); finis != 0 {
		t.Errorf("session restored %d times without acquisition, want 0", finis)
	}
}

func TestRunAlreadyRunning(t *testing.T) {
	done := make(chan struct{})
	b := newFakeBackend()

	cc := New[testState, string](testState{}).
		WithTickInterval(0).
		WithShutdown(done)

	started := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		close(started)
		errCh <- cc.Run(b)
	}()

	<-started
	time.Sleep(50 * time.Millisecond)

	if err := cc.Run(newFakeBackend()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run = %v, want ErrAlreadyRunning", err)
	}

	close(done)
	if err := <-errCh; err != nil {
		t.Errorf("first Run returned error: %v", err)
	}
}
