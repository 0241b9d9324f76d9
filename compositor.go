package compositor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dshills/compositor/backend"
)

// resumeBuffer sizes the merged event channel. Sources block once the loop
// falls this far behind, which is the backpressure policy.
const resumeBuffer = 12

// resume is one item from the merged event-source set: either an event to
// dispatch or a job callback to apply after an empty dispatch cycle.
type resume[S, E any] struct {
	event    Event[E]
	callback Callback[S, E]
}

// Compositor owns the layer registry, the shared application state and the
// terminal session, and drives the dispatch/render loop. Exactly one
// goroutine, the loop itself, ever mutates the registry or state; background
// work re-enters through the job bridge.
type Compositor[S, E any] struct {
	layers *layerSet[S, E]
	state  S

	// pending holds callbacks deferred past the current apply batch.
	pending []Callback[S, E]

	tick      time.Duration
	streams   []<-chan Event[E]
	receivers []<-chan E
	shutdown  <-chan struct{}
	log       *Logger

	jobs    *Jobs[S, E]
	exit    bool
	running atomic.Bool
}

// New creates a compositor owning the given initial state. The tick interval
// defaults to 3 seconds and logging is disabled.
func New[S, E any](state S) *Compositor[S, E] {
	return &Compositor[S, E]{
		layers: newLayerSet[S, E](),
		state:  state,
		tick:   3 * time.Second,
		log:    NullLogger,
	}
}

// WithTickInterval sets the periodic wake-up interval. When d passes without
// an intermediate event a Tick event is generated and the UI re-rendered.
// Zero disables periodic ticking entirely.
func (cc *Compositor[S, E]) WithTickInterval(d time.Duration) *Compositor[S, E] {
	cc.tick = d
	return cc
}

// WithStream merges an additional event source into the loop. Multiple
// streams may be registered; the UI re-renders after each received event.
func (cc *Compositor[S, E]) WithStream(events <-chan Event[E]) *Compositor[S, E] {
	cc.streams = append(cc.streams, events)
	return cc
}

// WithReceiver merges an inbound channel of user payloads as an event source.
func (cc *Compositor[S, E]) WithReceiver(recv <-chan E) *Compositor[S, E] {
	cc.receivers = append(cc.receivers, recv)
	return cc
}

// WithShutdown emits Exit when done is closed, ending the loop.
func (cc *Compositor[S, E]) WithShutdown(done <-chan struct{}) *Compositor[S, E] {
	cc.shutdown = done
	return cc
}

// WithLogger sets the compositor's logger.
func (cc *Compositor[S, E]) WithLogger(log *Logger) *Compositor[S, E] {
	if log == nil {
		log = NullLogger
	}
	cc.log = log
	return cc
}

// InsertAt mounts component at the end of the layer. Returns ErrDuplicateID
// if the layer already holds a component with the same id; the new component
// stays unmounted.
func (cc *Compositor[S, E]) InsertAt(layerID LayerId, component Component[S, E]) error {
	return cc.layers.insert(layerID, component)
}

// ReplaceAt evicts any same-id occupant of the layer and mounts component at
// the end, making it the topmost sibling.
func (cc *Compositor[S, E]) ReplaceAt(layerID LayerId, component Component[S, E]) {
	cc.layers.replace(layerID, component)
}

// RemoveAt removes the component with id from the layer, reporting whether
// anything was removed.
func (cc *Compositor[S, E]) RemoveAt(layerID LayerId, id Id) bool {
	return cc.layers.removeFrom(layerID, id)
}

// RemoveAll removes the component with id from every layer.
func (cc *Compositor[S, E]) RemoveAll(id Id) {
	cc.layers.removeAll(id)
}

// State returns the shared application state for reading.
func (cc *Compositor[S, E]) State() *S { return &cc.state }

// StateMut returns the shared application state for mutation. Only the loop
// goroutine (callbacks, or the host before Run) may use it.
func (cc *Compositor[S, E]) StateMut() *S { return &cc.state }

// Jobs returns the job bridge. Valid while Run is active.
func (cc *Compositor[S, E]) Jobs() *Jobs[S, E] { return cc.jobs }

// Exit stops the loop after the current apply phase; no further render
// happens.
func (cc *Compositor[S, E]) Exit() {
	cc.exit = true
}

// Defer queues fn for the next cycle's apply phase. This is how a running
// callback schedules follow-up work; deferred callbacks are never part of
// the batch that queued them.
func (cc *Compositor[S, E]) Defer(fn Callback[S, E]) {
	cc.pending = append(cc.pending, fn)
}

// FindAt returns the component mounted under id on the layer, downcast to C.
// An absent id and a present-but-differently-typed occupant both report
// not found; a type mismatch is not an error.
func FindAt[C Component[S, E], S, E any](cc *Compositor[S, E], layerID LayerId, id Id) (C, bool) {
	var zero C

	comp, _, ok := cc.layers.find(layerID, id)
	if !ok {
		return zero, false
	}

	typed, ok := comp.(C)
	if !ok {
		return zero, false
	}
	return typed, true
}

// TakeAt unmounts and returns the component under id on the layer, downcast
// to C. On a type mismatch the occupant is left mounted exactly as before,
// same component and same position; lookup failure never destroys state.
func TakeAt[C Component[S, E], S, E any](cc *Compositor[S, E], layerID LayerId, id Id) (C, bool) {
	var zero C

	comp, i, ok := cc.layers.find(layerID, id)
	if !ok {
		return zero, false
	}

	// Downcast before unmounting so a mismatch leaves the layer untouched.
	typed, ok := comp.(C)
	if !ok {
		return zero, false
	}

	cc.layers.removeAt(layerID, i)
	return typed, true
}

// Run acquires the terminal session, merges all event sources and drives the
// dispatch/render loop until Exit. Blocks until the loop ends. Backend setup
// errors are returned; session teardown is best-effort and always completes.
func (cc *Compositor[S, E]) Run(b backend.Backend) error {
	if !cc.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer cc.running.Store(false)
	cc.exit = false

	guard, err := acquireSession(b, cc.log)
	if err != nil {
		return err
	}
	defer guard.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resumeCh := make(chan resume[S, E], resumeBuffer)
	cc.jobs = newJobs(ctx, resumeCh, cc.log)

	send := func(r resume[S, E]) bool {
		select {
		case resumeCh <- r:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// Raw terminal input. PollEvent returns nil once the session guard has
	// finalized the screen, which ends the forwarder.
	go func() {
		for {
			ev := b.PollEvent()
			if ev == nil {
				return
			}
			if !send(resume[S, E]{event: TerminalEvent[E](ev)}) {
				return
			}
		}
	}()

	for _, src := range cc.streams {
		go func(src <-chan Event[E]) {
			for {
				select {
				case ev, ok := <-src:
					if !ok {
						return
					}
					if !send(resume[S, E]{event: ev}) {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}(src)
	}

	for _, src := range cc.receivers {
		go func(src <-chan E) {
			for {
				select {
				case payload, ok := <-src:
					if !ok {
						return
					}
					if !send(resume[S, E]{event: UserEvent(payload)}) {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}(src)
	}

	if cc.shutdown != nil {
		go func() {
			select {
			case <-cc.shutdown:
				send(resume[S, E]{event: ExitEvent[E]()})
			case <-ctx.Done():
			}
		}()
	}

	if cc.tick > 0 {
		go func() {
			ticker := time.NewTicker(cc.tick)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if !send(resume[S, E]{event: TickEvent[E]()}) {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	cc.log.Debug("run loop started")
	defer cc.log.Debug("run loop stopped")

	// Synthetic tick so the first frame draws before any real event.
	if !cc.cycle(resume[S, E]{event: TickEvent[E]()}, b) {
		return nil
	}

	for {
		r := <-resumeCh
		if !cc.cycle(r, b) {
			return nil
		}
	}
}

// cycle processes one item from the merged sources: dispatch, callback
// apply, render. Returns false when the loop should stop.
func (cc *Compositor[S, E]) cycle(r resume[S, E], b backend.Backend) bool {
	event := r.event
	if r.callback != nil {
		// Job results enter as a pseudo-event: an otherwise-empty dispatch
		// cycle followed by the delivered callback.
		event = NoneEvent[E]()
	}

	if event.Kind() == EventExit {
		// Exit halts the loop before any further dispatch or render.
		return false
	}

	width, height := b.Size()
	cx := &Context[S, E]{
		state: &cc.state,
		jobs:  cc.jobs,
		size:  backend.NewRect(0, 0, width, height),
	}
	access := &EventAccess[E]{event: event}

	// Top layer down, insertion order within a layer. Topmost layers get
	// first refusal; a consumed event stops dispatch immediately.
	ordered := cc.layers.sorted()
dispatch:
	for i := len(ordered) - 1; i >= 0; i-- {
		for _, comp := range cc.layers.layer(ordered[i]) {
			if access.IsConsumed() {
				break dispatch
			}
			comp.HandleEvent(access, cx)
		}
	}

	batch := append(cc.takePending(), cx.callbacks...)
	if r.callback != nil {
		batch = append(batch, r.callback)
	}
	for _, cb := range batch {
		cb(cc)
	}

	if cc.exit {
		return false
	}

	cc.render(b)
	return true
}

// render draws every layer bottom-up so higher layers paint over lower ones.
// Components failing their ShouldUpdate check are skipped. Every surviving
// component receives the full terminal area.
func (cc *Compositor[S, E]) render(b backend.Backend) {
	width, height := b.Size()
	area := backend.NewRect(0, 0, width, height)

	for _, layerID := range cc.layers.sorted() {
		for _, comp := range cc.layers.layer(layerID) {
			if comp.ShouldUpdate(&cc.state) {
				comp.View(area, b, &cc.state)
			}
		}
	}

	b.Show()
}

func (cc *Compositor[S, E]) takePending() []Callback[S, E] {
	pending := cc.pending
	cc.pending = nil
	return pending
}
