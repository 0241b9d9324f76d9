package compositor

import "github.com/dshills/compositor/backend"

// Callback is a deferred, single-use unit of work with exclusive access to
// the compositor. Callbacks queued during dispatch run strictly after
// dispatch completes, in FIFO order.
type Callback[S, E any] func(*Compositor[S, E])

// Context is the per-cycle capsule components see during dispatch. It holds
// exclusive access to the shared state for exactly one cycle: while a Context
// exists, no other code path touches state. Mutations of the component tree
// itself are deferred through AddCallback.
type Context[S, E any] struct {
	state     *S
	callbacks []Callback[S, E]
	jobs      *Jobs[S, E]
	size      backend.Rect
}

// State returns the shared application state for reading.
func (cx *Context[S, E]) State() *S { return cx.state }

// StateMut returns the shared application state for mutation. Valid only for
// the duration of the dispatch cycle; components must not retain the pointer.
func (cx *Context[S, E]) StateMut() *S { return cx.state }

// Size returns the terminal size in cells.
func (cx *Context[S, E]) Size() backend.Rect { return cx.size }

// Jobs returns the job bridge for spawning background work.
func (cx *Context[S, E]) Jobs() *Jobs[S, E] { return cx.jobs }

// AddCallback queues fn to run after dispatch completes, with exclusive
// access to the compositor. Callbacks run in the order they were added.
// A callback queued by another callback's execution is not part of the
// current batch; it runs with the next cycle's batch.
func (cx *Context[S, E]) AddCallback(fn Callback[S, E]) {
	cx.callbacks = append(cx.callbacks, fn)
}
