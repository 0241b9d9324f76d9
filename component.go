package compositor

import "github.com/dshills/compositor/backend"

// Component is the contract every mounted element satisfies. S is the shared
// application state type, E the user event payload type.
type Component[S, E any] interface {
	// ID identifies the component. Queried every frame; must stay stable
	// for the component's whole lifetime.
	ID() Id

	// View draws the component into the surface. area is the full terminal
	// area; sub-region carving is the component's own responsibility.
	// View must not mutate state.
	View(area backend.Rect, surface backend.Surface, state *S)

	// HandleEvent reacts to the current event. It may read and write shared
	// state through cx, consume the event, queue callbacks or spawn jobs.
	HandleEvent(event *EventAccess[E], cx *Context[S, E])

	// ShouldUpdate is a cheap dirty-check: the render pass skips View when
	// it returns false.
	ShouldUpdate(state *S) bool
}

// Base provides the default no-op HandleEvent and always-true ShouldUpdate.
// Embed it in components that only need ID and View.
type Base[S, E any] struct{}

// HandleEvent ignores the event.
func (Base[S, E]) HandleEvent(*EventAccess[E], *Context[S, E]) {}

// ShouldUpdate always redraws.
func (Base[S, E]) ShouldUpdate(*S) bool { return true }

// ForwardEvent re-dispatches the event through children in order, stopping
// at the first consumer. Returns whether any child consumed the event. This
// is the only sanctioned way for one event to reach multiple components:
// a parent forwarding within its own subtree.
func ForwardEvent[S, E any](event *EventAccess[E], cx *Context[S, E], children ...Component[S, E]) bool {
	for _, child := range children {
		if event.IsConsumed() {
			return true
		}
		child.HandleEvent(event, cx)
	}
	return event.IsConsumed()
}

// ForwardView draws children in order, honoring their ShouldUpdate checks.
// Returns whether any child drew.
func ForwardView[S, E any](area backend.Rect, surface backend.Surface, state *S, children ...Component[S, E]) bool {
	var drew bool
	for _, child := range children {
		if child.ShouldUpdate(state) {
			child.View(area, surface, state)
			drew = true
		}
	}
	return drew
}
