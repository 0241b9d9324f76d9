package compositor

import "github.com/gdamore/tcell/v2"

// EventKind discriminates the event union.
type EventKind int

const (
	// EventNone is the placeholder left behind after an event is consumed.
	// It is never produced by an event source.
	EventNone EventKind = iota
	// EventUser carries an application-defined payload.
	EventUser
	// EventTerminal carries raw input from the terminal backend.
	EventTerminal
	// EventTick is the periodic wake-up with no payload.
	EventTick
	// EventExit ends the run loop.
	EventExit
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "None"
	case EventUser:
		return "User"
	case EventTerminal:
		return "Terminal"
	case EventTick:
		return "Tick"
	case EventExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Event is one thing the run loop can react to. E is the application's user
// event payload type.
type Event[E any] struct {
	kind     EventKind
	user     E
	terminal tcell.Event
}

// UserEvent wraps an application-defined payload.
func UserEvent[E any](payload E) Event[E] {
	return Event[E]{kind: EventUser, user: payload}
}

// TerminalEvent wraps a raw input event from the terminal backend.
func TerminalEvent[E any](ev tcell.Event) Event[E] {
	return Event[E]{kind: EventTerminal, terminal: ev}
}

// TickEvent is the periodic wake-up.
func TickEvent[E any]() Event[E] { return Event[E]{kind: EventTick} }

// ExitEvent ends the run loop when it reaches the front of the merged
// event sources.
func ExitEvent[E any]() Event[E] { return Event[E]{kind: EventExit} }

// NoneEvent is the consumed-event placeholder.
func NoneEvent[E any]() Event[E] { return Event[E]{kind: EventNone} }

// Kind returns the event discriminant.
func (e Event[E]) Kind() EventKind { return e.kind }

// IsUser reports whether the event carries a user payload.
func (e Event[E]) IsUser() bool { return e.kind == EventUser }

// User returns the user payload if the event carries one.
func (e Event[E]) User() (E, bool) {
	if e.kind != EventUser {
		var zero E
		return zero, false
	}
	return e.user, true
}

// IsTerminal reports whether the event carries raw terminal input.
func (e Event[E]) IsTerminal() bool { return e.kind == EventTerminal }

// Terminal returns the raw terminal event if the event carries one.
func (e Event[E]) Terminal() (tcell.Event, bool) {
	if e.kind != EventTerminal {
		return nil, false
	}
	return e.terminal, true
}

// Key returns the key event if the event carries terminal key input.
// Convenience for the most common dispatch pattern.
func (e Event[E]) Key() (*tcell.EventKey, bool) {
	if e.kind != EventTerminal {
		return nil, false
	}
	key, ok := e.terminal.(*tcell.EventKey)
	return key, ok
}

// IsNone reports whether the event is the consumed placeholder.
func (e Event[E]) IsNone() bool { return e.kind == EventNone }

// EventAccess wraps exactly one live event for the duration of one dispatch
// cycle and gates its consumption: once a component consumes the event, no
// component below it observes anything but None.
type EventAccess[E any] struct {
	event Event[E]
}

// Peek returns the held event without modifying it.
func (a *EventAccess[E]) Peek() Event[E] { return a.event }

// Consume takes the held event, leaving None in its place. The transition is
// one-way; consumption halts dispatch for the remaining layers.
func (a *EventAccess[E]) Consume() Event[E] {
	prev := a.event
	a.event = NoneEvent[E]()
	return prev
}

// Replace substitutes the held event and returns the previous one. Replacing
// does not by itself consume anything; consumption is solely defined by the
// held event being None.
func (a *EventAccess[E]) Replace(event Event[E]) Event[E] {
	prev := a.event
	a.event = event
	return prev
}

// IsConsumed reports whether the held event is None.
func (a *EventAccess[E]) IsConsumed() bool { return a.event.IsNone() }
