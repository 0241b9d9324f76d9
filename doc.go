// Package compositor provides a run-loop engine for interactive terminal
// applications built from stackable, independently-addressable UI components.
//
// Components are mounted on layers (z-ordering tiers). Each loop iteration
// takes one event from the merged set of event sources, dispatches it through
// the layers from top to bottom until a component consumes it, applies any
// callbacks queued during dispatch, and renders the layers from bottom to top.
//
// Background work runs through the job bridge: a job executes on its own
// goroutine and delivers at most one callback back into the loop, so all
// mutation of the component tree and shared state happens on the single loop
// goroutine.
package compositor
