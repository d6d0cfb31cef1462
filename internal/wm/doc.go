// Package wm is the event dispatch core.
//
// A WM instance owns the handler registries (key bindings, property
// subscriptions, creation/destruction listeners, signal listeners, the
// two exclusive grab slots and the focus history) and the single
// dispatch loop that routes decoded X events to user handlers.
//
// # Dispatch model
//
// Run executes everything on one goroutine: handler code and registry
// mutation never race, so the registries carry no locks. The only
// cross-goroutine entry point is Emit, which injects a named signal
// through a buffered channel the loop multiplexes with the X event
// stream. Handlers run synchronously; a slow handler stalls dispatch.
//
// # Registration handles
//
// Every registration returns a *Handle whose Remove method is
// idempotent and safe to call from inside a handler that is currently
// being dispatched, including a handler removing itself.
//
// # Leaving the loop
//
// Run returns OutcomeStopped or OutcomeRestarted; Stop and Restart are
// the only two sanctioned ways out. Both clear every registry and
// release all grabs so the caller can rebuild and call Run again.
package wm
