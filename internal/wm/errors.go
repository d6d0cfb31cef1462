package wm

import "errors"

// Core errors.
var (
	// ErrEventStreamClosed is returned by Run when the connection's
	// event channel closes underneath the loop.
	ErrEventStreamClosed = errors.New("x event stream closed")

	// ErrAlreadyRunning is returned by Run when the loop is already
	// active on another call.
	ErrAlreadyRunning = errors.New("dispatch loop already running")
)
