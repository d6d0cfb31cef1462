package xconn

import "errors"

// Facade errors.
var (
	// ErrConnClosed is reported through the error callback when the X
	// server closes the connection underneath the pump.
	ErrConnClosed = errors.New("x connection closed")

	// ErrGrabDenied is returned when the server refuses a whole
	// keyboard or pointer grab (another client holds it).
	ErrGrabDenied = errors.New("grab refused by server")
)
