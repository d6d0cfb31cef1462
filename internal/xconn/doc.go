// Package xconn wraps the X11 connection behind a small facade.
//
// The facade owns one xgbutil connection and exposes exactly what the
// dispatch core needs: a channel of decoded events, keysym resolution,
// atom interning, window property reads, key and device grabs, and the
// EWMH client messages used to command the running window manager.
//
// Events are pumped on a dedicated goroutine and delivered through
// Events(). Asynchronous X errors (for example a command referencing a
// window that is already gone) are reported to the callback installed
// with OnError and never terminate the pump.
package xconn
